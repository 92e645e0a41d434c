package common

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/go-telegram/bot/models"
)

// FormatSlot форматирует слот в одну-две строки HTML
func FormatSlot(slot *model.Slot) string {
	if slot == nil {
		return "🗑 <i>слот удалён</i>"
	}
	display := formatting.GetSlotStatusDisplay(slot.Status)
	return fmt.Sprintf("%s <b>%s</b>\n    📅 %s",
		display.Emoji,
		html.EscapeString(slot.Title),
		formatting.FormatSlotTime(slot.StartTime, slot.EndTime),
	)
}

func userName(u *model.User) string {
	if u == nil {
		return "—"
	}
	return html.EscapeString(u.DisplayName())
}

// BuildMySlotsScreen формирует список слотов пользователя
func BuildMySlotsScreen(slots []*model.Slot) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	if len(slots) == 0 {
		kb.Row(keyboard.Button("➕ Новый слот", CbSlotNew), keyboard.Button("🏪 Рынок обменов", CbMarket))
		return "📅 <b>Мои слоты</b>\n\nУ вас пока нет слотов.", kb.Build()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>Мои слоты</b> (%d %s)\n\n", len(slots), formatting.PluralizeSlots(len(slots)))

	for i, slot := range slots {
		fmt.Fprintf(&sb, "%d. %s\n\n", i+1, FormatSlot(slot))

		label := fmt.Sprintf("%d. ", i+1)
		switch slot.Status {
		case model.SlotStatusBusy:
			kb.Row(
				keyboard.Button(label+"🔁 На обмен", fmt.Sprintf("%s%d", CbSlotToggle, slot.ID)),
				keyboard.Button("🗑", fmt.Sprintf("%s%d", CbSlotDelete, slot.ID)),
			)
		case model.SlotStatusSwappable:
			kb.Row(
				keyboard.Button(label+"🔒 Снять с обмена", fmt.Sprintf("%s%d", CbSlotToggle, slot.ID)),
				keyboard.Button("🗑", fmt.Sprintf("%s%d", CbSlotDelete, slot.ID)),
			)
		default:
			kb.Row(keyboard.Button(label+"⏳ Идёт обмен", CbRequests))
		}
	}

	sb.WriteString("🔁 — слот виден другим на рынке обменов")
	kb.Row(
		keyboard.Button("➕", CbSlotNew),
		keyboard.Button("🏪 Рынок", CbMarket),
		keyboard.Button("📨 Предложения", CbRequests),
	)

	return sb.String(), kb.Build()
}

// BuildConfirmDeleteScreen формирует подтверждение удаления слота
func BuildConfirmDeleteScreen(slot *model.Slot) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("🗑 <b>Удалить слот?</b>\n\n%s", FormatSlot(slot))
	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("✅ Да, удалить", fmt.Sprintf("%s%d", CbSlotDeleteConfirm, slot.ID)),
			keyboard.Button("↩️ Назад", CbMySlots),
		)
	return text, kb.Build()
}

// BuildMarketScreen формирует список чужих слотов, выставленных на обмен
func BuildMarketScreen(slots []*model.Slot) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	if len(slots) == 0 {
		kb.Row(keyboard.Button("📅 Мои слоты", CbMySlots))
		return "🏪 <b>Рынок обменов</b>\n\nСейчас никто не предлагает слоты на обмен.", kb.Build()
	}

	var sb strings.Builder
	sb.WriteString("🏪 <b>Рынок обменов</b>\n\n")
	for i, slot := range slots {
		fmt.Fprintf(&sb, "%d. %s\n    👤 %s\n\n", i+1, FormatSlot(slot), userName(slot.Owner))
		kb.Row(keyboard.Button(
			fmt.Sprintf("%d. 🔄 Предложить обмен", i+1),
			fmt.Sprintf("%s%d", CbMarketOffer, slot.ID),
		))
	}
	kb.Row(keyboard.Button("📅 Мои слоты", CbMySlots))

	return sb.String(), kb.Build()
}

// BuildOfferScreen предлагает выбрать свой слот для обмена на target
func BuildOfferScreen(target *model.Slot, mine []*model.Slot) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	var offerable []*model.Slot
	for _, slot := range mine {
		if slot.Status == model.SlotStatusSwappable {
			offerable = append(offerable, slot)
		}
	}

	text := fmt.Sprintf("🔄 <b>Обмен на слот</b>\n\n%s\n\n", FormatSlot(target))
	if len(offerable) == 0 {
		text += "У вас нет слотов, выставленных на обмен.\nОтметьте свой слот «🔁 На обмен» в /myslots."
		kb.Row(
			keyboard.Button("📅 Мои слоты", CbMySlots),
			keyboard.Button("↩️ Рынок", CbMarket),
		)
		return text, kb.Build()
	}

	text += "Какой из ваших слотов вы отдадите взамен?"
	for _, slot := range offerable {
		kb.Row(keyboard.Button(
			fmt.Sprintf("%s %s", slot.Title, formatting.FormatSlotTime(slot.StartTime, slot.EndTime)),
			fmt.Sprintf("%s%d:%d", CbSwapPropose, slot.ID, target.ID),
		))
	}
	kb.Row(keyboard.Button("↩️ Рынок", CbMarket))

	return text, kb.Build()
}

// BuildRequestsScreen формирует входящие и исходящие предложения
func BuildRequestsScreen(lists *service.ProposalLists) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	var sb strings.Builder

	fmt.Fprintf(&sb, "📨 <b>Входящие</b> (%d %s)\n\n", len(lists.Incoming), formatting.PluralizeProposals(len(lists.Incoming)))
	if len(lists.Incoming) == 0 {
		sb.WriteString("Нет новых предложений.\n\n")
	}
	for i, p := range lists.Incoming {
		fmt.Fprintf(&sb, "%d. 👤 %s предлагает\n%s\n  в обмен на ваш\n%s\n\n",
			i+1, userName(p.Requester), FormatSlot(p.RequesterSlot), FormatSlot(p.TargetSlot))
		kb.Row(
			keyboard.Button(fmt.Sprintf("%d. ✅ Принять", i+1), CbSwapAccept+p.ID.String()),
			keyboard.Button("❌ Отклонить", CbSwapReject+p.ID.String()),
		)
	}

	sb.WriteString("📤 <b>Исходящие</b>\n\n")
	if len(lists.Outgoing) == 0 {
		sb.WriteString("Вы ещё не предлагали обменов.\n")
	}
	for _, p := range lists.Outgoing {
		display := formatting.GetProposalStatusDisplay(p.Status)
		fmt.Fprintf(&sb, "%s %s → 👤 %s\n%s\n\n", display.Emoji, display.Text, userName(p.Target), FormatSlot(p.TargetSlot))
	}

	kb.Row(
		keyboard.Button("🔄 Обновить", CbRequests),
		keyboard.Button("📅 Мои слоты", CbMySlots),
	)
	return sb.String(), kb.Build()
}

// MainMenuKeyboard клавиатура главного меню
func MainMenuKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("📅 Мои слоты", CbMySlots), keyboard.Button("🏪 Рынок", CbMarket)).
		Row(keyboard.Button("📨 Предложения", CbRequests)).
		Build()
}
