package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/slot_swapper/internal/controller/state"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const slotTitleMaxLength = 100

// HandleNewSlotStart начинает диалог создания слота
func (h *Handlers) HandleNewSlotStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateNewSlotTitle)

	h.logger.Info("Starting slot creation",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("user_id", user.ID))

	h.sendScreen(ctx, b, update.Message.Chat.ID,
		"📝 <b>Новый слот</b>\n\nШаг 1 из 2: как назвать слот?\n\nНапример: Дежурство, Созвон с командой\n\nДля отмены используйте /cancel", nil)
}

// handleNewSlotTitleStep обрабатывает ввод названия слота
func (h *Handlers) handleNewSlotTitleStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	title := strings.TrimSpace(update.Message.Text)

	if title == "" || utf8.RuneCountInString(title) > slotTitleMaxLength {
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Название должно быть от 1 до %d символов.\n\nПопробуйте ещё раз:", slotTitleMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, state.DataSlotTitle, title)
	h.stateManager.SetState(telegramID, state.StateNewSlotTime)

	h.sendScreen(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("Шаг 2 из 2: когда?\n\nФормат: <code>%s</code>\nНапример: <code>%s 09:00-10:30</code>",
			formatting.SlotIntervalLayout, time.Now().AddDate(0, 0, 1).Format("02.01.2006")), nil)
}

// handleNewSlotTimeStep обрабатывает ввод интервала и создаёт слот
func (h *Handlers) handleNewSlotTimeStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	title, ok := h.stateManager.GetString(telegramID, state.DataSlotTitle)
	if !ok {
		h.logger.Error("Missing slot title in dialog", zap.Int64("telegram_id", telegramID))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Ошибка: данные не найдены. Начните заново через /newslot")
		return
	}

	start, end, err := formatting.ParseSlotInterval(update.Message.Text, time.Local)
	if err != nil {
		h.sendError(ctx, b, chatID,
			fmt.Sprintf("❌ Не удалось разобрать время. Формат: %s\n\nПопробуйте ещё раз:", formatting.SlotIntervalLayout))
		return
	}

	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	slot, err := h.slotService.Create(ctx, user.ID, service.SlotInput{
		Title:     title,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		h.reportError(ctx, b, chatID, err, "create slot")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.logger.Info("Slot created via bot",
		zap.Int64("user_id", user.ID),
		zap.Int64("slot_id", slot.ID))

	h.sendScreen(ctx, b, chatID,
		fmt.Sprintf("✅ <b>Слот создан</b>\n\n%s\n\nВыставить его на обмен можно в /myslots", common.FormatSlot(slot)),
		common.MainMenuKeyboard())
}
