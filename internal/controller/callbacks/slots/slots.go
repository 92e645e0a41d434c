package slots

import (
	"context"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/state"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleShowMySlots показывает слоты пользователя
func HandleShowMySlots(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		refresh(hc, "")
	})
}

// HandleToggle переключает слот между BUSY и SWAPPABLE
func HandleToggle(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	slotID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		slots, err := h.SlotService.ListMine(hc.Ctx, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "list slots")
			return
		}

		next := string(model.SlotStatusSwappable)
		for _, slot := range slots {
			if slot.ID == slotID && slot.Status == model.SlotStatusSwappable {
				next = string(model.SlotStatusBusy)
			}
		}

		slot, err := h.SlotService.SetStatus(hc.Ctx, hc.User.ID, slotID, next)
		if err != nil {
			common.HandleError(hc, err, "toggle slot")
			return
		}

		answer := "🔒 Слот снят с обмена"
		if slot.Status == model.SlotStatusSwappable {
			answer = "🔁 Слот выставлен на обмен"
		}
		refresh(hc, answer)
	})
}

// HandleDelete спрашивает подтверждение удаления
func HandleDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	slotID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		slots, err := h.SlotService.ListMine(hc.Ctx, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "list slots")
			return
		}

		for _, slot := range slots {
			if slot.ID != slotID {
				continue
			}
			text, kb := common.BuildConfirmDeleteScreen(slot)
			if err := hc.EditMessage(text, kb); err != nil {
				h.Logger.Error("Failed to show delete confirmation", zap.Error(err))
			}
			hc.Answer("")
			return
		}

		hc.AnswerAlert("❌ Слот не найден")
	})
}

// HandleDeleteConfirm удаляет слот
func HandleDeleteConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	slotID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if err := h.SlotService.Delete(hc.Ctx, hc.User.ID, slotID); err != nil {
			common.HandleError(hc, err, "delete slot")
			return
		}
		refresh(hc, "🗑 Слот удалён")
	})
}

// refresh перерисовывает список слотов в текущем сообщении
func refresh(hc *common.HandlerContext, answer string) {
	slots, err := hc.Handler.SlotService.ListMine(hc.Ctx, hc.User.ID)
	if err != nil {
		common.HandleError(hc, err, "list slots")
		return
	}

	text, kb := common.BuildMySlotsScreen(slots)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to edit slots message",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
	hc.Answer(answer)
}

// HandleNew начинает диалог создания слота из меню
func HandleNew(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		h.StateManager.ClearState(hc.TelegramID)
		h.StateManager.SetState(hc.TelegramID, callbacktypes.UserState(state.StateNewSlotTitle))

		if err := hc.SendMessage("📝 <b>Новый слот</b>\n\nШаг 1 из 2: как назвать слот?\n\nДля отмены используйте /cancel", nil); err != nil {
			h.Logger.Error("Failed to start slot dialog", zap.Error(err))
		}
		hc.Answer("")
	})
}
