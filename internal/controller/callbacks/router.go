package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/market"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/requests"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/slots"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	case data == common.CbNoop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Навигация =====
	case data == common.CbMySlots:
		slots.HandleShowMySlots(ctx, b, callback, h)
	case data == common.CbMarket:
		market.HandleShowMarket(ctx, b, callback, h)
	case data == common.CbRequests:
		requests.HandleShowRequests(ctx, b, callback, h)
	case data == common.CbSlotNew:
		slots.HandleNew(ctx, b, callback, h)

	// ===== Мои слоты =====
	// slot_delete_confirm проверяется раньше slot_delete: у них общий префикс
	case strings.HasPrefix(data, common.CbSlotDeleteConfirm):
		slots.HandleDeleteConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbSlotDelete):
		slots.HandleDelete(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbSlotToggle):
		slots.HandleToggle(ctx, b, callback, h)

	// ===== Обмены =====
	case strings.HasPrefix(data, common.CbMarketOffer):
		market.HandleOffer(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbSwapPropose):
		market.HandlePropose(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbSwapAccept):
		requests.HandleAccept(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbSwapReject):
		requests.HandleReject(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Неизвестное действие")
	}
}
