package market

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleShowMarket показывает чужие слоты, выставленные на обмен
func HandleShowMarket(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		slots, err := h.SwapService.ListSwappableSlots(hc.Ctx, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "list market")
			return
		}

		text, kb := common.BuildMarketScreen(slots)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show market", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleOffer предлагает выбрать свой слот для обмена
func HandleOffer(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	targetID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		market, err := h.SwapService.ListSwappableSlots(hc.Ctx, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "list market")
			return
		}

		for _, target := range market {
			if target.ID != targetID {
				continue
			}

			mine, err := h.SlotService.ListMine(hc.Ctx, hc.User.ID)
			if err != nil {
				common.HandleError(hc, err, "list slots")
				return
			}

			text, kb := common.BuildOfferScreen(target, mine)
			if err := hc.EditMessage(text, kb); err != nil {
				h.Logger.Error("Failed to show offer screen", zap.Error(err))
			}
			hc.Answer("")
			return
		}

		hc.AnswerAlert("❌ Этот слот уже недоступен для обмена")
	})
}

// HandlePropose создаёт предложение обмена
func HandlePropose(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	mySlotID, targetSlotID, err := common.ParseIDPairFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		proposal, err := h.SwapService.ProposeSwap(hc.Ctx, hc.User.ID, mySlotID, targetSlotID)
		if err != nil {
			common.HandleError(hc, err, "propose swap")
			return
		}

		text := fmt.Sprintf("✅ <b>Предложение отправлено</b>\n\nВы отдаёте:\n%s\n\nВы получите:\n%s\n\nОба слота заблокированы до ответа.",
			common.FormatSlot(proposal.RequesterSlot), common.FormatSlot(proposal.TargetSlot))
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("📨 Мои предложения", common.CbRequests), keyboard.Button("🏪 Рынок", common.CbMarket)).
			Build()
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show proposal", zap.Error(err))
		}
		hc.Answer("✅ Отправлено")

		notice := fmt.Sprintf("📨 <b>Новое предложение обмена</b>\n\n%s предлагает\n%s\nв обмен на ваш\n%s\n\nОтветить: /requests",
			html.EscapeString(hc.User.DisplayName()), common.FormatSlot(proposal.RequesterSlot), common.FormatSlot(proposal.TargetSlot))
		if err := hc.Notify(proposal.Target, notice); err != nil {
			h.Logger.Warn("Failed to notify swap target",
				zap.String("proposal_id", proposal.ID.String()),
				zap.Error(err))
		}
	})
}
