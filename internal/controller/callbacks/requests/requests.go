package requests

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleShowRequests показывает входящие и исходящие предложения
func HandleShowRequests(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		refresh(hc, "")
	})
}

// HandleAccept принимает входящее предложение
func HandleAccept(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	respond(ctx, b, callback, h, true)
}

// HandleReject отклоняет входящее предложение
func HandleReject(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	respond(ctx, b, callback, h, false)
}

func respond(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, accept bool) {
	proposalID, err := common.ParseUUIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		res, err := h.SwapService.RespondToSwap(hc.Ctx, hc.User.ID, proposalID, accept)
		if err != nil {
			common.HandleError(hc, err, "respond to swap")
			return
		}

		p := res.Proposal
		answer := "❌ Предложение отклонено"
		notice := fmt.Sprintf("🚫 %s отклонил(а) ваше предложение обмена на\n%s",
			html.EscapeString(hc.User.DisplayName()), common.FormatSlot(p.TargetSlot))
		if p.Status == model.ProposalStatusAccepted {
			answer = "✅ Обмен выполнен"
			notice = fmt.Sprintf("✅ %s принял(а) обмен!\n\nТеперь ваш:\n%s",
				html.EscapeString(hc.User.DisplayName()), common.FormatSlot(p.TargetSlot))
		}
		if len(res.Skipped) > 0 {
			answer += fmt.Sprintf(" (не возвращено на обмен: %d)", len(res.Skipped))
		}

		if err := hc.Notify(p.Requester, notice); err != nil {
			h.Logger.Warn("Failed to notify requester",
				zap.String("proposal_id", p.ID.String()),
				zap.Error(err))
		}

		refresh(hc, answer)
	})
}

func refresh(hc *common.HandlerContext, answer string) {
	lists, err := hc.Handler.SwapService.ListSwapProposals(hc.Ctx, hc.User.ID)
	if err != nil {
		common.HandleError(hc, err, "list proposals")
		return
	}

	text, kb := common.BuildRequestsScreen(lists)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to edit requests message",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
	hc.Answer(answer)
}
