package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/common"
	"github.com/Freeeeeet/slot_swapper/internal/controller/state"
	"github.com/Freeeeeet/slot_swapper/internal/render"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 <b>Справка по командам</b>\n\n" +
	"/start - Начать работу с ботом\n" +
	"/myslots - Мои слоты\n" +
	"/newslot - Добавить слот\n" +
	"/market - Слоты других участников, выставленные на обмен\n" +
	"/requests - Входящие и исходящие предложения обмена\n" +
	"/week - Картинка с моей неделей\n" +
	"/cancel - Отменить текущий диалог\n" +
	"/help - Показать эту справку\n\n" +
	"Чтобы обменяться, выставьте свой слот на обмен (🔁), выберите чужой слот на рынке и предложите свой взамен. " +
	"Пока предложение ждёт ответа, оба слота заблокированы."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	from := update.Message.From

	// Регистрируем пользователя
	user, err := h.userService.RegisterTelegramUser(ctx, from.ID, from.Username, from.FirstName, from.LastName)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	text := fmt.Sprintf("👋 Привет, %s!\n\nЭто бот для обмена слотами в расписании.\n\n%s",
		html.EscapeString(user.DisplayName()), helpText)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, common.MainMenuKeyboard())
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendScreen(ctx, b, update.Message.Chat.ID, helpText, common.MainMenuKeyboard())
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendScreen(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendScreen(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.", common.MainMenuKeyboard())
}

// HandleMySlots обрабатывает команду /myslots
func (h *Handlers) HandleMySlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	slots, err := h.slotService.ListMine(ctx, user.ID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, err, "list slots")
		return
	}

	text, kb := common.BuildMySlotsScreen(slots)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleMarket обрабатывает команду /market
func (h *Handlers) HandleMarket(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	slots, err := h.swapService.ListSwappableSlots(ctx, user.ID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, err, "list market")
		return
	}

	text, kb := common.BuildMarketScreen(slots)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleRequests обрабатывает команду /requests
func (h *Handlers) HandleRequests(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	lists, err := h.swapService.ListSwapProposals(ctx, user.ID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, err, "list proposals")
		return
	}

	text, kb := common.BuildRequestsScreen(lists)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleWeek отправляет картинку с текущей неделей пользователя
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	slots, err := h.slotService.ListMine(ctx, user.ID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, err, "list slots")
		return
	}

	now := time.Now()
	imageData, err := render.WeekImage(now, slots, now)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось нарисовать неделю. Попробуйте позже.")
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      update.Message.Chat.ID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption:     "🗓 <b>Моя неделя</b>",
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: common.MainMenuKeyboard(),
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	switch currentState {
	case state.StateNone:
		h.logger.Debug("No active state, ignoring message", zap.Int64("telegram_id", telegramID))
	case state.StateNewSlotTitle:
		h.handleNewSlotTitleStep(ctx, b, update)
	case state.StateNewSlotTime:
		h.handleNewSlotTimeStep(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
