package controller

import (
	"context"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks"
	"github.com/Freeeeeet/slot_swapper/internal/controller/handlers"
	"github.com/Freeeeeet/slot_swapper/internal/controller/state"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	slotService *service.SlotService,
	swapService *service.SwapService,
	logger *zap.Logger,
) *BotController {
	// Диалоги команд и кнопок работают с одним менеджером состояний
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		userService,
		slotService,
		swapService,
		stateManager,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		userService,
		slotService,
		swapService,
		state.NewAdapter(stateManager),
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Слоты и обмены
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myslots", bot.MatchTypeExact, c.handlers.HandleMySlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newslot", bot.MatchTypeExact, c.handlers.HandleNewSlotStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/market", bot.MatchTypeExact, c.handlers.HandleMarket)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/requests", bot.MatchTypeExact, c.handlers.HandleRequests)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "myslots", Description: "📅 Мои слоты"},
		{Command: "newslot", Description: "➕ Добавить слот"},
		{Command: "market", Description: "🏪 Рынок обменов"},
		{Command: "requests", Description: "📨 Предложения обмена"},
		{Command: "week", Description: "🗓 Моя неделя картинкой"},
		{Command: "cancel", Description: "✖️ Отменить диалог"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает long polling и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
