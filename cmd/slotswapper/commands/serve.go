package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/app"
	"github.com/Freeeeeet/slot_swapper/internal/auth"
	"github.com/Freeeeeet/slot_swapper/internal/controller"
	"github.com/Freeeeeet/slot_swapper/internal/httpapi"
	"github.com/Freeeeeet/slot_swapper/internal/repository"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API, the Telegram bot and the consistency auditor",
		PreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	logger.Info("Starting slot swapper",
		zap.String("environment", cfg.Environment),
		zap.Bool("http", cfg.HTTPEnabled()),
		zap.Bool("bot", cfg.BotEnabled()),
	)

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if cfg.Migrations {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			return err
		}
	}

	store := repository.NewStore(pool)
	userService := service.NewUserService(store.Users(), auth.NewPasswordHasher(cfg.BcryptCost), logger.Named("users"))
	slotService := service.NewSlotService(store.Stores().Slots, logger.Named("slots"))
	swapService := service.NewSwapService(store, store.Users(), logger.Named("swaps"))

	auditor := app.NewAuditor(store.Stores(), cfg.AuditInterval, logger.Named("auditor"))
	auditor.Start(ctx)
	defer auditor.Stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.HTTPEnabled() {
		api := httpapi.NewServer(userService, slotService, swapService,
			auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL), logger.Named("http"))
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("HTTP API listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if cfg.BotEnabled() {
		botLogger := logger.Named("bot")
		b, err := bot.New(cfg.TelegramToken, bot.WithErrorsHandler(func(err error) {
			botLogger.Error("Telegram error", zap.Error(err))
		}))
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}

		botController := controller.NewBotController(b, userService, slotService, swapService, botLogger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			// Меню команд не критично, бот работает и без него
			botLogger.Warn("Bot commands menu not set", zap.Error(err))
		}

		g.Go(func() error {
			return botController.Start(gctx)
		})
	}

	<-gctx.Done()
	logger.Info("Shutting down")
	return g.Wait()
}
