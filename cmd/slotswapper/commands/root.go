package commands

import (
	"github.com/Freeeeeet/slot_swapper/internal/app"
	"github.com/Freeeeeet/slot_swapper/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "slotswapper",
		Short:         "Slot swap service: HTTP API, Telegram bot and consistency auditor",
		SilenceUsage:  true,
	}

	root.AddCommand(serveCmd(), migrateCmd(), renderWeekCmd())
	return root.Execute()
}

// setup загружает конфиг и логгер для команд, которым нужна БД
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	logger = app.NewLogger(cfg.Environment, cfg.LogLevel)
	return nil
}
