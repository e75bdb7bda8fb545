package cmd

import (
	"github.com/bz888/saturday/internal/logger"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat screen against a relay that is already running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		chat, err := newChatUI(cfg)
		if err != nil {
			return err
		}
		logger.InitLogger(cfg.Dev, cfg.LogPath, chat.DebugConsole())
		defer logger.Close()

		return chat.Run(cmd.Context())
	},
}
