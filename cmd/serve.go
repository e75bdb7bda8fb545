package cmd

import (
	"github.com/bz888/saturday/internal/api/server"
	"github.com/bz888/saturday/internal/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run only the relay in front of Ollama",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// Headless: log lines always go to stderr.
		logger.InitLogger(true, cfg.LogPath, nil)
		defer logger.Close()

		srv, err := server.New(cfg, nil)
		if err != nil {
			return err
		}

		color.New(color.FgCyan).Fprintf(cmd.ErrOrStderr(), "Relaying %s on %s to %s\n",
			cfg.Ollama.Model, cfg.Relay.Addr, cfg.Ollama.Host)
		return srv.Run(cmd.Context())
	},
}
