package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bz888/saturday/internal/api"
	"github.com/bz888/saturday/internal/api/server"
	"github.com/bz888/saturday/internal/config"
	"github.com/bz888/saturday/internal/logger"
	"github.com/bz888/saturday/internal/ui"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	dev      bool
	logPath  string
	addr     string
	relayURL string
)

var rootCmd = &cobra.Command{
	Use:   "saturday",
	Short: "Chat with a local Ollama model",
	Long: `saturday is a terminal chat client for a model served by Ollama.

Run without a subcommand it starts the relay in the background and opens the
chat screen against it.

Examples:
  saturday
  saturday serve --addr :9000
  saturday ask "what is a goroutine?"
  saturday catalog tools --kind API`,
	RunE:          runDefault,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", config.DefaultPath(), "Path to the TOML config file")
	pf.BoolVar(&dev, "dev", false, "Show debug logs")
	pf.StringVar(&logPath, "logPath", "", "Directory to write log files to")
	pf.StringVar(&addr, "addr", "", "Relay listen address (overrides SATURDAY_ADDR)")
	pf.StringVar(&relayURL, "relay", "", "Relay base URL used by chat clients (overrides SATURDAY_RELAY_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(catalogCmd)
}

// Execute is the entry point called from main. SIGINT and SIGTERM cancel the
// command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig resolves the config file, .env and environment, then applies any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dev") {
		cfg.Dev = dev
	}
	if flags.Changed("logPath") {
		cfg.LogPath = logPath
	}
	if flags.Changed("addr") {
		cfg.Relay.Addr = addr
	}
	if flags.Changed("relay") {
		cfg.Chat.RelayURL = relayURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newChatUI builds the chat screen for cfg without starting it.
func newChatUI(cfg *config.Config) (*ui.UI, error) {
	relay, err := api.NewClient(cfg.Chat.RelayURL)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.GenerationOptions()
	if err != nil {
		return nil, err
	}
	return ui.New(relay, ui.Options{
		Dev:        cfg.Dev,
		RenderRate: cfg.Chat.RenderRate,
		Generation: opts,
	}), nil
}

func runDefault(cmd *cobra.Command, _ []string) error {
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

	srv, err := server.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("relay: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	localLogger := logger.NewLogger("Main")
	go func() {
		if err := srv.Run(ctx); err != nil {
			localLogger.Error("Relay stopped: ", err)
		}
	}()

	return chat.Run(ctx)
}
