package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bz888/saturday/internal/api"
	"github.com/bz888/saturday/internal/logger"
	"github.com/bz888/saturday/internal/transcript"
	"github.com/bz888/saturday/internal/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Ask one question and stream the reply to the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return errors.New("prompt is empty")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.InitLogger(cfg.Dev, cfg.LogPath, nil)
	defer logger.Close()

	relay, err := api.NewClient(cfg.Chat.RelayURL)
	if err != nil {
		return err
	}
	opts, err := cfg.GenerationOptions()
	if err != nil {
		return err
	}

	observer, events := ui.EventFeed()
	assembler := transcript.NewAssembler(relay,
		transcript.WithOptions(opts),
		transcript.WithObserver(observer),
	)

	out := cmd.OutOrStdout()
	color.New(color.FgRed, color.Bold).Fprint(out, "You: ")
	fmt.Fprintln(out, prompt)

	ctx := cmd.Context()
	sp := ui.NewSpinner(os.Stderr, "Thinking...")
	sp.Start()

	s, _ := assembler.Submit(ctx, prompt)
	go func() {
		select {
		case <-ctx.Done():
			s.Cancel()
		case <-s.Done():
		}
	}()

	_, state := ui.RenderStream(out, events, s.TurnID(), ui.StreamOptions{Spinner: sp})
	if state == transcript.StateErrored {
		return fmt.Errorf("reply %s", state)
	}
	return nil
}
