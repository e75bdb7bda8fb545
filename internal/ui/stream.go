package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/bz888/saturday/internal/transcript"
	"github.com/fatih/color"
)

// EventFeed returns an observer that forwards assembler events to the
// returned channel, for RenderStream to consume. The buffer covers the
// pending event Submit emits before the reader starts.
func EventFeed() (transcript.Observer, <-chan transcript.Event) {
	ch := make(chan transcript.Event, 16)
	return func(ev transcript.Event, _ []transcript.Turn) {
		ch <- ev
	}, ch
}

// StreamOptions tunes RenderStream.
type StreamOptions struct {
	// Spinner, when set, runs until the first delta arrives.
	Spinner *Spinner
	Prefix  string
}

// RenderStream prints the deltas of one reply to w as they arrive and returns
// the text written and the terminal state. Events for other turns are ignored.
func RenderStream(w io.Writer, events <-chan transcript.Event, turnID string, opts StreamOptions) (string, transcript.State) {
	var full strings.Builder
	first := true
	stopSpinner := func() {
		if opts.Spinner != nil {
			opts.Spinner.Stop()
			opts.Spinner = nil
		}
	}
	defer stopSpinner()

	bot := color.New(color.FgGreen, color.Bold)
	muted := color.New(color.FgHiBlack)

	for ev := range events {
		if ev.TurnID != turnID {
			continue
		}
		if ev.Delta != "" {
			if first {
				stopSpinner()
				bot.Fprint(w, "Bot: ")
				fmt.Fprint(w, opts.Prefix)
				first = false
			}
			fmt.Fprint(w, ev.Delta)
			full.WriteString(ev.Delta)
			continue
		}
		if !ev.State.Terminal() {
			continue
		}

		stopSpinner()
		switch ev.State {
		case transcript.StateErrored:
			if first {
				color.New(color.FgRed).Fprint(w, transcript.ErrorText)
			} else {
				color.New(color.FgRed).Fprint(w, " [error]")
			}
		case transcript.StateCancelled:
			muted.Fprint(w, " (stopped)")
		}
		fmt.Fprintln(w)
		return full.String(), ev.State
	}

	// Channel closed without a terminal event.
	fmt.Fprintln(w)
	return full.String(), transcript.StateCancelled
}
