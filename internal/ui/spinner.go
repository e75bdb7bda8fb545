package ui

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps a terminal spinner shown while waiting for the first token.
type Spinner struct {
	s *spinner.Spinner
}

func NewSpinner(w io.Writer, msg string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = "  " + msg
	s.Color("cyan")
	return &Spinner{s: s}
}

func (sp *Spinner) Start() {
	sp.s.Start()
}

// Stop halts the spinner and clears the line. Safe to call twice.
func (sp *Spinner) Stop() {
	sp.s.Stop()
}
