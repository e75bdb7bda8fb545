package ui

import (
	"fmt"
	"strings"

	"github.com/bz888/saturday/internal/catalog"
	"github.com/bz888/saturday/internal/transcript"
	"github.com/rivo/tview"
)

const emptyConversation = "write first message to begin"

// renderTranscript turns a transcript snapshot into tview-tagged text.
func renderTranscript(turns []transcript.Turn) string {
	if len(turns) == 0 {
		return "[gray::]" + emptyConversation + "[-::-]"
	}

	var b strings.Builder
	for _, turn := range turns {
		switch turn.Role {
		case transcript.RoleUser:
			b.WriteString("[red::]You:[-]\n")
			b.WriteString(tview.Escape(turn.Text))
		default:
			b.WriteString("[green::]Bot:[-]\n")
			if turn.State == transcript.StatePending {
				b.WriteString("[gray::]…[-::-]")
			}
			b.WriteString(tview.Escape(turn.Text))
			if turn.State == transcript.StateCancelled {
				b.WriteString(" [gray::](stopped)[-::-]")
			}
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func formatGallery(models []catalog.Model) string {
	var b strings.Builder
	for _, m := range models {
		fmt.Fprintf(&b, "[::b]%s[::-] [gray::]%s[-::-]\n", tview.Escape(m.Title), tview.Escape(m.Tag))
		fmt.Fprintf(&b, "  %s\n  %s\n\n", tview.Escape(m.Subtitle), tview.Escape(m.Location))
	}
	return b.String()
}

func formatTools(tools []catalog.Tool) string {
	if len(tools) == 0 {
		return "No tools match your filters."
	}
	var b strings.Builder
	for _, t := range tools {
		fmt.Fprintf(&b, "[::b]%s[::-] [gray::]%s · %s[-::-]\n", tview.Escape(t.Name), t.Kind, t.Status)
		fmt.Fprintf(&b, "  %s\n  Model: %s  Tags: %s\n\n", tview.Escape(t.Summary), tview.Escape(t.Model), strings.Join(t.Tags, ", "))
	}
	return b.String()
}

func formatHistory(sessions []catalog.Session) string {
	if len(sessions) == 0 {
		return "No sessions match your filters."
	}
	var b strings.Builder
	for _, s := range sessions {
		fmt.Fprintf(&b, "[::b]%s[::-]\n", tview.Escape(s.Title))
		fmt.Fprintf(&b, "  %s\n", tview.Escape(s.Summary))
		fmt.Fprintf(&b, "  Model: %s · %s · %s\n\n",
			tview.Escape(s.Model), s.CreatedAt.Format("Jan 2 15:04"), catalog.FormatDuration(s.DurationSec))
	}
	return b.String()
}

func formatWorkflow(runs []catalog.Run, nodes []catalog.Node, events []catalog.Event) string {
	var b strings.Builder
	b.WriteString("[::b]Runs[::-]\n")
	for _, r := range runs {
		live := ""
		if r.Live {
			live = " [green::](live)[-::-]"
		}
		fmt.Fprintf(&b, "  %s  %s%s\n", r.ID, tview.Escape(r.Name), live)
	}
	b.WriteString("\n[::b]Graph[::-]\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "  %s [gray::]%s · %s[-::-]\n    %s\n", tview.Escape(n.Label), n.Kind, n.Status, catalog.NodeMetrics(n))
	}
	b.WriteString("\n[::b]Timeline[::-]\n")
	if len(events) == 0 {
		b.WriteString("  No events.\n")
	}
	for _, e := range events {
		fmt.Fprintf(&b, "  +%dms %s %s\n", e.OffsetMs, strings.ToUpper(string(e.Level)), tview.Escape(e.Msg))
	}
	return b.String()
}

func formatModels(models []string) string {
	if len(models) == 0 {
		return "No models installed on the model server."
	}
	return strings.Join(models, "\n")
}

const helpText = `Commands:
  /help            show this message
  /stop            stop the reply that is streaming
  /models          models installed on the model server
  /gallery         model gallery
  /tools [query]   tool catalog
  /history [query] past sessions
  /workflow [query] demo workflow runs and event timeline
  /debug           toggle the debug console
  /bye             exit

Enter sends, Esc moves focus to the conversation, Ctrl-X stops a reply.`
