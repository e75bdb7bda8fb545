package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bz888/saturday/internal/catalog"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	catalogJSON bool
	toolKind    string
	toolTag     string
	historyFor  string
	historySort string
	eventLevel  string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the demo catalog: models, tools, history and workflow runs",
}

var catalogModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model gallery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		models := catalog.Models()
		if catalogJSON {
			return printJSON(cmd.OutOrStdout(), models)
		}
		out := cmd.OutOrStdout()
		for _, m := range models {
			title.Fprint(out, m.Title)
			muted.Fprintf(out, " %s\n", m.Tag)
			fmt.Fprintf(out, "  %s\n  %s\n", m.Subtitle, m.Location)
		}
		return nil
	},
}

var catalogToolsCmd = &cobra.Command{
	Use:   "tools [query]",
	Short: "Search the tool catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		tools := catalog.Tools(catalog.ToolQuery{
			Q:    strings.Join(args, " "),
			Kind: strings.ToUpper(toolKind),
			Tag:  toolTag,
		})
		if catalogJSON {
			return printJSON(cmd.OutOrStdout(), tools)
		}
		out := cmd.OutOrStdout()
		if len(tools) == 0 {
			fmt.Fprintln(out, "No tools match your filters.")
			return nil
		}
		for _, t := range tools {
			title.Fprint(out, t.Name)
			muted.Fprintf(out, " %s · %s\n", t.Kind, t.Status)
			fmt.Fprintf(out, "  %s\n  Model: %s  Tags: %s\n", t.Summary, t.Model, strings.Join(t.Tags, ", "))
		}
		return nil
	},
}

var catalogHistoryCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "Search past sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := catalog.History(catalog.HistoryQuery{
			Q:     strings.Join(args, " "),
			Model: historyFor,
			Sort:  catalog.Sort(historySort),
		})
		if err != nil {
			return err
		}
		if catalogJSON {
			return printJSON(cmd.OutOrStdout(), sessions)
		}
		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions match your filters.")
			return nil
		}
		for _, s := range sessions {
			title.Fprintln(out, s.Title)
			fmt.Fprintf(out, "  %s\n", s.Summary)
			muted.Fprintf(out, "  Model: %s · %s · %s\n",
				s.Model, s.CreatedAt.Format("Jan 2 15:04"), catalog.FormatDuration(s.DurationSec))
		}
		return nil
	},
}

var catalogWorkflowCmd = &cobra.Command{
	Use:   "workflow [query]",
	Short: "Show the demo workflow runs, graph and event timeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, edges := catalog.Graph()
		events := catalog.Events(catalog.EventQuery{
			Q:     strings.Join(args, " "),
			Level: eventLevel,
		})
		if catalogJSON {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"runs":   catalog.Runs(),
				"nodes":  nodes,
				"edges":  edges,
				"events": events,
			})
		}

		out := cmd.OutOrStdout()
		title.Fprintln(out, "Runs")
		for _, r := range catalog.Runs() {
			live := ""
			if r.Live {
				live = " (live)"
			}
			fmt.Fprintf(out, "  %s  %s%s\n", r.ID, r.Name, live)
		}
		title.Fprintln(out, "Graph")
		for _, n := range nodes {
			fmt.Fprintf(out, "  [%d.%d] %s ", n.Lane, n.Order, n.Label)
			muted.Fprintf(out, "%s · %s\n", n.Kind, n.Status)
			fmt.Fprintf(out, "        %s\n", catalog.NodeMetrics(n))
		}
		title.Fprintln(out, "Timeline")
		if len(events) == 0 {
			fmt.Fprintln(out, "  No events.")
		}
		for _, e := range events {
			fmt.Fprintf(out, "  +%dms %-5s %s %s\n", e.OffsetMs, strings.ToUpper(string(e.Level)), e.NodeID, e.Msg)
		}
		return nil
	},
}

var (
	title = color.New(color.Bold)
	muted = color.New(color.FgHiBlack)
)

func init() {
	catalogCmd.PersistentFlags().BoolVar(&catalogJSON, "json", false, "Print JSON instead of text")

	catalogToolsCmd.Flags().StringVar(&toolKind, "kind", catalog.All, "Tool kind: ALL, LOCAL or API")
	catalogToolsCmd.Flags().StringVar(&toolTag, "tag", "", "Only tools with this tag")

	catalogHistoryCmd.Flags().StringVar(&historyFor, "model", catalog.All,
		"Only sessions with this model ("+strings.Join(catalog.HistoryModels(), ", ")+")")
	catalogHistoryCmd.Flags().StringVar(&historySort, "sort", string(catalog.SortNewest), "Sort order: new, old, long or short")

	catalogWorkflowCmd.Flags().StringVar(&eventLevel, "level", "all", "Timeline level: all, info, warn, error, tool or model")

	catalogCmd.AddCommand(catalogModelsCmd)
	catalogCmd.AddCommand(catalogToolsCmd)
	catalogCmd.AddCommand(catalogHistoryCmd)
	catalogCmd.AddCommand(catalogWorkflowCmd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
