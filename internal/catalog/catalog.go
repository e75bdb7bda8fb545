// Package catalog holds the demo fixtures behind the gallery, tools and
// history screens, plus the search, filter and sort those screens offer.
// Nothing here is persisted; every accessor returns a fresh copy.
package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Model struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Location string `json:"location,omitempty"`
}

type ToolKind string

const (
	KindLocal ToolKind = "LOCAL"
	KindAPI   ToolKind = "API"
)

type ToolStatus string

const (
	StatusHealthy  ToolStatus = "healthy"
	StatusDegraded ToolStatus = "degraded"
	StatusOffline  ToolStatus = "offline"
)

type Tool struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Summary string     `json:"summary"`
	Model   string     `json:"model"`
	Kind    ToolKind   `json:"kind"`
	Tags    []string   `json:"tags"`
	Status  ToolStatus `json:"status,omitempty"`
}

type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"createdAt"`
	DurationSec int       `json:"durationSec,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// All is the "no filter" value for kind and model selectors.
const All = "ALL"

type Sort string

const (
	SortNewest   Sort = "new"
	SortOldest   Sort = "old"
	SortLongest  Sort = "long"
	SortShortest Sort = "short"
)

// ToolQuery mirrors the tools screen controls.
type ToolQuery struct {
	Q    string
	Kind string
	Tag  string
}

// HistoryQuery mirrors the history screen controls.
type HistoryQuery struct {
	Q     string
	Model string
	Sort  Sort
}

// Models returns the gallery.
func Models() []Model {
	return slices.Clone(gallery)
}

// Tools returns the tools matching q, in catalog order.
func Tools(q ToolQuery) []Tool {
	needle := strings.ToLower(strings.TrimSpace(q.Q))
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		if needle != "" && !strings.Contains(strings.ToLower(t.Name+" "+t.Summary+" "+t.Model), needle) {
			continue
		}
		if q.Kind != "" && q.Kind != All && string(t.Kind) != q.Kind {
			continue
		}
		if q.Tag != "" && !slices.Contains(t.Tags, q.Tag) {
			continue
		}
		t.Tags = slices.Clone(t.Tags)
		out = append(out, t)
	}
	return out
}

// History returns the sessions matching q, sorted by q.Sort (newest first
// when unset). An unknown sort value is rejected.
func History(q HistoryQuery) ([]Session, error) {
	cmp, err := sessionOrder(q.Sort)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Q))
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if needle != "" && !strings.Contains(strings.ToLower(s.Title+" "+s.Summary+" "+s.Model), needle) {
			continue
		}
		if q.Model != "" && q.Model != All && s.Model != q.Model {
			continue
		}
		s.Tags = slices.Clone(s.Tags)
		out = append(out, s)
	}
	slices.SortStableFunc(out, cmp)
	return out, nil
}

// HistoryModels lists the distinct models in the history, first seen first.
func HistoryModels() []string {
	var out []string
	for _, s := range sessions {
		if !slices.Contains(out, s.Model) {
			out = append(out, s.Model)
		}
	}
	return out
}

func sessionOrder(s Sort) (func(a, b Session) int, error) {
	switch s {
	case "", SortNewest:
		return func(a, b Session) int { return b.CreatedAt.Compare(a.CreatedAt) }, nil
	case SortOldest:
		return func(a, b Session) int { return a.CreatedAt.Compare(b.CreatedAt) }, nil
	case SortLongest:
		return func(a, b Session) int { return b.DurationSec - a.DurationSec }, nil
	case SortShortest:
		return func(a, b Session) int { return a.DurationSec - b.DurationSec }, nil
	default:
		return nil, fmt.Errorf("unknown sort %q", s)
	}
}

// FormatDuration renders seconds as "7m 0s", or "—" when unknown.
func FormatDuration(sec int) string {
	if sec <= 0 {
		return "—"
	}
	return fmt.Sprintf("%dm %ds", sec/60, sec%60)
}
