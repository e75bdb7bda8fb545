package catalog

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

type NodeKind string

const (
	NodeInput    NodeKind = "input"
	NodePlanner  NodeKind = "planner"
	NodeRouter   NodeKind = "router"
	NodeRAG      NodeKind = "rag"
	NodeModel    NodeKind = "model"
	NodeVerifier NodeKind = "verifier"
	NodeRepair   NodeKind = "repair"
	NodeSynth    NodeKind = "synth"
	NodeOutput   NodeKind = "output"
)

type NodeStatus string

const (
	NodeQueued    NodeStatus = "queued"
	NodeRunning   NodeStatus = "running"
	NodeSuccess   NodeStatus = "success"
	NodeError     NodeStatus = "error"
	NodeCancelled NodeStatus = "cancelled"
	NodeCached    NodeStatus = "cached"
)

// Node is one step of a demo workflow run. Zero metrics mean "not measured",
// except CostUSD where nil is unknown and 0 is free.
type Node struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Kind      NodeKind   `json:"kind"`
	Status    NodeStatus `json:"status"`
	Lane      int        `json:"lane"`
	Order     int        `json:"order"`
	LatencyMs int        `json:"latencyMs,omitempty"`
	TokensIn  int        `json:"tokensIn,omitempty"`
	TokensOut int        `json:"tokensOut,omitempty"`
	CostUSD   *float64   `json:"costUSD,omitempty"`
	Score     float64    `json:"score,omitempty"`
}

type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

type Run struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartedAt time.Time `json:"startedAt"`
	Live      bool      `json:"live"`
}

type EventLevel string

const (
	LevelInfo  EventLevel = "info"
	LevelWarn  EventLevel = "warn"
	LevelError EventLevel = "error"
	LevelTool  EventLevel = "tool"
	LevelModel EventLevel = "model"
)

// Event is a timeline entry, OffsetMs after the run started.
type Event struct {
	OffsetMs int        `json:"offsetMs"`
	Level    EventLevel `json:"level"`
	NodeID   string     `json:"nodeId,omitempty"`
	Msg      string     `json:"msg"`
}

// EventQuery mirrors the timeline controls. Level "all", ALL or empty
// matches every level.
type EventQuery struct {
	Q     string
	Level string
}

// Runs lists the demo runs. The live run is stamped with the current time.
func Runs() []Run {
	out := slices.Clone(runs)
	for i := range out {
		if out[i].Live {
			out[i].StartedAt = time.Now().UTC()
		}
	}
	return out
}

// Graph returns the demo DAG, nodes in lane then row order.
func Graph() ([]Node, []Edge) {
	nodes := make([]Node, len(graphNodes))
	for i, n := range graphNodes {
		if n.CostUSD != nil {
			cost := *n.CostUSD
			n.CostUSD = &cost
		}
		nodes[i] = n
	}
	slices.SortStableFunc(nodes, func(a, b Node) int {
		if a.Lane != b.Lane {
			return a.Lane - b.Lane
		}
		return a.Order - b.Order
	})
	return nodes, slices.Clone(graphEdges)
}

// Events returns the timeline entries matching q, oldest first.
func Events(q EventQuery) []Event {
	needle := strings.ToLower(strings.TrimSpace(q.Q))
	level := strings.ToLower(q.Level)
	out := make([]Event, 0, len(timeline))
	for _, e := range timeline {
		if level != "" && level != "all" && string(e.Level) != level {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.Msg), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// NodeMetrics renders a node's measurements the way the run view shows them.
func NodeMetrics(n Node) string {
	dash := func(ok bool, s string) string {
		if !ok {
			return "—"
		}
		return s
	}
	return fmt.Sprintf("%s · in %s out %s · %s · score %s",
		dash(n.LatencyMs > 0, fmt.Sprintf("%d ms", n.LatencyMs)),
		dash(n.TokensIn > 0, fmt.Sprint(n.TokensIn)),
		dash(n.TokensOut > 0, fmt.Sprint(n.TokensOut)),
		dash(n.CostUSD != nil, fmt.Sprintf("$%.4f", deref(n.CostUSD))),
		dash(n.Score > 0, fmt.Sprintf("%d%%", int(math.Round(n.Score*100)))),
	)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
