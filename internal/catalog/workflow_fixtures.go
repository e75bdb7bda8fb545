package catalog

import "time"

func usd(v float64) *float64 { return &v }

var runs = []Run{
	{ID: "run_001", Name: "Ask: weekend plan", StartedAt: time.Date(2025, time.October, 17, 18, 4, 0, 0, time.UTC)},
	{ID: "run_002", Name: "RAG deep-dive", StartedAt: time.Date(2025, time.October, 17, 19, 21, 0, 0, time.UTC)},
	{ID: "run_live", Name: "Live session", Live: true},
}

var graphNodes = []Node{
	{ID: "n1", Label: "User Query", Kind: NodeInput, Status: NodeSuccess, Lane: 0, Order: 0},
	{ID: "n2", Label: "Planner", Kind: NodePlanner, Status: NodeSuccess, Lane: 1, Order: 0, LatencyMs: 42},
	{ID: "n3", Label: "Router", Kind: NodeRouter, Status: NodeSuccess, Lane: 2, Order: 0, Score: 0.82},
	{ID: "n4", Label: "Retriever", Kind: NodeRAG, Status: NodeSuccess, Lane: 3, Order: 0, LatencyMs: 55},
	{ID: "n5", Label: "LLM (local)", Kind: NodeModel, Status: NodeSuccess, Lane: 4, Order: 0, TokensIn: 512, TokensOut: 220, CostUSD: usd(0), LatencyMs: 180},
	{ID: "n6", Label: "Verifier", Kind: NodeVerifier, Status: NodeSuccess, Lane: 5, Order: 0, Score: 0.74},
	{ID: "n7", Label: "Repair", Kind: NodeRepair, Status: NodeSuccess, Lane: 3, Order: 1, LatencyMs: 60},
	{ID: "n8", Label: "LLM (API)", Kind: NodeModel, Status: NodeSuccess, Lane: 4, Order: 1, TokensIn: 380, TokensOut: 180, CostUSD: usd(0.0021), LatencyMs: 160},
	{ID: "n9", Label: "Synth", Kind: NodeSynth, Status: NodeSuccess, Lane: 6, Order: 0, LatencyMs: 20},
	{ID: "n10", Label: "Output", Kind: NodeOutput, Status: NodeSuccess, Lane: 7, Order: 0},
}

var graphEdges = []Edge{
	{ID: "e1", From: "n1", To: "n2"},
	{ID: "e2", From: "n2", To: "n3"},
	{ID: "e3", From: "n3", To: "n4"},
	{ID: "e4", From: "n4", To: "n5"},
	{ID: "e5", From: "n5", To: "n6"},
	{ID: "e6", From: "n6", To: "n7"},
	{ID: "e7", From: "n7", To: "n8"},
	{ID: "e8", From: "n8", To: "n9"},
	{ID: "e9", From: "n9", To: "n10"},
}

var timeline = []Event{
	{OffsetMs: 0, Level: LevelInfo, NodeID: "n1", Msg: "Received user query"},
	{OffsetMs: 500, Level: LevelModel, NodeID: "n5", Msg: "Local LLM streaming..."},
	{OffsetMs: 800, Level: LevelWarn, NodeID: "n6", Msg: "Verifier score below threshold (0.74)"},
	{OffsetMs: 1200, Level: LevelTool, NodeID: "n4", Msg: "Retriever fetched 12 chunks"},
	{OffsetMs: 1800, Level: LevelModel, NodeID: "n8", Msg: "API LLM retry #1 succeeded"},
	{OffsetMs: 2500, Level: LevelInfo, NodeID: "n9", Msg: "Synthesizer assembling final answer"},
}
