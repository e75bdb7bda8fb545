package catalog

import "time"

var gallery = []Model{
	{ID: "mixtral-8x7b", Title: "Mixtral 8x7B", Subtitle: "Sparse MoE • 32k ctx", Tag: "MoE", Location: "vLLM • GPU"},
	{ID: "llama3.1-8b", Title: "Llama 3.1 8B", Subtitle: "General • 8k ctx • Q4", Tag: "LOCAL", Location: "Ollama • GPU"},
	{ID: "deepseek-r1-32b", Title: "DeepSeek-R1 32B", Subtitle: "Reasoning • 128k ctx", Tag: "REASONING", Location: "API • Cloud"},
	{ID: "phi-4-mini", Title: "Phi-4 Mini", Subtitle: "Compact • 4k ctx", Tag: "FAST", Location: "CPU • Local"},
	{ID: "qwen2.5-coder", Title: "Qwen2.5 Coder", Subtitle: "Code • 32k ctx", Tag: "CODE", Location: "API • Cloud"},
}

var tools = []Tool{
	{
		ID:      "search",
		Name:    "Search",
		Summary: "Ask questions and retrieve information instantly. Ideal for quick lookups, references, or verifying details.",
		Model:   "gpt-oss",
		Kind:    KindAPI,
		Tags:    []string{"net", "rag"},
		Status:  StatusHealthy,
	},
	{
		ID:      "calculator",
		Name:    "Calculator",
		Summary: "Handle math from simple arithmetic to complex equations, fast and precise.",
		Model:   "gpt-oss",
		Kind:    KindLocal,
		Tags:    []string{"math"},
		Status:  StatusHealthy,
	},
	{
		ID:      "file-manager",
		Name:    "File Manager",
		Summary: "Upload, organize, and retrieve files on the fly. Keep your workspace clean and connected to your agent.",
		Model:   "llama3.1",
		Kind:    KindLocal,
		Tags:    []string{"io"},
		Status:  StatusHealthy,
	},
	{
		ID:      "email-monitor",
		Name:    "Email Monitor",
		Summary: "Stay on top of important messages. Summarize, filter, and track emails without leaving your workflow.",
		Model:   "deepseek-r1",
		Kind:    KindAPI,
		Tags:    []string{"email", "rag"},
		Status:  StatusDegraded,
	},
}

var sessions = []Session{
	{
		ID:          "s-001",
		Title:       "Starting with AI agents",
		Summary:     "Exploring the fundamentals of building an AI agent, covering initial setup and core components.",
		Model:       "gpt-oss",
		CreatedAt:   time.Date(2025, 10, 16, 23, 4, 0, 0, time.UTC),
		DurationSec: 420,
		Tags:        []string{"intro", "agents"},
	},
	{
		ID:          "s-002",
		Title:       "Intro to RAG agents",
		Summary:     "Designing a retrieval-augmented generation agent, integrating search with model reasoning.",
		Model:       "gpt-oss",
		CreatedAt:   time.Date(2025, 10, 17, 3, 12, 0, 0, time.UTC),
		DurationSec: 690,
		Tags:        []string{"rag", "search"},
	},
	{
		ID:          "s-003",
		Title:       "Comparing different models",
		Summary:     "Experimenting with model variations, including llama3.1, to evaluate differences in output and performance.",
		Model:       "llama3.1",
		CreatedAt:   time.Date(2025, 10, 17, 18, 29, 0, 0, time.UTC),
		DurationSec: 540,
		Tags:        []string{"eval", "models"},
	},
}
