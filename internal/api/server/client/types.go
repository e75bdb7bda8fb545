package client

import "encoding/json"

// ChatRequest is the relay request body sent by chat clients.
type ChatRequest struct {
	Messages []OllamaMessage `json:"messages"`
	Options  json.RawMessage `json:"options,omitempty"`
}

// Status is the relay liveness report.
type Status struct {
	PortWorking   bool `json:"port_working"`
	ServerWorking bool `json:"server_working"`
}
