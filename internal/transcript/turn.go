// Package transcript assembles a chat transcript from a streamed model reply.
//
// The Assembler owns the ordered list of turns. Each submission appends a
// user turn and an assistant placeholder, then a background task decodes the
// relay's newline-delimited JSON stream and appends each content delta to the
// placeholder. The list is copy-on-write: readers always see whole snapshots.
package transcript

import "encoding/json"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// State is the lifecycle of an assistant turn.
type State int

const (
	StatePending State = iota
	StateStreaming
	StateComplete
	StateErrored
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStreaming:
		return "streaming"
	case StateComplete:
		return "complete"
	case StateErrored:
		return "errored"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is allowed.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateErrored || s == StateCancelled
}

// Turn is one message in the transcript.
type Turn struct {
	ID    string
	Role  Role
	Text  string
	State State
}

// Message is the {role, content} pair sent to the relay.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Envelope is the relay request body.
type Envelope struct {
	Messages []Message       `json:"messages"`
	Options  json.RawMessage `json:"options,omitempty"`
}

// Event describes one mutation of an assistant turn. Delta is empty for
// state-only changes.
type Event struct {
	TurnID string
	Delta  string
	State  State
}

// ErrorText replaces the placeholder text when the relay cannot be used.
const ErrorText = "Error: model failed."
