package transcript

import (
	"sync"
	"sync/atomic"
)

// Transcript is a copy-on-write list of turns. Writers are serialized; every
// write publishes a fresh slice, so a snapshot returned by Turns is never
// modified afterwards.
type Transcript struct {
	mu    sync.Mutex
	turns atomic.Pointer[[]Turn]
}

func NewTranscript() *Transcript {
	t := &Transcript{}
	empty := []Turn{}
	t.turns.Store(&empty)
	return t
}

// Turns returns the current snapshot. Callers must treat it as read-only.
func (t *Transcript) Turns() []Turn {
	return *t.turns.Load()
}

// Messages converts the current snapshot to relay messages.
func (t *Transcript) Messages() []Message {
	turns := t.Turns()
	msgs := make([]Message, len(turns))
	for i, turn := range turns {
		msgs[i] = Message{Role: turn.Role, Content: turn.Text}
	}
	return msgs
}

func (t *Transcript) Len() int {
	return len(t.Turns())
}

// Find returns the turn with the given id from the current snapshot.
func (t *Transcript) Find(id string) (Turn, bool) {
	for _, turn := range t.Turns() {
		if turn.ID == id {
			return turn, true
		}
	}
	return Turn{}, false
}

func (t *Transcript) append(add ...Turn) []Turn {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.Turns()
	next := make([]Turn, len(cur), len(cur)+len(add))
	copy(next, cur)
	next = append(next, add...)
	t.turns.Store(&next)
	return next
}

// update replaces the turn with the given id by fn's result. It returns the
// new snapshot, or ok=false (and no write) when the id is unknown or fn
// declines the change.
func (t *Transcript) update(id string, fn func(Turn) (Turn, bool)) (snapshot []Turn, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.Turns()
	idx := -1
	for i := range cur {
		if cur[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return cur, false
	}

	replaced, changed := fn(cur[idx])
	if !changed {
		return cur, false
	}

	next := make([]Turn, len(cur))
	copy(next, cur)
	next[idx] = replaced
	t.turns.Store(&next)
	return next, true
}

// appendText adds delta to a non-terminal turn and marks it streaming.
func (t *Transcript) appendText(id, delta string) ([]Turn, bool) {
	return t.update(id, func(turn Turn) (Turn, bool) {
		if turn.State.Terminal() {
			return turn, false
		}
		turn.Text += delta
		turn.State = StateStreaming
		return turn, true
	})
}

// finish moves a non-terminal turn to a terminal state, optionally
// replacing its text.
func (t *Transcript) finish(id string, state State, text *string) ([]Turn, bool) {
	return t.update(id, func(turn Turn) (Turn, bool) {
		if turn.State.Terminal() {
			return turn, false
		}
		if text != nil {
			turn.Text = *text
		}
		turn.State = state
		return turn, true
	})
}
