package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bz888/saturday/internal/logger"
)

// Streamer opens the relay stream for one envelope. Any returned error is
// treated as a transport failure.
type Streamer interface {
	Stream(ctx context.Context, env Envelope) (io.ReadCloser, error)
}

// Observer is called after every change to an assistant turn, in order,
// with the snapshot that contains the change.
type Observer func(ev Event, turns []Turn)

type Option func(*Assembler)

// WithOptions sets the generation options sent with every envelope.
func WithOptions(opts json.RawMessage) Option {
	return func(a *Assembler) { a.options = opts }
}

func WithObserver(fn Observer) Option {
	return func(a *Assembler) { a.observer = fn }
}

// WithClock overrides the id clock.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.ids.now = now }
}

// Assembler owns the transcript and at most one in-flight reply.
type Assembler struct {
	streamer   Streamer
	transcript *Transcript
	ids        *idSource
	options    json.RawMessage
	observer   Observer
	log        *logger.Logger

	mu     sync.Mutex
	active *Stream
}

func NewAssembler(streamer Streamer, opts ...Option) *Assembler {
	a := &Assembler{
		streamer:   streamer,
		transcript: NewTranscript(),
		ids:        &idSource{now: time.Now},
		log:        logger.NewLogger("assembler"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Turns returns the current transcript snapshot.
func (a *Assembler) Turns() []Turn {
	return a.transcript.Turns()
}

// Submit appends a user turn and an assistant placeholder, then streams the
// reply into the placeholder in the background. Whitespace-only text is
// ignored and reported with ok=false. A reply still streaming from an earlier
// Submit is cancelled first.
func (a *Assembler) Submit(ctx context.Context, text string) (s *Stream, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if prev := a.active; prev != nil {
		prev.Cancel()
		<-prev.done
	}

	prior := a.transcript.Messages()

	userID := a.ids.next()
	user := Turn{ID: userID, Role: RoleUser, Text: text, State: StateComplete}
	placeholder := Turn{ID: AssistantID(userID), Role: RoleAssistant, State: StatePending}
	turns := a.transcript.append(user, placeholder)

	env := Envelope{
		Messages: append(prior, Message{Role: RoleUser, Content: text}),
		Options:  a.options,
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s = &Stream{
		ctx:        streamCtx,
		turnID:     placeholder.ID,
		transcript: a.transcript,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	a.active = s

	a.notify(Event{TurnID: placeholder.ID, State: StatePending}, turns)
	go a.run(streamCtx, s, env)
	return s, true
}

// Cancel stops the reply currently streaming, if any.
func (a *Assembler) Cancel() {
	a.mu.Lock()
	s := a.active
	a.mu.Unlock()
	if s != nil {
		s.Cancel()
	}
}

func (a *Assembler) run(ctx context.Context, s *Stream, env Envelope) {
	defer close(s.done)
	defer s.cancel()

	body, err := a.streamer.Stream(ctx, env)
	if err != nil {
		if s.stopped() {
			a.finish(s, StateCancelled, nil)
			return
		}
		a.log.Error("relay request failed: ", err)
		msg := ErrorText
		a.finish(s, StateErrored, &msg)
		return
	}
	defer body.Close()

	reader := NewDeltaReader(body)
	for {
		delta, err := reader.Next(ctx)
		switch {
		case err == nil:
			if turns, ok := s.apply(delta); ok {
				a.notify(Event{TurnID: s.turnID, Delta: delta, State: StateStreaming}, turns)
				continue
			}
			a.finish(s, StateCancelled, nil)
			return
		case errors.Is(err, io.EOF):
			a.finish(s, StateComplete, nil)
			return
		case s.stopped(), errors.Is(err, context.Canceled):
			a.finish(s, StateCancelled, nil)
			return
		default:
			a.log.Error("stream read failed: ", err)
			a.finish(s, StateErrored, nil)
			return
		}
	}
}

func (a *Assembler) finish(s *Stream, state State, text *string) {
	if s.stopped() && state != StateCancelled {
		state = StateCancelled
		text = nil
	}
	if turns, ok := a.transcript.finish(s.turnID, state, text); ok {
		a.notify(Event{TurnID: s.turnID, State: state}, turns)
	}
}

func (a *Assembler) notify(ev Event, turns []Turn) {
	if a.observer != nil {
		a.observer(ev, turns)
	}
}

// Stream is the handle for one in-flight assistant reply.
type Stream struct {
	ctx        context.Context
	turnID     string
	transcript *Transcript
	cancel     context.CancelFunc
	done       chan struct{}

	mu        sync.Mutex
	cancelled bool
}

func (s *Stream) TurnID() string {
	return s.turnID
}

// Cancel aborts the reply. Once Cancel returns no further text is appended.
func (s *Stream) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
	s.cancel()
}

// Done is closed when the reply reaches a terminal state.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the reply is terminal and returns the final turn.
func (s *Stream) Wait() Turn {
	<-s.done
	turn, _ := s.transcript.Find(s.turnID)
	return turn
}

// stopped reports whether the reply was cancelled through the handle or
// through the context passed to Submit.
func (s *Stream) stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled || s.ctx.Err() != nil
}

// apply appends delta unless the stream was cancelled. Holding s.mu across
// the write orders it against Cancel.
func (s *Stream) apply(delta string) ([]Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled || s.ctx.Err() != nil {
		return nil, false
	}
	return s.transcript.appendText(s.turnID, delta)
}
