package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	deltas chan string
}

func newRecorder() *recorder {
	return &recorder{deltas: make(chan string, 64)}
}

func (r *recorder) observe(ev Event, _ []Turn) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	if ev.Delta != "" {
		r.deltas <- ev.Delta
	}
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []State
	for _, ev := range r.events {
		if ev.Delta == "" {
			out = append(out, ev.State)
		}
	}
	return out
}

func fixedClock(ms ...int64) func() time.Time {
	var mu sync.Mutex
	i := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		v := ms[len(ms)-1]
		if i < len(ms) {
			v = ms[i]
		}
		i++
		return time.UnixMilli(v)
	}
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	fs := &fakeStreamer{open: bodyOf()}
	a := NewAssembler(fs)

	for _, in := range []string{"", "   ", "\n\t "} {
		s, ok := a.Submit(context.Background(), in)
		assert.False(t, ok)
		assert.Nil(t, s)
	}
	assert.Empty(t, a.Turns())
	assert.Empty(t, fs.calls())
}

func TestSubmitAppendsUserAndPlaceholder(t *testing.T) {
	body := newPipeBody()
	fs := &fakeStreamer{open: body.open}
	a := NewAssembler(fs, WithClock(fixedClock(1700000000000)))

	s, ok := a.Submit(context.Background(), "  hi there  ")
	require.True(t, ok)

	turns := a.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, Turn{ID: "1700000000000", Role: RoleUser, Text: "hi there", State: StateComplete}, turns[0])
	assert.Equal(t, "1700000000000-assistant", turns[1].ID)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Empty(t, turns[1].Text)
	assert.Equal(t, s.TurnID(), turns[1].ID)

	<-body.opened
	s.Cancel()
	s.Wait()
}

func TestSubmitStreamsDeltasInOrder(t *testing.T) {
	rec := newRecorder()
	fs := &fakeStreamer{open: bodyOf(
		`{"message":{"content":"Hel`, `lo"}}`+"\n"+`{"message":{"content":", "}}`+"\n",
		`{"message":{"content":"world"}}`+"\n"+`{"done":true}`,
	)}
	a := NewAssembler(fs, WithObserver(rec.observe))

	s, ok := a.Submit(context.Background(), "greet me")
	require.True(t, ok)
	final := s.Wait()

	assert.Equal(t, "Hello, world", final.Text)
	assert.Equal(t, StateComplete, final.State)
	assert.Equal(t, []State{StatePending, StateComplete}, rec.states())

	var deltas []string
	for _, ev := range rec.events {
		if ev.Delta != "" {
			deltas = append(deltas, ev.Delta)
			assert.Equal(t, StateStreaming, ev.State)
		}
	}
	assert.Equal(t, []string{"Hello", ", ", "world"}, deltas)
}

func TestUnterminatedFinalRecordIsDropped(t *testing.T) {
	fs := &fakeStreamer{open: bodyOf(`{"message":{"content":"ab"}}` + "\n" + `{"message":{"content":"cd"}}`)}
	a := NewAssembler(fs)

	s, _ := a.Submit(context.Background(), "x")
	assert.Equal(t, "ab", s.Wait().Text)
}

func TestMalformedLineIsSkipped(t *testing.T) {
	fs := &fakeStreamer{open: bodyOf(`{"message":{"content":"x"}}` + "\nnot-json\n" + `{"message":{"content":"y"}}` + "\n")}
	a := NewAssembler(fs)

	s, _ := a.Submit(context.Background(), "x")
	final := s.Wait()
	assert.Equal(t, "xy", final.Text)
	assert.Equal(t, StateComplete, final.State)
}

func TestTransportFailureSetsErrorText(t *testing.T) {
	rec := newRecorder()
	fs := &fakeStreamer{open: failing}
	a := NewAssembler(fs, WithObserver(rec.observe))

	s, _ := a.Submit(context.Background(), "anyone home?")
	final := s.Wait()

	assert.Equal(t, ErrorText, final.Text)
	assert.Equal(t, "Error: model failed.", final.Text)
	assert.Equal(t, StateErrored, final.State)
	assert.Equal(t, []State{StatePending, StateErrored}, rec.states())
}

func TestCancelStopsFurtherAppends(t *testing.T) {
	rec := newRecorder()
	body := newPipeBody()
	fs := &fakeStreamer{open: body.open}
	a := NewAssembler(fs, WithObserver(rec.observe))

	s, _ := a.Submit(context.Background(), "tell me a story")
	<-body.opened

	_, err := io.WriteString(body.w, `{"message":{"content":"Once"}}`+"\n")
	require.NoError(t, err)
	assert.Equal(t, "Once", <-rec.deltas)

	a.Cancel()
	// The aborted body rejects anything written after cancellation.
	_, _ = io.WriteString(body.w, `{"message":{"content":" upon"}}`+"\n")

	final := s.Wait()
	assert.Equal(t, "Once", final.Text)
	assert.Equal(t, StateCancelled, final.State)

	turns := a.Turns()
	assert.Equal(t, "Once", turns[1].Text)
	assert.Equal(t, StateCancelled, turns[1].State)
}

func TestCancelBeforeHeadersIsCancelledNotErrored(t *testing.T) {
	started := make(chan struct{})
	fs := &fakeStreamer{open: func(ctx context.Context) (io.ReadCloser, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	a := NewAssembler(fs)

	s, _ := a.Submit(context.Background(), "slow")
	<-started
	s.Cancel()

	final := s.Wait()
	assert.Equal(t, StateCancelled, final.State)
	assert.Empty(t, final.Text)
}

func TestParentContextCancelBeforeHeadersIsCancelled(t *testing.T) {
	started := make(chan struct{})
	fs := &fakeStreamer{open: func(ctx context.Context) (io.ReadCloser, error) {
		close(started)
		<-ctx.Done()
		return nil, fmt.Errorf("dial relay: %w", ctx.Err())
	}}
	rec := newRecorder()
	a := NewAssembler(fs, WithObserver(rec.observe))

	ctx, cancel := context.WithCancel(context.Background())
	s, _ := a.Submit(ctx, "slow")
	<-started
	cancel()

	final := s.Wait()
	assert.Equal(t, StateCancelled, final.State)
	assert.Empty(t, final.Text)
	assert.Equal(t, []State{StatePending, StateCancelled}, rec.states())
}

func TestParentContextCancelDropsBufferedDeltas(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once
	rec := newRecorder()
	// Every line arrives in one read; the reply is cancelled from the
	// observer as soon as the first delta lands.
	a := NewAssembler(
		&fakeStreamer{open: bodyOf(`{"message":{"content":"a"}}` + "\n" + `{"message":{"content":"b"}}` + "\n" + `{"message":{"content":"c"}}` + "\n")},
		WithObserver(func(ev Event, turns []Turn) {
			if ev.Delta != "" {
				once.Do(cancel)
			}
			rec.observe(ev, turns)
		}),
	)

	s, _ := a.Submit(ctx, "abc")
	final := s.Wait()
	assert.Equal(t, "a", final.Text)
	assert.Equal(t, StateCancelled, final.State)
}

func TestReadErrorKeepsPartialText(t *testing.T) {
	body := newPipeBody()
	rec := newRecorder()
	a := NewAssembler(&fakeStreamer{open: body.open}, WithObserver(rec.observe))

	s, _ := a.Submit(context.Background(), "q")
	<-body.opened
	_, err := io.WriteString(body.w, `{"message":{"content":"partial"}}`+"\n")
	require.NoError(t, err)
	<-rec.deltas
	body.w.CloseWithError(io.ErrUnexpectedEOF)

	final := s.Wait()
	assert.Equal(t, "partial", final.Text)
	assert.Equal(t, StateErrored, final.State)
}

func TestEnvelopeCarriesHistoryAndOptions(t *testing.T) {
	opts := json.RawMessage(`{"temperature":0.1}`)
	fs := &fakeStreamer{open: bodyOf(`{"message":{"content":"four"}}` + "\n")}
	a := NewAssembler(fs, WithOptions(opts))

	s, _ := a.Submit(context.Background(), "2+2?")
	s.Wait()
	s, _ = a.Submit(context.Background(), "and doubled?")
	s.Wait()

	calls := fs.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "2+2?"}}, calls[0].Messages)
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "2+2?"},
		{Role: RoleAssistant, Content: "four"},
		{Role: RoleUser, Content: "and doubled?"},
	}, calls[1].Messages)
	assert.JSONEq(t, `{"temperature":0.1}`, string(calls[1].Options))

	raw, err := json.Marshal(Envelope{Messages: calls[0].Messages})
	require.NoError(t, err)
	assert.JSONEq(t, `{"messages":[{"role":"user","content":"2+2?"}]}`, string(raw))
}

func TestSecondSubmitCancelsInFlightReply(t *testing.T) {
	first := newPipeBody()
	var n int
	var mu sync.Mutex
	fs := &fakeStreamer{open: func(ctx context.Context) (io.ReadCloser, error) {
		mu.Lock()
		n++
		call := n
		mu.Unlock()
		if call == 1 {
			return first.open(ctx)
		}
		return io.NopCloser(chunks(`{"message":{"content":"second"}}` + "\n")), nil
	}}
	a := NewAssembler(fs, WithClock(fixedClock(10, 10)))

	s1, _ := a.Submit(context.Background(), "one")
	<-first.opened
	s2, _ := a.Submit(context.Background(), "two")

	assert.Equal(t, StateCancelled, s1.Wait().State)
	assert.Equal(t, "second", s2.Wait().Text)

	turns := a.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, "10", turns[0].ID)
	assert.Equal(t, "11", turns[2].ID, "ids stay strictly increasing")
	assert.Equal(t, "11-assistant", turns[3].ID)
}

func TestSnapshotsAreNeverMutated(t *testing.T) {
	body := newPipeBody()
	rec := newRecorder()
	a := NewAssembler(&fakeStreamer{open: body.open}, WithObserver(rec.observe))

	s, _ := a.Submit(context.Background(), "q")
	before := a.Turns()
	<-body.opened
	_, err := io.WriteString(body.w, `{"message":{"content":"a"}}`+"\n")
	require.NoError(t, err)
	<-rec.deltas

	assert.Empty(t, before[1].Text)
	assert.Equal(t, "a", a.Turns()[1].Text)

	body.w.Close()
	s.Wait()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "streaming", StateStreaming.String())
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "errored", StateErrored.String())
	assert.Equal(t, "cancelled", StateCancelled.String())
	assert.False(t, StateStreaming.Terminal())
	assert.True(t, StateCancelled.Terminal())
}
