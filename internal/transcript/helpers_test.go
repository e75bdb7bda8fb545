package transcript

import (
	"context"
	"errors"
	"io"
	"sync"
)

// chunkReader returns one chunk per Read, regardless of buffer size, so the
// decoder sees exactly the splits a test asks for.
type chunkReader struct {
	chunks [][]byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	for len(r.chunks) > 0 && len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	return n, nil
}

func chunks(parts ...string) *chunkReader {
	r := &chunkReader{}
	for _, p := range parts {
		r.chunks = append(r.chunks, []byte(p))
	}
	return r
}

// fakeStreamer records envelopes and serves canned bodies.
type fakeStreamer struct {
	mu        sync.Mutex
	envelopes []Envelope
	open      func(ctx context.Context) (io.ReadCloser, error)
}

func (f *fakeStreamer) Stream(ctx context.Context, env Envelope) (io.ReadCloser, error) {
	f.mu.Lock()
	f.envelopes = append(f.envelopes, env)
	f.mu.Unlock()
	return f.open(ctx)
}

func (f *fakeStreamer) calls() []Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Envelope(nil), f.envelopes...)
}

func bodyOf(parts ...string) func(context.Context) (io.ReadCloser, error) {
	return func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(chunks(parts...)), nil
	}
}

var errRelayDown = errors.New("relay down")

func failing(context.Context) (io.ReadCloser, error) {
	return nil, errRelayDown
}

// pipeBody is a body the test writes to; it is aborted when ctx ends, the
// way an HTTP transport aborts a response body.
type pipeBody struct {
	w      *io.PipeWriter
	opened chan struct{}
}

func newPipeBody() *pipeBody {
	return &pipeBody{opened: make(chan struct{})}
}

func (p *pipeBody) open(ctx context.Context) (io.ReadCloser, error) {
	pr, pw := io.Pipe()
	p.w = pw
	go func() {
		<-ctx.Done()
		pr.CloseWithError(ctx.Err())
	}()
	close(p.opened)
	return pr, nil
}
