package ui

import "context"

const submitBacklog = 32

// submitQueue hands chat input to a single worker so messages reach the
// assembler in the order they were entered.
type submitQueue struct {
	ch     chan string
	submit func(ctx context.Context, text string)
}

func newSubmitQueue(submit func(ctx context.Context, text string)) *submitQueue {
	return &submitQueue{
		ch:     make(chan string, submitBacklog),
		submit: submit,
	}
}

// push enqueues text without blocking. It reports false when the backlog is
// full and the text was dropped.
func (q *submitQueue) push(text string) bool {
	select {
	case q.ch <- text:
		return true
	default:
		return false
	}
}

// run submits queued text one at a time until ctx ends.
func (q *submitQueue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-q.ch:
			q.submit(ctx, text)
		}
	}
}
