package ui

import (
	"sync"
	"time"

	"github.com/bz888/saturday/internal/transcript"
	"golang.org/x/time/rate"
)

// throttle coalesces transcript renders. The newest snapshot is always drawn
// eventually: a render refused by the limiter is retried by a trailing timer.
type throttle struct {
	limiter *rate.Limiter
	draw    func([]transcript.Turn)

	mu     sync.Mutex
	latest []transcript.Turn
	timer  *time.Timer
}

func newThrottle(perSecond int, draw func([]transcript.Turn)) *throttle {
	return &throttle{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		draw:    draw,
	}
}

// push records turns as the newest snapshot. force bypasses the limiter,
// used for state changes that must show immediately.
func (t *throttle) push(turns []transcript.Turn, force bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.latest = turns
	if force || t.limiter.Allow() {
		if t.timer != nil {
			t.timer.Stop()
			t.timer = nil
		}
		t.draw(turns)
		return
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.limiter.Reserve().Delay(), t.flush)
	}
}

func (t *throttle) flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return
	}
	t.timer = nil
	t.draw(t.latest)
}
