package transcript

import (
	"strconv"
	"sync"
	"time"
)

const assistantSuffix = "-assistant"

// idSource hands out millisecond timestamps, bumped when the clock has not
// moved so ids stay strictly increasing.
type idSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func (s *idSource) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.now().UnixMilli()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return strconv.FormatInt(n, 10)
}

// AssistantID derives the placeholder id from the user turn id.
func AssistantID(userID string) string {
	return userID + assistantSuffix
}
