package mutation

import (
	"sync"
)

// Level is the severity of a notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelFailure
)

func (l Level) String() string {
	if l == LevelFailure {
		return "error"
	}
	return "success"
}

// DeleteNoticeKey is shared by every delete notice, so a newer one replaces
// the previous instead of stacking.
const DeleteNoticeKey = "delete-contact"

// Notice is a user-visible outcome of a mutation.
type Notice struct {
	Key         string // Notices with the same non-empty key replace each other
	Level       Level
	Message     string
	Description string // Underlying error message on failure
}

// Notifier presents notices.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Board keeps the notices currently shown. Keyed notices replace each other;
// unkeyed ones stack, oldest first.
type Board struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
}

// NewBoard creates a board keeping at most limit notices (0 = unbounded).
func NewBoard(limit int) *Board {
	return &Board{limit: limit}
}

// Notify implements Notifier.
func (b *Board) Notify(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n.Key != "" {
		kept := b.notices[:0]
		for _, old := range b.notices {
			if old.Key != n.Key {
				kept = append(kept, old)
			}
		}
		b.notices = kept
	}
	b.notices = append(b.notices, n)
	if b.limit > 0 && len(b.notices) > b.limit {
		b.notices = b.notices[len(b.notices)-b.limit:]
	}
}

// Notices returns the visible notices, oldest first.
func (b *Board) Notices() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notice(nil), b.notices...)
}

// Dismiss drops every visible notice.
func (b *Board) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = nil
}
