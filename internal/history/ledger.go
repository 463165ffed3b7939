// Package history keeps the bounded undo/redo ledger of committed canvas
// states.
package history

import (
	"image"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultDepth is how many steps the ledger keeps on each side of the cursor.
const DefaultDepth = 5

// Entry is one committed canvas state. Both images are owned by the ledger
// once committed and must not be modified.
type Entry struct {
	ID         ulid.ULID
	Background *image.RGBA // Paint layer the composite was built from
	Composite  *image.RGBA // Background with the line art on top
	Created    time.Time
}

// NewEntry stamps a new entry with a fresh ULID.
func NewEntry(background, composite *image.RGBA) Entry {
	now := time.Now()
	return Entry{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		Background: background,
		Composite:  composite,
		Created:    now,
	}
}

// Navigation reports which directions the cursor can move.
type Navigation struct {
	Back    bool
	Forward bool
}

// Listener is called after every ledger mutation.
type Listener func(Navigation)

// Ledger is an ordered, branch-discarding sequence of entries with a cursor.
// At most Depth entries are kept behind the cursor; older ones are dropped
// for good.
type Ledger struct {
	mu      sync.Mutex
	depth   int
	entries []Entry
	cursor  int
	dropped bool

	listeners []Listener
}

// New creates an empty ledger keeping depth steps of history. A depth below
// one falls back to DefaultDepth.
func New(depth int) *Ledger {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Ledger{depth: depth}
}

// OnChange registers a listener for navigation changes.
func (l *Ledger) OnChange(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Depth returns the configured look-back/look-ahead bound K.
func (l *Ledger) Depth() int { return l.depth }

// Window returns the maximum number of retained entries, 2K+1.
func (l *Ledger) Window() int { return 2*l.depth + 1 }

// Reset discards all history and starts again from initial.
func (l *Ledger) Reset(initial Entry) {
	l.mu.Lock()
	l.entries = append(l.entries[:0:0], initial)
	l.cursor = 0
	l.dropped = false
	nav := l.navigation()
	l.mu.Unlock()

	l.emit(nav)
}

// Clear empties the ledger, as when no image is loaded.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.cursor = 0
	l.dropped = false
	nav := l.navigation()
	l.mu.Unlock()

	l.emit(nav)
}

// Commit records a new state after the cursor. Entries forward of the
// cursor are discarded first. The front clamp runs before the back clamp.
func (l *Ledger) Commit(e Entry) {
	l.mu.Lock()
	if len(l.entries) > l.cursor+1 {
		clear(l.entries[l.cursor+1:])
		l.entries = l.entries[:l.cursor+1]
	}
	l.entries = append(l.entries, e)
	l.cursor = len(l.entries) - 1

	if l.cursor > l.depth {
		l.dropped = true
		l.entries[0] = Entry{}
		l.entries = l.entries[1:]
		l.cursor--
	}
	for len(l.entries)-1-l.cursor > l.depth {
		l.entries[len(l.entries)-1] = Entry{}
		l.entries = l.entries[:len(l.entries)-1]
	}
	nav := l.navigation()
	l.mu.Unlock()

	l.emit(nav)
}

// StepBack moves the cursor one entry toward the oldest state. It reports
// false, with no change, when the cursor is already at the front.
func (l *Ledger) StepBack() (Entry, bool) {
	l.mu.Lock()
	if len(l.entries) == 0 || l.cursor == 0 {
		l.mu.Unlock()
		return Entry{}, false
	}
	l.cursor--
	e := l.entries[l.cursor]
	nav := l.navigation()
	l.mu.Unlock()

	l.emit(nav)
	return e, true
}

// StepForward moves the cursor one entry toward the newest state. It
// reports false, with no change, when the cursor is already at the end.
func (l *Ledger) StepForward() (Entry, bool) {
	l.mu.Lock()
	if l.cursor >= len(l.entries)-1 {
		l.mu.Unlock()
		return Entry{}, false
	}
	l.cursor++
	e := l.entries[l.cursor]
	nav := l.navigation()
	l.mu.Unlock()

	l.emit(nav)
	return e, true
}

// Current returns the entry at the cursor.
func (l *Ledger) Current() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[l.cursor], true
}

// CanStepBack reports whether StepBack would succeed.
func (l *Ledger) CanStepBack() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.navigation().Back
}

// CanStepForward reports whether StepForward would succeed.
func (l *Ledger) CanStepForward() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.navigation().Forward
}

// Len returns the number of retained entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Cursor returns the index of the current entry.
func (l *Ledger) Cursor() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// Dropped reports whether any entry has been evicted since the last Reset.
func (l *Ledger) Dropped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Modified reports whether the current state differs from the loaded one,
// or may differ because the original was evicted.
func (l *Ledger) Modified() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor != 0 || l.dropped
}

// navigation must be called with l.mu held.
func (l *Ledger) navigation() Navigation {
	return Navigation{
		Back:    len(l.entries) > 0 && l.cursor > 0,
		Forward: l.cursor < len(l.entries)-1,
	}
}

func (l *Ledger) emit(nav Navigation) {
	l.mu.Lock()
	listeners := l.listeners
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(nav)
	}
}
