// Package trace keeps a capped, ephemeral log of pipeline activity for the
// developer panel. Entries are never persisted.
package trace

import (
	"fmt"
	"sync"
	"time"
)

const maxEntries = 1000

// Entry is one timestamped trace line.
type Entry struct {
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

// Log is a bounded in-memory entry list with optional live subscribers.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	subs    map[chan Entry]struct{}
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{subs: make(map[chan Entry]struct{})}
}

// Append records one line and fans it out to subscribers. A slow subscriber
// drops entries rather than blocking the caller.
func (l *Log) Append(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{Time: time.Now(), Text: text}
	l.entries = append(l.entries, e)
	if len(l.entries) > maxEntries {
		l.entries = l.entries[len(l.entries)-maxEntries:]
	}
	for ch := range l.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Appendf is Append with formatting.
func (l *Log) Appendf(format string, args ...interface{}) {
	l.Append(fmt.Sprintf(format, args...))
}

// Reset clears the retained entries. Called at the start of every new
// submission.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Snapshot returns a copy of the retained entries.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Subscribe registers a live listener. The returned cancel function must be
// called when the listener goes away.
func (l *Log) Subscribe() (<-chan Entry, func()) {
	ch := make(chan Entry, 64)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		delete(l.subs, ch)
		l.mu.Unlock()
	}
	return ch, cancel
}
