package trace

import (
	"fmt"
	"testing"
)

func TestLogAppendAndSnapshot(t *testing.T) {
	l := NewLog()
	l.Append("first")
	l.Appendf("second %d", 2)

	entries := l.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Text != "second 2" {
		t.Fatalf("unexpected entry: %+v", entries[1])
	}
	if entries[0].Time.IsZero() {
		t.Fatalf("entry missing timestamp")
	}
}

func TestLogReset(t *testing.T) {
	l := NewLog()
	l.Append("stale")
	l.Reset()
	if got := l.Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty log after reset, got %d entries", len(got))
	}
}

func TestLogCapped(t *testing.T) {
	l := NewLog()
	for i := 0; i < maxEntries+10; i++ {
		l.Append(fmt.Sprintf("line %d", i))
	}
	entries := l.Snapshot()
	if len(entries) != maxEntries {
		t.Fatalf("expected cap of %d, got %d", maxEntries, len(entries))
	}
	if entries[0].Text != "line 10" {
		t.Fatalf("expected oldest entries dropped, got %q", entries[0].Text)
	}
}

func TestLogSubscribe(t *testing.T) {
	l := NewLog()
	ch, cancel := l.Subscribe()
	defer cancel()

	l.Append("live")
	select {
	case e := <-ch:
		if e.Text != "live" {
			t.Fatalf("unexpected entry: %+v", e)
		}
	default:
		t.Fatalf("expected buffered entry")
	}

	cancel()
	l.Append("after cancel")
	select {
	case e := <-ch:
		t.Fatalf("unexpected entry after cancel: %+v", e)
	default:
	}
}
