package store

import (
	"testing"
	"time"

	"github.com/wutway/helpdesk/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	sessions := []domain.Session{
		{
			ID:    "session_1_abc",
			Title: "vpn is down",
			Messages: []domain.Message{
				{MessageID: "m1", Role: domain.RoleUser, Content: "vpn is down"},
				{MessageID: "m2", Role: domain.RoleAssistant, Content: "try ext 1234", Type: domain.TypeAnswer,
					Meta: &domain.Meta{Department: "IT", Confidence: 0.89}, Suggestions: []string{"Q1"}},
			},
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
	}
	s.Save(sessions)

	got, ok := s.Load()
	if !ok {
		t.Fatalf("expected persisted sessions")
	}
	if len(got) != 1 || got[0].ID != "session_1_abc" {
		t.Fatalf("unexpected sessions: %+v", got)
	}
	if got[0].Messages[1].Meta == nil || got[0].Messages[1].Meta.Department != "IT" {
		t.Fatalf("meta not round-tripped: %+v", got[0].Messages[1])
	}
	if len(got[0].Messages[1].Suggestions) != 1 {
		t.Fatalf("suggestions not round-tripped: %+v", got[0].Messages[1])
	}
}

func TestSQLiteStoreLoadMissingKey(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.Load(); ok {
		t.Fatalf("expected absent snapshot in a fresh store")
	}
	if _, ok := s.LoadCurrentID(); ok {
		t.Fatalf("expected absent current id in a fresh store")
	}
}

func TestSQLiteStoreLoadCorruptValue(t *testing.T) {
	s := newTestStore(t)
	s.put(SessionsKey, "INVALID_JSON{{{")

	if _, ok := s.Load(); ok {
		t.Fatalf("corrupt snapshot must be reported as absent")
	}
}

func TestSQLiteStoreLoadWrongShape(t *testing.T) {
	s := newTestStore(t)

	s.put(SessionsKey, `{"not":"an array"}`)
	if _, ok := s.Load(); ok {
		t.Fatalf("non-array snapshot must be reported as absent")
	}

	s.put(SessionsKey, `[]`)
	if _, ok := s.Load(); ok {
		t.Fatalf("empty-array snapshot must be reported as absent")
	}
}

func TestSQLiteStoreCurrentID(t *testing.T) {
	s := newTestStore(t)

	s.SaveCurrentID("session_1_abc")
	got, ok := s.LoadCurrentID()
	if !ok || got != "session_1_abc" {
		t.Fatalf("unexpected current id: %q ok=%v", got, ok)
	}

	s.SaveCurrentID("session_2_def")
	if got, _ := s.LoadCurrentID(); got != "session_2_def" {
		t.Fatalf("current id not overwritten: %q", got)
	}
}

func TestSQLiteStoreSaveOverwrites(t *testing.T) {
	s := newTestStore(t)

	s.Save([]domain.Session{{ID: "a"}})
	s.Save([]domain.Session{{ID: "b"}, {ID: "c"}})

	got, ok := s.Load()
	if !ok || len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("expected whole-snapshot overwrite, got %+v", got)
	}
}
