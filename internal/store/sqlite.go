package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wutway/helpdesk/internal/domain"
)

// SQLiteStore implements Store over a single key/value table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the backing database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection so the snapshot survives across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Load returns the persisted session list, or ok=false when the key is
// missing or the stored value is not a non-empty JSON array of sessions.
func (s *SQLiteStore) Load() ([]domain.Session, bool) {
	raw, ok := s.get(SessionsKey)
	if !ok {
		return nil, false
	}
	var sessions []domain.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		log.Printf("store: discarding corrupt session snapshot: %v", err)
		return nil, false
	}
	if len(sessions) == 0 {
		return nil, false
	}
	return sessions, true
}

// Save overwrites the whole snapshot. Write failures are logged and
// swallowed so the in-memory conversation keeps going without persistence.
func (s *SQLiteStore) Save(sessions []domain.Session) {
	data, err := json.Marshal(sessions)
	if err != nil {
		log.Printf("store: failed to encode session snapshot: %v", err)
		return
	}
	s.put(SessionsKey, string(data))
}

// LoadCurrentID returns the persisted current-session pointer.
func (s *SQLiteStore) LoadCurrentID() (string, bool) {
	return s.get(CurrentKey)
}

// SaveCurrentID persists the current-session pointer.
func (s *SQLiteStore) SaveCurrentID(id string) {
	s.put(CurrentKey, id)
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		log.Printf("store: read %q failed: %v", key, err)
		return "", false
	}
	return value, true
}

func (s *SQLiteStore) put(key, value string) {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		log.Printf("store: write %q failed: %v", key, err)
	}
}
