// Package store persists the session list as a whole-collection snapshot
// under fixed keys, mirroring the origin-scoped key/value storage the demo
// UI relied on.
package store

import "github.com/wutway/helpdesk/internal/domain"

// Fixed keys for the persisted snapshot.
const (
	SessionsKey = "helpdesk_chat_sessions"
	CurrentKey  = "helpdesk_current_session"
)

// Store reads and writes the durable session snapshot. Load absorbs every
// failure mode (missing key, corrupt value, wrong shape) and reports it as
// absent. Save is best-effort: losing persistence must not break the
// in-memory conversation, so write failures never propagate.
type Store interface {
	Load() ([]domain.Session, bool)
	Save(sessions []domain.Session)
	LoadCurrentID() (string, bool)
	SaveCurrentID(id string)
	Close() error
}
