// Package domain defines the core conversation models for the helpdesk.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Roles of a conversational turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message display types. Informational only; nothing at this layer
// transitions on them.
const (
	TypeGreeting = "greeting"
	TypeAnswer   = "answer"
	TypeError    = "error"
	TypeTicket   = "ticket"
	TypeEscalate = "escalate"
	TypeAlert    = "alert"
)

// Meta carries the classification side-information returned by the answer
// service. It is an opaque passthrough; nothing here is validated.
type Meta struct {
	Department string  `json:"department,omitempty"`
	Intent     string  `json:"intent,omitempty"`
	Urgency    string  `json:"urgency,omitempty"`
	Action     string  `json:"action,omitempty"`
	Doc        string  `json:"doc,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Message is one conversational turn.
type Message struct {
	MessageID   string   `json:"message_id"`
	Role        string   `json:"role"`
	Content     string   `json:"content"`
	Type        string   `json:"type,omitempty"`
	Meta        *Meta    `json:"meta,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Session is a named, ordered conversation. Its message list is replaced
// wholesale on every update, never edited in place.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionID builds a session identifier from the creation time plus a
// random suffix. Collisions are treated as negligible, not prevented.
func NewSessionID(now time.Time) string {
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// NewMessageID returns an identifier for a single message. Suggestion
// requests are tagged with it so a late result patches the right turn.
func NewMessageID() string {
	return uuid.NewString()
}
