// Package chat implements the guarded submit/answer/suggest cycle against
// the current session.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/wutway/helpdesk/internal/adapter/assistant"
	"github.com/wutway/helpdesk/internal/domain"
	"github.com/wutway/helpdesk/internal/session"
	"github.com/wutway/helpdesk/internal/trace"
)

// historyWindow bounds the context sent to the answer service regardless of
// total conversation length.
const historyWindow = 6

// Submission states for the single-flight guard.
const (
	stateIdle int32 = iota
	stateSubmitting
)

// Service is the client facade for the answer and suggestion endpoints.
type Service interface {
	Chat(ctx context.Context, turns []assistant.Turn) (*assistant.ChatResponse, error)
	Suggest(ctx context.Context, lastAnswer string) ([]string, error)
}

// Flow runs one submission at a time. The guard is an atomic state switch,
// not a queue: a second trigger while one submission is in flight is
// dropped.
type Flow struct {
	state    atomic.Int32
	sessions *session.Manager
	svc      Service
	trace    *trace.Log

	pending sync.WaitGroup // detached suggestion fetches
}

// NewFlow wires the flow to a session manager and a remote service client.
func NewFlow(sessions *session.Manager, svc Service, tr *trace.Log) *Flow {
	return &Flow{sessions: sessions, svc: svc, trace: tr}
}

// Submit runs one full request/response cycle for the given input. It
// returns domain.ErrEmptyInput for blank input and domain.ErrInFlight when
// a submission is already running; both leave the session untouched and
// make no network calls. Remote failures are converted into a chat-visible
// assistant message of type "error" and also returned.
func (f *Flow) Submit(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return domain.ErrEmptyInput
	}
	// The guard must be taken before any asynchronous work so rapid
	// repeated triggers cannot race past it.
	if !f.state.CompareAndSwap(stateIdle, stateSubmitting) {
		return domain.ErrInFlight
	}
	defer f.state.Store(stateIdle)

	f.trace.Reset()
	f.trace.Append("Connecting to answer service...")

	messages := append(f.sessions.CurrentMessages(), domain.Message{
		MessageID: domain.NewMessageID(),
		Role:      domain.RoleUser,
		Content:   input,
	})
	if err := f.sessions.UpdateCurrent(messages); err != nil {
		return err
	}

	resp, err := f.svc.Chat(ctx, window(messages))
	if err != nil {
		f.trace.Appendf("Answer service failed: %v", err)
		f.appendError(err)
		return err
	}
	f.trace.Append("Answer received")

	answer := domain.Message{
		MessageID:   domain.NewMessageID(),
		Role:        domain.RoleAssistant,
		Content:     resp.Response,
		Type:        domain.TypeAnswer,
		Meta:        metaFrom(resp.Meta),
		Suggestions: []string{},
	}
	if err := f.sessions.UpdateCurrent(append(f.sessions.CurrentMessages(), answer)); err != nil {
		return err
	}

	// The suggestion fetch outlives the single-flight guard. It is tagged
	// with the answer message's identity so a late result patches that
	// exact turn or lands nowhere, never on whatever happens to be last.
	sessionID := f.sessions.CurrentID()
	f.pending.Add(1)
	go f.fetchSuggestions(sessionID, answer.MessageID, resp.Response)

	return nil
}

// Wait blocks until all detached suggestion fetches have settled.
func (f *Flow) Wait() {
	f.pending.Wait()
}

func (f *Flow) fetchSuggestions(sessionID, messageID, lastAnswer string) {
	defer f.pending.Done()

	f.trace.Append("Fetching follow-up suggestions...")
	questions, err := f.svc.Suggest(context.Background(), lastAnswer)
	if err != nil {
		log.Printf("chat: suggestion fetch failed: %v", err)
		return
	}
	if len(questions) == 0 {
		return
	}
	if err := f.sessions.AttachSuggestions(sessionID, messageID, questions); err != nil {
		log.Printf("chat: dropping stale suggestions for %s: %v", messageID, err)
		return
	}
	f.trace.Appendf("Attached %d suggestions", len(questions))
}

// appendError surfaces a remote failure as a chat-visible assistant turn.
func (f *Flow) appendError(cause error) {
	var statusErr *domain.StatusError
	content := "Error: no response from the answer service. (Check backend connection)"
	switch {
	case errors.As(cause, &statusErr):
		content = fmt.Sprintf("Error: server returned status %d. (Check backend connection)", statusErr.Status)
	case errors.Is(cause, domain.ErrMalformedResponse):
		content = "Error: the answer service returned an unreadable reply."
	}

	msg := domain.Message{
		MessageID: domain.NewMessageID(),
		Role:      domain.RoleAssistant,
		Content:   content,
		Type:      domain.TypeError,
	}
	if err := f.sessions.UpdateCurrent(append(f.sessions.CurrentMessages(), msg)); err != nil {
		log.Printf("chat: failed to record error message: %v", err)
	}
}

// window projects the most recent turns to the wire shape, oldest first.
func window(messages []domain.Message) []assistant.Turn {
	start := 0
	if len(messages) > historyWindow {
		start = len(messages) - historyWindow
	}
	turns := make([]assistant.Turn, 0, len(messages)-start)
	for _, m := range messages[start:] {
		turns = append(turns, assistant.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

func metaFrom(m *assistant.ChatMeta) *domain.Meta {
	if m == nil {
		return nil
	}
	return &domain.Meta{
		Department: m.Department,
		Intent:     m.Intent,
		Urgency:    m.Urgency,
		Action:     m.Action,
		Doc:        m.Doc,
		Confidence: m.Confidence,
	}
}
