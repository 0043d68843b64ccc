package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/wutway/helpdesk/internal/adapter/assistant"
	"github.com/wutway/helpdesk/internal/domain"
	"github.com/wutway/helpdesk/internal/session"
	"github.com/wutway/helpdesk/internal/store"
	"github.com/wutway/helpdesk/internal/trace"
)

// fakeService records calls and delegates to optional stubs.
type fakeService struct {
	mu           sync.Mutex
	chatCalls    [][]assistant.Turn
	suggestCalls []string

	chatFn    func(turns []assistant.Turn) (*assistant.ChatResponse, error)
	suggestFn func(lastAnswer string) ([]string, error)
}

func (s *fakeService) Chat(ctx context.Context, turns []assistant.Turn) (*assistant.ChatResponse, error) {
	s.mu.Lock()
	copied := make([]assistant.Turn, len(turns))
	copy(copied, turns)
	s.chatCalls = append(s.chatCalls, copied)
	s.mu.Unlock()

	if s.chatFn != nil {
		return s.chatFn(turns)
	}
	return &assistant.ChatResponse{Response: "ok"}, nil
}

func (s *fakeService) Suggest(ctx context.Context, lastAnswer string) ([]string, error) {
	s.mu.Lock()
	s.suggestCalls = append(s.suggestCalls, lastAnswer)
	s.mu.Unlock()

	if s.suggestFn != nil {
		return s.suggestFn(lastAnswer)
	}
	return nil, nil
}

func (s *fakeService) chatCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chatCalls)
}

func (s *fakeService) suggestCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.suggestCalls)
}

func newTestFlow(t *testing.T, svc Service) (*Flow, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(store.NewMemoryStore(), nil)
	return NewFlow(sessions, svc, trace.NewLog()), sessions
}

func TestSubmitRejectsWhitespaceInput(t *testing.T) {
	svc := &fakeService{}
	flow, sessions := newTestFlow(t, svc)

	if err := flow.Submit(context.Background(), "   "); !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if got := sessions.CurrentMessages(); len(got) != 0 {
		t.Fatalf("rejected input must not touch the session: %+v", got)
	}
	if svc.chatCallCount() != 0 {
		t.Fatalf("rejected input must not call the answer service")
	}
}

func TestSubmitAppendsUserAndAnswer(t *testing.T) {
	svc := &fakeService{
		chatFn: func(turns []assistant.Turn) (*assistant.ChatResponse, error) {
			return &assistant.ChatResponse{
				Response: "reset at the portal",
				Meta:     &assistant.ChatMeta{Department: "IT", Intent: "question", Urgency: "low"},
			}, nil
		},
	}
	flow, sessions := newTestFlow(t, svc)

	if err := flow.Submit(context.Background(), "how do I reset my password?"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	flow.Wait()

	msgs := sessions.CurrentMessages()
	if len(msgs) != 2 {
		t.Fatalf("expected user+assistant, got %+v", msgs)
	}
	if msgs[0].Role != domain.RoleUser || msgs[0].Content != "how do I reset my password?" {
		t.Fatalf("unexpected user turn: %+v", msgs[0])
	}
	answer := msgs[1]
	if answer.Role != domain.RoleAssistant || answer.Type != domain.TypeAnswer {
		t.Fatalf("unexpected answer turn: %+v", answer)
	}
	if answer.Meta == nil || answer.Meta.Department != "IT" {
		t.Fatalf("meta not carried over: %+v", answer.Meta)
	}
	if sessions.Sessions()[0].Title != "how do I reset my password?" {
		t.Fatalf("title not derived: %q", sessions.Sessions()[0].Title)
	}
}

func TestSubmitBoundsHistoryWindow(t *testing.T) {
	var n int
	svc := &fakeService{}
	svc.chatFn = func(turns []assistant.Turn) (*assistant.ChatResponse, error) {
		n++
		return &assistant.ChatResponse{Response: fmt.Sprintf("answer %d", n)}, nil
	}
	flow, _ := newTestFlow(t, svc)

	for i := 1; i <= 10; i++ {
		if err := flow.Submit(context.Background(), fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}
	flow.Wait()

	if svc.chatCallCount() != 10 {
		t.Fatalf("expected 10 calls, got %d", svc.chatCallCount())
	}
	last := svc.chatCalls[9]
	if len(last) != 6 {
		t.Fatalf("expected exactly 6 turns in the payload, got %d", len(last))
	}
	// The conversation at the 10th submission ends ... a7 u8 a8 u9 a9 u10.
	want := []assistant.Turn{
		{Role: domain.RoleAssistant, Content: "answer 7"},
		{Role: domain.RoleUser, Content: "msg 8"},
		{Role: domain.RoleAssistant, Content: "answer 8"},
		{Role: domain.RoleUser, Content: "msg 9"},
		{Role: domain.RoleAssistant, Content: "answer 9"},
		{Role: domain.RoleUser, Content: "msg 10"},
	}
	for i, turn := range want {
		if last[i] != turn {
			t.Fatalf("turn %d: got %+v, want %+v", i, last[i], turn)
		}
	}
}

func TestSubmitStatusErrorAppendsErrorMessage(t *testing.T) {
	svc := &fakeService{
		chatFn: func(turns []assistant.Turn) (*assistant.ChatResponse, error) {
			return nil, &domain.StatusError{Status: 500}
		},
	}
	flow, sessions := newTestFlow(t, svc)

	err := flow.Submit(context.Background(), "hello")
	var statusErr *domain.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	flow.Wait()

	msgs := sessions.CurrentMessages()
	if len(msgs) != 2 {
		t.Fatalf("expected user turn plus one error turn, got %+v", msgs)
	}
	if msgs[1].Type != domain.TypeError || msgs[1].Role != domain.RoleAssistant {
		t.Fatalf("unexpected error turn: %+v", msgs[1])
	}
	if svc.suggestCallCount() != 0 {
		t.Fatalf("failed answer must not trigger the suggestion service")
	}

	// The guard must be released for a resend.
	svc.chatFn = nil
	if err := flow.Submit(context.Background(), "retry"); err != nil {
		t.Fatalf("resend after failure must work: %v", err)
	}
	flow.Wait()
}

func TestSubmitMalformedResponse(t *testing.T) {
	svc := &fakeService{
		chatFn: func(turns []assistant.Turn) (*assistant.ChatResponse, error) {
			return nil, fmt.Errorf("%w: invalid character '<'", domain.ErrMalformedResponse)
		},
	}
	flow, sessions := newTestFlow(t, svc)

	if err := flow.Submit(context.Background(), "hello"); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	msgs := sessions.CurrentMessages()
	if len(msgs) != 2 || msgs[1].Type != domain.TypeError {
		t.Fatalf("expected one error turn, got %+v", msgs)
	}
	if svc.suggestCallCount() != 0 {
		t.Fatalf("malformed answer must not trigger the suggestion service")
	}
}

func TestSubmitAttachesSuggestions(t *testing.T) {
	svc := &fakeService{
		chatFn: func(turns []assistant.Turn) (*assistant.ChatResponse, error) {
			return &assistant.ChatResponse{Response: "the answer"}, nil
		},
		suggestFn: func(lastAnswer string) ([]string, error) {
			if lastAnswer != "the answer" {
				return nil, fmt.Errorf("unexpected last_answer %q", lastAnswer)
			}
			return []string{"Q1", "Q2"}, nil
		},
	}
	flow, sessions := newTestFlow(t, svc)

	if err := flow.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	flow.Wait()

	msgs := sessions.CurrentMessages()
	last := msgs[len(msgs)-1]
	if len(last.Suggestions) != 2 || last.Suggestions[0] != "Q1" || last.Suggestions[1] != "Q2" {
		t.Fatalf("suggestions not attached: %+v", last)
	}
}

func TestSubmitSingleFlight(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeService{
		chatFn: func(turns []assistant.Turn) (*assistant.ChatResponse, error) {
			<-release
			return &assistant.ChatResponse{Response: "ok"}, nil
		},
	}
	flow, _ := newTestFlow(t, svc)

	results := make(chan error, 5)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- flow.Submit(context.Background(), fmt.Sprintf("spam %d", i))
		}(i)
	}

	// Let every goroutine hit the guard, then release the one in flight.
	var rejected int
	for rejected < 4 {
		select {
		case err := <-results:
			if !errors.Is(err, domain.ErrInFlight) {
				t.Fatalf("expected ErrInFlight, got %v", err)
			}
			rejected++
		default:
		}
	}
	close(release)
	wg.Wait()
	flow.Wait()

	if got := svc.chatCallCount(); got != 1 {
		t.Fatalf("expected exactly one answer call, got %d", got)
	}
}

func TestStaleSuggestionsDropped(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeService{
		chatFn: func(turns []assistant.Turn) (*assistant.ChatResponse, error) {
			return &assistant.ChatResponse{Response: "slow answer"}, nil
		},
		suggestFn: func(lastAnswer string) ([]string, error) {
			<-release
			return []string{"Q1"}, nil
		},
	}
	flow, sessions := newTestFlow(t, svc)

	if err := flow.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// The target session disappears while the suggestion call is pending.
	if err := sessions.DeleteSession(sessions.CurrentID()); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	close(release)
	flow.Wait()

	for _, s := range sessions.Sessions() {
		for _, m := range s.Messages {
			if len(m.Suggestions) != 0 {
				t.Fatalf("stale suggestions attached to %+v", m)
			}
		}
	}
}
