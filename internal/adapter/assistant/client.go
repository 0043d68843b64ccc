// Package assistant provides the HTTP client for the remote answer and
// suggestion services.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wutway/helpdesk/internal/domain"
)

// Turn is the wire projection of one conversational turn.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []Turn `json:"messages"`
}

// ChatMeta is the optional classification block in a chat response.
type ChatMeta struct {
	Department string  `json:"department,omitempty"`
	Intent     string  `json:"intent,omitempty"`
	Urgency    string  `json:"urgency,omitempty"`
	Action     string  `json:"action,omitempty"`
	Doc        string  `json:"doc,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// ChatResponse is the body of a successful chat reply.
type ChatResponse struct {
	Response string    `json:"response"`
	Meta     *ChatMeta `json:"meta,omitempty"`
}

// SuggestRequest is the body of POST /api/suggest.
type SuggestRequest struct {
	LastAnswer string `json:"last_answer"`
}

// SuggestResponse is the body of a successful suggest reply.
type SuggestResponse struct {
	Questions []string `json:"questions"`
}

// Client talks to the answer and suggestion services.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat sends the bounded conversation window and returns the generated
// answer. A non-2xx status surfaces as *domain.StatusError; a 2xx body
// that does not parse surfaces as domain.ErrMalformedResponse.
func (c *Client) Chat(ctx context.Context, turns []Turn) (*ChatResponse, error) {
	respBody, err := c.post(ctx, "/api/chat", &ChatRequest{Messages: turns})
	if err != nil {
		return nil, err
	}

	var result ChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &result, nil
}

// Suggest asks for follow-up questions to the given answer.
func (c *Client) Suggest(ctx context.Context, lastAnswer string) ([]string, error) {
	respBody, err := c.post(ctx, "/api/suggest", &SuggestRequest{LastAnswer: lastAnswer})
	if err != nil {
		return nil, err
	}

	var result SuggestResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return result.Questions, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.StatusError{Status: resp.StatusCode}
	}
	return respBody, nil
}
