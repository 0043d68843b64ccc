// Package handler provides the HTTP API for the helpdesk demo server.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wutway/helpdesk/internal/hub"
	"github.com/wutway/helpdesk/internal/trace"
	"github.com/wutway/helpdesk/internal/wut"
)

// Handler handles HTTP requests.
type Handler struct {
	engine *wut.Engine
	trace  *trace.Log
	hub    *hub.Hub
}

// NewHandler creates a new handler.
func NewHandler(engine *wut.Engine, tr *trace.Log, h *hub.Hub) *Handler {
	return &Handler{
		engine: engine,
		trace:  tr,
		hub:    h,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", h.PostChat)
	e.POST("/api/suggest", h.PostSuggest)
	e.POST("/api/logs", h.PostLogs)
	e.GET("/api/logs", h.GetLogs)

	e.GET("/ws", h.TraceStream)

	e.GET("/health", h.Health)
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

type chatMeta struct {
	Department string  `json:"department"`
	Intent     string  `json:"intent"`
	Urgency    string  `json:"urgency"`
	Action     string  `json:"action"`
	Doc        string  `json:"doc,omitempty"`
	Confidence float64 `json:"confidence"`
}

type chatResponse struct {
	Response string   `json:"response"`
	Type     string   `json:"type"`
	Meta     chatMeta `json:"meta"`
}

// PostChat answers the latest message of the submitted conversation.
// POST /api/chat
func (h *Handler) PostChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid messages format"})
	}

	// The messages field must be present and be an array.
	var turns []chatTurn
	if req.Messages == nil || string(req.Messages) == "null" || json.Unmarshal(req.Messages, &turns) != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid messages format"})
	}

	var query string
	if len(turns) > 0 {
		query = turns[len(turns)-1].Content
	}

	res, err := h.engine.Answer(c.Request().Context(), query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, chatResponse{
		Response: res.Response,
		Type:     res.Type,
		Meta: chatMeta{
			Department: res.Department,
			Intent:     res.Intent,
			Urgency:    res.Urgency,
			Action:     res.Action,
			Doc:        res.Doc,
			Confidence: res.Confidence,
		},
	})
}

type suggestRequest struct {
	LastAnswer string `json:"last_answer"`
}

// PostSuggest returns follow-up questions for the last answer.
// POST /api/suggest
func (h *Handler) PostSuggest(c echo.Context) error {
	var req suggestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"questions": h.engine.Suggest(req.LastAnswer),
	})
}

type logsRequest struct {
	Entries []string `json:"entries"`
}

// PostLogs absorbs log lines shipped by clients into the trace.
// POST /api/logs
func (h *Handler) PostLogs(c echo.Context) error {
	var req logsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	for _, line := range req.Entries {
		h.trace.Appendf("CLIENT: %s", line)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLogs returns the current trace snapshot.
// GET /api/logs
func (h *Handler) GetLogs(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": h.trace.Snapshot(),
	})
}

// TraceStream upgrades to a websocket streaming trace entries.
// GET /ws
func (h *Handler) TraceStream(c echo.Context) error {
	return h.hub.Serve(c.Response(), c.Request())
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
