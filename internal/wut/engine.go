package wut

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/wutway/helpdesk/internal/policy"
	"github.com/wutway/helpdesk/internal/trace"
)

// Result is one fully decided answer for a query.
type Result struct {
	Response   string
	Type       string
	Department string
	Intent     string
	Urgency    string
	Action     string
	Doc        string
	Confidence float64
}

const (
	escalateResponse = "<p>I am not fully sure about this one. To be safe, I am handing it over to a support agent who will get back to you.</p>"
	criticalResponse = "<p>⚠️ Warning: the assistant cannot act on financial matters. This case has been forwarded to Accounting as <b>High Priority</b>.</p>"
)

// Engine runs the classify, retrieve, decide pipeline over the canned
// knowledge base, with the decision rules evaluated by OPA.
type Engine struct {
	rules *policy.Engine
	trace *trace.Log
}

func NewEngine(rules *policy.Engine, tr *trace.Log) *Engine {
	return &Engine{rules: rules, trace: tr}
}

// Answer classifies the query, retrieves the best canned article and
// applies the decision rules. The critical path forces the reported
// confidence down to 0.30 so the override is visible to the caller.
func (e *Engine) Answer(ctx context.Context, query string) (*Result, error) {
	e.trace.Append("WUT: Receiving query...")

	c := classify(query)
	e.trace.Appendf("WUT Classifier: Dept=%s | Intent=%s | Urgency=%s", c.Department, c.Intent, c.Urgency)

	e.trace.Append("WAY: Vectorizing query...")
	e.trace.Append("WAY: Searching index (top_k=3)...")

	a := retrieve(c.Scenario)
	if a.Doc != "" {
		e.trace.Appendf("WAY: Found '%s: %s' (similarity %.3f)", a.Doc, a.Title, a.Similarity)
	}
	e.trace.Appendf("WAY: Generated Answer (Conf: %.2f)", a.Confidence)

	e.trace.Append("WUT: Evaluating Decision Rules...")
	action, err := e.rules.Evaluate(ctx, policy.Input{
		Department:      c.Department,
		Intent:          c.Intent,
		Urgency:         c.Urgency,
		Confidence:      a.Confidence,
		ApprovalRequest: approvalRequest(query),
	})
	if err != nil {
		return nil, fmt.Errorf("decision rules failed: %w", err)
	}

	res := &Result{
		Response:   a.Answer,
		Type:       "answer",
		Department: c.Department,
		Intent:     c.Intent,
		Urgency:    c.Urgency,
		Action:     action,
		Doc:        a.Doc,
		Confidence: a.Confidence,
	}

	switch action {
	case policy.ActionEscalate:
		res.Response = escalateResponse
		res.Type = "escalate"
		e.trace.Append("RULE: Low Confidence (<0.7) -> ESCALATE")
	case policy.ActionCriticalEscalate:
		res.Response = criticalResponse
		res.Type = "alert"
		res.Confidence = 0.30
		e.trace.Append("SAFETY OVERRIDE: Accounting Action -> FORCE ESCALATE")
	case policy.ActionCreateTicket:
		res.Response = fmt.Sprintf("<p>Request received.</p><p>Ticket created: <b>%s-%d</b></p><p>The %s team will review it and get back to you within 24 hours.</p>",
			deptPrefix(c.Department), rand.Intn(1000), c.Department)
		res.Type = "ticket"
		e.trace.Appendf("RULE: %s Action -> CREATE TICKET", c.Department)
	default:
		e.trace.Append("RULE: High Confidence -> AUTO RESOLVE")
	}

	return res, nil
}

func deptPrefix(department string) string {
	switch department {
	case "IT":
		return "IT"
	case "HR":
		return "HR"
	case "Accounting":
		return "ACC"
	default:
		return "OPS"
	}
}
