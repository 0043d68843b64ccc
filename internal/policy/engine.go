// Package policy evaluates the helpdesk decision rules with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Actions produced by the decision rules.
const (
	ActionAutoResolve      = "AUTO_RESOLVE"
	ActionCreateTicket     = "CREATE_TICKET"
	ActionEscalate         = "ESCALATE"
	ActionCriticalEscalate = "CRITICAL_ESCALATE"
)

// Input is the decision-rule input for one classified, answered query.
type Input struct {
	Department      string
	Intent          string
	Urgency         string
	Confidence      float64
	ApprovalRequest bool
}

// Engine wraps a prepared rego query.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the given policy module.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.helpdesk.action"),
		rego.Module("helpdesk.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the action for the given input: AUTO_RESOLVE,
// CREATE_TICKET, ESCALATE or CRITICAL_ESCALATE.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	in := map[string]interface{}{
		"department":       input.Department,
		"intent":           input.Intent,
		"urgency":          input.Urgency,
		"confidence":       input.Confidence,
		"approval_request": input.ApprovalRequest,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(in))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return ActionAutoResolve, nil
	}
	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return ActionAutoResolve, nil
}

// DefaultPolicy encodes the demo business rules: low-confidence answers
// escalate, money-touching approval requests hard-escalate, HR action
// requests open a ticket, everything else auto-resolves. Rule order
// mirrors the product behavior: the confidence check wins over the
// accounting safety lock, which wins over ticket creation.
const DefaultPolicy = `
package helpdesk

import rego.v1

default action := "AUTO_RESOLVE"

escalate if input.confidence < 0.7

critical if {
	not escalate
	input.department == "Accounting"
	input.approval_request
}

ticket if {
	not escalate
	not critical
	input.department == "HR"
	input.intent == "action_request"
}

action := "ESCALATE" if escalate

action := "CRITICAL_ESCALATE" if critical

action := "CREATE_TICKET" if ticket
`
