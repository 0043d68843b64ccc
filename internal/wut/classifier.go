// Package wut answers helpdesk queries from a scripted knowledge base.
// The pipeline is classify, retrieve, then apply the decision rules.
package wut

import "strings"

// classification is the result of the keyword scan over a query.
type classification struct {
	Department string
	Intent     string
	Urgency    string
	Scenario   string
}

// scenarioRule maps keywords to one scenario. First match wins, so more
// specific rules sit before generic ones.
type scenarioRule struct {
	keywords   []string
	department string
	intent     string
	urgency    string
	scenario   string
}

var scenarioRules = []scenarioRule{
	{[]string{"password", "email"}, "IT", "question", "low", "password_reset"},
	{[]string{"vacation", "leave"}, "HR", "action_request", "low", "leave_request"},
	{[]string{"vpn", "remote work"}, "IT", "question", "low", "vpn_issue"},
	{[]string{"storage", "mailbox"}, "IT", "question", "low", "email_storage"},
	{[]string{"install", "software"}, "IT", "action_request", "low", "software_install"},
	{[]string{"payslip"}, "HR", "question", "low", "payslip_request"},
	{[]string{"certificate", "employment letter"}, "HR", "action_request", "low", "work_certificate"},
	{[]string{"probation"}, "HR", "question", "low", "probation_question"},
	{[]string{"expense", "claim"}, "Accounting", "question", "low", "expense_claim"},
	{[]string{"invoice", "payment"}, "Accounting", "action_request", "high", "invoice_payment"},
	{[]string{"meeting room", "book room"}, "General", "question", "low", "meeting_room"},
	{[]string{"parking"}, "General", "action_request", "low", "parking_pass"},
	{[]string{"budget", "approve"}, "Accounting", "action_request", "high", "budget_approval"},
}

// classify scans the query against the scenario rules. Unmatched queries
// fall through to a generic low-urgency question.
func classify(query string) classification {
	q := strings.ToLower(query)
	for _, rule := range scenarioRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return classification{
					Department: rule.department,
					Intent:     rule.intent,
					Urgency:    rule.urgency,
					Scenario:   rule.scenario,
				}
			}
		}
	}
	return classification{Department: "General", Intent: "question", Urgency: "low", Scenario: "unknown"}
}

// approvalRequest reports whether the query asks for an approval.
func approvalRequest(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(q, "approve") || strings.Contains(q, "approval")
}
