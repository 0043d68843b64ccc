package wut

import "strings"

var followUps = map[string][]string{
	"it": {
		"What is the VPN password?",
		"How do I reset my email?",
		"How do I request new software?",
	},
	"hr": {
		"How many vacation days do I have left?",
		"How do I get a payslip?",
		"How long is the probation period?",
	},
	"accounting": {
		"How do I submit an expense claim?",
		"When are invoices paid?",
		"Who approves budgets?",
	},
}

var defaultFollowUps = []string{
	"What is the VPN password?",
	"How do I reset my email?",
	"Where is the office located?",
}

// Suggest returns canned follow-up questions fitting the last answer.
func (e *Engine) Suggest(lastAnswer string) []string {
	ans := strings.ToLower(lastAnswer)
	switch {
	case containsAny(ans, "password", "vpn", "mailbox", "software", "install"):
		return followUps["it"]
	case containsAny(ans, "leave", "payslip", "probation", "certificate", "hr"):
		return followUps["hr"]
	case containsAny(ans, "expense", "invoice", "budget", "accounting"):
		return followUps["accounting"]
	}
	return defaultFollowUps
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
