package wut

// article is one canned knowledge-base answer with its retrieval score.
type article struct {
	Doc        string
	Title      string
	Answer     string
	Confidence float64
	Similarity float64
}

var knowledgeBase = map[string]article{
	"password_reset": {
		Doc:        "IT-001",
		Title:      "Password Reset Procedure",
		Answer:     "<p>You can reset your email password at <b>portal.mango.co.th</b>:</p><ol><li>Choose <i>Forgot Password</i></li><li>Verify your identity with the OTP sent to your phone</li></ol>",
		Confidence: 0.92,
		Similarity: 0.915,
	},
	"leave_request": {
		Doc:        "HR-050",
		Title:      "Leave Policy",
		Answer:     "<p>For annual leave, fill in the request form in the <b>Mango HR</b> system and wait for your manager to approve. I will open a ticket so HR can follow up.</p>",
		Confidence: 0.88,
		Similarity: 0.876,
	},
	"budget_approval": {
		Doc:        "ACC-101",
		Title:      "Budget Approval",
		Answer:     "<p>Budget approvals above <b>500,000</b> need direct sign-off from the CFO and must have the TOR document attached.</p>",
		Confidence: 0.85,
		Similarity: 0.842,
	},
	"vpn_issue": {
		Doc:        "IT-002",
		Title:      "VPN Connection Guide",
		Answer:     "<p>If the VPN will not connect, try:</p><ol><li>Restart your router</li><li>Check your username and password</li><li>Clear the VPN cache</li></ol><p>Or contact IT Support at ext 1234.</p>",
		Confidence: 0.89,
		Similarity: 0.885,
	},
	"email_storage": {
		Doc:        "IT-003",
		Title:      "Email Storage Management",
		Answer:     "<p>A full mailbox can be fixed by:</p><ol><li>Deleting old mail</li><li>Archiving to a PST file</li><li>Requesting a quota increase at the IT Helpdesk (max 10GB per user)</li></ol>",
		Confidence: 0.91,
		Similarity: 0.908,
	},
	"software_install": {
		Doc:        "IT-004",
		Title:      "Software Installation Policy",
		Answer:     "<p>Software installs need prior approval from the <b>IT Manager</b>. I will open a ticket so IT can take it from here.</p>",
		Confidence: 0.86,
		Similarity: 0.858,
	},
	"payslip_request": {
		Doc:        "HR-051",
		Title:      "Payslip Access",
		Answer:     "<p>Payslips can be downloaded from <b>Mango HR Portal</b> under <i>Payroll &gt; Payslip History</i>. If you cannot sign in, contact HR at ext 2001.</p>",
		Confidence: 0.93,
		Similarity: 0.925,
	},
	"work_certificate": {
		Doc:        "HR-052",
		Title:      "Certificate Request",
		Answer:     "<p>Your employment certificate has been requested. I will open a ticket so HR can issue the document, which takes 3 to 5 working days.</p>",
		Confidence: 0.87,
		Similarity: 0.871,
	},
	"probation_question": {
		Doc:        "HR-053",
		Title:      "Probation Policy",
		Answer:     "<p>The probation period is <b>120 days</b>, with manager reviews at 60, 90 and 120 days. Full benefits start once you pass.</p>",
		Confidence: 0.90,
		Similarity: 0.898,
	},
	"expense_claim": {
		Doc:        "ACC-102",
		Title:      "Expense Claim Process",
		Answer:     "<p>Submit expense claims in <b>Expense Cloud</b> under <i>Submit Claim</i> with the receipt attached. Once your manager approves, payment follows within 7 working days.</p>",
		Confidence: 0.88,
		Similarity: 0.879,
	},
	"invoice_payment": {
		Doc:        "ACC-103",
		Title:      "Invoice Payment Inquiry",
		Answer:     "<p>Invoice payment status has to be checked by Accounting directly. Financial records need human verification.</p>",
		Confidence: 0.82,
		Similarity: 0.816,
	},
	"meeting_room": {
		Doc:        "OPS-001",
		Title:      "Meeting Room Booking",
		Answer:     "<p>Meeting rooms are booked in <b>Mango Office System</b> under <i>Room Booking</i>. Check availability and book right away. Rooms A to F hold 6 to 20 people.</p>",
		Confidence: 0.94,
		Similarity: 0.938,
	},
	"parking_pass": {
		Doc:        "OPS-002",
		Title:      "Parking Pass Request",
		Answer:     "<p>Your parking pass has been requested. I will open a ticket so Admin can issue the card, ready in 1 to 2 working days.</p>",
		Confidence: 0.85,
		Similarity: 0.849,
	},
}

const (
	fallbackAnswer     = "<p>Sorry, this topic is not in our knowledge base yet (demo scope: IT, HR, Accounting).</p>"
	fallbackConfidence = 0.45
	fallbackSimilarity = 0.412
)

// retrieve looks up the canned answer for a scenario. Unknown scenarios
// get the low-confidence fallback, which the decision rules escalate.
func retrieve(scenario string) article {
	if a, ok := knowledgeBase[scenario]; ok {
		return a
	}
	return article{Answer: fallbackAnswer, Confidence: fallbackConfidence, Similarity: fallbackSimilarity}
}
