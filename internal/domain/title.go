package domain

// DefaultTitle is used until the session has a user message.
const DefaultTitle = "New Chat"

const titleMaxLen = 30

// DeriveTitle returns the session title for a message list: the first user
// message's content, truncated to 30 characters plus an ellipsis marker
// when longer. Assistant messages never contribute a title.
func DeriveTitle(messages []Message) string {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		r := []rune(m.Content)
		if len(r) > titleMaxLen {
			return string(r[:titleMaxLen]) + "..."
		}
		return m.Content
	}
	return DefaultTitle
}
