// Package sanitize is the boundary between untrusted text and HTML
// rendering. Every remotely-sourced or user-sourced string passes through
// here before it may be interpreted as markup rather than plain text.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"b", "i", "em", "strong", "a", "p", "br", "ul", "ol", "li",
		"code", "pre", "h1", "h2", "h3", "blockquote", "div", "span",
		"table", "thead", "tbody", "tr", "td", "th",
	)
	p.AllowAttrs("href", "target", "class", "style", "rel").Globally()
	p.AllowStandardURLs()
	return p
}()

// Sanitize strips every tag and attribute outside the allow-list. Empty
// input stays empty.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	return policy.Sanitize(text)
}
