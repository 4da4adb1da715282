// Package htmlsanitize sanitizes rich text submitted from the blog editor.
// It uses bluemonday to strip dangerous HTML while keeping safe formatting,
// so post content is stored already clean.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// Extra text formatting the post editor emits.
		policy.AllowElements("u", "s", "sub", "sup", "mark", "figure", "figcaption")

		// Embedded images keep their sizing.
		policy.AllowAttrs("width", "height", "loading").OnElements("img")
	})
	return policy
}

// Sanitize cleans HTML input, removing dangerous elements and attributes
// while preserving formatting like bold, italic, lists, links, and images.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

// StripTags removes all HTML and returns plain text, used when a post body
// feeds an excerpt or a notification message.
func StripTags(html string) string {
	if html == "" {
		return ""
	}
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(html))
}
