// Package slug derives URL-safe identifiers from post titles.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// nonAlnum matches runs of characters that are not lowercase letters or digits.
var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make derives a slug from a title: lowercase, runs of non-alphanumeric
// characters collapsed to a single hyphen, leading/trailing hyphens trimmed.
// A title with no usable characters yields "post" so the result is never empty.
func Make(title string) string {
	s := strings.ToLower(title)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "post"
	}
	return s
}

// WithSuffix appends a numeric collision suffix to a base slug.
func WithSuffix(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}
