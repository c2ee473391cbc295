package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxSanitizePasses bounds nested entity encoding such as &amp;lt;
const maxSanitizePasses = 8

// plainText strips all markup from user-entered text, including tags
// smuggled in as HTML entities. The result contains no element bluemonday
// would remove.
func plainText(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(strict.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	// still changing: keep the escaped form
	return strings.TrimSpace(strict.Sanitize(s))
}
