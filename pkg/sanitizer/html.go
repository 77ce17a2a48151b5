package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	policiesOnce sync.Once
)

func policies() {
	policiesOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		// Basic formatting for user-authored content such as mail
		// bodies. No images, no styles, links forced nofollow.
		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// StripHTML removes every tag, event handler and script URL, returning
// plain text.
func StripHTML(s string) string {
	policies()
	return strictPolicy.Sanitize(s)
}

// SanitizeHTML keeps a small allow-list of formatting tags and strips
// everything dangerous. Use for user-authored rich text.
func SanitizeHTML(s string) string {
	policies()
	return safePolicy.Sanitize(s)
}
