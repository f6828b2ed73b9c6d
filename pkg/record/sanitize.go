package record

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Sanitize trims v and removes any markup so stored records are plain text.
func Sanitize(v string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return ""
	}
	cleaned := strictPolicy().Sanitize(trimmed)
	// bluemonday escapes entities; records hold the literal text.
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func strictPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}
