// pkg/shared/sanitize.go

package shared

import (
	"regexp"
	"strings"
)

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(token|secret|password|secret_id|api[_-]?key)["':\s=]+[^\s"']+`),
	regexp.MustCompile(`\bs\.[A-Za-z0-9]{20,}\b`),
	regexp.MustCompile(`\bhvs\.[A-Za-z0-9_-]{20,}\b`),
}

// SanitizeForLogging strips token-shaped material out of free text before it
// reaches a log line or an error message.
func SanitizeForLogging(s string) string {
	for _, p := range sensitivePatterns {
		s = p.ReplaceAllString(s, "[REDACTED]")
	}
	return strings.TrimSpace(s)
}
