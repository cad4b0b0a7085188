package stringutil

import (
	"regexp"

	"github.com/hooktree/hooktree/pkg/logger"
)

var sanitizeLog = logger.New("stringutil:sanitize")

// Regex patterns for detecting potential secret key names
var (
	// Match uppercase snake_case identifiers that look like secret names (e.g., MY_SECRET_KEY, API_TOKEN)
	secretNamePattern = regexp.MustCompile(`\b([A-Z][A-Z0-9]*_[A-Z0-9_]+)\b`)

	// Match PascalCase identifiers ending with security-related suffixes (e.g., ApiKey, DeploySecret)
	pascalCaseSecretPattern = regexp.MustCompile(`\b([A-Z][a-z0-9]*(?:[A-Z][a-z0-9]*)*(?:Token|Key|Secret|Password|Credential|Auth))\b`)

	// Common non-sensitive keywords to exclude from redaction
	commonSafeKeywords = map[string]bool{
		"PATH":   true,
		"HOME":   true,
		"SHELL":  true,
		"PWD":    true,
		"LANG":   true,
		"TERM":   true,
		"DEBUG":  true,
		"TMPDIR": true,
	}
)

// RedactSecretEnvValue returns "[REDACTED]" when key looks like it names a secret
// (credential, token, password, ...), else returns value unchanged. Used when printing
// a hook's resolved environment in verbose or dry-run output, so secrets configured via
// a hook's env table are never echoed to a terminal or CI log.
func RedactSecretEnvValue(key, value string) string {
	if commonSafeKeywords[key] {
		return value
	}
	if secretNamePattern.MatchString(key) || pascalCaseSecretPattern.MatchString(key) {
		return "[REDACTED]"
	}
	return value
}

// SanitizeErrorMessage removes potential secret key names from error messages to prevent
// information disclosure via logs, redacting secret-looking key names that might appear
// in a hook's stderr output or an executor diagnostic.
func SanitizeErrorMessage(message string) string {
	if message == "" {
		return message
	}

	sanitizeLog.Printf("Sanitizing error message: length=%d", len(message))

	// Redact uppercase snake_case patterns (e.g., MY_SECRET_KEY, API_TOKEN)
	sanitized := secretNamePattern.ReplaceAllStringFunc(message, func(match string) string {
		// Don't redact common safe keywords
		if commonSafeKeywords[match] {
			return match
		}
		sanitizeLog.Printf("Redacted snake_case secret pattern: %s", match)
		return "[REDACTED]"
	})

	// Redact PascalCase patterns ending with security suffixes (e.g., GitHubToken, ApiKey)
	sanitized = pascalCaseSecretPattern.ReplaceAllString(sanitized, "[REDACTED]")

	if sanitized != message {
		sanitizeLog.Print("Error message sanitization applied redactions")
	}

	return sanitized
}
