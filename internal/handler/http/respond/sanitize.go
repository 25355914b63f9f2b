package respond

import (
	"regexp"
)

var (
	// apiKeyPattern matches the key query parameter of browse requests.
	apiKeyPattern = regexp.MustCompile(`\b(key=)[^&\s"]+`)
	// cookiePattern matches Cookie header values echoed in transport errors.
	cookiePattern = regexp.MustCompile(`(?i)(cookie:\s*)[^\r\n"]+`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	return Sanitize(err.Error())
}

// Sanitize masks credentials in s.
func Sanitize(s string) string {
	s = apiKeyPattern.ReplaceAllString(s, "${1}****")
	return cookiePattern.ReplaceAllString(s, "${1}****")
}
