package logger

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// RedactContact masks a contact value for safe logging.
// Emails keep their domain: "john.doe@example.com" → "jo***@example.com";
// local parts of 2 characters or fewer are fully masked. Any other value
// (phone numbers, profile URLs) keeps only its first two characters.
func RedactContact(value string) string {
	if at := strings.Index(value, "@"); at >= 0 && strings.Count(value, "@") == 1 {
		name, dom := value[:at], value[at+1:]
		if len(name) > 2 {
			return name[:2] + "***@" + dom
		}
		return "***@" + dom
	}
	if len(value) > 2 {
		return value[:2] + "***"
	}
	return "***"
}
