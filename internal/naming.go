package internal

import "strings"

const (
	maxNameLength   = 40
	nameTruncateAt  = 37
	nameEllipsis    = "..."
	defaultConvName = "New Conversation"
)

// DeriveName builds a short display name from the first user message of a
// conversation. Whitespace runs are collapsed, the first sentence is
// preferred over the full message, and the result is capped at 40
// characters. A message with no usable text yields "New Conversation".
func DeriveName(firstMessage string) string {
	collapsed := strings.Join(strings.Fields(firstMessage), " ")

	candidate := collapsed
	if strings.ContainsAny(collapsed, ".!?") {
		candidate = ""
		for _, segment := range strings.FieldsFunc(collapsed, func(r rune) bool {
			return r == '.' || r == '!' || r == '?'
		}) {
			if s := strings.TrimSpace(segment); s != "" {
				candidate = s
				break
			}
		}
	}

	if candidate == "" {
		return defaultConvName
	}

	runes := []rune(candidate)
	if len(runes) > maxNameLength {
		candidate = string(runes[:nameTruncateAt]) + nameEllipsis
	}

	return candidate
}
