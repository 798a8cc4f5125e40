package pipeline

import (
	"strings"
	"unicode"
)

// maxReasonRunes caps stored decision reasons.
const maxReasonRunes = 2000

// SanitizeReason strips control characters and whitespace-trims the
// given reason, capping it at maxReasonRunes. Reasons are mandatory
// for rejections, so an empty result gates the transition itself.
func SanitizeReason(reason string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' {
			return -1
		}
		return r
	}, reason)

	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > maxReasonRunes {
		cleaned = string(runes[:maxReasonRunes])
	}
	return cleaned
}

// requireReason sanitizes and rejects empty-after-sanitization reasons.
func requireReason(reason string) (string, error) {
	cleaned := SanitizeReason(reason)
	if cleaned == "" {
		return "", &ValidationError{Field: "reason", Reason: "must not be empty"}
	}
	return cleaned, nil
}
