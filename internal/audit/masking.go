package audit

import (
	"strings"
	"unicode"
)

// sensitiveFields maps field names to their masking strategy. Downstream
// consumers of audit events (logs, UI, SIEM) must never see these in clear.
var sensitiveFields = map[string]func(string) string{
	"iban":            MaskIBAN,
	"bic":             maskKeepLast4,
	"document_number": maskKeepLast4,
	"policy_number":   maskKeepLast4,
}

// MaskFields returns a copy of the field map with sensitive values masked.
// Non-sensitive values pass through untouched.
func MaskFields(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for name, value := range fields {
		if mask, ok := sensitiveFields[name]; ok {
			out[name] = mask(value)
		} else {
			out[name] = value
		}
	}
	return out
}

// MaskIBAN shows the first four and last four characters of an IBAN,
// enough to identify country and account tail without exposing the number.
func MaskIBAN(iban string) string {
	s := strings.ToUpper(stripSpaces(iban))
	if s == "" {
		return ""
	}
	if len(s) <= 10 {
		return maskKeepLast4(s)
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

// MaskValue keeps the last keep characters of a value, masking the rest.
// Values no longer than keep are fully masked.
func MaskValue(value string, keep int) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-keep) + s[len(s)-keep:]
}

func maskKeepLast4(value string) string {
	return MaskValue(value, 4)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
