package notify

import "strings"

// NormalizePhone converts raw form input to E.164 for SMS dispatch.
//
// The rules are deliberately North-America biased, matching how the form has
// always behaved: an input the caller already internationalized with a
// leading "+" passes through untouched; otherwise every non-digit is
// stripped and the remaining digits get a "+1" prefix (a bare 10-digit NANP
// number is the common case).
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "+1" + digits.String()
}
