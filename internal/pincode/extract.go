package pincode

import (
	"regexp"
	"time"
)

// Netflix codes expire quickly; 15 minutes matches the lifetime stated in the emails.
const CodeValidityWindow = 15 * time.Minute

// Keyword-anchored pattern: the code follows a phrase naming it. Netflix codes are 4 to 8 digits.
var keywordPattern = regexp.MustCompile(`(?im)(?:sign.?in code|verification code|access code)[^\d\n]*(\d{4,8})`)

// Standalone token on its own line, the way plain-text bodies render the code as a block.
var standalonePattern = regexp.MustCompile(`(?m)^\s*(\d{4,8})\s*$`)

// Extract returns the first PIN token found in body, exactly as it appears.
// A missing token is an expected outcome (code already used, email not yet
// arrived) and is reported through ok, never as an error.
func Extract(body string) (code string, ok bool) {
	if m := keywordPattern.FindStringSubmatch(body); m != nil {
		return m[1], true
	}
	if m := standalonePattern.FindStringSubmatch(body); m != nil {
		return m[1], true
	}
	return "", false
}

// IsExpired reports whether a code sent at sentAt has outlived the validity
// window at now, along with the remaining lifetime (negative once expired).
// A zero sentAt counts as expired since the lifetime cannot be established.
func IsExpired(sentAt, now time.Time) (bool, time.Duration) {
	if sentAt.IsZero() {
		return true, 0
	}
	remaining := CodeValidityWindow - now.Sub(sentAt)
	return remaining < 0, remaining
}
