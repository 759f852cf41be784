package auth

import (
	"regexp"
	"strings"

	"scribbly/internal/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail validates an address and folds it to canonical form:
// everything lowercased, and for Gmail addresses the dots and +suffix in
// the local part are removed (a.b+c@googlemail.com == ab@gmail.com).
// New accounts always store the normalized form; login additionally
// retries the raw form for accounts that predate normalization.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return "", utils.NewValidationError("Invalid email format")
	}

	email = strings.ToLower(email)

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]

	if domain == "googlemail.com" {
		domain = "gmail.com"
	}
	if domain == "gmail.com" {
		if plus := strings.Index(local, "+"); plus != -1 {
			local = local[:plus]
		}
		local = strings.ReplaceAll(local, ".", "")
		if local == "" {
			return "", utils.NewValidationError("Invalid email format")
		}
	}

	return local + "@" + domain, nil
}
