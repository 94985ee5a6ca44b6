package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"cartify/internal/domain"
)

var (
	rePhone    = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,16}[0-9]$`)
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reCategory = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 &,'-]{0,39}$`)
)

// Phone validates a contact number: digits with optional leading + and
// space or dash separators.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// maxQuery is the search length kept, in runes.
const maxQuery = 50

// Q validates a search query: trims, rejects control characters and invalid
// UTF-8, and cuts it to maxQuery runes.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !utf8.ValidString(s) {
		return "", false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", false
		}
	}
	if r := []rune(s); len(r) > maxQuery {
		s = strings.TrimSpace(string(r[:maxQuery]))
	}
	return s, true
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// ID validates a simple resource identifier (product/application ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Text validates free text up to max bytes; empty is allowed.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= max
}

// Address validates a shipping address.
func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 200
}

// CategoryName validates a category label.
func CategoryName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reCategory.MatchString(s)
}

// Password enforces the strength rule for new accounts.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// Role validates a self-service account role. Admin accounts are not
// created through registration.
func Role(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return domain.RoleCustomer, true
	case domain.RoleCustomer, domain.RoleSeller, domain.RoleDelivery:
		return s, true
	}
	return "", false
}

// AppRole validates the role of a partner application.
func AppRole(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, s == domain.RoleSeller || s == domain.RoleDelivery
}

// AppStatus validates an admin decision on an application.
func AppStatus(s string) (domain.ApplicationStatus, bool) {
	st := domain.ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st == domain.StatusApproved || st == domain.StatusRejected
}

// Money parses a non-negative amount.
func Money(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

// Count parses a non-negative integer.
func Count(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
