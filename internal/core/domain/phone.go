package domain

import (
	"regexp"
	"strings"
)

var (
	formattedNational = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)
	formattedIntl     = regexp.MustCompile(`^\+1 \(\d{3}\) \d{3}-\d{4}$`)
	nonDigit          = regexp.MustCompile(`\D`)
)

// FormatPhoneNumber renders a North American number for display. Inputs that
// are already formatted, too short, or of an unknown shape are returned as-is.
func FormatPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}
	if formattedNational.MatchString(phone) || formattedIntl.MatchString(phone) {
		return phone
	}

	hasCountryCode := strings.HasPrefix(phone, "+1")
	digits := nonDigit.ReplaceAllString(phone, "")
	if len(digits) < 10 {
		return phone
	}

	switch {
	case len(digits) == 11 && digits[0] == '1':
		return "+1 " + national(digits[1:])
	case hasCountryCode && len(digits) == 10:
		return "+1 " + national(digits)
	case len(digits) == 10:
		return national(digits)
	default:
		return phone
	}
}

func national(d string) string {
	return "(" + d[0:3] + ") " + d[3:6] + "-" + d[6:10]
}
