package phone

import (
	"errors"
	"strings"
)

// ErrInvalidFormat is returned when a phone number does not reduce to a
// 10-digit US subscriber number.
var ErrInvalidFormat = errors.New("invalid phone number format")

// Format renders raw input as a display string, as typed into the signup
// field: "(555) 123-4567" or "1 (555) 123-4567" with a country code.
//
// Country-code detection is sticky: prev is the previously formatted value,
// and once its digits started with a leading 1 the prefix is preserved even
// when an edit removes it from the front of the new input. The local part
// is capped at 10 digits.
func Format(prev, input string) string {
	digits := digitsOnly(input)
	if digits == "" {
		return ""
	}

	hasCountryCode := digits[0] == '1' || strings.HasPrefix(digitsOnly(prev), "1")
	if hasCountryCode && digits[0] != '1' {
		digits = "1" + digits
	}

	max := 10
	if hasCountryCode {
		max = 11
	}
	if len(digits) > max {
		digits = digits[:max]
	}

	local := digits
	var b strings.Builder
	if hasCountryCode {
		local = digits[1:]
		if local == "" {
			return "1"
		}
		b.WriteString("1 ")
	}

	switch {
	case len(local) <= 3:
		b.WriteString("(")
		b.WriteString(local)
	case len(local) <= 6:
		b.WriteString("(")
		b.WriteString(local[:3])
		b.WriteString(") ")
		b.WriteString(local[3:])
	default:
		b.WriteString("(")
		b.WriteString(local[:3])
		b.WriteString(") ")
		b.WriteString(local[3:6])
		b.WriteString("-")
		b.WriteString(local[6:])
	}
	return b.String()
}

// Normalize reduces a display or raw phone string to its canonical
// 10-digit key, dropping a leading country-code 1 from 11-digit input.
func Normalize(raw string) (string, error) {
	digits := digitsOnly(raw)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", ErrInvalidFormat
	}
	return digits, nil
}

// ToE164 renders a phone string in international-dialing form for the SMS
// gateway: 10-digit keys get a +1 prefix, anything else a bare + prefix.
func ToE164(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) == 10 {
		return "+1" + digits
	}
	return "+" + digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
