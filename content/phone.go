package content

import (
	"strings"
)

// FormatPhone renders ten digit numbers as (xxx) xxx-xxxx and leaves anything else untouched
func FormatPhone(phone string) string {
	digits := PhoneDigits(phone)
	if len(digits) != 10 {
		return phone
	}
	return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:]
}

// PhoneDigits strips everything but digits
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
