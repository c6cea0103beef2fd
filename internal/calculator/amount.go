package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrAmountTooLarge is returned when the digits of an input do not fit in an int64.
var ErrAmountTooLarge = errors.New("amount too large")

// SanitizeAmount strips every non-digit character from a free-text amount.
// "R 1,250" and "1 250" both become "1250".
func SanitizeAmount(input string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
}

// ParseAmount sanitizes and parses a free-text amount.
// Input with no digits parses as 0; validating that an amount is positive is
// left to the ledger.
func ParseAmount(input string) (int64, error) {
	digits := SanitizeAmount(input)
	if digits == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrAmountTooLarge, input)
	}
	return n, nil
}

// FormatAmount renders an amount with thousands grouping ("18,400").
func FormatAmount(amount int64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", amount)
}

// Initials derives display initials from a name: the first letter of the
// first two words, upper-cased.
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		initials = append(initials, unicode.ToUpper([]rune(word)[0]))
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}
