package joborder

import (
	"fmt"
	"strconv"
	"strings"
)

const TicketPrefix = "JO-"

func FormatTicketNumber(id uint64) string {
	return fmt.Sprintf("%s%05d", TicketPrefix, id)
}

// ParseTicketNumber accepts "JO-00042", "jo-42", "JO42" and returns 42.
func ParseTicketNumber(ticket string) (uint64, error) {
	digits, ok := ticketDigits(ticket)
	if !ok || digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTicketNumber, ticket)
	}

	id, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTicketNumber, ticket)
	}
	return id, nil
}

// TicketSearchDigits strips the ticket prefix from a search term and returns the
// remaining digits. Prefixed terms report exact=true; bare digit runs are partial
// matches. ok is false when the term is not ticket-shaped.
func TicketSearchDigits(term string) (digits string, exact bool, ok bool) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return "", false, false
	}

	upper := strings.ToUpper(trimmed)
	prefixed := strings.HasPrefix(upper, "JO")
	digits, ok = ticketDigits(trimmed)
	if !ok || digits == "" {
		return "", false, false
	}
	if prefixed {
		digits = strings.TrimLeft(digits, "0")
		if digits == "" {
			return "", false, false
		}
	}
	return digits, prefixed, true
}

func ticketDigits(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "JO")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "#")
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}
