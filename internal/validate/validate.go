package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rePrice = regexp.MustCompile(`^[1-9][0-9]{0,4}$`)
	reUser  = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,16}$`)
	reQ     = regexp.MustCompile(`^[A-Za-z0-9 _'-]{1,50}$`)
)

// ID parses a positive numeric resource id (item/purchase/user ids).
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 50
}

func Description(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 1000
}

// Price accepts whole minor-unit amounts 1..99999.
func Price(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !rePrice.MatchString(s) {
		return 0, false
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n, true
}

// Qty parses a requested quantity, 1..9999.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 9999 {
		return 0, false
	}
	return n, true
}

// Q validates a search query: trims, enforces allowed characters and max length.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUser.MatchString(s)
}

// Password enforces 8-64 chars containing both letters and digits.
func Password(s string) bool {
	if len(s) < 8 || len(s) > 64 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
			hasLetter = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func Rating(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

func Content(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 2000
}
