// Package sanitize normalizes free-form user input before it reaches storage
// and validates credentials at signup.
package sanitize

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended when Truncate shortens input.
const TruncationMarker = "..."

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	usernameRe = regexp.MustCompile(`^\w{2,20}$`)
	letterRe   = regexp.MustCompile(`[A-Za-z]`)
	digitRe    = regexp.MustCompile(`\d`)
	symbolRe   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Patterns too common to allow anywhere inside a password.
var commonPasswordPatterns = []string{
	"password", "12345", "qwerty", "admin", "welcome", "abcdef", "abc123",
}

// Clean HTML-escapes input, trims it, and collapses runs of whitespace.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	return spaceRe.ReplaceAllString(strings.TrimSpace(html.EscapeString(s)), " ")
}

// Truncate caps s at max runes, replacing the tail with the truncation marker.
// Operates on runes so multibyte input is never cut mid-character.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	keep := max - len(TruncationMarker)
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + TruncationMarker
}

// ValidUsername reports whether name is 2-20 word characters.
func ValidUsername(name string) bool {
	return usernameRe.MatchString(name)
}

// CheckPassword validates password strength: at least 8 characters with a
// letter, a digit and a symbol, and none of the common throwaway patterns.
func CheckPassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if !letterRe.MatchString(password) {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !digitRe.MatchString(password) {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !symbolRe.MatchString(password) {
		return fmt.Errorf("password must contain at least one symbol")
	}
	lower := strings.ToLower(password)
	for _, p := range commonPasswordPatterns {
		if strings.Contains(lower, p) {
			return fmt.Errorf("password contains a common pattern")
		}
	}
	return nil
}
