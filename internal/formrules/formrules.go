// Package formrules holds the quick per-field checks a client runs before it
// lets a user move on. They are advisory; the server schema in dtos is the
// authority and is intentionally stricter in places and looser in others.
package formrules

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[+]?[\d\s\-()]{10,}$`)
)

func Name(v string) bool { return minLen(v, 2) }

func Email(v string) bool { return emailRe.MatchString(strings.TrimSpace(v)) }

// Phone ignores whitespace, then requires at least 10 digits or phone
// punctuation with an optional leading plus.
func Phone(v string) bool {
	return phoneRe.MatchString(stripSpace(v))
}

func Address(v string) bool { return minLen(v, 10) }

func Subject(v string) bool { return minLen(v, 3) }

func Message(v string) bool { return minLen(v, 10) }

func minLen(v string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(v)) >= n
}

func stripSpace(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, v)
}
