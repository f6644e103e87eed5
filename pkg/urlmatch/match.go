package urlmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode selects how a link target is compared against the current location.
type Mode int

const (
	// MatchExact requires the current location to equal the target,
	// with trailing-slash tolerance. This is the default.
	MatchExact Mode = iota

	// MatchPrefix additionally accepts any location nested under the
	// target on a segment boundary.
	MatchPrefix
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// Matches reports whether current should be considered active for target.
// Both arguments are absolute URLs; target is empty when the link has no
// destination, in which case the result is always false.
//
// The rules, in order:
//
//  1. Case-insensitive equality -> true.
//  2. current is exactly one character shorter than target, target ends
//     with "/", and target starts with current -> true. The reverse does
//     not hold: a location WITH a trailing slash never matches a target
//     without one (unless rule 1 applies).
//  3. In MatchPrefix mode, current is strictly longer than target, starts
//     with target, and the join point falls on a segment boundary: the
//     last character of target or the first character of current past the
//     prefix is non-alphanumeric. This keeps "/abc" from matching
//     "/abcdef" while still matching "/abc/def", and lets "/abc/" match
//     "/abc/def".
//
// The function is pure and performs no I/O.
func Matches(current, target string, mode Mode) bool {
	if target == "" {
		return false
	}
	if strings.EqualFold(current, target) {
		return true
	}
	if equalExceptTrailingSlash(current, target) {
		return true
	}
	if mode == MatchPrefix && isPrefixOnBoundary(current, target) {
		return true
	}
	return false
}

// equalExceptTrailingSlash reports whether current equals target minus a
// trailing slash. Only the target side may carry the extra slash.
func equalExceptTrailingSlash(current, target string) bool {
	return len(current) == len(target)-1 &&
		strings.HasSuffix(target, "/") &&
		strings.EqualFold(target[:len(target)-1], current)
}

// isPrefixOnBoundary reports whether current extends target past a
// segment boundary.
func isPrefixOnBoundary(current, target string) bool {
	if len(current) <= len(target) {
		return false
	}
	if !strings.EqualFold(current[:len(target)], target) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(target)
	next, _ := utf8.DecodeRuneInString(current[len(target):])
	return !isAlphanumeric(last) || !isAlphanumeric(next)
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
