package section

import "strings"

// Matcher decides whether a line is of interest
type Matcher func(line string) bool

// Contains matches lines containing substr
func Contains(substr string) Matcher {
	return func(line string) bool {
		return strings.Contains(line, substr)
	}
}

// ContainsAll matches lines containing every substring
func ContainsAll(substrs ...string) Matcher {
	return func(line string) bool {
		for _, s := range substrs {
			if !strings.Contains(line, s) {
				return false
			}
		}
		return true
	}
}

// Not inverts m
func Not(m Matcher) Matcher {
	return func(line string) bool {
		return !m(line)
	}
}

// Any matches when at least one matcher does
func Any(ms ...Matcher) Matcher {
	return func(line string) bool {
		for _, m := range ms {
			if m(line) {
				return true
			}
		}
		return false
	}
}

// All matches when every matcher does
func All(ms ...Matcher) Matcher {
	return func(line string) bool {
		for _, m := range ms {
			if !m(line) {
				return false
			}
		}
		return true
	}
}

// ContainsToken matches lines where token appears as a whole word, so the
// entity id 0x12 does not match 0x123.
func ContainsToken(token string) Matcher {
	return func(line string) bool {
		return IndexToken(line, token) >= 0
	}
}

// IndexToken returns the offset of the first whole-word occurrence of token
func IndexToken(s, token string) int {
	if token == "" {
		return -1
	}
	from := 0
	for {
		i := strings.Index(s[from:], token)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(token)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return start
		}
		from = start + 1
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// ItemLine matches "{item" lines that are not commented out
var ItemLine = All(Contains("{item"), Not(Contains(";{item")))

// WeaponLine matches "{weapon" lines that are not commented out
var WeaponLine = All(Contains("{weapon"), Not(Contains(";{weapon")))
