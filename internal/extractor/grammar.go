// internal/extractor/grammar.go
package extractor

import "bytes"

// validate checks in[start:end] against the candidate grammar. colons holds
// the top-level ':' offsets separating variants from the utility. utility is
// the offset of the bare utility when the candidate has variants, -1 otherwise.
func validate(in []byte, start, end int, colons []int) (utility int, ok bool) {
	prev := start
	for _, c := range colons {
		if !validVariant(in[prev:c]) {
			return -1, false
		}
		prev = c + 1
	}
	if !validUtility(in[prev:end]) {
		return -1, false
	}
	if len(colons) == 0 {
		return -1, true
	}
	return prev, true
}

func validVariant(s []byte) bool {
	switch {
	case len(s) == 0:
		return false
	case string(s) == "*" || string(s) == "**":
		return true
	case s[0] == '[':
		return len(s) > 2 && matchBracket(s, 0) == len(s)-1
	default:
		return validNamed(s)
	}
}

func validUtility(s []byte) bool {
	important := false
	if len(s) > 0 && s[0] == '!' {
		important = true
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '!' {
		if important {
			return false
		}
		s = s[:len(s)-1]
	}

	negative := false
	if len(s) > 0 && s[0] == '-' {
		negative = true
		s = s[1:]
	}

	switch {
	case len(s) == 0:
		return false
	case s[0] == '[':
		return !negative && validArbitraryProperty(s)
	default:
		return validNamed(s)
	}
}

// validNamed accepts a root like "text-red-500", "p-1.5" or "@container",
// optionally ending in an arbitrary value ("-[...]" or "-(--var)") and a
// "/modifier".
func validNamed(s []byte) bool {
	hasLetter := false
	i := 0
	if s[0] == '@' {
		i = 1
	}
	identStart := i

	for i < len(s) {
		c := s[i]
		switch {
		case isLetter(c):
			hasLetter = true
		case isDigit(c) || c == '_':
		case c == '-':
			if i == identStart || s[i-1] == '-' {
				return false
			}
			if i+1 < len(s) && (s[i+1] == '[' || s[i+1] == '(') {
				end := matchBracket(s, i+1)
				if end < 0 || end == i+2 {
					return false
				}
				if s[i+1] == '(' && !bytes.HasPrefix(s[i+2:], []byte("--")) {
					return false
				}
				return hasLetter && validTail(s[end+1:])
			}
		case c == '.':
			if i == identStart || !isDigit(s[i-1]) || i+1 >= len(s) || !isDigit(s[i+1]) {
				return false
			}
		case c == '/':
			return hasLetter && i > identStart && identEnd(s[i-1]) && validModifier(s[i+1:])
		default:
			return false
		}
		i++
	}

	return hasLetter && i > identStart && identEnd(s[len(s)-1])
}

func identEnd(c byte) bool {
	return c != '-' && c != '_'
}

func validTail(s []byte) bool {
	if len(s) == 0 {
		return true
	}
	return s[0] == '/' && validModifier(s[1:])
}

func validModifier(s []byte) bool {
	if len(s) == 0 {
		return false
	}
	if s[0] == '[' || s[0] == '(' {
		return len(s) > 2 && matchBracket(s, 0) == len(s)-1
	}
	for _, c := range s {
		if !isAlnum(c) && c != '-' && c != '_' && c != '.' {
			return false
		}
	}
	return true
}

// validArbitraryProperty accepts "[property:value]" with an optional modifier.
func validArbitraryProperty(s []byte) bool {
	end := matchBracket(s, 0)
	if end < 0 {
		return false
	}
	inner := s[1:end]
	colon := bytes.IndexByte(inner, ':')
	if colon <= 0 || colon == len(inner)-1 {
		return false
	}
	if !validPropertyName(inner[:colon]) {
		return false
	}
	return validTail(s[end+1:])
}

func validPropertyName(s []byte) bool {
	if bytes.HasPrefix(s, []byte("--")) {
		s = s[2:]
		if len(s) == 0 {
			return false
		}
	} else if !isLetter(s[0]) {
		return false
	}
	for _, c := range s {
		if !isAlnum(c) && c != '-' && c != '_' {
			return false
		}
	}
	return true
}
