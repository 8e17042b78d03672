package exprguard

import (
	"fmt"
	"strings"
	"unicode"
)

// Validate restricts guards to plain boolean comparisons over applicant
// fields. Structural syntax, arithmetic and function calls are rejected so
// a rule document cannot smuggle computation into the matcher.
func Validate(guard string) error {
	guard = strings.TrimSpace(guard)
	if guard == "" {
		return nil
	}

	for _, ch := range []rune{'{', '}', '[', ']', ';', ':', '?', '@', '#', '$', '\\'} {
		if strings.ContainsRune(guard, ch) {
			return fmt.Errorf("illegal character %q", ch)
		}
	}

	if strings.Contains(guard, ".") {
		return fmt.Errorf("dot access is not allowed")
	}

	for _, op := range []string{"+", "-", "*", "/", "%"} {
		if strings.Contains(guard, op) {
			return fmt.Errorf("arithmetic operator %q is not allowed", op)
		}
	}

	if ident := callIdent(guard); ident != "" {
		return fmt.Errorf("function calls are not allowed (found %q(...))", ident)
	}

	return nil
}

// callIdent returns the identifier preceding an opening parenthesis, if any.
func callIdent(s string) string {
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '(' {
			continue
		}
		j := i - 1
		for j >= 0 && unicode.IsSpace(rune(s[j])) {
			j--
		}
		if j < 0 || !(unicode.IsLetter(rune(s[j])) || s[j] == '_') {
			continue
		}
		k := j
		for k >= 0 && (unicode.IsLetter(rune(s[k])) || unicode.IsDigit(rune(s[k])) || s[k] == '_') {
			k--
		}
		if ident := strings.TrimSpace(s[k+1 : j+1]); ident != "" {
			return ident
		}
	}
	return ""
}
