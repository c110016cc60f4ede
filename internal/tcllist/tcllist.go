// Package tcllist reads and writes brace-quoted lists: whitespace separated
// elements where an element holding whitespace or braces is wrapped in a
// balanced pair of braces. Backslash and double-quote quoting are not
// supported.
package tcllist

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrSyntax is returned for an unbalanced or malformed list.
var ErrSyntax = errors.New("list syntax error")

// Split returns the elements of list with one level of braces removed.
func Split(list string) ([]string, error) {
	var elems []string
	i := 0
	for {
		for i < len(list) && isSpace(list[i]) {
			i++
		}
		if i == len(list) {
			return elems, nil
		}

		switch list[i] {
		case '{':
			start := i + 1
			depth := 1
			i++
			for ; i < len(list) && depth > 0; i++ {
				switch list[i] {
				case '{':
					depth++
				case '}':
					depth--
				}
			}
			if depth > 0 {
				return nil, errors.Wrapf(ErrSyntax, "unmatched open brace at offset %d", start-1)
			}
			if i < len(list) && !isSpace(list[i]) {
				return nil, errors.Wrapf(ErrSyntax, "list element in braces followed by %q instead of space", list[i])
			}
			elems = append(elems, list[start:i-1])
		case '}':
			return nil, errors.Wrapf(ErrSyntax, "unmatched close brace at offset %d", i)
		default:
			start := i
			for i < len(list) && !isSpace(list[i]) {
				if list[i] == '{' || list[i] == '}' {
					return nil, errors.Wrapf(ErrSyntax, "brace inside bare element at offset %d", i)
				}
				i++
			}
			elems = append(elems, list[start:i])
		}
	}
}

// Join formats elems as a list. Elements must have balanced braces.
func Join(elems []string) string {
	var b strings.Builder
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(Quote(e))
	}
	return b.String()
}

// Quote returns e as a single list element.
func Quote(e string) string {
	if e == "" || strings.ContainsAny(e, " \t\n\r{}") {
		return "{" + e + "}"
	}
	return e
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
