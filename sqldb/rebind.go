package sqldb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shipq/fluentsql/dburl"
)

// ErrBindingMismatch is returned when the number of placeholders in a
// statement differs from the number of arguments.
var ErrBindingMismatch = errors.New("placeholder count does not match arguments")

// Rebind rewrites the %s, %d and %f placeholders of a compiled statement
// into the bind markers of dialect ("$1".."$n" for postgres, "?" otherwise)
// and turns %% into a literal percent sign. Any other % sequence is copied
// through unchanged. It returns the rewritten statement and the number of
// placeholders it found.
func Rebind(dialect, stmt string) (string, int) {
	var b strings.Builder
	b.Grow(len(stmt))
	n := 0
	for i := 0; i < len(stmt); i++ {
		ch := stmt[i]
		if ch != '%' || i+1 == len(stmt) {
			b.WriteByte(ch)
			continue
		}
		switch stmt[i+1] {
		case 's', 'd', 'f':
			n++
			if dialect == dburl.DialectPostgres {
				b.WriteByte('$')
				b.WriteString(strconv.Itoa(n))
			} else {
				b.WriteByte('?')
			}
			i++
		case '%':
			b.WriteByte('%')
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return b.String(), n
}

// Interpolate substitutes args into the placeholders of stmt, quoting and
// escaping strings. The result is meant for logs and display, not for
// execution.
func Interpolate(stmt string, args []any) (string, error) {
	var b strings.Builder
	n := 0
	for i := 0; i < len(stmt); i++ {
		ch := stmt[i]
		if ch != '%' || i+1 == len(stmt) {
			b.WriteByte(ch)
			continue
		}
		verb := stmt[i+1]
		switch verb {
		case 's', 'd', 'f':
			if n >= len(args) {
				return "", fmt.Errorf("%w: more than %d placeholders", ErrBindingMismatch, len(args))
			}
			b.WriteString(literal(verb, args[n]))
			n++
			i++
		case '%':
			b.WriteByte('%')
			i++
		default:
			b.WriteByte(ch)
		}
	}
	if n != len(args) {
		return "", fmt.Errorf("%w: %d placeholders, %d arguments", ErrBindingMismatch, n, len(args))
	}
	return b.String(), nil
}

func literal(verb byte, v any) string {
	switch verb {
	case 'd':
		switch t := v.(type) {
		case bool:
			if t {
				return "1"
			}
			return "0"
		default:
			return fmt.Sprintf("%d", v)
		}
	case 'f':
		switch t := v.(type) {
		case float32:
			return strconv.FormatFloat(float64(t), 'f', -1, 32)
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		default:
			return fmt.Sprintf("%v", v)
		}
	}

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case time.Time:
		s = t.Format(time.DateTime)
	default:
		s = fmt.Sprint(v)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
