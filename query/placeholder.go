package query

import (
	"database/sql/driver"
	"reflect"
	"time"
)

// Placeholder tokens emitted by the compiler. The driver binds values
// positionally against them.
const (
	IntPlaceholder    = "%d"
	FloatPlaceholder  = "%f"
	StringPlaceholder = "%s"

	// NullLiteral is written in place of a placeholder for nil values.
	NullLiteral = "null"
)

// TimeLayout is the format used when binding time.Time values.
const TimeLayout = "2006-01-02 15:04:05"

// Placeholder returns the token for v and the value to bind in its place.
// bind is false for nil, in which case the token is NullLiteral.
//
//	integers, bools -> %d
//	floats          -> %f
//	everything else -> %s
func Placeholder(v any) (token string, value any, bind bool) {
	switch t := v.(type) {
	case nil:
		return NullLiteral, nil, false
	case time.Time:
		return StringPlaceholder, t.Format(TimeLayout), true
	case *time.Time:
		if t == nil {
			return NullLiteral, nil, false
		}
		return StringPlaceholder, t.Format(TimeLayout), true
	case driver.Valuer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return NullLiteral, nil, false
		}
		inner, err := t.Value()
		if err != nil {
			return StringPlaceholder, v, true
		}
		return Placeholder(inner)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NullLiteral, nil, false
		}
		return Placeholder(rv.Elem().Interface())
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return IntPlaceholder, v, true
	case reflect.Float32, reflect.Float64:
		return FloatPlaceholder, v, true
	default:
		return StringPlaceholder, v, true
	}
}
