package proptest

import "time"

const (
	charsetAlphaLower = "abcdefghijklmnopqrstuvwxyz"
	charsetDigits     = "0123456789"
	charsetText       = charsetAlphaLower + charsetDigits + " _-'%"
)

// OneOf returns one of values.
func OneOf[T any](g *Generator, values ...T) T {
	return values[g.Intn(len(values))]
}

// SliceN returns between minLen and maxLen values produced by gen.
func SliceN[T any](g *Generator, minLen, maxLen int, gen func(*Generator) T) []T {
	n := g.IntRange(minLen, maxLen)
	out := make([]T, n)
	for i := range out {
		out[i] = gen(g)
	}
	return out
}

// IdentifierLower returns a lowercase SQL identifier of length [1, maxLen].
func (g *Generator) IdentifierLower(maxLen int) string {
	length := g.IntRange(1, max(1, maxLen))

	const start = charsetAlphaLower + "_"
	const body = charsetAlphaLower + charsetDigits + "_"

	b := make([]byte, length)
	b[0] = start[g.Intn(len(start))]
	for i := 1; i < length; i++ {
		b[i] = body[g.Intn(len(body))]
	}
	return string(b)
}

// Text returns a string of length [0, maxLen] that may contain quotes and
// percent signs.
func (g *Generator) Text(maxLen int) string {
	length := g.IntRange(0, maxLen)
	b := make([]byte, length)
	for i := range b {
		b[i] = charsetText[g.Intn(len(charsetText))]
	}
	return string(b)
}

// BindValue returns a value of a type the compiler binds: int, int64,
// bool, float64, string, time.Time or nil.
func (g *Generator) BindValue() any {
	switch g.Intn(7) {
	case 0:
		return g.IntRange(-1000, 1000)
	case 1:
		return int64(g.IntRange(0, 1<<30))
	case 2:
		return g.Bool()
	case 3:
		return g.Float64Range(-100, 100)
	case 4:
		return g.Text(12)
	case 5:
		return time.Date(2000+g.Intn(30), time.Month(1+g.Intn(12)), 1+g.Intn(28), g.Intn(24), g.Intn(60), g.Intn(60), 0, time.UTC)
	default:
		return nil
	}
}

// NonNilBindValue is BindValue without nil.
func (g *Generator) NonNilBindValue() any {
	for {
		if v := g.BindValue(); v != nil {
			return v
		}
	}
}
