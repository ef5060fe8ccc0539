package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/fluentsql/dburl"
)

func TestRebind(t *testing.T) {
	stmt := "select * from t as t where a = %s and b = %d and c like '100%%' and d = %f"

	tests := []struct {
		dialect string
		want    string
	}{
		{dburl.DialectMySQL, "select * from t as t where a = ? and b = ? and c like '100%' and d = ?"},
		{dburl.DialectSQLite, "select * from t as t where a = ? and b = ? and c like '100%' and d = ?"},
		{dburl.DialectPostgres, "select * from t as t where a = $1 and b = $2 and c like '100%' and d = $3"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			got, n := Rebind(tt.dialect, stmt)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 3, n)
		})
	}
}

func TestRebindLeavesOtherPercentSequences(t *testing.T) {
	got, n := Rebind(dburl.DialectMySQL, "select 5 %x 2, 7 % 3 from t%")
	assert.Equal(t, "select 5 %x 2, 7 % 3 from t%", got)
	assert.Zero(t, n)
}

func TestInterpolate(t *testing.T) {
	got, err := Interpolate(
		"select * from t as t where a = %s and b = %d and c = %d and d = %f and e in (%s, %s) and f like '%%x'",
		[]any{"it's", 42, true, 1.25, []byte("raw"), "b"},
	)
	require.NoError(t, err)
	assert.Equal(t, "select * from t as t where a = 'it''s' and b = 42 and c = 1 and d = 1.25 and e in ('raw', 'b') and f like '%x'", got)
}

func TestInterpolateMismatch(t *testing.T) {
	_, err := Interpolate("a = %s and b = %s", []any{"x"})
	assert.ErrorIs(t, err, ErrBindingMismatch)

	_, err = Interpolate("a = %s", []any{"x", "y"})
	assert.ErrorIs(t, err, ErrBindingMismatch)
}
