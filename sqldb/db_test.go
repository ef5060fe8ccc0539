package sqldb_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/fluentsql/dburl"
	"github.com/shipq/fluentsql/query"
	"github.com/shipq/fluentsql/sqldb"
)

const schema = `create table wp_posts (
	id integer primary key autoincrement,
	title text not null,
	status text not null,
	views integer not null default 0,
	rating real
)`

func openTestDB(t *testing.T, logger *slog.Logger) (*sqldb.DB, query.Env) {
	t.Helper()
	ctx := context.Background()

	db, err := sqldb.Open(ctx, "sqlite::memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(ctx, schema, nil)
	require.NoError(t, err)

	return db, query.Env{Driver: db, Resolver: query.NewPrefixResolver("wp_")}
}

func seed(t *testing.T, env query.Env) {
	t.Helper()
	ctx := context.Background()
	posts := []map[string]any{
		{"title": "Hello world", "status": "publish", "views": 10, "rating": 4.5},
		{"title": "Draft notes", "status": "draft", "views": 0, "rating": nil},
		{"title": "Hello again", "status": "publish", "views": 25, "rating": 3.0},
	}
	for _, p := range posts {
		_, err := env.From("posts").Insert(ctx, query.ValuesFromMap(p))
		require.NoError(t, err)
	}
}

func TestInsertGetID(t *testing.T) {
	_, env := openTestDB(t, nil)
	ctx := context.Background()

	id, err := env.From("posts").InsertGetID(ctx, query.Values{
		{Column: "title", Val: "First"},
		{Column: "status", Val: "publish"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = env.From("posts").InsertGetID(ctx, query.Values{
		{Column: "title", Val: "Second"},
		{Column: "status", Val: "draft"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestGet(t *testing.T) {
	_, env := openTestDB(t, nil)
	seed(t, env)
	ctx := context.Background()

	rows, err := env.From("posts").
		Select("title", "views").
		Where("status", "publish").
		OrderByDesc("views").
		Get(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Hello again", rows[0]["title"])
	assert.Equal(t, int64(25), rows[0]["views"])
	assert.Equal(t, "Hello world", rows[1]["title"])
}

func TestGetClauseVariants(t *testing.T) {
	_, env := openTestDB(t, nil)
	seed(t, env)
	ctx := context.Background()

	tests := []struct {
		name  string
		build func(b *query.Builder) *query.Builder
		want  []string
	}{
		{"like", func(b *query.Builder) *query.Builder { return b.WhereLike("title", "Hello%") }, []string{"Hello world", "Hello again"}},
		{"in", func(b *query.Builder) *query.Builder { return b.WhereIn("views", 0, 25) }, []string{"Draft notes", "Hello again"}},
		{"empty in", func(b *query.Builder) *query.Builder { return b.WhereIn("views") }, nil},
		{"between", func(b *query.Builder) *query.Builder { return b.WhereBetween("views", 5, 20) }, []string{"Hello world"}},
		{"null", func(b *query.Builder) *query.Builder { return b.WhereNull("rating") }, []string{"Draft notes"}},
		{"nested or", func(b *query.Builder) *query.Builder {
			return b.Where("status", "draft").OrWhereNested(func(q *query.Builder) {
				q.Where("views", ">", 20).Where("rating", "<", 3.5)
			})
		}, []string{"Draft notes", "Hello again"}},
		{"raw", func(b *query.Builder) *query.Builder { return b.WhereRaw("length(title) = %d", 11) }, []string{"Hello world", "Draft notes", "Hello again"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tt.build(env.From("posts")).OrderBy("id").Get(ctx)
			require.NoError(t, err)
			var titles []string
			for _, r := range rows {
				titles = append(titles, r["title"].(string))
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestFirstAndPagination(t *testing.T) {
	_, env := openTestDB(t, nil)
	seed(t, env)
	ctx := context.Background()

	row, err := env.From("posts").Where("status", "draft").First(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Draft notes", row["title"])

	row, err = env.From("posts").Where("status", "trash").First(ctx)
	require.NoError(t, err)
	assert.Nil(t, row)

	rows, err := env.From("posts").OrderBy("id").Pagination(ctx, 2, 2, 2, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hello again", rows[0]["title"])
}

func TestAggregates(t *testing.T) {
	_, env := openTestDB(t, nil)
	seed(t, env)
	ctx := context.Background()

	count, err := env.From("posts").Where("status", "publish").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	sum, err := env.From("posts").Sum(ctx, "views")
	require.NoError(t, err)
	assert.Equal(t, int64(35), sum)

	sum, err = env.From("posts").Where("status", "trash").Sum(ctx, "views")
	require.NoError(t, err)
	assert.Equal(t, 0, sum)

	maxRating, err := env.From("posts").Max(ctx, "rating")
	require.NoError(t, err)
	assert.Equal(t, 4.5, maxRating)
}

func TestUpdate(t *testing.T) {
	_, env := openTestDB(t, nil)
	seed(t, env)
	ctx := context.Background()

	n, err := env.From("posts").Where("status", "publish").Update(ctx, query.Values{{Column: "views", Val: 100}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	sum, err := env.From("posts").Sum(ctx, "views")
	require.NoError(t, err)
	assert.Equal(t, int64(200), sum)
}

func TestWithTx(t *testing.T) {
	db, env := openTestDB(t, nil)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := db.WithTx(ctx, func(tx *sqldb.DB) error {
		txEnv := env
		txEnv.Driver = tx
		if _, err := txEnv.From("posts").Insert(ctx, query.Values{
			{Column: "title", Val: "Rolled back"},
			{Column: "status", Val: "draft"},
		}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	count, err := env.From("posts").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	err = db.WithTx(ctx, func(tx *sqldb.DB) error {
		txEnv := env
		txEnv.Driver = tx
		_, err := txEnv.From("posts").Insert(ctx, query.Values{
			{Column: "title", Val: "Committed"},
			{Column: "status", Val: "publish"},
		})
		return err
	})
	require.NoError(t, err)

	count, err = env.From("posts").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTxKeepsDialectAndSwapsQuerier(t *testing.T) {
	db, _ := openTestDB(t, nil)
	assert.Equal(t, dburl.DialectSQLite, db.Dialect())
	assert.IsType(t, &sql.DB{}, db.Querier())

	err := db.WithTx(context.Background(), func(tx *sqldb.DB) error {
		assert.Equal(t, dburl.DialectSQLite, tx.Dialect())
		assert.IsType(t, &sql.Tx{}, tx.Querier())
		return nil
	})
	require.NoError(t, err)
}

func TestPrepared(t *testing.T) {
	_, env := openTestDB(t, nil)

	sql, err := env.From("posts").Where("title", "it's").Where("views", ">", 3).Prepared()
	require.NoError(t, err)
	assert.Equal(t, "select * from wp_posts as posts where title = 'it''s' and views > 3", sql)
}

func TestStatementLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, env := openTestDB(t, logger)

	_, err := env.From("posts").Where("id", 1).Get(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"sql":"select * from wp_posts as posts where id = ?"`)
	assert.Contains(t, buf.String(), `"statement_id":`)

	buf.Reset()
	_, err = env.From("missing").Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestBindingMismatch(t *testing.T) {
	db, _ := openTestDB(t, nil)
	_, err := db.Query(context.Background(), "select %s", nil)
	assert.ErrorIs(t, err, sqldb.ErrBindingMismatch)
}
