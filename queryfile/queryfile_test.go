package queryfile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/fluentsql/query"
	"github.com/shipq/fluentsql/queryfile"
	"github.com/shipq/fluentsql/sqldb"
)

func wp() query.Env {
	return query.Env{Resolver: query.NewPrefixResolver("wp_")}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		sql      string
		bindings []any
	}{
		{
			name:     "basic where",
			doc:      "table: posts\nselect: [id, title]\nwhere:\n  - {column: status, value: publish}\n  - {column: views, op: '>=', value: 100}\n",
			sql:      "select id, title from wp_posts as posts where status = %s and views >= %d",
			bindings: []any{"publish", int64(100)},
		},
		{
			name: "nested and null",
			doc: `
table: posts
where:
  - column: status
    value: publish
  - or: true
    type: nested
    conditions:
      - {column: rating, op: ">", value: 4.5}
      - {type: is_null, column: deleted_at}
`,
			sql:      "select * from wp_posts as posts where status = %s or (rating > %f and deleted_at is null)",
			bindings: []any{"publish", 4.5},
		},
		{
			name:     "in between like",
			doc:      "table: posts\nwhere:\n  - {type: in, column: id, values: [1, 2, 3]}\n  - {type: between, not: true, column: views, values: [10, 20]}\n  - {type: like, or: true, column: title, value: 'Hello%'}\n",
			sql:      "select * from wp_posts as posts where id in (%d, %d, %d) and views not between %d and %d or title like %s",
			bindings: []any{int64(1), int64(2), int64(3), int64(10), int64(20), "Hello%"},
		},
		{
			name:     "column and raw",
			doc:      "table: posts\nwhere:\n  - {type: column, column: updated_at, op: '>', other: created_at}\n  - {type: raw, sql: 'year(created_at) = %d', values: [2024]}\n",
			sql:      "select * from wp_posts as posts where updated_at > created_at and year(created_at) = %d",
			bindings: []any{int64(2024)},
		},
		{
			name: "join with on conditions",
			doc: `
table: posts
joins:
  - type: left
    table: comments as c
    on:
      - {type: column, column: c.post_id, other: posts.id}
      - {column: c.approved, value: 1}
where:
  - {column: posts.status, value: publish}
`,
			sql:      "select * from wp_posts as posts left join wp_comments as c on c.post_id = posts.id and c.approved = %d where posts.status = %s",
			bindings: []any{int64(1), "publish"},
		},
		{
			name: "exists subquery",
			doc: `
table: posts
where:
  - type: exists
    not: true
    query:
      table: comments
      where:
        - {type: column, column: comments.post_id, other: posts.id}
`,
			sql:      "select * from wp_posts as posts where not exists (select * from wp_comments as comments where comments.post_id = posts.id)",
			bindings: []any{},
		},
		{
			name:     "group having order limit",
			doc:      "table: posts\nselect: [author_id]\ngroup_by: [author_id]\nhaving:\n  - {type: raw, sql: 'count(*) > %d', values: [5]}\norder_by:\n  - {column: author_id, direction: DESC}\nlimit: 10\noffset: 20\n",
			sql:      "select author_id from wp_posts as posts group by author_id having count(*) > %d order by author_id desc limit %d offset %d",
			bindings: []any{int64(5), 10, 20},
		},
		{
			name:     "aggregate",
			doc:      "table: posts\naggregate: {function: COUNT}\nwhere:\n  - {column: status, value: draft}\n",
			sql:      "select count(*) as aggregate from wp_posts as posts where status = %s",
			bindings: []any{"draft"},
		},
		{
			name:     "insert",
			doc:      "statement: insert\ntable: posts\nvalues: {title: Hi, views: 3, rating: 1.5, parent_id: null}\n",
			sql:      "insert into wp_posts (title, views, rating, parent_id) values (%s, %d, %f, null)",
			bindings: []any{"Hi", int64(3), 1.5},
		},
		{
			name:     "update",
			doc:      "statement: update\ntable: posts\nvalues: {status: trash}\nwhere:\n  - {column: id, value: 7}\n",
			sql:      "update wp_posts set status = %s where id = %d",
			bindings: []any{"trash", int64(7)},
		},
		{
			name:     "delete",
			doc:      "statement: delete\ntable: posts\nwhere:\n  - {column: id, value: 7}\n",
			sql:      "delete posts from wp_posts as posts  where id = %d",
			bindings: []any{int64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := queryfile.Parse([]byte(tt.doc))
			require.NoError(t, err)

			sql, bindings, err := f.Compile(wp())
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.bindings, bindings)
		})
	}
}

func TestNamedCondition(t *testing.T) {
	f, err := queryfile.Parse([]byte("table: posts\nwhere:\n  - {name: status, column: status, value: publish}\n  - {column: id, value: 1}\n"))
	require.NoError(t, err)

	b, err := f.Build(wp())
	require.NoError(t, err)
	b.Named("status").Where("status", "draft")

	sql, bindings, err := b.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from wp_posts as posts where status = %s and id = %d", sql)
	assert.Equal(t, []any{"draft", int64(1)}, bindings)
}

func TestInvalidFiles(t *testing.T) {
	tests := map[string]string{
		"no table":          "where: []\n",
		"unknown statement": "statement: merge\ntable: posts\n",
		"unknown type":      "table: posts\nwhere:\n  - {type: regex, column: a}\n",
		"between arity":     "table: posts\nwhere:\n  - {type: between, column: a, values: [1]}\n",
		"exists no query":   "table: posts\nwhere:\n  - {type: exists}\n",
		"bad yaml":          "table: [posts\n",
		"no value":          "table: posts\nwhere:\n  - {column: a}\n",
		"like no value":     "table: posts\nwhere:\n  - {type: like, column: a}\n",
		"unquoted null":     "table: posts\nwhere:\n  - {type: null, column: a}\n",
		"unknown key":       "table: posts\nwehre: []\n",
		"unknown on key":    "table: posts\njoins:\n  - table: users\n    on:\n      - {column: a, valeu: 1}\n",
		"values list":       "statement: insert\ntable: posts\nvalues: [a, b]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := queryfile.Parse([]byte(doc))
			if err == nil {
				_, _, err = f.Compile(wp())
			}
			assert.ErrorIs(t, err, queryfile.ErrInvalidFile)
		})
	}
}

func TestBuilderErrorsSurface(t *testing.T) {
	f, err := queryfile.Parse([]byte("table: posts\norder_by:\n  - {column: id, direction: sideways}\n"))
	require.NoError(t, err)

	_, err = f.Build(wp())
	assert.ErrorIs(t, err, query.ErrInvalidArgument)
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	db, err := sqldb.Open(ctx, "sqlite::memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(ctx, "create table wp_posts (id integer primary key, title text, views integer)", nil)
	require.NoError(t, err)

	env := wp()
	env.Driver = db

	run := func(doc string) *queryfile.Result {
		t.Helper()
		f, err := queryfile.Parse([]byte(doc))
		require.NoError(t, err)
		res, err := f.Execute(ctx, env)
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, int64(1), run("statement: insert\ntable: posts\nvalues: {title: a, views: 5}\n").InsertID)
	assert.Equal(t, int64(2), run("statement: insert\ntable: posts\nvalues: {title: b, views: 7}\n").InsertID)
	assert.Equal(t, int64(1), run("statement: update\ntable: posts\nvalues: {views: 9}\nwhere:\n  - {column: id, value: 1}\n").Affected)
	assert.Equal(t, int64(16), run("table: posts\naggregate: {function: sum, columns: [views]}\n").Aggregate)

	rows := run("table: posts\nselect: [title]\norder_by:\n  - {column: id, direction: desc}\n").Rows
	assert.Equal(t, []query.Row{{"title": "b"}, {"title": "a"}}, rows)
}

func TestExecuteLoadsDeclaredRelations(t *testing.T) {
	ctx := context.Background()
	db, err := sqldb.Open(ctx, "sqlite::memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range []string{
		"create table posts (id integer primary key, title text)",
		"create table notes (id integer primary key, post_id integer, body text)",
		"insert into posts (id, title) values (1, 'a'), (2, 'b')",
		"insert into notes (id, post_id, body) values (1, 2, 'x')",
	} {
		_, err := db.Exec(ctx, stmt, nil)
		require.NoError(t, err)
	}

	f, err := queryfile.Parse([]byte(`
table: posts
order_by: [{column: id}]
with: [remarks]
relations:
  - {name: remarks, table: notes}
`))
	require.NoError(t, err)

	res, err := f.Execute(ctx, query.Env{Driver: db})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []query.Row{}, res.Rows[0]["remarks"])
	assert.Equal(t, []query.Row{{"id": int64(1), "post_id": int64(2), "body": "x"}}, res.Rows[1]["remarks"])
}

func TestRegistryErrors(t *testing.T) {
	tests := map[string]string{
		"no name":      "table: posts\nrelations: [{kind: has_many}]\n",
		"bad kind":     "table: posts\nrelations: [{name: tags, kind: many_many}]\n",
		"half of keys": "table: posts\nrelations: [{name: tags, parent_key: id}]\n",
		"no pivot":     "table: posts\nrelations: [{name: tags, kind: belongs_to_many}]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := queryfile.Parse([]byte(doc))
			require.NoError(t, err)
			_, err = f.Registry()
			assert.ErrorIs(t, err, queryfile.ErrInvalidFile)
		})
	}
}

func TestConditionTypesPerFamily(t *testing.T) {
	conditions := []struct {
		name     string
		cond     string
		sql      string
		bindings []any
	}{
		{"basic", "{or: true, column: a, op: '>=', value: 1.5}", "a >= %f", []any{1.5}},
		{"basic not", "{type: basic, or: true, not: true, column: a, value: x}", "not a = %s", []any{"x"}},
		{"basic null value", "{or: true, column: a, op: '<>', value: null}", "a <> null", nil},
		{"column", "{type: column, or: true, column: a, op: '<', other: b}", "a < b", nil},
		{"in", "{type: in, or: true, not: true, column: a, values: [1, 2.5, x]}", "a not in (%d, %f, %s)", []any{int64(1), 2.5, "x"}},
		{"empty in", "{type: in, or: true, column: a, values: []}", "0 = 1", nil},
		{"like", "{type: like, or: true, not: true, column: a, value: 'x%'}", "a not like %s", []any{"x%"}},
		{"between", "{type: between, or: true, column: a, values: [1, 9]}", "a between %d and %d", []any{int64(1), int64(9)}},
		{"is_null", "{type: is_null, or: true, not: true, column: a}", "a is not null", nil},
		{"quoted null", `{type: "null", or: true, column: a}`, "a is null", nil},
		{"raw", "{type: raw, or: true, sql: 'a & %d = %d', values: [4, 4]}", "a & %d = %d", []any{int64(4), int64(4)}},
		{"nested", "{type: nested, or: true, conditions: [{column: b, value: 2}, {type: is_null, or: true, column: c}]}", "(b = %d or c is null)", []any{int64(2)}},
		{
			"exists",
			"{type: exists, or: true, not: true, query: {table: comments, where: [{type: column, column: comments.post_id, other: posts.id}]}}",
			"not exists (select * from wp_comments as comments where comments.post_id = posts.id)",
			nil,
		},
	}

	families := []struct {
		name   string
		doc    func(lines string) string
		prefix string
	}{
		{"where", func(l string) string { return "table: posts\nwhere:\n" + l }, "select * from wp_posts as posts where "},
		{"having", func(l string) string { return "table: posts\nhaving:\n" + l }, "select * from wp_posts as posts having "},
		{"on", func(l string) string { return "table: posts\njoins:\n  - table: users\n    on:\n" + l }, "select * from wp_posts as posts inner join wp_users as users on "},
	}

	for _, fam := range families {
		for _, tt := range conditions {
			t.Run(fam.name+"/"+tt.name, func(t *testing.T) {
				indent := "  "
				if fam.name == "on" {
					indent = "      "
				}
				lines := indent + "- {column: k, value: 0}\n" + indent + "- " + tt.cond + "\n"

				f, err := queryfile.Parse([]byte(fam.doc(lines)))
				require.NoError(t, err)
				sql, bindings, err := f.Compile(wp())
				require.NoError(t, err)

				assert.Equal(t, fam.prefix+"k = %d or "+tt.sql, sql)
				assert.Equal(t, append([]any{int64(0)}, tt.bindings...), bindings)
			})
		}
	}
}

func TestValuesKeepDocumentOrder(t *testing.T) {
	f, err := queryfile.Parse([]byte("statement: update\ntable: posts\nvalues:\n  title: x\n  status: draft\n  author_id: 2\nwhere:\n  - {column: id, value: 1}\n"))
	require.NoError(t, err)

	sql, bindings, err := f.Compile(wp())
	require.NoError(t, err)
	assert.Equal(t, "update wp_posts set title = %s, status = %s, author_id = %d where id = %d", sql)
	assert.Equal(t, []any{"x", "draft", int64(2), int64(1)}, bindings)
}

func TestYAMLKeywordsStayStrings(t *testing.T) {
	f, err := queryfile.Parse([]byte("table: posts\nwhere:\n  - {column: flag, value: yes}\n  - {column: mode, value: on}\n"))
	require.NoError(t, err)

	_, bindings, err := f.Compile(wp())
	require.NoError(t, err)
	assert.Equal(t, []any{"yes", "on"}, bindings)
}

func TestExecuteLoadsBelongsToMany(t *testing.T) {
	ctx := context.Background()
	db, err := sqldb.Open(ctx, "sqlite::memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range []string{
		"create table posts (id integer primary key, title text)",
		"create table labels (id integer primary key, name text)",
		"create table post_label (post_id integer, label_id integer)",
		"insert into posts (id, title) values (1, 'a'), (2, 'b')",
		"insert into labels (id, name) values (1, 'go')",
		"insert into post_label (post_id, label_id) values (2, 1)",
	} {
		_, err := db.Exec(ctx, stmt, nil)
		require.NoError(t, err)
	}

	f, err := queryfile.Parse([]byte(`
table: posts
order_by: [{column: id}]
with: [labels]
relations:
  - {name: labels, kind: belongs_to_many, pivot: post_label, foreign_pivot_key: post_id, local_pivot_key: label_id}
`))
	require.NoError(t, err)

	res, err := f.Execute(ctx, query.Env{Driver: db})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []query.Row{}, res.Rows[0]["labels"])
	assert.Equal(t, []query.Row{{"id": int64(1), "name": "go"}}, res.Rows[1]["labels"])
}
