package query_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shipq/fluentsql/query"
)

func TestPrefixResolver(t *testing.T) {
	r := &query.PrefixResolver{
		Prefix:     "wp_2_",
		BasePrefix: "wp_",
		Network:    query.DefaultNetworkTables,
	}

	tests := []struct {
		in, want string
	}{
		{"posts", "wp_2_posts"},
		{"postmeta", "wp_2_postmeta"},
		{"users", "wp_users"},
		{"usermeta", "wp_usermeta"},
		{"blogs", "wp_blogs"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Table(tt.in), tt.in)
	}

	assert.Equal(t, []string{"wp_2_posts", "wp_users"}, r.Tables("posts", "users"))
}

func TestPrefixResolverSetNetworkTables(t *testing.T) {
	r := query.NewPrefixResolver("site_")
	r.BasePrefix = "net_"
	assert.Equal(t, "net_users", r.Table("users"))

	r.SetNetworkTables("options")
	assert.Equal(t, "site_users", r.Table("users"))
	assert.Equal(t, "net_options", r.Table("options"))
}

func TestPrefixResolverWithoutBasePrefix(t *testing.T) {
	r := query.NewPrefixResolver("wp_")
	assert.Equal(t, "wp_users", r.Table("users"))
	assert.Equal(t, "wp_posts", r.Table("posts"))
}

func TestResolverUsedForJoins(t *testing.T) {
	env := query.Env{Resolver: query.ResolverFunc(strings.ToUpper)}
	sql, _, err := env.From("posts").Join("users as u", "u.id", "=", "posts.author_id").ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "select * from POSTS as posts inner join USERS as u on u.id = posts.author_id", sql)
}

func TestNoResolverKeepsNames(t *testing.T) {
	sql, _, err := query.New(query.Env{}).From("posts").ToSQL()
	assert.NoError(t, err)
	assert.Equal(t, "select * from posts as posts", sql)
}
