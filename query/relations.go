package query

import (
	"context"
	"fmt"
	"strings"
)

// Relation is one eager-load request. Query is the builder used to load
// the related rows; relations nested below this one are registered on it.
type Relation struct {
	Name  string
	Query *Builder
}

// RelationLoader loads the relations of rows fetched from table and
// attaches the related data to each row.
type RelationLoader interface {
	Load(ctx context.Context, table string, rows []Row, relations []*Relation) error
}

// CountKeys describes a has-many relation for WithCount: rows of Table
// whose ForeignKey equals the parent's LocalKey.
type CountKeys struct {
	Table      string
	ForeignKey string
	LocalKey   string
}

// RelationCounter is implemented by loaders that can describe has-many
// relations for WithCount.
type RelationCounter interface {
	CountKeys(table, relation string) (CountKeys, error)
}

// WithCount adds the number of related rows of a has-many relation as a
// column. relation is "name" or "name as key"; the key defaults to
// name_count. The count comes from a grouped left join, so parents without
// related rows count 0. fn may constrain the joined query.
//
//	WithCount("comments as total_comments")
//	// select posts.*, coalesce(total_comments_count.total_comments, 0) as total_comments
//	// from posts as posts left join (select total_comments_count.post_id, count(*) as total_comments
//	// from comments as total_comments_count group by total_comments_count.post_id) as total_comments_count
//	// on total_comments_count.post_id = posts.id
func (b *Builder) WithCount(relation string, fn ...func(j *JoinClause)) *Builder {
	name, key := splitAlias(relation)
	if key == "" {
		key = name + "_count"
	}
	counter, ok := b.env.Loader.(RelationCounter)
	if !ok {
		b.failf("with count %q: relation loader cannot count relations", name)
		return b
	}
	keys, err := counter.CountKeys(b.name, name)
	if err != nil {
		b.fail(fmt.Errorf("with count %q: %w", name, err))
		return b
	}

	as := key + "_count"
	if len(b.columns) == 0 {
		b.columns = []string{b.alias + ".*"}
	}
	b.columns = append(b.columns, fmt.Sprintf("coalesce(%s.%s, 0) as %s", as, key, key))

	return b.LeftJoinFunc(keys.Table+" as "+as, func(j *JoinClause) {
		fk := as + "." + keys.ForeignKey
		j.OnColumn(fk, "=", b.alias+"."+keys.LocalKey)
		j.Select(fk, "count(*) as "+key)
		j.GroupBy(fk)
		for _, f := range fn {
			f(j)
		}
	})
}

// With registers dot-separated relation paths to load after Get.
//
//	With("posts", "posts.comments", "profile")
func (b *Builder) With(paths ...string) *Builder {
	for _, path := range paths {
		b.relationPath(path)
	}
	return b
}

// WithFunc registers path and lets fn constrain the query of its last
// segment.
func (b *Builder) WithFunc(path string, fn func(q *Builder)) *Builder {
	if r := b.relationPath(path); r != nil {
		fn(r.Query)
		b.adopt(r.Query)
	}
	return b
}

// relationPath walks path, creating nodes as needed, and returns the node
// of its last segment.
func (b *Builder) relationPath(path string) *Relation {
	var last *Relation
	node := b
	for _, name := range strings.Split(path, ".") {
		name = strings.TrimSpace(name)
		if name == "" {
			b.failf("empty segment in relation path %q", path)
			return nil
		}
		last = node.relation(name)
		node = last.Query
	}
	return last
}

func (b *Builder) relation(name string) *Relation {
	for _, r := range b.relations {
		if r.Name == name {
			return r
		}
	}
	r := &Relation{Name: name, Query: b.child()}
	b.relations = append(b.relations, r)
	return r
}

// Relations returns the top-level relations registered with With.
func (b *Builder) Relations() []*Relation {
	return b.relations
}

// Name returns the logical table name given to From.
func (b *Builder) Name() string { return b.name }
