// Package relation eager-loads related rows for query builders.
//
// A Registry describes how tables relate and implements query.RelationLoader:
//
//	reg := relation.NewRegistry().
//		HasMany("posts", "comments").
//		BelongsTo("posts", "author", relation.Table("users")).
//		BelongsToMany("posts", "tags", "post_tag", "post_id", "tag_id")
//	env := query.Env{Driver: db, Loader: reg}
//	rows, err := env.From("posts").With("comments", "author").Get(ctx)
//
// Each relation costs one query per level regardless of the number of
// parent rows, two for BelongsToMany (pivot, then related rows).
package relation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jinzhu/inflection"

	"github.com/shipq/fluentsql/query"
)

// ErrUnknownRelation is returned when With names a relation the registry
// does not define for the parent table.
var ErrUnknownRelation = errors.New("unknown relation")

// ErrNotCountable is returned by CountKeys for relations other than
// HasMany.
var ErrNotCountable = errors.New("relation cannot be counted")

// Kind is the cardinality of a relation.
type Kind int

const (
	HasMany Kind = iota
	HasOne
	BelongsTo
	BelongsToMany
)

func (k Kind) String() string {
	switch k {
	case HasMany:
		return "has_many"
	case HasOne:
		return "has_one"
	case BelongsTo:
		return "belongs_to"
	case BelongsToMany:
		return "belongs_to_many"
	default:
		return "unknown"
	}
}

// keyClause names the where clause that restricts related rows to the
// parent keys, so that repeated loads replace it instead of stacking.
const keyClause = "relation_keys"

// Definition describes one relation of a parent table.
type Definition struct {
	Kind Kind
	// Table is the logical name of the related table.
	Table string
	// ParentKey is the column of parent rows matched against RelatedKey.
	ParentKey string
	// RelatedKey is the column of related rows filtered by the parent keys.
	RelatedKey string

	// Pivot is the link table of a BelongsToMany relation.
	// ForeignPivotKey holds the parent key and LocalPivotKey the related
	// key.
	Pivot           string
	ForeignPivotKey string
	LocalPivotKey   string
}

// Option overrides an inferred part of a Definition.
type Option func(*Definition)

// Table sets the related table.
func Table(name string) Option {
	return func(d *Definition) { d.Table = name }
}

// Keys sets the parent and related key columns.
func Keys(parentKey, relatedKey string) Option {
	return func(d *Definition) {
		d.ParentKey = parentKey
		d.RelatedKey = relatedKey
	}
}

// Registry maps parent tables to their relations. It is safe for
// concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]map[string]Definition
}

var (
	_ query.RelationLoader  = (*Registry)(nil)
	_ query.RelationCounter = (*Registry)(nil)
)

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]map[string]Definition)}
}

// HasMany registers name as a list of related rows. By default the related
// table is name and its foreign key is the singular parent table plus
// "_id" (posts -> post_id), matched against the parent's id.
func (r *Registry) HasMany(parent, name string, opts ...Option) *Registry {
	return r.define(parent, name, Definition{
		Kind:       HasMany,
		Table:      name,
		ParentKey:  "id",
		RelatedKey: inflection.Singular(parent) + "_id",
	}, opts)
}

// HasOne registers name as a single related row owned by the parent. The
// related table defaults to the plural of name.
func (r *Registry) HasOne(parent, name string, opts ...Option) *Registry {
	return r.define(parent, name, Definition{
		Kind:       HasOne,
		Table:      inflection.Plural(name),
		ParentKey:  "id",
		RelatedKey: inflection.Singular(parent) + "_id",
	}, opts)
}

// BelongsTo registers name as the row the parent points at through its
// name+"_id" column. The related table defaults to the plural of name.
func (r *Registry) BelongsTo(parent, name string, opts ...Option) *Registry {
	return r.define(parent, name, Definition{
		Kind:       BelongsTo,
		Table:      inflection.Plural(name),
		ParentKey:  name + "_id",
		RelatedKey: "id",
	}, opts)
}

// BelongsToMany registers name as the rows linked to the parent through
// the pivot table. foreignPivotKey is the pivot column holding the
// parent's id and localPivotKey the one holding the related row's id.
// The related table defaults to name.
//
//	BelongsToMany("users", "roles", "role_user", "user_id", "role_id")
func (r *Registry) BelongsToMany(parent, name, pivot, foreignPivotKey, localPivotKey string, opts ...Option) *Registry {
	return r.define(parent, name, Definition{
		Kind:            BelongsToMany,
		Table:           name,
		ParentKey:       "id",
		RelatedKey:      "id",
		Pivot:           pivot,
		ForeignPivotKey: foreignPivotKey,
		LocalPivotKey:   localPivotKey,
	}, opts)
}

func (r *Registry) define(parent, name string, def Definition, opts []Option) *Registry {
	for _, opt := range opts {
		opt(&def)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defs[parent] == nil {
		r.defs[parent] = make(map[string]Definition)
	}
	r.defs[parent][name] = def
	return r
}

// Lookup returns the definition of relation name on parent.
func (r *Registry) Lookup(parent, name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[parent][name]
	return def, ok
}

// CountKeys implements query.RelationCounter for HasMany relations.
func (r *Registry) CountKeys(parent, name string) (query.CountKeys, error) {
	def, ok := r.Lookup(parent, name)
	if !ok {
		return query.CountKeys{}, fmt.Errorf("%w: %s.%s", ErrUnknownRelation, parent, name)
	}
	if def.Kind != HasMany {
		return query.CountKeys{}, fmt.Errorf("%w: %s.%s is %s", ErrNotCountable, parent, name, def.Kind)
	}
	return query.CountKeys{Table: def.Table, ForeignKey: def.RelatedKey, LocalKey: def.ParentKey}, nil
}

// Load implements query.RelationLoader. Related rows are attached to each
// parent row under the relation name: a []query.Row for HasMany and
// BelongsToMany, and a query.Row or nil otherwise. Nested relations are loaded by the related
// query's own Get.
func (r *Registry) Load(ctx context.Context, table string, rows []query.Row, relations []*query.Relation) error {
	for _, rel := range relations {
		def, ok := r.Lookup(table, rel.Name)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownRelation, table, rel.Name)
		}
		if err := r.load(ctx, def, rows, rel); err != nil {
			return fmt.Errorf("load %s.%s: %w", table, rel.Name, err)
		}
	}
	return nil
}

func (r *Registry) load(ctx context.Context, def Definition, rows []query.Row, rel *query.Relation) error {
	if def.Kind == BelongsToMany {
		return loadPivot(ctx, def, rows, rel)
	}
	keys := parentKeys(rows, def.ParentKey)

	var related []query.Row
	if len(keys) > 0 {
		q := rel.Query.From(def.Table)
		q.Named(keyClause).WhereIn(def.RelatedKey, keys...)
		var err error
		if related, err = q.Get(ctx); err != nil {
			return err
		}
	}

	byKey := make(map[string][]query.Row, len(related))
	for _, row := range related {
		k := keyString(row[def.RelatedKey])
		byKey[k] = append(byKey[k], row)
	}

	for _, row := range rows {
		var matches []query.Row
		if v, ok := row[def.ParentKey]; ok && v != nil {
			matches = byKey[keyString(v)]
		}
		if def.Kind == HasMany {
			if matches == nil {
				matches = []query.Row{}
			}
			row[rel.Name] = matches
			continue
		}
		if len(matches) > 0 {
			row[rel.Name] = matches[0]
		} else {
			row[rel.Name] = nil
		}
	}
	return nil
}

// loadPivot reads the pivot rows of the parents, then the related rows
// they point at, and attaches them in pivot order.
func loadPivot(ctx context.Context, def Definition, rows []query.Row, rel *query.Relation) error {
	keys := parentKeys(rows, def.ParentKey)

	links := make(map[string][]string)
	var relatedKeys []any
	if len(keys) > 0 {
		pivots, err := rel.Query.Env().
			From(def.Pivot).
			Select(def.ForeignPivotKey, def.LocalPivotKey).
			WhereIn(def.ForeignPivotKey, keys...).
			Get(ctx)
		if err != nil {
			return fmt.Errorf("pivot %s: %w", def.Pivot, err)
		}
		relatedKeys = parentKeys(pivots, def.LocalPivotKey)
		for _, p := range pivots {
			parent := keyString(p[def.ForeignPivotKey])
			links[parent] = append(links[parent], keyString(p[def.LocalPivotKey]))
		}
	}

	var related []query.Row
	if len(relatedKeys) > 0 {
		q := rel.Query.From(def.Table)
		q.Named(keyClause).WhereIn(def.RelatedKey, relatedKeys...)
		var err error
		if related, err = q.Get(ctx); err != nil {
			return err
		}
	}

	byKey := make(map[string]query.Row, len(related))
	for _, row := range related {
		byKey[keyString(row[def.RelatedKey])] = row
	}

	for _, row := range rows {
		matches := []query.Row{}
		if v, ok := row[def.ParentKey]; ok && v != nil {
			for _, k := range links[keyString(v)] {
				if m, ok := byKey[k]; ok {
					matches = append(matches, m)
				}
			}
		}
		row[rel.Name] = matches
	}
	return nil
}

// parentKeys returns the distinct non-nil values of column in first-seen
// order.
func parentKeys(rows []query.Row, column string) []any {
	seen := make(map[string]bool, len(rows))
	var keys []any
	for _, row := range rows {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}
		k := keyString(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, v)
	}
	return keys
}

// Drivers disagree on whether integer keys come back as int64 or string,
// so keys are compared by their printed form.
func keyString(v any) string {
	return fmt.Sprint(v)
}
