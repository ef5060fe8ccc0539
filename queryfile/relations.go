package queryfile

import (
	"fmt"
	"strings"

	"github.com/shipq/fluentsql/relation"
)

// Relation declares one relation used by the file's with paths.
//
//	relations:
//	  - {name: comments}                                  # posts has many comments
//	  - {name: author, kind: belongs_to, table: users}
//	  - {parent: users, name: profile, kind: has_one}
//	  - {name: tags, kind: belongs_to_many, pivot: post_tag, foreign_pivot_key: post_id, local_pivot_key: tag_id}
type Relation struct {
	// Parent defaults to the file's table.
	Parent string `yaml:"parent"`
	Name   string `yaml:"name"`
	// Kind is has_many (default), has_one, belongs_to or belongs_to_many.
	Kind       string `yaml:"kind"`
	Table      string `yaml:"table"`
	ParentKey  string `yaml:"parent_key"`
	RelatedKey string `yaml:"related_key"`
	// Pivot and its keys describe a belongs_to_many link table.
	Pivot           string `yaml:"pivot"`
	ForeignPivotKey string `yaml:"foreign_pivot_key"`
	LocalPivotKey   string `yaml:"local_pivot_key"`
}

// Registry builds a relation registry from the file's relations. It
// returns nil when the file declares none.
func (f *File) Registry() (*relation.Registry, error) {
	if len(f.Relations) == 0 {
		return nil, nil
	}

	reg := relation.NewRegistry()
	for _, r := range f.Relations {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: relation without name", ErrInvalidFile)
		}
		parent := r.Parent
		if parent == "" {
			parent = f.Table
		}

		var opts []relation.Option
		if r.Table != "" {
			opts = append(opts, relation.Table(r.Table))
		}
		if r.ParentKey != "" || r.RelatedKey != "" {
			if r.ParentKey == "" || r.RelatedKey == "" {
				return nil, fmt.Errorf("%w: relation %s needs both parent_key and related_key", ErrInvalidFile, r.Name)
			}
			opts = append(opts, relation.Keys(r.ParentKey, r.RelatedKey))
		}

		switch strings.ToLower(r.Kind) {
		case "", "has_many":
			reg.HasMany(parent, r.Name, opts...)
		case "has_one":
			reg.HasOne(parent, r.Name, opts...)
		case "belongs_to":
			reg.BelongsTo(parent, r.Name, opts...)
		case "belongs_to_many":
			if r.Pivot == "" || r.ForeignPivotKey == "" || r.LocalPivotKey == "" {
				return nil, fmt.Errorf("%w: relation %s needs pivot, foreign_pivot_key and local_pivot_key", ErrInvalidFile, r.Name)
			}
			reg.BelongsToMany(parent, r.Name, r.Pivot, r.ForeignPivotKey, r.LocalPivotKey, opts...)
		default:
			return nil, fmt.Errorf("%w: unknown relation kind %q", ErrInvalidFile, r.Kind)
		}
	}
	return reg, nil
}
