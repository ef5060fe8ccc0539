// Package queryfile describes queries as YAML documents and replays them
// onto a query.Builder.
//
//	table: posts
//	select: [id, title]
//	where:
//	  - column: status
//	    value: publish
//	  - or: true
//	    type: nested
//	    conditions:
//	      - {column: views, op: ">", value: 100}
//	      - {type: is_null, column: deleted_at}
//	order_by:
//	  - {column: id, direction: desc}
//	limit: 10
//
// Documents are decoded as YAML 1.2, so keys such as on and values such as
// yes stay strings. Unknown keys are rejected.
package queryfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidFile is returned for documents that cannot be turned into a
// query.
var ErrInvalidFile = errors.New("invalid query file")

// Statement kinds
const (
	Select = "select"
	Insert = "insert"
	Update = "update"
	Delete = "delete"
)

// File is one query document.
type File struct {
	// Statement is select (default), insert, update or delete.
	Statement string      `yaml:"statement"`
	Table     string      `yaml:"table"`
	Alias     string      `yaml:"alias"`
	Select    []string    `yaml:"select"`
	Distinct  bool        `yaml:"distinct"`
	Joins     []Join      `yaml:"joins"`
	Where     []Condition `yaml:"where"`
	GroupBy   []string    `yaml:"group_by"`
	Having    []Condition `yaml:"having"`
	OrderBy   []Order     `yaml:"order_by"`
	Limit     *int        `yaml:"limit"`
	Offset    *int        `yaml:"offset"`
	Aggregate *Aggregate  `yaml:"aggregate"`
	With      []string    `yaml:"with"`
	Relations []Relation  `yaml:"relations"`
	// Values is the column mapping of an insert or update, kept as a node
	// so the document's column order survives.
	Values yaml.Node `yaml:"values"`
}

// Condition is one clause of a where, having or join on list.
type Condition struct {
	// Type is basic (default), column, in, like, between, is_null, raw,
	// nested or exists.
	Type string `yaml:"type"`
	// Name tags the clause so it can be replaced or unset later.
	Name   string `yaml:"name"`
	Or     bool   `yaml:"or"`
	Not    bool   `yaml:"not"`
	Column string `yaml:"column"`
	Op     string `yaml:"op"`
	// Value is left undecoded so that a missing value can be told apart
	// from an explicit null.
	Value yaml.Node `yaml:"value"`
	// Values holds in values, between bounds or raw bindings.
	Values []any `yaml:"values"`
	// Other is the right-hand column of a column comparison.
	Other      string      `yaml:"other"`
	SQL        string      `yaml:"sql"`
	Conditions []Condition `yaml:"conditions"`
	// Query is the subquery of an exists condition.
	Query *File `yaml:"query"`
}

// Join is one joined table. Table may be "table as alias".
type Join struct {
	Type  string      `yaml:"type"`
	Table string      `yaml:"table"`
	On    []Condition `yaml:"on"`
}

type Order struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction"`
	// Raw writes Column verbatim with no direction.
	Raw bool `yaml:"raw"`
}

type Aggregate struct {
	Function string   `yaml:"function"`
	Columns  []string `yaml:"columns"`
}

// Parse decodes a YAML (or JSON) document. Whole numbers decode as int64
// and others as float64 so that they bind as %d and %f.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadFile parses the document at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func (f *File) normalize() error {
	f.Statement = strings.ToLower(f.Statement)
	switch f.Statement {
	case "":
		f.Statement = Select
	case Select, Insert, Update, Delete:
	default:
		return fmt.Errorf("%w: unknown statement %q", ErrInvalidFile, f.Statement)
	}
	if f.Values.Kind != 0 && f.Values.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: values must be a mapping of columns", ErrInvalidFile)
	}
	for _, conds := range [][]Condition{f.Where, f.Having} {
		if err := normalizeConditions(conds); err != nil {
			return err
		}
	}
	for _, j := range f.Joins {
		if err := normalizeConditions(j.On); err != nil {
			return err
		}
	}
	return nil
}

func normalizeConditions(conds []Condition) error {
	for i := range conds {
		c := &conds[i]
		c.Type = strings.ToLower(c.Type)
		for j, v := range c.Values {
			c.Values[j] = number(v)
		}
		if err := normalizeConditions(c.Conditions); err != nil {
			return err
		}
		if c.Query != nil {
			if err := c.Query.normalize(); err != nil {
				return err
			}
		}
	}
	return nil
}

// value decodes the condition's value. ok is false when the document has
// no value key at all.
func (c *Condition) value() (v any, ok bool, err error) {
	if c.Value.Kind == 0 {
		return nil, false, nil
	}
	if err := c.Value.Decode(&v); err != nil {
		return nil, true, fmt.Errorf("%w: value of %q: %v", ErrInvalidFile, c.Column, err)
	}
	return number(v), true, nil
}

func number(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case uint64:
		return float64(n)
	default:
		return v
	}
}
