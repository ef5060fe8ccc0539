package query

import "slices"

// Resolver maps a logical table name to its physical name.
type Resolver interface {
	Table(name string) string
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) string

func (f ResolverFunc) Table(name string) string { return f(name) }

func resolveTable(r Resolver, name string) string {
	if r == nil {
		return name
	}
	return r.Table(name)
}

// DefaultNetworkTables are the tables shared by every site of a network and
// therefore resolved with the base prefix.
var DefaultNetworkTables = []string{
	"blogs", "blogmeta", "signups", "site", "sitemeta", "sitecategories",
	"registration_log", "users", "usermeta",
}

// PrefixResolver prefixes table names. Network tables get BasePrefix,
// all others get Prefix. When BasePrefix is empty, Prefix is used for
// both.
type PrefixResolver struct {
	Prefix     string
	BasePrefix string
	Network    []string
}

// NewPrefixResolver returns a resolver using prefix for every table and
// the default network table list.
func NewPrefixResolver(prefix string) *PrefixResolver {
	return &PrefixResolver{
		Prefix:  prefix,
		Network: slices.Clone(DefaultNetworkTables),
	}
}

// SetNetworkTables replaces the list of tables resolved with BasePrefix.
func (r *PrefixResolver) SetNetworkTables(tables ...string) {
	r.Network = slices.Clone(tables)
}

// Table returns the prefixed name of table.
func (r *PrefixResolver) Table(table string) string {
	if slices.Contains(r.Network, table) {
		base := r.BasePrefix
		if base == "" {
			base = r.Prefix
		}
		return base + table
	}
	return r.Prefix + table
}

// Tables resolves several names at once, preserving order.
func (r *PrefixResolver) Tables(tables ...string) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = r.Table(t)
	}
	return out
}
