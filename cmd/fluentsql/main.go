// Command fluentsql compiles YAML query files to SQL and runs them.
//
// Usage:
//
//	fluentsql compile [--prepared] [--watch] [--format text|json] <query.yaml>
//	fluentsql run [--db URL] [--format yaml|json] <query.yaml>
//	fluentsql config show [--source]
//	fluentsql version
//
// Configuration comes from fluentsql.yaml and FLUENTSQL_* environment
// variables.
package main

import (
	"github.com/shipq/fluentsql/cli"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		cli.FatalErr(err)
	}
}
