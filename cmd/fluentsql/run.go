package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/shipq/fluentsql/cli"
	"github.com/shipq/fluentsql/queryfile"
	"github.com/shipq/fluentsql/sqldb"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	DB     string
	Format string // "yaml" | "json"
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <query.yaml>",
		Short: "Run a query file against the database",
		Long: `Run a YAML query file against database.url (or --db) and print the
result. Selects print their rows, aggregates their value, inserts the new
row id and updates and deletes the number of affected rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database URL (overrides database.url)")
	cmd.Flags().StringVar(&opts.Format, "format", "yaml", "output format (yaml|json)")

	return cmd
}

func runQuery(opts *RunOptions, path string, cmd *cobra.Command) error {
	if opts.Format != "yaml" && opts.Format != "json" {
		return fmt.Errorf("invalid format %q: must be yaml or json", opts.Format)
	}

	f, err := queryfile.ReadFile(path)
	if err != nil {
		return cli.QueryFileError("reading query file", err)
	}

	url := opts.DB
	if url == "" {
		url = opts.cfg.Database.URL
	}
	if url == "" {
		return cli.ConfigError("no database configured", fmt.Errorf("set database.url, FLUENTSQL_DATABASE_URL or --db"))
	}

	ctx := cmd.Context()
	db, err := sqldb.Open(ctx, url, opts.logger)
	if err != nil {
		return cli.DBConnectError("connecting to database", err)
	}
	defer db.Close()

	env := opts.env()
	env.Driver = db

	res, err := f.Execute(ctx, env)
	if err != nil {
		return err
	}

	p := printer(cmd)
	switch f.Statement {
	case queryfile.Insert:
		p.Successf("inserted row %d", res.InsertID)
		return nil
	case queryfile.Update, queryfile.Delete:
		p.Successf("%d row(s) affected", res.Affected)
		return nil
	}

	var data []byte
	if opts.Format == "json" {
		data, err = json.MarshalIndent(res, "", "  ")
	} else {
		data, err = yaml.Marshal(res)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
