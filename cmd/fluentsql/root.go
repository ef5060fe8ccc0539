package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shipq/fluentsql/cli"
	"github.com/shipq/fluentsql/internal/config"
	"github.com/shipq/fluentsql/logging"
	"github.com/shipq/fluentsql/query"
)

// RootOptions holds global flags and the state loaded before each command.
type RootOptions struct {
	ConfigFile string

	cfg        *config.Config
	configPath string
	logger     *slog.Logger
}

// env returns the builder collaborators described by the config.
func (o *RootOptions) env() query.Env {
	return query.Env{Resolver: o.cfg.Resolver()}
}

func printer(cmd *cobra.Command) cli.Printer {
	return cli.Printer{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fluentsql",
		Short: "Compile and run YAML query files",
		Long: `fluentsql - fluent SQL query builder

Query files describe a select, insert, update or delete in YAML. fluentsql
compiles them to SQL with %s/%d/%f placeholders and ordered bindings, or
runs them against the configured database.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			opts.cfg, opts.configPath, err = config.Load(dir, opts.ConfigFile)
			if err != nil {
				return cli.ConfigError("loading configuration", err)
			}
			opts.logger, err = logging.New(cmd.ErrOrStderr(), opts.cfg.Log.Format, opts.cfg.Log.Level)
			if err != nil {
				return cli.ConfigError("configuring logger", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: fluentsql.yaml in the working directory)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}
