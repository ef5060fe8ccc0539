package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/shipq/fluentsql/cli"
	"github.com/shipq/fluentsql/queryfile"
	"github.com/shipq/fluentsql/sqldb"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Prepared bool
	Watch    bool
	Format   string // "text" | "json"
}

// compiled is the json form of a compiled query.
type compiled struct {
	SQL      string `json:"sql"`
	Bindings []any  `json:"bindings"`
	Prepared string `json:"prepared,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <query.yaml>",
		Short: "Compile a query file to SQL and bindings",
		Long: `Compile a YAML query file to SQL with %s/%d/%f placeholders and the
ordered list of values bound to them.

With --prepared the values are substituted into the statement instead.
With --watch the file is recompiled every time it changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
			}
			if opts.Watch {
				return watchCompile(cmd.Context(), opts, args[0], cmd)
			}
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Prepared, "prepared", false, "substitute bindings into the statement")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "recompile when the file changes")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	f, err := queryfile.ReadFile(path)
	if err != nil {
		return cli.QueryFileError("reading query file", err)
	}
	sql, bindings, err := f.Compile(opts.env())
	if err != nil {
		return cli.QueryFileError("compiling "+path, err)
	}

	out := compiled{SQL: sql, Bindings: bindings}
	if opts.Prepared {
		if out.Prepared, err = sqldb.Interpolate(sql, bindings); err != nil {
			return err
		}
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	p := printer(cmd)
	if opts.Prepared {
		p.Info(out.Prepared)
		return nil
	}
	data, err := json.Marshal(bindings)
	if err != nil {
		return err
	}
	p.Info(sql)
	p.Infof("bindings: %s", data)
	return nil
}

// watchCompile compiles path once and again after every write until ctx is
// done. Compile errors while watching are reported and do not stop the
// watch.
func watchCompile(ctx context.Context, opts *CompileOptions, path string, cmd *cobra.Command) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Editors often replace the file rather than write it, so the directory
	// is watched and events are filtered by name.
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	p := printer(cmd)
	compile := func() {
		if err := runCompile(opts, path, cmd); err != nil {
			p.Warnf("%v", err)
		}
	}
	compile()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			opts.logger.Debug("query file changed", "path", ev.Name, "op", ev.Op.String())
			compile()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
