package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(opts *RootOptions) *cobra.Command {
	var showSource bool

	show := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the effective configuration after merging defaults, config file, and environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showSource {
				if opts.configPath != "" {
					fmt.Fprintf(out, "Config file: %s\n\n", opts.configPath)
				} else {
					fmt.Fprint(out, "Config file: (none, using defaults)\n\n")
				}
			}

			data, err := yaml.Marshal(opts.cfg)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	show.Flags().BoolVar(&showSource, "source", false, "show config file source")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	cmd.AddCommand(show)
	return cmd
}
