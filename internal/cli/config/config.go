// Package config implements the 'machfind config' command family.
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitsuhiko/machfind/internal/cli/helpers"
	"github.com/mitsuhiko/machfind/internal/cli/settings"
	"github.com/mitsuhiko/machfind/internal/config"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd(globals *settings.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect machfind configuration",
		Long: `Inspect machfind configuration.

Configuration Priority:
  1. Command-line flags (highest)
  2. MACHFIND_* environment variables
  3. Config file (~/.machfind/config.yaml)
  4. Built-in defaults

Environment Variables:
  MACHFIND_CONFIG  Override config directory (default: ~/.machfind)`,
	}

	cmd.AddCommand(newViewCmd(globals))
	cmd.AddCommand(newPathCmd())
	cmd.AddCommand(newValidateCmd(globals))

	return cmd
}

// newViewCmd creates the 'config view' command.
func newViewCmd(globals *settings.Flags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the effective configuration",
		Long: `Display the configuration after defaults, the config file and environment
overrides have been merged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, globals, format)
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatYAML, []helpers.OutputFormat{
		helpers.FormatYAML,
		helpers.FormatJSON,
	})

	return cmd
}

func runView(cmd *cobra.Command, globals *settings.Flags, format string) error {
	cfg, err := globals.Load(cmd, nil)
	if err != nil {
		return err
	}
	out, err := settings.Output(format, []helpers.OutputFormat{helpers.FormatYAML, helpers.FormatJSON})
	if err != nil {
		return err
	}

	if out == helpers.FormatYAML {
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	formatter, err := helpers.NewFormatter(out)
	if err != nil {
		return err
	}
	return formatter.Format(cfg, cmd.OutOrStdout())
}

// newPathCmd creates the 'config path' command.
func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.NewLoader().ConfigPath()
			if path == "" {
				return fmt.Errorf("no config directory: set MACHFIND_CONFIG or HOME")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

// newValidateCmd creates the 'config validate' command.
func newValidateCmd(globals *settings.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := globals.Load(cmd, nil); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", describe(config.NewLoader().ConfigPath()))
			return err
		},
	}
}

func describe(path string) string {
	if path == "" {
		return "configuration"
	}
	return path
}
