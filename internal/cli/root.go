// Package cli implements the machfind command line.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	configcmd "github.com/mitsuhiko/machfind/internal/cli/config"
	"github.com/mitsuhiko/machfind/internal/cli/settings"
	"github.com/mitsuhiko/machfind/pkg/version"
)

// NewRootCmd builds the machfind command tree.
func NewRootCmd() *cobra.Command {
	globals := &settings.Flags{}
	opts := &findOptions{}

	cmd := &cobra.Command{
		Use:   "machfind [flags] <UUID> [PATH]",
		Short: "Find Mach-O binaries and debug symbols by build UUID",
		Long: `machfind walks a directory tree and prints every Mach-O file whose
LC_UUID load command matches the given build identifier. Both plain images and
universal (fat) containers are searched; a universal file matches if any of
its architectures does.

PATH defaults to the current directory. Files that are not Mach-O, or that
are truncated or malformed, are silently skipped.

Configuration is read from ~/.machfind/config.yaml (or $MACHFIND_CONFIG),
overridden by MACHFIND_* environment variables and then by flags.`,
		Example: `  machfind 123e4567-e89b-12d3-a456-426614174000 ~/Library/Developer/Xcode/DerivedData
  machfind -u 123E4567E89B12D3A456426614174000 -o json`,
		Version:       version.String(),
		Args:          cobra.RangeArgs(0, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, globals, opts, args)
		},
	}

	globals.Register(cmd)
	opts.register(cmd)

	cmd.AddCommand(newInspectCmd(globals))
	cmd.AddCommand(configcmd.NewConfigCmd(globals))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("machfind version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command with os.Args. Interrupts cancel the search.
func Execute(ctx context.Context) error {
	cmd := NewRootCmd()
	cmd.SetArgs(os.Args[1:])
	return cmd.ExecuteContext(ctx)
}
