// Package settings resolves the effective configuration of a command from the
// config file, the environment and command-line flags.
package settings

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mitsuhiko/machfind/internal/cli/helpers"
	"github.com/mitsuhiko/machfind/internal/config"
	"github.com/mitsuhiko/machfind/internal/errors"
	"github.com/mitsuhiko/machfind/internal/logging"
)

// Flags are the persistent flags shared by every command.
type Flags struct {
	LogLevel  string
	LogFormat string
}

// Register adds the persistent flags to the root command.
func (f *Flags) Register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&f.LogFormat, "log-format", "", "Log format (auto, pretty, json)")

	_ = cmd.RegisterFlagCompletionFunc("log-level", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"trace", "debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("log-format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{config.LogFormatAuto, config.LogFormatPretty, config.LogFormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
}

// Load reads the configuration and applies the persistent flags the user set.
// apply may override further fields from command-specific flags; the result
// is validated afterwards.
func (f *Flags) Load(cmd *cobra.Command, apply func(*config.Config)) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadUnvalidated()
	if err != nil {
		return nil, errors.New(errors.KindConfig, err, "failed to load configuration")
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = f.LogFormat
	}
	if apply != nil {
		apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.New(errors.KindUsage, err, "invalid options")
	}
	return cfg, nil
}

// Logger creates the logger for a command, tagged with the command name. Logs
// go to the command's error stream; auto format is pretty only when that
// stream is a terminal.
func Logger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	lc := logging.DefaultConfig()
	lc.Level = cfg.Log.Level
	lc.Output = cmd.ErrOrStderr()
	lc.Pretty = pretty(cfg.Log.Format, lc.Output)
	return logging.NewWithComponent(lc, cmd.Name())
}

func pretty(format string, out io.Writer) bool {
	switch format {
	case config.LogFormatPretty:
		return true
	case config.LogFormatJSON:
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Output validates format against supported and returns it.
func Output(format string, supported []helpers.OutputFormat) (helpers.OutputFormat, error) {
	if err := helpers.ValidateFormat(format, supported); err != nil {
		return "", errors.New(errors.KindUsage, err, "invalid output format")
	}
	return helpers.OutputFormat(format), nil
}
