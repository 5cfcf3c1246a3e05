package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mitsuhiko/machfind/internal/cli/helpers"
	"github.com/mitsuhiko/machfind/internal/cli/settings"
	"github.com/mitsuhiko/machfind/internal/config"
	"github.com/mitsuhiko/machfind/internal/errors"
	"github.com/mitsuhiko/machfind/internal/finder"
	"github.com/mitsuhiko/machfind/internal/macho"
)

var findFormats = []helpers.OutputFormat{
	helpers.FormatText,
	helpers.FormatTable,
	helpers.FormatJSON,
	helpers.FormatCSV,
}

type findOptions struct {
	uuid           string
	path           string
	output         string
	workers        int
	reader         string
	followSymlinks bool
	keepGoing      bool
	maxSize        int64
	exclude        []string
}

func (o *findOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.uuid, "uuid", "u", "", "Build UUID to find (alternative to the first argument)")
	f.StringVarP(&o.path, "path", "p", "", "Directory to search (alternative to the second argument, default \".\")")
	f.IntVarP(&o.workers, "workers", "j", 0, "Files inspected in parallel (default one per CPU)")
	f.StringVar(&o.reader, "reader", config.ReaderMmap, "How files are read (mmap, read)")
	f.BoolVar(&o.followSymlinks, "follow-symlinks", false, "Inspect files behind symlinks")
	f.BoolVar(&o.keepGoing, "keep-going", false, "Skip unreadable directories instead of failing")
	f.Int64Var(&o.maxSize, "max-size", 0, "Skip files larger than this many bytes (0 = unlimited)")
	f.StringSliceVar(&o.exclude, "exclude", nil, "Directory names to skip (repeatable)")
	helpers.AddFormatFlag(cmd, &o.output, helpers.FormatText, findFormats)
	helpers.AddEnumCompletion(cmd, "reader", config.ReaderMmap, config.ReaderRead)
}

// apply overrides the configuration with the flags the user set.
func (o *findOptions) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("workers") {
		cfg.Search.Workers = o.workers
	}
	if flags.Changed("reader") {
		cfg.Search.Reader = o.reader
	}
	if flags.Changed("follow-symlinks") {
		cfg.Search.FollowSymlinks = o.followSymlinks
	}
	if flags.Changed("keep-going") {
		cfg.Search.OnError = config.OnErrorAbort
		if o.keepGoing {
			cfg.Search.OnError = config.OnErrorSkip
		}
	}
	if flags.Changed("max-size") {
		cfg.Search.MaxFileSize = o.maxSize
	}
	if flags.Changed("exclude") {
		cfg.Search.Exclude = o.exclude
	}
	if flags.Changed("output") {
		cfg.Output.Format = o.output
	}
}

// resolveTarget picks the identifier and search root from flags and
// positional arguments. Positional arguments fill whatever the flags leave
// unset, identifier first.
func resolveTarget(uuidFlag, pathFlag string, args []string) (string, string, error) {
	target, root := uuidFlag, pathFlag
	rest := args
	if target == "" && len(rest) > 0 {
		target, rest = rest[0], rest[1:]
	}
	if root == "" && len(rest) > 0 {
		root, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		return "", "", errors.New(errors.KindUsage, nil, "unexpected argument %q", rest[0])
	}
	if target == "" {
		return "", "", errors.New(errors.KindUsage, nil, "missing build UUID")
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", errors.New(errors.KindTraversal, err, "failed to determine working directory")
		}
		root = wd
	}
	return target, root, nil
}

func runFind(cmd *cobra.Command, globals *settings.Flags, opts *findOptions, args []string) error {
	target, root, err := resolveTarget(opts.uuid, opts.path, args)
	if err != nil {
		return err
	}
	id, err := macho.ParseIdentifier(target)
	if err != nil {
		return errors.New(errors.KindInvalidTarget, err, "invalid UUID %q", target)
	}

	cfg, err := globals.Load(cmd, func(cfg *config.Config) { opts.apply(cmd.Flags(), cfg) })
	if err != nil {
		return err
	}
	format, err := settings.Output(cfg.Output.Format, findFormats)
	if err != nil {
		return err
	}
	logger := settings.Logger(cmd, cfg)

	f, err := finder.New(finder.OptionsFromConfig(cfg.Search), logger)
	if err != nil {
		return err
	}
	matches, err := f.Find(cmd.Context(), root, id)
	if err != nil {
		return err
	}

	return printMatches(cmd.OutOrStdout(), format, matches)
}

func printMatches(w io.Writer, format helpers.OutputFormat, matches []finder.Match) error {
	if format == helpers.FormatText {
		for _, m := range matches {
			if _, err := fmt.Fprintf(w, "Found %s\n", m.Path); err != nil {
				return err
			}
		}
		return nil
	}

	if matches == nil {
		matches = []finder.Match{}
	}
	formatter, err := helpers.NewFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(matches, w)
}
