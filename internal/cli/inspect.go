package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mitsuhiko/machfind/internal/cli/helpers"
	"github.com/mitsuhiko/machfind/internal/cli/settings"
	"github.com/mitsuhiko/machfind/internal/config"
	"github.com/mitsuhiko/machfind/internal/finder"
	"github.com/mitsuhiko/machfind/internal/macho"
)

var inspectFormats = []helpers.OutputFormat{
	helpers.FormatText,
	helpers.FormatTable,
	helpers.FormatJSON,
	helpers.FormatCSV,
}

// fileReport is the JSON shape of one inspected file.
type fileReport struct {
	Path        string        `json:"path"`
	Kind        string        `json:"kind"`
	Images      []imageReport `json:"images"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
}

// imageReport is one image of a file; it doubles as a table/CSV row.
type imageReport struct {
	Path       string `json:"-" header:"FILE"`
	Slice      string `json:"slice,omitempty" header:"SLICE"`
	CPU        string `json:"cpu" header:"CPU"`
	FileType   string `json:"file_type" header:"TYPE"`
	Records    int    `json:"records" header:"RECORDS"`
	Identifier string `json:"uuid" header:"UUID"`
}

func newInspectCmd(globals *settings.Flags) *cobra.Command {
	var (
		output string
		reader string
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show the architectures and build UUIDs of files",
		Long: `Inspect parses each FILE and prints every Mach-O image it contains with its
CPU type, file type and build UUID. Universal containers list one line per
architecture. Parse problems are reported but do not fail the command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := globals.Load(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("reader") {
					cfg.Search.Reader = reader
				}
			})
			if err != nil {
				return err
			}
			format, err := settings.Output(output, inspectFormats)
			if err != nil {
				return err
			}

			opts := finder.OptionsFromConfig(cfg.Search)
			// Explicitly named files are read even through symlinks and
			// regardless of the search size limit.
			opts.FollowSymlinks = true
			opts.MaxFileSize = 0
			f, err := finder.New(opts, settings.Logger(cmd, cfg))
			if err != nil {
				return err
			}

			reports := make([]fileReport, 0, len(args))
			for _, path := range args {
				report, err := f.Inspect(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("failed to inspect %s: %w", path, err)
				}
				reports = append(reports, newFileReport(path, report))
			}
			return printReports(cmd.OutOrStdout(), format, reports)
		},
	}

	helpers.AddFormatFlag(cmd, &output, helpers.FormatText, inspectFormats)
	cmd.Flags().StringVar(&reader, "reader", config.ReaderMmap, "How files are read (mmap, read)")
	helpers.AddEnumCompletion(cmd, "reader", config.ReaderMmap, config.ReaderRead)

	return cmd
}

func newFileReport(path string, r *macho.Report) fileReport {
	fr := fileReport{Path: path, Kind: r.Kind.String(), Images: []imageReport{}}
	for _, img := range r.Images {
		row := imageReport{
			Path:     path,
			CPU:      img.Header.CPU.String(),
			FileType: img.Header.FileType.String(),
			Records:  img.Records,
		}
		if img.Slice != nil {
			row.Slice = fmt.Sprintf("%d", img.Slice.Index)
		}
		for i, id := range img.Identifiers {
			if i > 0 {
				row.Identifier += " "
			}
			row.Identifier += id.String()
		}
		fr.Images = append(fr.Images, row)
	}
	for _, d := range r.Diagnostics {
		fr.Diagnostics = append(fr.Diagnostics, d.Error())
	}
	return fr
}

func printReports(w io.Writer, format helpers.OutputFormat, reports []fileReport) error {
	switch format {
	case helpers.FormatText:
		for _, fr := range reports {
			if err := printReportText(w, fr); err != nil {
				return err
			}
		}
		return nil
	case helpers.FormatJSON:
		return (&helpers.JSONFormatter{}).Format(reports, w)
	}

	var rows []imageReport
	for _, fr := range reports {
		rows = append(rows, fr.Images...)
	}
	if rows == nil {
		rows = []imageReport{}
	}
	formatter, err := helpers.NewFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(rows, w)
}

func printReportText(w io.Writer, fr fileReport) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("%s: %s\n", fr.Path, fr.Kind)
	for _, img := range fr.Images {
		id := img.Identifier
		if id == "" {
			id = "(no uuid)"
		}
		if img.Slice != "" {
			printf("  [%s] ", img.Slice)
		} else {
			printf("  ")
		}
		printf("%s %s %s\n", img.CPU, img.FileType, id)
	}
	for _, d := range fr.Diagnostics {
		printf("  warning: %s\n", d)
	}
	return err
}
