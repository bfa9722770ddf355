package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dendrascience/mediakey/probe"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type probeReport struct {
	Path string `json:"path"`
	probe.Result
	Error string `json:"error,omitempty"`
}

// NewProbeCmd creates and returns the probe subcommand for the mediakey CLI.
// It reads image dimensions and formats from files without decoding them.
func NewProbeCmd() *cobra.Command {
	var (
		head   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "probe PATH...",
		Short: "Read image dimensions and format from files",
		Long: `Read width, height and MIME type from image files without decoding them.

Directories are walked recursively. Files are probed concurrently; output
keeps the order in which files were found. Unrecognized files are reported
as misses rather than errors.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			files, err := collectFiles(args)
			if err != nil {
				log.Fatalf("Failed to list files: %v", err)
			}
			reports := probeFiles(cmd.Context(), files, head, cfg.WorkerCount())
			if err := printProbeReports(cmd.OutOrStdout(), reports, asJSON); err != nil {
				log.Fatalf("Failed to write results: %v", err)
			}
		},
	}

	cmd.Flags().IntVar(&head, "head", 0, "Only read the first N bytes of each file (0 reads whole files)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

// collectFiles expands directories in paths into the regular files below
// them.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("error walking path %s: %w", path, err)
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func probeFiles(ctx context.Context, files []string, head, workers int) []probeReport {
	if ctx == nil {
		ctx = context.Background()
	}
	reports := make([]probeReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = probeReport{Path: path}
			data, err := readHead(path, head)
			if err != nil {
				reports[i].Error = err.Error()
				return nil
			}
			reports[i].Result = probe.Probe(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("probe interrupted: %v", err)
	}
	return reports
}

func printProbeReports(w io.Writer, reports []probeReport, asJSON bool) error {
	if asJSON {
		return writeJSON(w, reports)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Path", "Width", "Height", "MIME", "Ext", "Status"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	var hits int
	for _, r := range reports {
		switch {
		case r.Error != "":
			table.Append([]string{r.Path, "", "", "", "", "error: " + r.Error})
		case r.OK:
			hits++
			table.Append([]string{r.Path, strconv.Itoa(r.Width), strconv.Itoa(r.Height), r.MIME, r.Ext, "ok"})
		default:
			table.Append([]string{r.Path, "", "", "", "", "not recognized"})
		}
	}
	table.Render()

	fmt.Fprintf(w, "\n%d of %d files recognized\n", hits, len(reports))
	return nil
}

// probeFile reads and probes a single file.
func probeFile(path string) (probe.Result, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return probe.Result{}, nil, err
	}
	return probe.Probe(data), data, nil
}
