package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dendrascience/mediakey/util"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Ingest outcomes for a single file.
const (
	ingestStored    = "stored"
	ingestDuplicate = "duplicate"
	ingestSkipped   = "skipped"
)

type ingestOptions struct {
	keepUnknown bool
	dryRun      bool
	verbose     bool
}

type ingestStats struct {
	stored     atomic.Int64
	duplicates atomic.Int64
	skipped    atomic.Int64
	failed     atomic.Int64
}

// NewIngestCmd creates and returns the ingest subcommand for the mediakey CLI.
// It copies files into a content-addressed store.
func NewIngestCmd() *cobra.Command {
	var opts ingestOptions

	cmd := &cobra.Command{
		Use:   "ingest SOURCE STORE",
		Short: "Copy image files into a content-addressed store",
		Long: `Copy every image below SOURCE into STORE under its content-addressed key.

Each file is probed for its format, hashed to a content code, written to a
temp key (tmp/<shard>/<hex>/<random>.part) and renamed into its final key
once the write completed. Files whose key already exists are skipped as
duplicates. Unrecognized files are skipped unless --keep-unknown is set.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			a, err := cfg.Addresser()
			if err != nil {
				log.Fatalf("Failed to select addressing scheme: %v", err)
			}
			files, err := collectFiles([]string{args[0]})
			if err != nil {
				log.Fatalf("Failed to list files: %v", err)
			}
			if opts.verbose {
				fmt.Printf("Ingesting %d files from %s into %s (%s layout)\n", len(files), args[0], args[1], a.Scheme)
			}
			stats, err := runIngest(cmd.Context(), a, args[1], files, cfg.WorkerCount(), opts)
			if err != nil {
				log.Fatalf("Ingest failed: %v", err)
			}
			fmt.Printf("Stored: %d, duplicates: %d, skipped: %d, failed: %d\n",
				stats.stored.Load(), stats.duplicates.Load(), stats.skipped.Load(), stats.failed.Load())
		},
	}

	cmd.Flags().BoolVar(&opts.keepUnknown, "keep-unknown", false, "Store files that are not recognized as images")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be done without making changes")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func runIngest(ctx context.Context, a util.Addresser, store string, files []string, workers int, opts ingestOptions) (*ingestStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !opts.dryRun {
		if err := os.MkdirAll(store, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store %s: %w", store, err)
		}
	}

	stats := &ingestStats{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			key, outcome, err := ingestFile(a, store, path, opts)
			if err != nil {
				stats.failed.Add(1)
				log.Printf("Warning: Failed to ingest %s: %v", path, err)
				return nil
			}
			switch outcome {
			case ingestStored:
				stats.stored.Add(1)
			case ingestDuplicate:
				stats.duplicates.Add(1)
			case ingestSkipped:
				stats.skipped.Add(1)
			}
			if opts.verbose {
				fmt.Printf("  %s -> %s (%s)\n", path, key, outcome)
			}
			return nil
		})
	}
	return stats, g.Wait()
}

// ingestFile stores one file and reports its key and outcome. The bytes are
// first written under a temp key so a partially written file never appears
// under its final key. The temp file is then hard linked into place, which
// fails if another worker stored the same content first.
func ingestFile(a util.Addresser, store, path string, opts ingestOptions) (string, string, error) {
	result, data, err := probeFile(path)
	if err != nil {
		return "", "", err
	}
	if !result.OK && !opts.keepUnknown {
		return "", ingestSkipped, nil
	}

	code := util.CodeFromBytes(data)
	key, err := a.OriginalKey(code, result.Ext)
	if err != nil {
		return "", "", err
	}
	final := filepath.Join(store, filepath.FromSlash(key))
	if _, err := os.Stat(final); err == nil {
		return key, ingestDuplicate, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", "", err
	}
	if opts.dryRun {
		return key, ingestStored, nil
	}

	layout := a.Layout
	if layout == (util.Layout{}) {
		layout = util.DefaultLayout
	}
	tempKey, err := layout.TempKey(code)
	if err != nil {
		return "", "", err
	}
	temp := filepath.Join(store, filepath.FromSlash(tempKey))
	if err := os.MkdirAll(filepath.Dir(temp), 0755); err != nil {
		return "", "", err
	}
	defer cleanupTemp(temp)

	if err := os.WriteFile(temp, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(final), 0755); err != nil {
		return "", "", err
	}
	if err := os.Link(temp, final); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return key, ingestDuplicate, nil
		}
		return "", "", fmt.Errorf("failed to move %s into place: %w", tempKey, err)
	}
	return key, ingestStored, nil
}

// cleanupTemp removes a temp file once it is linked into place or its write
// failed. The temp directories stay: another writer may be using them.
func cleanupTemp(temp string) {
	if err := os.Remove(temp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Failed to remove temp file %s: %v", temp, err)
	}
}
