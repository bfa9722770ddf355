package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
)

// DefaultDirLimit is the recommended ceiling on entries per directory for
// ext3; sharded layouts aim to stay well below it.
const DefaultDirLimit = 32000

type dirCounts struct {
	total    int
	perDir   map[string]int
	minFiles int
	maxFiles int
	maxDir   string
}

// NewCountCmd creates and returns the count subcommand for the mediakey CLI.
// It reports how evenly files are spread across leaf directories.
func NewCountCmd() *cobra.Command {
	var (
		path         string
		limit        int
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count files per directory in a store",
		Long: `Count the files in a directory tree and how they are spread across
directories.

Reports the total, the number of directories holding files, the smallest
and largest directory, and every directory above --limit entries. Useful
for checking that a sharded layout keeps directories small.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 {
				path = args[0]
			}
			counts, err := countFiles(path, showProgress)
			if err != nil {
				log.Fatalf("Error counting files: %v", err)
			}
			printCounts(cmd.OutOrStdout(), counts, limit)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count files in")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultDirLimit, "Report directories holding more files than this")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show progress every 10,000 files")

	return cmd
}

func countFiles(root string, showProgress bool) (dirCounts, error) {
	c := dirCounts{perDir: make(map[string]int)}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		c.total++
		c.perDir[filepath.Dir(path)]++
		if showProgress && c.total%10000 == 0 {
			fmt.Printf("Progress: %d files counted\n", c.total)
		}
		return nil
	})
	if err != nil {
		return dirCounts{}, err
	}

	for dir, n := range c.perDir {
		if c.minFiles == 0 || n < c.minFiles {
			c.minFiles = n
		}
		if n > c.maxFiles || (n == c.maxFiles && dir < c.maxDir) {
			c.maxFiles = n
			c.maxDir = dir
		}
	}
	return c, nil
}

func printCounts(w io.Writer, c dirCounts, limit int) {
	fmt.Fprintf(w, "Total files: %d\n", c.total)
	fmt.Fprintf(w, "Directories with files: %d\n", len(c.perDir))
	if len(c.perDir) == 0 {
		return
	}
	fmt.Fprintf(w, "Files per directory: min=%d, max=%d (%s), mean=%.1f\n",
		c.minFiles, c.maxFiles, c.maxDir, float64(c.total)/float64(len(c.perDir)))

	var over int
	for dir, n := range c.perDir {
		if n > limit {
			over++
			fmt.Fprintf(w, "  over limit: %s (%d files)\n", dir, n)
		}
	}
	if over > 0 {
		fmt.Fprintf(w, "%d directories exceed %d files\n", over, limit)
	}
}
