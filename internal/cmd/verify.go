package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dendrascience/mediakey/util"
	"github.com/spf13/cobra"
)

var (
	errNotAddressed = errors.New("name is not a content code")
	errMisplaced    = errors.New("file is not under its expected key")

	tempNamePattern = regexp.MustCompile(`^[0-9a-f]{8}` + regexp.QuoteMeta(util.TempSuffix) + `$`)
)

// NewVerifyCmd creates and returns the verify subcommand for the mediakey CLI.
// It checks that every file in a store sits under the key its name implies.
func NewVerifyCmd() *cobra.Command {
	var (
		storePath string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that stored files sit under their content-addressed keys",
		Long: `Walk a content-addressed store and report misplaced files.

Originals are checked against the configured scheme (--scheme), variants
under v/ and in-flight downloads under tmp/ against the shard layout. Any
file whose name is not a 16 or 32 character hex code, or that sits in the
wrong directory, is reported. Exits with status 1 when problems are found.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			a, err := cfg.Addresser()
			if err != nil {
				log.Fatalf("Failed to select addressing scheme: %v", err)
			}
			if _, err := os.Stat(storePath); os.IsNotExist(err) {
				log.Fatalf("Store directory does not exist: %s", storePath)
			}
			problems, checked, err := runVerify(cmd.OutOrStdout(), a, storePath, verbose)
			if err != nil {
				log.Fatalf("Error walking store directory: %v", err)
			}

			fmt.Printf("\nVerification complete:\n")
			fmt.Printf("  Files checked: %d\n", checked)
			fmt.Printf("  Problems: %d\n", problems)
			if problems > 0 {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&storePath, "path", "p", "", "Path to the store directory to verify (required)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("path")

	return cmd
}

func runVerify(w io.Writer, a util.Addresser, storePath string, verbose bool) (problems, checked int, err error) {
	err = filepath.WalkDir(storePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(storePath, p)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		checked++
		if err := verifyKey(a, filepath.ToSlash(rel)); err != nil {
			problems++
			fmt.Fprintf(w, "%s: %v\n", rel, err)
		} else if verbose {
			fmt.Fprintf(w, "%s: ok\n", rel)
		}
		return nil
	})
	return problems, checked, err
}

// verifyKey checks a slash-separated store-relative path against the layout
// of the tree it lives in. Variant and temp keys always sit below a
// subdirectory of v/ or tmp/; a file directly in v/ or tmp/ is a bins
// original whose prefix happens to be "v" or "tmp".
func verifyKey(a util.Addresser, rel string) error {
	layout := a.Layout
	if layout == (util.Layout{}) {
		layout = util.DefaultLayout
	}

	dir, name := path.Split(rel)
	dir = strings.TrimSuffix(dir, "/")

	switch {
	case strings.HasPrefix(dir, util.TempDir+"/"):
		if !tempNamePattern.MatchString(name) {
			return fmt.Errorf("%w: temp file %q", errNotAddressed, name)
		}
		h, err := hexName(path.Base(dir))
		if err != nil {
			return err
		}
		sp, err := layout.Shard(h)
		if err != nil {
			return err
		}
		return expectDir(dir, path.Join(util.TempDir, sp.Path, sp.Hex))

	case strings.HasPrefix(dir, util.VariantDir+"/"):
		h, format, _ := strings.Cut(name, ".")
		if _, err := hexName(h); err != nil {
			return err
		}
		preset, _, _ := strings.Cut(strings.TrimPrefix(rel, util.VariantDir+"/"), "/")
		want, err := layout.VariantKey(h, preset, format)
		if err != nil {
			return err
		}
		return expectDir(rel, want)
	}

	h, _, _ := strings.Cut(name, ".")
	if _, err := hexName(h); err != nil {
		return err
	}
	want, err := a.Dir(h)
	if err != nil {
		return err
	}
	return expectDir(dir, want)
}

// hexName accepts only names that are already a normalized content code.
func hexName(name string) (string, error) {
	h, err := util.NormalizeHex(name)
	if err != nil || h != name {
		return "", fmt.Errorf("%w: %q", errNotAddressed, name)
	}
	return h, nil
}

func expectDir(got, want string) error {
	if got != want {
		return fmt.Errorf("%w: found in %q, want %q", errMisplaced, got, want)
	}
	return nil
}
