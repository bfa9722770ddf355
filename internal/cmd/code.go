package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/dendrascience/mediakey/internal/config"
	"github.com/dendrascience/mediakey/util"
	"github.com/spf13/cobra"
)

type codeReport struct {
	URL        string `json:"url"`
	Normalized string `json:"normalized"`
	Code       string `json:"code"`
	Key        string `json:"key"`
	LegacyCode string `json:"legacy_code,omitempty"`
	InfoURL    string `json:"info_url,omitempty"`
}

// NewCodeCmd creates and returns the code subcommand for the mediakey CLI.
// It derives content codes and storage keys for source URLs.
func NewCodeCmd() *cobra.Command {
	var (
		ext    string
		legacy bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "code [URL...]",
		Short: "Compute content codes and storage keys for URLs",
		Long: `Compute the content code and storage key for each source URL.

URLs are normalized (scheme and host lowercased, default ports dropped,
query sorted, fragment removed) before hashing, so equivalent spellings
share a code. URLs are read from the arguments, or one per line from stdin
when no arguments are given.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			urls := args
			if len(urls) == 0 {
				urls, err = readLines(cmd.InOrStdin())
				if err != nil {
					log.Fatalf("Failed to read URLs: %v", err)
				}
			}
			if err := runCode(cmd.OutOrStdout(), cfg, urls, ext, legacy, asJSON); err != nil {
				log.Fatalf("Failed to compute codes: %v", err)
			}
		},
	}

	cmd.Flags().StringVarP(&ext, "ext", "e", "", "Extension appended to shard keys")
	cmd.Flags().BoolVarP(&legacy, "legacy", "l", false, "Also print the legacy code (uses --root)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

func runCode(w io.Writer, cfg config.Config, urls []string, ext string, legacy, asJSON bool) error {
	a, err := cfg.Addresser()
	if err != nil {
		return err
	}

	reports := make([]codeReport, 0, len(urls))
	for _, u := range urls {
		r, err := buildCodeReport(cfg, a, u, ext, legacy)
		if err != nil {
			return fmt.Errorf("%s: %w", u, err)
		}
		reports = append(reports, r)
	}

	if asJSON {
		return writeJSON(w, reports)
	}
	for _, r := range reports {
		fmt.Fprintf(w, "%s\n", r.URL)
		fmt.Fprintf(w, "  normalized: %s\n", r.Normalized)
		fmt.Fprintf(w, "  code:       %s\n", r.Code)
		fmt.Fprintf(w, "  key:        %s\n", r.Key)
		if r.LegacyCode != "" {
			fmt.Fprintf(w, "  legacy:     %s\n", r.LegacyCode)
		}
		if r.InfoURL != "" {
			fmt.Fprintf(w, "  info:       %s\n", r.InfoURL)
		}
	}
	return nil
}

func buildCodeReport(cfg config.Config, a util.Addresser, u, ext string, legacy bool) (codeReport, error) {
	m := util.NewMedia(u, "")
	key, err := a.OriginalKey(m.Code, ext)
	if err != nil {
		return codeReport{}, err
	}
	r := codeReport{
		URL:        u,
		Normalized: util.Normalize(u),
		Code:       m.Code,
		Key:        key,
	}
	if legacy {
		r.LegacyCode = util.LegacyCode(u, cfg.Root)
	}
	if cfg.APIEndpoint != "" {
		r.InfoURL = util.MediaInfoURL(cfg.APIEndpoint, m.Code)
	}
	return r, nil
}
