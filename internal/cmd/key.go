package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/dendrascience/mediakey/internal/config"
	"github.com/dendrascience/mediakey/util"
	"github.com/spf13/cobra"
)

var errNoEndpoint = errors.New("--filter needs a media endpoint (--endpoint or MEDIAKEY_API_ENDPOINT)")

type keyOptions struct {
	ext    string
	preset string
	format string
	filter string
	temp   bool
}

// NewKeyCmd creates and returns the key subcommand for the mediakey CLI.
// It prints every storage key derived from a single hex digest.
func NewKeyCmd() *cobra.Command {
	var opts keyOptions

	cmd := &cobra.Command{
		Use:   "key HEX",
		Short: "Print the storage keys for a content code",
		Long: `Print the storage keys derived from a 16 or 32 character hex digest.

The original key follows the shard layout (--segments, --segment-len) and
the bin key follows the bins layout sized by --approx. A variant key is
printed when --preset and --format are given, a temp key when --temp is set.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			if err := runKey(cmd.OutOrStdout(), cfg, args[0], opts); err != nil {
				log.Fatalf("Failed to build keys: %v", err)
			}
		},
	}

	cmd.Flags().StringVarP(&opts.ext, "ext", "e", "", "Extension of the original")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "Variant preset name, e.g. small")
	cmd.Flags().StringVar(&opts.format, "format", "", "Variant output format, e.g. webp")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Print the cached rendition URL for this filter (needs --endpoint)")
	cmd.Flags().BoolVar(&opts.temp, "temp", false, "Also print a fresh temp key")

	return cmd
}

func runKey(w io.Writer, cfg config.Config, hex string, opts keyOptions) error {
	if opts.filter != "" && cfg.APIEndpoint == "" {
		return errNoEndpoint
	}
	layout := cfg.Layout()

	sp, err := layout.Shard(hex)
	if err != nil {
		return err
	}
	original, err := layout.OriginalKey(sp.Hex, opts.ext)
	if err != nil {
		return err
	}
	bin, err := util.AssignBin(cfg.Approx, sp.Hex)
	if err != nil {
		return err
	}
	binKey, err := util.AccountPath(cfg.Approx, sp.Hex)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "hex:      %s\n", sp.Hex)
	fmt.Fprintf(w, "shard:    %s\n", sp.Path)
	fmt.Fprintf(w, "original: %s\n", original)
	fmt.Fprintf(w, "bin:      %d of %d (prefix %s)\n", bin.Index, util.BinCount(cfg.Approx), bin.Prefix)
	fmt.Fprintf(w, "bin key:  %s\n", binKey)

	if opts.preset != "" || opts.format != "" {
		variant, err := layout.VariantKey(sp.Hex, opts.preset, opts.format)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "variant:  %s\n", variant)
	}
	if opts.temp {
		temp, err := layout.TempKey(sp.Hex)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "temp:     %s\n", temp)
	}
	if opts.filter != "" {
		a, err := cfg.Addresser()
		if err != nil {
			return err
		}
		key, err := a.OriginalKey(sp.Hex, opts.ext)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "url:      %s\n", util.FilterURL(cfg.APIEndpoint, opts.filter, key))
	}
	return nil
}
