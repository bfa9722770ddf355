package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/dendrascience/mediakey/internal/config"
	"github.com/spf13/cobra"
)

// addConfigFlags registers the flags that override MEDIAKEY_* environment
// settings. Defaults shown in help are the environment-free defaults.
func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("scheme", "shard", "Storage layout for originals: shard or bins (env MEDIAKEY_SCHEME)")
	flags.Int("approx", 0, "Approximate asset count of the account, sizes the bins layout (env MEDIAKEY_APPROX)")
	flags.String("root", "", "Account root used for legacy codes (env MEDIAKEY_ROOT)")
	flags.Int("segments", 1, "Number of shard directory levels (env MEDIAKEY_SHARD_SEGMENTS)")
	flags.Int("segment-len", 3, "Hex characters per shard level (env MEDIAKEY_SHARD_SEGMENT_LEN)")
	flags.String("endpoint", "", "Media service endpoint for info URLs (env MEDIAKEY_API_ENDPOINT)")
	flags.Int("workers", 0, "Concurrent file workers, 0 for one per CPU (env MEDIAKEY_WORKERS)")
	flags.StringSlice("env-file", nil, "Load MEDIAKEY_* variables from these files first")
}

// loadConfig reads the environment, applies any flags the user set
// explicitly and validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	envFiles, _ := flags.GetStringSlice("env-file")
	cfg, err := config.Read(envFiles...)
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("scheme") {
		cfg.Scheme, _ = flags.GetString("scheme")
	}
	if flags.Changed("approx") {
		cfg.Approx, _ = flags.GetInt("approx")
	}
	if flags.Changed("root") {
		cfg.Root, _ = flags.GetString("root")
	}
	if flags.Changed("segments") {
		cfg.ShardSegments, _ = flags.GetInt("segments")
	}
	if flags.Changed("segment-len") {
		cfg.ShardSegmentLen, _ = flags.GetInt("segment-len")
	}
	if flags.Changed("endpoint") {
		cfg.APIEndpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	return cfg, cfg.Validate()
}

// readLines returns the non-empty trimmed lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// readHead returns the first n bytes of a file, or all of it when n <= 0.
func readHead(path string, n int) ([]byte, error) {
	if n <= 0 {
		return os.ReadFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		err = nil
	}
	return buf[:read], err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
