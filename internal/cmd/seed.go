package cmd

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// seedFormats are the header formats seed can generate, keyed by extension.
var seedFormats = []string{"png", "gif", "jpg", "webp"}

// NewSeedCmd creates and returns the seed subcommand for the mediakey CLI.
// It generates image headers with random dimensions for exercising probe
// and ingest.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate synthetic image files with random dimensions",
		Long: `Generate image files for testing mediakey functionality.

Each file holds a valid PNG, GIF, JPEG or WebP header with random dimensions
followed by a random payload, so every file has a distinct content code.
Files are named with a random UUID and written flat into the output
directory.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSeed(outputPath, fileCount, verbose); err != nil {
				log.Fatalf("Failed to seed: %v", err)
			}
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 1000, "Number of files to generate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(outputPath string, fileCount int, verbose bool) error {
	if verbose {
		fmt.Printf("Generating %d image files in %s\n", fileCount, outputPath)
	}
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	perFormat := make(map[string]int)
	for i := range fileCount {
		format := seedFormats[randInt(len(seedFormats))]
		w, h := randInt(4096)+1, randInt(4096)+1
		data := syntheticImage(format, w, h)

		id := uuid.New()
		data = append(data, id[:]...)

		name := filepath.Join(outputPath, id.String()+"."+format)
		if err := os.WriteFile(name, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		perFormat[format]++

		if verbose && (i+1)%1000 == 0 {
			fmt.Printf("Created %d/%d files...\n", i+1, fileCount)
		}
	}

	if verbose {
		fmt.Printf("Successfully created %d files\n", fileCount)
		for _, f := range seedFormats {
			fmt.Printf("  %s: %d\n", f, perFormat[f])
		}
	}
	return nil
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return int(v.Int64())
}

// syntheticImage returns the smallest header of the given format that
// carries w and h. Dimensions must fit the format: 16 bits for GIF and
// JPEG, 14 bits for WebP lossless.
func syntheticImage(format string, w, h int) []byte {
	switch format {
	case "png":
		b := []byte("\x89PNG\r\n\x1a\n")
		b = binary.BigEndian.AppendUint32(b, 13)
		b = append(b, "IHDR"...)
		b = binary.BigEndian.AppendUint32(b, uint32(w))
		b = binary.BigEndian.AppendUint32(b, uint32(h))
		return append(b, 8, 2, 0, 0, 0)
	case "gif":
		b := []byte("GIF89a")
		b = binary.LittleEndian.AppendUint16(b, uint16(w))
		b = binary.LittleEndian.AppendUint16(b, uint16(h))
		return append(b, 0, 0, 0)
	case "jpg":
		b := []byte{0xFF, 0xD8, 0xFF, 0xC0, 0x00, 0x0B, 0x08}
		b = binary.BigEndian.AppendUint16(b, uint16(h))
		b = binary.BigEndian.AppendUint16(b, uint16(w))
		return append(b, 0x01, 0x01, 0x11, 0x00, 0xFF, 0xD9)
	case "webp":
		b := []byte("RIFF")
		b = binary.LittleEndian.AppendUint32(b, 4+8+6)
		b = append(b, "WEBPVP8L"...)
		b = binary.LittleEndian.AppendUint32(b, 5)
		b = append(b, 0x2F)
		b = binary.LittleEndian.AppendUint32(b, uint32(w-1)|uint32(h-1)<<14)
		return append(b, 0)
	}
	return nil
}
