package cmd

import (
	"github.com/dendrascience/mediakey/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the mediakey CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mediakey",
		Short: "mediakey - content-addressed keys and header probing for image assets",
		Long: `mediakey derives stable content codes and sharded storage keys for image
assets, and reads image dimensions straight from file headers.

Settings come from MEDIAKEY_* environment variables and can be overridden
with flags. Use subcommands to perform different operations:
  - code: Content codes and storage keys for source URLs
  - key: Every key derived from one content code
  - probe: Image dimensions and format from file headers
  - ingest: Copy images into a content-addressed store
  - verify: Check that stored files sit under their keys
  - count: File distribution across store directories
  - seed: Generate synthetic image files`,
		Version: version.GetFullVersion(),
	}

	groupAddressing := "addressing"
	groupStore := "store"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupAddressing,
		Title: "Addressing",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupStore,
		Title: "Store Operations",
	})

	addConfigFlags(rootCmd)

	codeCmd := NewCodeCmd()
	keyCmd := NewKeyCmd()
	probeCmd := NewProbeCmd()
	ingestCmd := NewIngestCmd()
	verifyCmd := NewVerifyCmd()
	countCmd := NewCountCmd()
	seedCmd := NewSeedCmd()

	codeCmd.GroupID = groupAddressing
	keyCmd.GroupID = groupAddressing
	probeCmd.GroupID = groupAddressing
	ingestCmd.GroupID = groupStore
	verifyCmd.GroupID = groupStore
	countCmd.GroupID = groupStore
	seedCmd.GroupID = groupStore

	rootCmd.AddCommand(codeCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version.PrintVersion(cmd.OutOrStdout(), "mediakey")
		},
	}
}
