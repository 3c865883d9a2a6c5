package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/zipsort/version"
)

// NewRootCmd creates and returns the root cobra command for the zipsort CLI.
// It sets up all subcommands, command groups, and the persistent flags.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zipsort",
		Short: "zipsort - browse, organize and build archives",
		Long: `zipsort browses, organizes and builds archives.

It reads ZIP and tar (plain, gzip or lz4) archives and can:
  - tree: show the directory tree of an archive
  - extract: write the files of an archive to disk
  - organize: split an archive into one archive per file extension
  - compress: pack files and folders into a new archive

The same operations are available over HTTP (serve) and for a drop
folder (watch).`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Do not draw progress bars")

	groupArchive := "archive"
	groupServices := "services"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupArchive,
		Title: "Archive Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupServices,
		Title: "Services",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	for _, c := range []*cobra.Command{
		NewTreeCmd(),
		NewExtractCmd(),
		NewOrganizeCmd(),
		NewCompressCmd(),
	} {
		c.GroupID = groupArchive
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		NewServeCmd(),
		NewWatchCmd(),
		NewMountCmd(),
	} {
		c.GroupID = groupServices
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		NewCountCmd(),
		NewSeedCmd(),
	} {
		c.GroupID = groupUtilities
		rootCmd.AddCommand(c)
	}

	return rootCmd
}
