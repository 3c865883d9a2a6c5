package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/pipeline"
	"github.com/dendrascience/zipsort/workflow"
)

// NewCompressCmd creates and returns the compress subcommand.
func NewCompressCmd() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "compress PATH...",
		Short: "Pack files and folders into a new archive",
		Long: `Pack files and folders into a new archive.

A selected file is stored under its own name. Files below a selected
folder keep their path relative to it, prefixed with the folder name.
The output defaults to compressed.zip (or the extension of --format).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f := cfg.ArchiveFormat()
			switch {
			case format != "":
				if f, err = archive.ParseFormat(format); err != nil {
					return err
				}
			case output != "":
				f = archive.FormatFromName(output)
			}
			if output == "" {
				output = pipeline.DefaultArchiveName(f)
			}

			entries, err := archive.Collect(args)
			if err != nil {
				return err
			}

			_, err = runOperation(cmd, workflow.KindCompress, "Compressing",
				func(ctx context.Context, progress workflow.ProgressFunc) (struct{}, error) {
					return struct{}{}, writeArchive(ctx, output, entries, f, progress)
				})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d files to %s\n", len(entries), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output archive path")
	cmd.Flags().StringVar(&format, "format", "", "Archive format (zip, tar, tar.gz, tar.lz4)")

	return cmd
}

// writeArchive encodes entries to path. A partially written file is removed
// on failure.
func writeArchive(ctx context.Context, path string, entries []archive.Entry, f archive.Format, progress workflow.ProgressFunc) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, out.Close())
		if err != nil {
			os.Remove(path)
		}
	}()
	return pipeline.Compress(ctx, entries, f, out, progress)
}
