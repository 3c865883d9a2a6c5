package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/pipeline"
	"github.com/dendrascience/zipsort/store"
	"github.com/dendrascience/zipsort/tree"
	"github.com/dendrascience/zipsort/workflow"
)

// NewExtractCmd creates and returns the extract subcommand.
func NewExtractCmd() *cobra.Command {
	var (
		output string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "extract ARCHIVE",
		Short: "Write the files of an archive to a directory",
		Long: `Write the files of an archive to a directory.

Every file is written at its path inside the archive. With --file only
that one file is written, under its own name. The output directory
defaults to the archive name without its extension and is only created
once the archive has been read; a failed extraction leaves nothing behind.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			name, data, err := readArchive(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = archive.Stem(name)
			}
			sink, err := store.NewDirSink(output)
			if err != nil {
				return err
			}

			root, err := runOperation(cmd, workflow.KindExtract, "Extracting",
				func(ctx context.Context, progress workflow.ProgressFunc) (*tree.Node, error) {
					return pipeline.Extract(ctx, name, data, progress)
				})
			if err != nil {
				log.Debug("Failed to extract archive", zap.String("archive", name), zap.Error(err))
				return err
			}

			out := cmd.OutOrStdout()
			if file != "" {
				saved, err := store.SaveFile(cmd.Context(), root, file, sink)
				if err != nil {
					return fmt.Errorf("failed to save %s: %w", file, err)
				}
				log.Debug("Saved file", zap.String("file", file), zap.String("output", output))
				fmt.Fprintf(out, "Saved %s to %s\n", saved, output)
				return nil
			}
			n, err := store.SaveFiles(cmd.Context(), root, sink)
			if err != nil {
				return fmt.Errorf("failed to save files: %w", err)
			}
			log.Debug("Extracted archive",
				zap.String("archive", name),
				zap.String("output", output),
				zap.Int("files", n))
			fmt.Fprintf(out, "Extracted %d files to %s\n", n, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Extract only the file at this archive path")

	return cmd
}
