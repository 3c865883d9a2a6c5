package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/bucket"
	"github.com/dendrascience/zipsort/workflow"
)

// NewCountCmd creates and returns the count subcommand.
// It counts the files of an archive per extension without writing anything.
func NewCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count ARCHIVE",
		Short: "Count the files of an archive per extension",
		Long: `Count the files of an archive per extension.

This is a utility command that reports, for each extension bucket, how
many files and bytes it would hold after organize, using the configured
wrapper folder to strip.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			b := cfg.Bucketer()

			name, data, err := readArchive(args[0])
			if err != nil {
				return err
			}
			a, err := archive.Load(name, data)
			if err != nil {
				return err
			}
			set, err := runOperation(cmd, workflow.KindOrganize, "Counting",
				func(ctx context.Context, progress workflow.ProgressFunc) (*bucket.Set, error) {
					return b.Bucket(ctx, a.Entries(), progress)
				})
			if err != nil {
				return err
			}

			log.Debug("Counted archive", zap.String("archive", name), zap.Int("buckets", set.Len()))

			out := cmd.OutOrStdout()
			for _, c := range set.Summary() {
				fmt.Fprintf(out, "%s\t%d files\t%d bytes\n", keyLabel(c.Key), c.Files, c.Bytes)
			}
			fmt.Fprintf(out, "Total files: %d\n", a.FileCount())
			return nil
		},
	}

	return cmd
}
