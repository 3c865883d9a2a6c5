package cmd

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/spf13/cobra"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/bucket"
	"github.com/dendrascience/zipsort/config"
	"github.com/dendrascience/zipsort/pipeline"
	"github.com/dendrascience/zipsort/store"
	"github.com/dendrascience/zipsort/tree"
	"github.com/dendrascience/zipsort/workflow"
)

// NewOrganizeCmd creates and returns the organize subcommand.
func NewOrganizeCmd() *cobra.Command {
	var (
		output   string
		strip    string
		format   string
		toS3     bool
		showTree bool
	)

	cmd := &cobra.Command{
		Use:   "organize ARCHIVE",
		Short: "Split an archive into one archive per file extension",
		Long: `Split an archive into one archive per file extension.

Every file is put in the bucket of its extension (the text after the last
dot of its name, or the whole name when it has none) and each bucket is
written as its own archive, named after the extension, next to a
manifest.json. A leading wrapper folder matching --strip is removed from
the stored paths.

With --s3 the archives go to the configured S3 bucket below a folder named
after the archive, otherwise to the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			b := cfg.Bucketer()
			if cmd.Flags().Changed("strip") {
				b.StripPrefix = strip
			}
			f := cfg.ArchiveFormat()
			if format != "" {
				if f, err = archive.ParseFormat(format); err != nil {
					return err
				}
			}

			name, data, err := readArchive(args[0])
			if err != nil {
				return err
			}
			sink, where, err := organizeSink(cfg, toS3, output, name)
			if err != nil {
				return err
			}

			org, err := runOperation(cmd, workflow.KindOrganize, "Organizing",
				func(ctx context.Context, progress workflow.ProgressFunc) (*pipeline.Organized, error) {
					org, err := pipeline.Organize(ctx, name, data, b, progress)
					if err != nil {
						return nil, err
					}
					if err := pipeline.Publish(ctx, org, sink, b, f); err != nil {
						return nil, err
					}
					return org, nil
				})
			if err != nil {
				return err
			}

			stored, err := sink.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", where, err)
			}
			out := cmd.OutOrStdout()
			printSummary(out, org.Buckets, f)
			fmt.Fprintf(out, "Wrote %d objects to %s\n", len(stored), where)
			for _, name := range stored {
				fmt.Fprintf(out, "  %s\n", name)
			}
			if showTree {
				v := tree.NewView(org.Tree)
				v.ExpandAll()
				return v.Render(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default: archive name without extension)")
	cmd.Flags().StringVar(&strip, "strip", bucket.DefaultStripPrefix, "Wrapper folder removed from stored paths (empty disables)")
	cmd.Flags().StringVar(&format, "format", "", "Bucket archive format (zip, tar, tar.gz, tar.lz4)")
	cmd.Flags().BoolVar(&toS3, "s3", false, "Write to the configured S3 bucket")
	cmd.Flags().BoolVarP(&showTree, "tree", "t", false, "Print the organized tree")

	return cmd
}

// organizeSink picks where the bucket archives of source are written and
// returns a human readable description of that place.
func organizeSink(cfg *config.Config, toS3 bool, output, source string) (store.Store, string, error) {
	stem := archive.Stem(source)
	if toS3 {
		s3, err := store.NewS3Sink(cfg.S3)
		if err != nil {
			return nil, "", err
		}
		return store.Prefixed(s3, stem), "s3://" + path.Join(cfg.S3.Bucket, cfg.S3.Prefix, stem), nil
	}
	if output == "" {
		output = stem
	}
	dir, err := store.NewDirSink(output)
	if err != nil {
		return nil, "", err
	}
	return dir, output, nil
}

func printSummary(w io.Writer, set *bucket.Set, f archive.Format) {
	for _, c := range set.Summary() {
		fmt.Fprintf(w, "  %s %s\n", keyLabel(c.Key),
			dimStyle.Render(fmt.Sprintf("%s, %d files, %d bytes", bucket.FileName(c.Key, f), c.Files, c.Bytes)))
	}
}
