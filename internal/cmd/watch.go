package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/store"
	"github.com/dendrascience/zipsort/watch"
)

// NewWatchCmd creates and returns the watch subcommand.
func NewWatchCmd() *cobra.Command {
	var (
		output   string
		format   string
		toS3     bool
		existing bool
		settle   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Organize archives dropped into a folder",
		Long: `Organize archives dropped into a folder.

Every archive written to DIR is organized once it has not changed for the
settle delay. Its bucket archives and manifest go to a folder named after
the archive, inside the output directory or the configured S3 bucket.
Interrupt to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f := cfg.ArchiveFormat()
			if format != "" {
				if f, err = archive.ParseFormat(format); err != nil {
					return err
				}
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			var sink store.Store
			if toS3 {
				if sink, err = store.NewS3Sink(cfg.S3); err != nil {
					return err
				}
			} else {
				if output == "" {
					return fmt.Errorf("either --output or --s3 is required")
				}
				if sink, err = store.NewDirSink(output); err != nil {
					return err
				}
			}

			w, err := watch.New(args[0], sink, watch.Options{
				Bucketer: cfg.Bucketer(),
				Format:   f,
				Settle:   settle,
				Existing: existing,
				OnProcessed: func(path string, err error) {
					if err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("failed: "+path))
					}
				},
			}, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := w.Start(ctx); err != nil {
				return err
			}
			log.Info("Watching for archives", zap.String("dir", args[0]))
			<-ctx.Done()
			log.Info("Received interrupt signal, shutting down...")
			return w.Stop()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory")
	cmd.Flags().StringVar(&format, "format", "", "Bucket archive format (zip, tar, tar.gz, tar.lz4)")
	cmd.Flags().BoolVar(&toS3, "s3", false, "Write to the configured S3 bucket")
	cmd.Flags().BoolVar(&existing, "existing", false, "Also organize archives already in DIR")
	cmd.Flags().DurationVar(&settle, "settle", watch.DefaultSettle, "How long an archive must stay unchanged before it is organized")

	return cmd
}
