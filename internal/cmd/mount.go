package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/pipeline"
	"github.com/dendrascience/zipsort/tree"
	"github.com/dendrascience/zipsort/treefs"
	"github.com/dendrascience/zipsort/version"
	"github.com/dendrascience/zipsort/workflow"
)

// NewMountCmd creates and returns the mount subcommand.
// It exposes the tree of an archive as a read-only FUSE filesystem.
func NewMountCmd() *cobra.Command {
	var organized bool

	cmd := &cobra.Command{
		Use:   "mount ARCHIVE MOUNTPOINT",
		Short: "Mount the tree of an archive read-only",
		Long: `Mount the tree of an archive as a read-only filesystem.

ARCHIVE is the archive to browse.
MOUNTPOINT is the directory where the filesystem will be mounted.

With --organized the mounted tree groups the files by extension, the way
organize would store them. Interrupt to unmount.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			archivePath, mountpoint := args[0], args[1]
			if pathsOverlap(archivePath, mountpoint) {
				return fmt.Errorf("mountpoint %s must not contain the archive %s", mountpoint, archivePath)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			log.Info("zipsort starting", zap.String("version", version.GetFullVersion()))

			info, err := os.Stat(archivePath)
			if err != nil {
				return err
			}
			name, data, err := readArchive(archivePath)
			if err != nil {
				return err
			}

			kind := workflow.KindExtract
			if organized {
				kind = workflow.KindOrganize
			}
			root, err := runOperation(cmd, kind, "Loading",
				func(ctx context.Context, progress workflow.ProgressFunc) (*tree.Node, error) {
					if !organized {
						return pipeline.Extract(ctx, name, data, progress)
					}
					org, err := pipeline.Organize(ctx, name, data, cfg.Bucketer(), progress)
					if err != nil {
						return nil, err
					}
					return org.Tree, nil
				})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return treefs.Serve(ctx, mountpoint, treefs.New(root, info.ModTime()), log)
		},
	}

	cmd.Flags().BoolVar(&organized, "organized", false, "Mount the organized tree instead of the archive layout")

	return cmd
}

// pathsOverlap reports whether one of the two paths contains the other.
func pathsOverlap(path1, path2 string) bool {
	abs1, err1 := filepath.Abs(path1)
	abs2, err2 := filepath.Abs(path2)
	if err1 != nil || err2 != nil {
		return false
	}
	abs1 = filepath.Clean(abs1) + string(filepath.Separator)
	abs2 = filepath.Clean(abs2) + string(filepath.Separator)
	return strings.HasPrefix(abs1, abs2) || strings.HasPrefix(abs2, abs1)
}
