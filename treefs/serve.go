package treefs

import (
	"context"
	"fmt"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/logging"
)

// Serve mounts fsys read-only at mountpoint and serves requests until ctx is
// cancelled or the filesystem is unmounted externally.
func Serve(ctx context.Context, mountpoint string, fsys *FS, log *logging.Logger) error {
	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("zipsort"),
		fuse.Subtype("zipsort"),
		fuse.ReadOnly(),
	)
	if err != nil {
		return fmt.Errorf("failed to mount %s: %w", mountpoint, err)
	}
	defer c.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			log.Info("Unmounting", zap.String("mountpoint", mountpoint))
			if err := fuse.Unmount(mountpoint); err != nil {
				log.Warn("Unmount failed", zap.String("mountpoint", mountpoint), zap.Error(err))
			}
		case <-done:
		}
	}()

	log.Info("Serving archive tree", zap.String("mountpoint", mountpoint))
	return fs.Serve(c, fsys)
}
