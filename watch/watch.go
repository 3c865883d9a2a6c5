// Package watch organizes archives dropped into a folder.
//
// Every archive that appears in the watched folder (and stops changing for
// the settle delay) is bucketed by extension and its bucket archives are
// written to the sink below a folder named after the archive.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/bucket"
	"github.com/dendrascience/zipsort/logging"
	"github.com/dendrascience/zipsort/pipeline"
	"github.com/dendrascience/zipsort/store"
)

const DefaultSettle = 500 * time.Millisecond

type Options struct {
	Bucketer bucket.Bucketer
	Format   archive.Format
	// Settle is how long a file must stay quiet before it is processed.
	Settle time.Duration
	// Existing also processes archives already present at Start.
	Existing bool
	// OnProcessed is called after every attempt, with the error if any.
	OnProcessed func(path string, err error)
}

type Watcher struct {
	dir     string
	sink    store.Store
	opts    Options
	log     *logging.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(dir string, sink store.Store, opts Options, log *logging.Logger) (*Watcher, error) {
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	if opts.Format == "" {
		opts.Format = archive.DefaultFormat
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		dir:     filepath.Clean(dir),
		sink:    sink,
		opts:    opts,
		log:     log.With(zap.String("dir", dir)),
		watcher: watcher,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Start begins watching. It returns once the watch is established.
func (w *Watcher) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	if w.opts.Existing {
		entries, err := os.ReadDir(w.dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.IsDir() && archive.IsArchiveName(e.Name()) {
				w.schedule(filepath.Join(w.dir, e.Name()))
			}
		}
	}
	w.wg.Add(1)
	go w.watchLoop()
	w.log.Info("Watching for archives")
	return nil
}

// Stop ends the watch and waits for in-flight archives.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.mu.Lock()
	for p, t := range w.pending {
		// a timer stopped before firing never runs its Done
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, p)
	}
	w.mu.Unlock()
	w.wg.Wait()
	return err
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if filepath.Dir(event.Name) != w.dir || !archive.IsArchiveName(event.Name) {
		return
	}
	w.schedule(event.Name)
}

// schedule (re)starts the settle timer of path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok && t.Stop() {
		t.Reset(w.opts.Settle)
		return
	}
	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.opts.Settle, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		if w.ctx.Err() != nil {
			return
		}
		err := w.Process(w.ctx, path)
		if err != nil {
			w.log.Error("Failed to organize archive", zap.String("archive", path), zap.Error(err))
		}
		if w.opts.OnProcessed != nil {
			w.opts.OnProcessed(path, err)
		}
	})
	w.pending[path] = t
}

// Process organizes one archive file into the sink.
func (w *Watcher) Process(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	org, err := pipeline.Organize(ctx, name, data, w.opts.Bucketer, nil)
	if err != nil {
		return err
	}
	out := store.Prefixed(w.sink, archive.Stem(name))
	if err := pipeline.Publish(ctx, org, out, w.opts.Bucketer, w.opts.Format); err != nil {
		return err
	}
	w.log.Info("Organized archive",
		zap.String("archive", name),
		zap.Int("buckets", org.Buckets.Len()))
	return nil
}
