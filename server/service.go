package server

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/config"
	"github.com/dendrascience/zipsort/logging"
	"github.com/dendrascience/zipsort/pipeline"
	"github.com/dendrascience/zipsort/store"
	"github.com/dendrascience/zipsort/tree"
	"github.com/dendrascience/zipsort/workflow"
)

// Result holds whatever a finished operation produced. Only the fields that
// belong to the operation kind are set.
type Result struct {
	Tree      *tree.Node
	Organized *pipeline.Organized
	Archive   []byte
	Name      string

	// Published holds the stored bucket archives of an organize run, in
	// Format. It is nil when no sink is configured.
	Published store.Store
	Format    archive.Format
}

// Session is one operation and its slot.
type Session struct {
	Slot workflow.Slot[*Result]
	done chan struct{}
}

// Done is closed when the operation reaches Done or Failed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Upload is one file of a compress request.
type Upload struct {
	RelativePath string
	Name         string
	Data         []byte
}

type Service struct {
	cfg      *config.Config
	log      *logging.Logger
	sink     store.Store
	sessions *lru.Cache[uuid.UUID, *Session]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a service. sink may be nil, in which case organized
// buckets are only kept in memory.
func NewService(cfg *config.Config, log *logging.Logger, sink store.Store) (*Service, error) {
	sessions, err := lru.New[uuid.UUID, *Session](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cfg:      cfg,
		log:      log,
		sink:     sink,
		sessions: sessions,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Stop cancels running operations and waits for them to exit.
func (s *Service) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Get returns the session for id.
func (s *Service) Get(id uuid.UUID) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrOperationNotFound
	}
	return sess, nil
}

func (s *Service) start(kind workflow.Kind, run func(ctx context.Context, id uuid.UUID, progress workflow.ProgressFunc) (*Result, error)) workflow.Operation {
	sess := &Session{done: make(chan struct{})}
	op := sess.Slot.Start(kind)
	s.sessions.Add(op.ID, sess)

	log := s.log.With(zap.String("operation_id", op.ID.String()), zap.String("kind", string(kind)))
	log.Info("Operation started")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(sess.done)
		result, err := run(s.ctx, op.ID, sess.Slot.Progress(op.ID))
		if err != nil {
			log.Error("Operation failed", zap.Error(err))
			sess.Slot.Fail(op.ID, err)
			return
		}
		sess.Slot.Finish(op.ID, result)
		log.Info("Operation finished")
	}()
	return op
}

// StartExtract extracts data into a browsable tree.
func (s *Service) StartExtract(name string, data []byte) workflow.Operation {
	return s.start(workflow.KindExtract, func(ctx context.Context, _ uuid.UUID, progress workflow.ProgressFunc) (*Result, error) {
		root, err := pipeline.Extract(ctx, name, data, progress)
		if err != nil {
			return nil, err
		}
		return &Result{Tree: root, Name: name}, nil
	})
}

// StartOrganize buckets data by extension. With a sink configured, every
// bucket archive and a manifest are stored below the operation ID.
func (s *Service) StartOrganize(name string, data []byte, f archive.Format) workflow.Operation {
	b := s.cfg.Bucketer()
	return s.start(workflow.KindOrganize, func(ctx context.Context, id uuid.UUID, progress workflow.ProgressFunc) (*Result, error) {
		org, err := pipeline.Organize(ctx, name, data, b, progress)
		if err != nil {
			return nil, err
		}
		res := &Result{Organized: org, Tree: org.Tree, Name: name, Format: f}
		if s.sink != nil {
			res.Published = store.Prefixed(s.sink, id.String())
			if err := pipeline.Publish(ctx, org, res.Published, b, f); err != nil {
				return nil, err
			}
		}
		return res, nil
	})
}

// StartCompress packs uploads into one archive.
func (s *Service) StartCompress(uploads []Upload, f archive.Format) workflow.Operation {
	entries := make([]archive.Entry, 0, len(uploads))
	for _, u := range uploads {
		entries = append(entries, archive.FileEntry(archive.ArchivePath(u.RelativePath, u.Name), u.Data))
	}
	return s.start(workflow.KindCompress, func(ctx context.Context, _ uuid.UUID, progress workflow.ProgressFunc) (*Result, error) {
		if len(entries) == 0 {
			return nil, archive.ErrNothingSelected
		}
		var buf bytes.Buffer
		if err := pipeline.Compress(ctx, entries, f, &buf, progress); err != nil {
			return nil, err
		}
		return &Result{Archive: buf.Bytes(), Name: pipeline.DefaultArchiveName(f)}, nil
	})
}
