package remote

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"workboard-api/domain"
)

// ItemSource supplies item drafts for import.
type ItemSource interface {
	FetchItems(ctx context.Context, userID string) ([]domain.ItemDraft, error)
}

// BoardSink accepts commands produced by the loader.
type BoardSink interface {
	Apply(userID string, cmd domain.Command) domain.Outcome
}

// LoaderConfig tunes the import worker pool.
type LoaderConfig struct {
	Workers        int
	Buffer         int
	FetchTimeout   time.Duration
	HandoffTimeout time.Duration
}

// DefaultLoaderConfig returns the pool tuning used when no env overrides
// are present.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Workers:        4,
		Buffer:         64,
		FetchTimeout:   30 * time.Second,
		HandoffTimeout: 15 * time.Millisecond,
	}
}

// Loader imports remote items into boards out-of-band. A fetch completes in
// the background and its results are applied as ordinary create commands;
// the board itself never waits on the collaborator. Failed fetches are
// logged and dropped, matching the no-automatic-retry contract.
type Loader struct {
	src    ItemSource
	boards BoardSink
	logger *log.Logger
	cfg    LoaderConfig
	jobs   chan string
	done   chan struct{}
}

// NewLoader starts the worker pool.
func NewLoader(src ItemSource, boards BoardSink, logger *log.Logger, cfg LoaderConfig) *Loader {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = cfg.Workers * 2
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultLoaderConfig().FetchTimeout
	}
	l := &Loader{
		src:    src,
		boards: boards,
		logger: logger,
		cfg:    cfg,
		jobs:   make(chan string, cfg.Buffer),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Workers; i++ {
		go l.worker(i)
	}
	logger.WithFields(log.Fields{"workers": cfg.Workers, "buffer": cfg.Buffer}).Info("import loader started")
	return l
}

// Enqueue hands a user's import to the pool without blocking the caller
// beyond the configured handoff window. Returns false when the pool is
// saturated or shut down.
func (l *Loader) Enqueue(userID string) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.jobs <- userID:
		return true
	default:
	}

	if l.cfg.HandoffTimeout <= 0 {
		return false
	}
	timer := time.NewTimer(l.cfg.HandoffTimeout)
	defer timer.Stop()
	select {
	case l.jobs <- userID:
		return true
	case <-timer.C:
		return false
	case <-l.done:
		return false
	}
}

// Close stops accepting imports and lets in-flight fetches finish or time
// out on their own.
func (l *Loader) Close() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}

func (l *Loader) worker(id int) {
	for {
		select {
		case <-l.done:
			return
		case userID := <-l.jobs:
			l.run(id, userID)
		}
	}
}

func (l *Loader) run(workerID int, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), l.cfg.FetchTimeout)
	defer cancel()

	drafts, err := l.src.FetchItems(ctx, userID)
	if err != nil {
		l.logger.WithFields(log.Fields{"user": userID, "worker": workerID, "error": err.Error()}).Error("item import fetch failed")
		return
	}

	applied, skipped := 0, 0
	for _, draft := range drafts {
		data, err := sonic.Marshal(domain.CreateItemPayload{Item: draft})
		if err != nil {
			skipped++
			continue
		}
		cmd := domain.Command{
			EntityType: domain.EntityItem,
			Type:       domain.CmdCreate,
			Data:       data,
			Timestamp:  time.Now().UnixNano(),
		}
		if out := l.boards.Apply(userID, cmd); out == domain.OutcomeApplied {
			applied++
		} else {
			skipped++
		}
	}
	l.logger.WithFields(log.Fields{"user": userID, "worker": workerID, "applied": applied, "skipped": skipped}).Info("item import finished")
}
