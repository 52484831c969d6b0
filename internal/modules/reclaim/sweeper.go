// Package reclaim removes uploads that were never attached to a post.
package reclaim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"socialapp/internal/pkg/storage"
)

type Config struct {
	Interval  time.Duration // time between passes
	MaxAge    time.Duration // unattached files older than this are removed
	BatchSize int           // rows fetched per query
	LockTTL   time.Duration // lease length when a Locker is set
}

func DefaultConfig() Config {
	return Config{
		Interval:  24 * time.Hour,
		MaxAge:    24 * time.Hour,
		BatchSize: 500,
		LockTTL:   time.Hour,
	}
}

// Stats describes one pass.
type Stats struct {
	StartedAt time.Time     `json:"started_at"`
	Cutoff    time.Time     `json:"cutoff"`
	Duration  time.Duration `json:"duration"`
	Scanned   int           `json:"scanned"`
	Reclaimed int           `json:"reclaimed"`
	// the object is gone but the row was kept for the next pass
	ObjectFailures int `json:"object_failures"`
	RowFailures    int `json:"row_failures"`
	// rows attached to a post between listing and deletion
	Claimed    int    `json:"claimed"`
	ListFailed bool   `json:"list_failed"`
	Skipped    string `json:"skipped,omitempty"`
}

// Sweeper runs reclamation passes, either on demand through RunOnce or on a
// fixed interval between Start and Stop.
type Sweeper struct {
	files  FileRepository
	store  storage.ObjectStore
	log    *zap.Logger
	cfg    Config
	locker Locker
	now    func() time.Time

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(files FileRepository, store storage.ObjectStore, log *zap.Logger, cfg Config) *Sweeper {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = def.MaxAge
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = def.LockTTL
	}
	return &Sweeper{
		files: files,
		store: store,
		log:   log.Named("reclaim"),
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *Sweeper) SetClock(now func() time.Time) { s.now = now }

func (s *Sweeper) SetLocker(l Locker) { s.locker = l }

// RunOnce performs a single pass. It never fails: every problem is logged
// and the affected rows are left for a later pass. A call made while
// another pass is in progress returns immediately with Skipped set.
func (s *Sweeper) RunOnce(ctx context.Context) Stats {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("sweep already in progress, skipping pass")
		passesSkipped.WithLabelValues("busy").Inc()
		return Stats{Skipped: "busy"}
	}
	defer s.running.Store(false)

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, s.cfg.LockTTL)
		switch {
		case err != nil:
			// sweeping without the lease only risks redundant deletes
			s.log.Warn("sweep lock unavailable, sweeping locally", zap.Error(err))
		case !ok:
			s.log.Info("sweep lease held by another instance, skipping pass")
			passesSkipped.WithLabelValues("lease").Inc()
			return Stats{Skipped: "lease"}
		default:
			defer release()
		}
	}

	start := s.now()
	stats := Stats{StartedAt: start, Cutoff: start.UTC().Add(-s.cfg.MaxAge)}
	s.sweep(ctx, &stats)
	stats.Duration = s.now().Sub(start)

	passDuration.Observe(stats.Duration.Seconds())
	lastPassTimestamp.SetToCurrentTime()
	filesReclaimed.Add(float64(stats.Reclaimed))

	s.log.Info("sweep completed",
		zap.Time("cutoff", stats.Cutoff),
		zap.Int("scanned", stats.Scanned),
		zap.Int("reclaimed", stats.Reclaimed),
		zap.Int("object_failures", stats.ObjectFailures),
		zap.Int("row_failures", stats.RowFailures),
		zap.Int("claimed", stats.Claimed),
		zap.Bool("list_failed", stats.ListFailed),
		zap.Duration("duration", stats.Duration),
	)
	return stats
}

func (s *Sweeper) sweep(ctx context.Context, stats *Stats) {
	var afterID int64
	for {
		batch, err := s.files.ListUnattachedBefore(ctx, stats.Cutoff, afterID, s.cfg.BatchSize)
		if err != nil {
			s.log.Error("failed to list unattached files", zap.Error(err))
			deleteFailures.WithLabelValues("list").Inc()
			stats.ListFailed = true
			return
		}

		for _, f := range batch {
			if ctx.Err() != nil {
				s.log.Info("sweep interrupted", zap.Error(ctx.Err()))
				return
			}
			afterID = f.ID
			stats.Scanned++

			// a failed object delete keeps the row so the object stays reachable
			if err := s.store.Delete(ctx, f.Filename); err != nil {
				s.log.Warn("failed to delete stored object, keeping row for retry",
					zap.Int64("file_id", f.ID), zap.String("key", f.Filename), zap.Error(err))
				deleteFailures.WithLabelValues("object").Inc()
				stats.ObjectFailures++
				continue
			}

			n, err := s.files.DeleteUnattached(ctx, f.ID)
			switch {
			case err != nil:
				s.log.Error("failed to delete file row",
					zap.Int64("file_id", f.ID), zap.Error(err))
				deleteFailures.WithLabelValues("row").Inc()
				stats.RowFailures++
			case n == 0:
				s.log.Error("file was attached while being reclaimed",
					zap.Int64("file_id", f.ID), zap.String("key", f.Filename))
				stats.Claimed++
			default:
				stats.Reclaimed++
			}
		}

		if len(batch) < s.cfg.BatchSize {
			return
		}
	}
}

// Start launches the periodic sweep. It is a no-op when already started.
// Ticks that fire while a pass is still running are dropped, not queued.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)

	s.log.Info("scheduled sweep started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("max_age", s.cfg.MaxAge),
		zap.Int("batch_size", s.cfg.BatchSize))
}

func (s *Sweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := s.RunOnce(ctx)
			if stats.Duration >= s.cfg.Interval {
				s.log.Warn("sweep pass outlasted the interval, missed ticks skipped",
					zap.Duration("duration", stats.Duration))
				passesSkipped.WithLabelValues("overrun").Inc()
			}
			ticker.Reset(s.cfg.Interval)
		case <-ctx.Done():
			s.log.Info("scheduled sweep stopped")
			return
		}
	}
}

// Stop cancels the loop and waits for an in-flight pass to return.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
