package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tinysteps/internal/logger"
)

const saveTimeout = 5 * time.Second

// Recorder appends usage records in memory and persists the whole list in
// the background. Recording never blocks on storage and never fails.
// Nothing is saved until the stored history has been loaded, so a failed
// load never overwrites it.
type Recorder struct {
	mu      sync.Mutex
	records []Record

	storage Storage
	log     *logger.Logger
	now     func() time.Time

	loadMu    sync.Mutex
	loaded    bool
	dirty     chan struct{}
	flushReq  chan chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithStorage sets the backing storage. Without it the recorder keeps
// records in memory only.
func WithStorage(s Storage) Option {
	return func(r *Recorder) { r.storage = s }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *logger.Logger) Option {
	return func(r *Recorder) { r.log = logger.OrNop(l) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder creates a Recorder and, when storage is configured, starts
// its writer goroutine. Call Close to stop it.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		log:      logger.Nop(),
		now:      time.Now,
		dirty:    make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.storage != nil {
		go r.writer()
	} else {
		close(r.done)
	}
	return r
}

// Load reads persisted records. After a failure it may be called again;
// the writer also retries it before every save. Records made before the
// load keep their place after the loaded history. Without storage it does
// nothing.
func (r *Recorder) Load(ctx context.Context) error {
	if r.storage == nil {
		return nil
	}
	r.loadMu.Lock()
	defer r.loadMu.Unlock()
	if r.loaded {
		return nil
	}

	history, err := r.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load usage history: %w", err)
	}
	r.mu.Lock()
	r.records = append(history, r.records...)
	r.mu.Unlock()
	r.loaded = true
	return nil
}

// Record appends a usage record and schedules persistence.
func (r *Recorder) Record(userID, tenantID string, feature Feature, tokens int) Record {
	if tokens < 0 {
		tokens = 0
	}
	rec := Record{
		ID:         uuid.NewString(),
		UserID:     userID,
		TenantID:   tenantID,
		Feature:    feature,
		TokensUsed: tokens,
		Timestamp:  r.now().UTC(),
	}

	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()

	if r.storage != nil {
		select {
		case r.dirty <- struct{}{}:
		default:
			// A save is already pending and will include this record.
		}
	}
	return rec
}

// Stats aggregates the tenant's records. MonthlyUsage counts records since
// the first day of the current month on the recorder's clock.
func (r *Recorder) Stats(tenantID string) Stats {
	now := r.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := Stats{FeatureBreakdown: make(map[Feature]int)}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.TenantID != tenantID {
			continue
		}
		stats.TotalQueries++
		stats.TotalTokens += rec.TokensUsed
		stats.FeatureBreakdown[rec.Feature]++
		if !rec.Timestamp.Before(monthStart) {
			stats.MonthlyUsage++
		}
	}
	return stats
}

// Records returns a copy of the tenant's records, oldest first. An empty
// tenantID returns every record.
func (r *Recorder) Records(tenantID string) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		if tenantID == "" || rec.TenantID == tenantID {
			out = append(out, rec)
		}
	}
	return out
}

// Flush blocks until everything recorded so far has been handed to storage.
func (r *Recorder) Flush(ctx context.Context) error {
	if r.storage == nil {
		return nil
	}
	ack := make(chan struct{})
	select {
	case r.flushReq <- ack:
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close persists pending records and stops the writer.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.stop)
		<-r.done
	})
}

func (r *Recorder) writer() {
	defer close(r.done)
	// unsaved is set while records are held back by a failed load.
	unsaved := false
	for {
		select {
		case <-r.dirty:
			unsaved = !r.persist()
		case ack := <-r.flushReq:
			r.drain()
			unsaved = !r.persist()
			close(ack)
		case <-r.stop:
			if r.drain() || unsaved {
				r.persist()
			}
			return
		}
	}
}

// drain consumes a pending dirty signal and reports whether there was one.
func (r *Recorder) drain() bool {
	select {
	case <-r.dirty:
		return true
	default:
		return false
	}
}

// persist saves the full list and reports whether the history was loaded.
// A failed save is logged and not retried until the next record.
func (r *Recorder) persist() bool {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := r.Load(ctx); err != nil {
		r.log.Warn("persisting usage failed", "error", err)
		return false
	}

	r.mu.Lock()
	snapshot := make([]Record, len(r.records))
	copy(snapshot, r.records)
	r.mu.Unlock()

	if err := r.storage.Save(ctx, snapshot); err != nil {
		r.log.Warn("persisting usage failed", "records", len(snapshot), "error", err)
	}
	return true
}
