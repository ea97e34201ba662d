package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/feed"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

var (
	// ErrIngestion wraps any fetch or parse failure that leaves the dashboard without data.
	ErrIngestion = errors.New("ingestion failed")
	// ErrNotReady is returned by CheckReadiness while no snapshot is published.
	ErrNotReady = errors.New("earthquake data not loaded")
)

// State is the ingestion lifecycle: loading, then exactly one of ready or failed.
type State int32

const (
	StateLoading State = observability.StateLoading
	StateReady   State = observability.StateReady
	StateFailed  State = observability.StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// Exporter publishes a freshly loaded snapshot downstream.
type Exporter interface {
	Export(ctx context.Context, snap *domain.Snapshot) error
}

// Pipeline runs the one-shot fetch, parse and normalize pass and publishes
// the resulting snapshot.
type Pipeline struct {
	source   feed.Source
	exporter Exporter
	logger   *slog.Logger
	metrics  *observability.Metrics

	state    atomic.Int32
	snapshot atomic.Pointer[domain.Snapshot]
	failure  atomic.Pointer[error]
	done     chan struct{}
}

// New creates a Pipeline. exporter may be nil.
func New(source feed.Source, exporter Exporter, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:   source,
		exporter: exporter,
		logger:   logger,
		metrics:  metrics,
		done:     make(chan struct{}),
	}
}

// Run performs the ingestion once. It must be called at most once. The
// returned error wraps ErrIngestion; the state is failed in that case and no
// partial data is published.
func (p *Pipeline) Run(ctx context.Context) error {
	defer close(p.done)

	p.logger.Info("ingestion started", "source", p.source.Describe())
	p.metrics.IngestionState.Set(float64(StateLoading))
	start := time.Now()

	res, err := Ingest(ctx, p.source)
	if err != nil {
		p.fail(err)
		return err
	}
	p.observe(res)

	p.snapshot.Store(res.Snapshot)
	p.state.Store(int32(StateReady))
	p.metrics.IngestionState.Set(float64(StateReady))
	p.metrics.IngestionDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("ingestion complete",
		"snapshot_id", res.Snapshot.ID,
		"records", len(res.Snapshot.Records),
		"rows", res.RowsRead,
		"rejected", res.RejectedTotal(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	p.export(ctx, res.Snapshot)
	return nil
}

func (p *Pipeline) fail(err error) {
	p.failure.Store(&err)
	p.state.Store(int32(StateFailed))
	p.metrics.IngestionState.Set(float64(StateFailed))
	p.logger.Error("ingestion failed", "source", p.source.Describe(), "error", err)
}

func (p *Pipeline) observe(res Result) {
	p.metrics.RowsRead.Add(float64(res.RowsRead))
	p.metrics.RecordsLoaded.Set(float64(len(res.Snapshot.Records)))
	for reason, n := range res.Rejected {
		p.metrics.RowsRejected.WithLabelValues(reason).Add(float64(n))
	}
	for _, r := range res.Rejections {
		p.logger.Debug("row rejected", "row", r.Row, "id", r.ID, "reason", r.Reason, "error", r.Err)
	}
}

// export is best effort: a failure is logged and counted but the snapshot stays ready.
func (p *Pipeline) export(ctx context.Context, snap *domain.Snapshot) {
	if p.exporter == nil || len(snap.Records) == 0 {
		return
	}
	if err := p.exporter.Export(ctx, snap); err != nil {
		p.metrics.ExportMessages.WithLabelValues("error").Add(float64(len(snap.Records)))
		p.logger.Error("export failed", "snapshot_id", snap.ID, "error", err)
		return
	}
	p.metrics.ExportMessages.WithLabelValues("success").Add(float64(len(snap.Records)))
	p.logger.Info("snapshot exported", "snapshot_id", snap.ID, "records", len(snap.Records))
}

// Snapshot returns the published snapshot, or nil until the state is ready.
func (p *Pipeline) Snapshot() *domain.Snapshot {
	return p.snapshot.Load()
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Err returns the ingestion failure, if any.
func (p *Pipeline) Err() error {
	if e := p.failure.Load(); e != nil {
		return *e
	}
	return nil
}

// Done is closed when Run returns.
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}

// CheckReadiness returns nil once a snapshot is published. While loading it
// returns ErrNotReady; after a failure it returns the ingestion error.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	switch p.State() {
	case StateReady:
		return nil
	case StateFailed:
		return p.Err()
	default:
		return fmt.Errorf("%w: ingestion in progress", ErrNotReady)
	}
}
