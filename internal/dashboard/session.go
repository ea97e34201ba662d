// Package dashboard holds the single interactive session: the table and chart
// view parameters, the shared selection, and access to the loaded snapshot.
// Every view is re-projected from the snapshot on each call.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

var (
	// ErrNoData is returned by data views until a snapshot is published.
	ErrNoData = errors.New("no earthquake data loaded")
	// ErrInvalidParam marks a view parameter update that names an unknown field or direction.
	ErrInvalidParam = errors.New("invalid view parameter")
	// ErrRecordNotFound is returned when an id is absent from the current snapshot.
	ErrRecordNotFound = errors.New("record not found")
)

// SnapshotProvider returns the published snapshot, or nil while none is loaded.
type SnapshotProvider interface {
	Snapshot() *domain.Snapshot
}

// SelectionListener is called after every selection change with the new
// selection, or nil when cleared. Calls arrive in the order the changes were
// applied. A listener must not change the selection itself.
type SelectionListener func(rec *domain.Record)

// Session is the process-wide dashboard state. It is safe for concurrent use.
type Session struct {
	snapshots SnapshotProvider
	selection *domain.SelectionStore
	geocoder  domain.Geocoder
	logger    *slog.Logger
	metrics   *observability.Metrics

	// selMu orders each selection write with its notification.
	selMu sync.Mutex

	mu       sync.Mutex
	table    domain.ViewParams
	chart    domain.ChartParams
	listener SelectionListener
}

// NewSession creates a session with default view parameters. geocoder may be nil.
func NewSession(snapshots SnapshotProvider, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Session {
	return &Session{
		snapshots: snapshots,
		selection: domain.NewSelectionStore(),
		geocoder:  geocoder,
		logger:    logger,
		metrics:   metrics,
		table:     domain.DefaultViewParams(),
		chart:     domain.DefaultChartParams(),
	}
}

// OnSelectionChange registers the listener notified after Select and Clear.
func (s *Session) OnSelectionChange(fn SelectionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = fn
}

func (s *Session) snapshot() (*domain.Snapshot, error) {
	snap := s.snapshots.Snapshot()
	if snap == nil {
		return nil, ErrNoData
	}
	return snap, nil
}

// Snapshot returns the published snapshot or ErrNoData.
func (s *Session) Snapshot() (*domain.Snapshot, error) {
	return s.snapshot()
}

// Records returns the full normalized set in feed order.
func (s *Session) Records() ([]domain.Record, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

// Record looks up one record by id.
func (s *Session) Record(id string) (domain.Record, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.Record{}, err
	}
	rec, ok := snap.Find(id)
	if !ok {
		return domain.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return rec, nil
}

// Summary returns the statistics panel values for the full set.
func (s *Session) Summary() (domain.Summary, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.Summary{}, err
	}
	s.metrics.Projections.WithLabelValues("summary").Inc()
	return snap.Summary, nil
}

// SelectedID returns the current selection's id, or "".
func (s *Session) SelectedID() string {
	return s.selection.SelectedID()
}

// Select replaces the selection with rec. The record is not checked against
// the snapshot.
func (s *Session) Select(rec domain.Record) {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	s.selection.Select(rec)
	s.metrics.SelectionChanges.Inc()
	s.logger.Debug("record selected", "id", rec.ID)
	s.notify(&rec)
}

// SelectByID selects the snapshot record with this id.
func (s *Session) SelectByID(id string) (domain.Record, error) {
	rec, err := s.Record(id)
	if err != nil {
		return domain.Record{}, err
	}
	s.Select(rec)
	return rec, nil
}

// ClearSelection deselects.
func (s *Session) ClearSelection() {
	s.selMu.Lock()
	defer s.selMu.Unlock()
	s.selection.Clear()
	s.metrics.SelectionChanges.Inc()
	s.logger.Debug("selection cleared")
	s.notify(nil)
}

// Current returns the selected record, if any.
func (s *Session) Current() (domain.Record, bool) {
	return s.selection.Current()
}

func (s *Session) notify(rec *domain.Record) {
	s.mu.Lock()
	fn := s.listener
	s.mu.Unlock()
	if fn != nil {
		fn(rec)
	}
}

// Detail builds the detail panel for the current selection. It works before
// the snapshot is ready; InCurrentSet is then false.
func (s *Session) Detail(ctx context.Context) domain.Detail {
	s.metrics.Projections.WithLabelValues("detail").Inc()
	return domain.BuildDetail(ctx, s.selection, s.snapshots.Snapshot(), s.geocoder, s.logger)
}
