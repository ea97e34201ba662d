package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one ingestion's normalized record set with its statistics.
// It is replaced wholesale on the next ingestion and never patched.
type Snapshot struct {
	ID       string    `json:"snapshot_id"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  []Record  `json:"-"`
	Summary  Summary   `json:"summary"`
}

// NewSnapshot stamps records with a fresh id and load time and computes the
// summary once, since statistics depend only on the full set.
func NewSnapshot(records []Record) *Snapshot {
	if records == nil {
		records = []Record{}
	}
	return &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: clock.Now().UTC(),
		Records:  records,
		Summary:  Summarize(records),
	}
}

// Find returns the record with the given id.
func (s *Snapshot) Find(id string) (Record, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Contains reports whether a record with this id is in the snapshot.
func (s *Snapshot) Contains(id string) bool {
	_, ok := s.Find(id)
	return ok
}
