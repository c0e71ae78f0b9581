// Package reportstore keeps a record of every styling and validation run so
// a report can be fetched again by run identifier.
//
// Three backends implement [Store]:
//   - [MemoryStore]: bounded in-process storage for tests and single-node servers
//   - [FileStore]: JSON files under the user's config directory, for the CLI
//   - [MongoStore]: a MongoDB collection shared by several server instances
package reportstore

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/polisher/pkg/quality"
)

// ErrNotFound is returned when a run record does not exist.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record describes one completed run.
type Record struct {
	ID         string          `json:"id" bson:"_id"`
	Brand      string          `json:"brand,omitempty" bson:"brand,omitempty"`
	Source     string          `json:"source,omitempty" bson:"source,omitempty"`
	SourceHash string          `json:"source_hash" bson:"source_hash"`
	ReportID   string          `json:"report_id" bson:"report_id"`
	Level      quality.Level   `json:"level" bson:"level"`
	Issues     []quality.Issue `json:"issues" bson:"issues"`
	CacheHit   bool            `json:"cache_hit,omitempty" bson:"cache_hit,omitempty"`
	Duration   time.Duration   `json:"duration_ns" bson:"duration_ns"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
}

// NewRecord builds a record for a run. brandID is empty for a validation of
// an unstyled document.
func NewRecord(runID, brandID, sourceHash string, rep *quality.Report) *Record {
	issues := rep.Issues()
	if issues == nil {
		issues = []quality.Issue{}
	}
	return &Record{
		ID:         runID,
		Brand:      brandID,
		SourceHash: sourceHash,
		ReportID:   rep.ID(),
		Level:      rep.Level(),
		Issues:     issues,
		CreatedAt:  time.Now().UTC(),
	}
}

// Store persists run records.
type Store interface {
	// Save inserts or replaces a record.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases resources held by the store.
	Close() error
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
