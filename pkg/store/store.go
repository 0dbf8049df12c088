// Package store persists named layout snapshots so they can be shared,
// listed, and re-rendered later.
//
// Two backends are included: an in-memory store for tests and
// single-process use, and a MongoDB store for the server. Records are
// identified by UUIDs assigned on first save.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/nestmap/pkg/layout"
	"github.com/matzehuels/nestmap/pkg/tree"
)

// Record is one persisted layout snapshot: the input tree, the viewport
// it was laid out for, and the resulting layout.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	Width     float64      `json:"width" bson:"width"`
	Height    float64      `json:"height" bson:"height"`
	Tree      *tree.Node   `json:"tree" bson:"tree"`
	Layout    *layout.Node `json:"layout,omitempty" bson:"layout,omitempty"`
}

// Summary is the listing view of a record, without the trees.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Width     float64   `json:"width" bson:"width"`
	Height    float64   `json:"height" bson:"height"`
}

// Store persists layout records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put saves a record, assigning an ID and creation time if unset.
	// An existing record with the same ID is replaced.
	Put(ctx context.Context, r *Record) error

	// Get retrieves a record by ID. A missing record yields an error
	// with code ErrCodeLayoutNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns summaries of all records, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare fills in the generated fields of a record before saving.
func prepare(r *Record) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}

func (r *Record) summary() Summary {
	return Summary{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		Width:     r.Width,
		Height:    r.Height,
	}
}
