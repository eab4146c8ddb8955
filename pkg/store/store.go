// Package store persists packed layouts for the HTTP API.
//
// Two backends implement [Store]:
//   - [MemoryStore]: process-local, used for development and tests
//   - [MongoStore]: MongoDB collection, used for shared deployments
//
// Records are addressed by random UUIDs assigned on first Put.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/codecity/pkg/layout"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("layout not found")

// Record is a stored layout.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	Layout    layout.Layout `json:"layout" bson:"layout"`
	InputHash string        `json:"input_hash,omitempty" bson:"input_hash,omitempty"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// Store keeps layout records.
type Store interface {
	// Put inserts or replaces rec. An empty ID is filled in.
	Put(ctx context.Context, rec *Record) error
	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// Delete removes the record with the given ID or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a fresh record ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a well-formed record ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}
