// Package store provides persistence for authored stories.
//
// This package defines the [Store] interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: JSON files on disk for CLI usage
//   - redis: Redis-backed storage for the shared editor server
//   - mongo: MongoDB-backed storage for long-lived deployments
//
// # Records
//
// Stories are persisted as [Record] values: a stable UUID, a
// human-chosen slug (the lookup key), a display title, timestamps, and
// the story's ordered wire payload. The payload is the same JSON object
// the core produces, so a record round-trips without touching scene
// semantics.
//
// # Usage
//
//	st := story.New(logger)
//	// ... author scenes ...
//
//	rec, err := store.NewRecord("my-story", "My Story", st)
//	if err != nil {
//	    return err
//	}
//	if err := s.Save(ctx, rec); err != nil {
//	    return err
//	}
//
//	rec, err = s.Load(ctx, "my-story")
//	if errors.Is(err, store.ErrNotFound) {
//	    // no such story
//	}
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	loomerrors "github.com/matzehuels/storyloom/pkg/errors"
	"github.com/matzehuels/storyloom/pkg/story"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no record exists for a slug.
	ErrNotFound = errors.New("story not found")
)

// Record is the persisted form of a story.
type Record struct {
	ID        string          `json:"id" bson:"id"`
	Slug      string          `json:"slug" bson:"slug"`
	Title     string          `json:"title" bson:"title"`
	Scenes    json.RawMessage `json:"scenes" bson:"scenes"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// Info is the payload-free summary used by listings.
type Info struct {
	ID        string    `json:"id" bson:"id"`
	Slug      string    `json:"slug" bson:"slug"`
	Title     string    `json:"title" bson:"title"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for story storage backends.
// Implementations are safe for concurrent use.
type Store interface {
	// Save upserts a record by slug, assigning an ID and timestamps as
	// needed.
	Save(ctx context.Context, rec *Record) error

	// Load retrieves a record by slug.
	// Returns ErrNotFound if no record exists.
	Load(ctx context.Context, slug string) (*Record, error)

	// Delete removes a record by slug.
	// Returns ErrNotFound if no record exists.
	Delete(ctx context.Context, slug string) error

	// List returns summaries of all stored stories, most recently
	// updated first.
	List(ctx context.Context) ([]Info, error)

	// Close releases backend resources.
	Close() error
}

// NewRecord builds a record from a story. The slug is validated, the ID
// assigned, and both timestamps set to now; Save refreshes UpdatedAt on
// every write.
func NewRecord(slug, title string, st *story.Story) (*Record, error) {
	if err := loomerrors.ValidateSlug(slug); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode story: %w", err)
	}
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.NewString(),
		Slug:      slug,
		Title:     title,
		Scenes:    payload,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Story reconstructs the narrative graph from the record's payload.
// The logger is attached to the returned story; nil discards warnings.
func (r *Record) Story(logger *log.Logger) (*story.Story, error) {
	return story.Unmarshal(r.Scenes, logger)
}

// SetStory replaces the record's payload with the story's current state.
func (r *Record) SetStory(st *story.Story) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode story: %w", err)
	}
	r.Scenes = payload
	return nil
}

// info derives the listing summary of a record.
func (r *Record) info() Info {
	return Info{ID: r.ID, Slug: r.Slug, Title: r.Title, UpdatedAt: r.UpdatedAt}
}

// prepare normalizes a record before writing: validates the slug, fills
// in a missing ID, backfills CreatedAt, and refreshes UpdatedAt.
func prepare(rec *Record) error {
	if err := loomerrors.ValidateSlug(rec.Slug); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return nil
}
