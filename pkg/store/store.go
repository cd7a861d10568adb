// Package store keeps shared diagrams for the preview service.
//
// A shared diagram is its DSL source plus a little metadata, addressed by a
// generated UUID. Three backends implement [Store]:
//   - [Memory]: process-local, used by default and in tests
//   - [Redis]: JSON documents plus a sorted-set index for listing
//   - [Mongo]: one BSON document per diagram
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/dsl"
	"github.com/matzehuels/seqdraw/pkg/errors"
)

// Document is one shared diagram.
type Document struct {
	ID           string    `json:"id" bson:"_id"`
	Title        string    `json:"title" bson:"title"`
	Source       string    `json:"source" bson:"source"`
	Participants int       `json:"participants" bson:"participants"`
	Messages     int       `json:"messages" bson:"messages"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// NewDocument parses src to fill in the summary fields and assigns a fresh id.
func NewDocument(src string) Document {
	d := dsl.Parse(src)
	return Document{
		ID:           uuid.NewString(),
		Title:        d.Title,
		Source:       src,
		Participants: len(d.Participants),
		Messages:     len(d.Messages),
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Diagram parses the stored source.
func (d Document) Diagram() *diagram.Diagram {
	return dsl.Parse(d.Source)
}

// Store persists documents.
//
// Get and Delete of an unknown id return an error carrying
// [errors.ErrCodeDiagramNotFound]. List returns the newest documents first.
type Store interface {
	Put(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]Document, error)
	Close() error
}

// DefaultListLimit caps List when limit is not positive.
const DefaultListLimit = 50

func notFound(id string) error {
	return errors.New(errors.ErrCodeDiagramNotFound, "diagram %q not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
