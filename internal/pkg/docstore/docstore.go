// Package docstore persists one document collection per service.
//
// Documents are plain structs embedding Meta. Stores assign the identifier
// and keep created_at/updated_at; callers never set them.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no document matches an id.
var ErrNotFound = errors.New("docstore: not found")

// Meta is embedded in every stored document.
type Meta struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Metadata gives stores access to the embedded Meta.
func (m *Meta) Metadata() *Meta { return m }

// Document is implemented by pointers to structs embedding Meta.
type Document interface {
	Metadata() *Meta
}

// Filter matches documents whose top-level field equals the given value.
// Keys are the stored field names (json/bson tag names).
type Filter map[string]string

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Query selects a page of documents.
type Query struct {
	Filter Filter
	Page   int
	Limit  int
}

// Normalize applies the pagination defaults.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	return q
}

func (q Query) Offset() int { return (q.Page - 1) * q.Limit }

// Collection stores documents of type T. *T must implement Document.
type Collection[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, doc *T) error
	Update(ctx context.Context, id string, doc *T) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q Query) ([]T, int64, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
}

// MetaOf returns the Meta of doc, failing for types that do not embed it.
func MetaOf[T any](doc *T) (*Meta, error) {
	d, ok := any(doc).(Document)
	if !ok {
		return nil, fmt.Errorf("docstore: %T does not embed docstore.Meta", doc)
	}
	return d.Metadata(), nil
}

// PrepareInsert assigns a fresh id and both timestamps.
func PrepareInsert[T any](doc *T, now time.Time) (*Meta, error) {
	m, err := MetaOf(doc)
	if err != nil {
		return nil, err
	}
	m.ID = uuid.NewString()
	m.CreatedAt = now
	m.UpdatedAt = now
	return m, nil
}

// PrepareUpdate pins the id, keeps created_at from the stored document and
// bumps updated_at.
func PrepareUpdate[T any](doc *T, id string, createdAt, now time.Time) (*Meta, error) {
	m, err := MetaOf(doc)
	if err != nil {
		return nil, err
	}
	m.ID = id
	m.CreatedAt = createdAt
	m.UpdatedAt = now
	return m, nil
}
