// Package repository holds the record stores backing each portal screen.
package repository

import (
	"context"
	"strconv"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

// Store is an ordered collection of records owned by a single screen of a
// single workspace. Implementations must never hand out an ID twice, even
// after the record holding it has been removed.
type Store[T domain.Record] interface {
	// List returns the records in insertion order.
	List(ctx context.Context) ([]T, error)
	// Append adds rec in last position.
	Append(ctx context.Context, rec T) error
	// Remove deletes the record with the given id and reports whether one
	// was present.
	Remove(ctx context.Context, id string) (bool, error)
	// NextID reserves a fresh identifier.
	NextID(ctx context.Context) (string, error)
	// Reset replaces the contents with seed.
	Reset(ctx context.Context, seed []T) error
}

// Factory opens the store for one screen of one workspace.
type Factory[T domain.Record] func(workspaceID, screen string) Store[T]

// highestNumericID returns the largest record id that parses as an integer,
// so generated IDs start above the seeded ones.
func highestNumericID[T domain.Record](records []T) int64 {
	var max int64
	for _, r := range records {
		n, err := strconv.ParseInt(r.RecordID(), 10, 64)
		if err == nil && n > max {
			max = n
		}
	}
	return max
}
