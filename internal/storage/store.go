// Package storage persists trips, participants and expenses. Two backends
// implement TripStore: SQLite for production and an in-memory map for tests
// and the memory data backend.
package storage

import (
	"context"
	"errors"

	"tripsplit/internal/core"
)

// ErrNotFound is returned when a trip or expense does not exist.
var ErrNotFound = errors.New("not found")

// TripStore is the persistence boundary used by the service layer. Get
// operations return trips fully hydrated with people, expenses and splits.
type TripStore interface {
	CreateTrip(ctx context.Context, trip *core.Trip) error
	GetTrip(ctx context.Context, id string) (*core.Trip, error)
	ListTrips(ctx context.Context) ([]core.Trip, error)
	DeleteTrip(ctx context.Context, id string) error

	AddExpense(ctx context.Context, expense *core.Expense) error
	DeleteExpense(ctx context.Context, tripID, expenseID string) error

	Close() error
}
