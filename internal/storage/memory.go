package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/core"
)

// MemoryStore keeps trips in a map. It backs the memory data backend and the
// handler tests. All reads return deep copies so callers cannot mutate the
// stored state.
type MemoryStore struct {
	mu    sync.RWMutex
	trips map[string]*core.Trip
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trips: make(map[string]*core.Trip)}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateTrip(ctx context.Context, trip *core.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}
	for i := range trip.People {
		if trip.People[i].ID == "" {
			trip.People[i].ID = uuid.NewString()
		}
	}

	s.trips[trip.ID] = copyTrip(trip)
	return nil
}

func (s *MemoryStore) GetTrip(ctx context.Context, id string) (*core.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trip, ok := s.trips[id]
	if !ok {
		return nil, fmt.Errorf("trip %s: %w", id, ErrNotFound)
	}
	return copyTrip(trip), nil
}

func (s *MemoryStore) ListTrips(ctx context.Context) ([]core.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trips := make([]core.Trip, 0, len(s.trips))
	for _, t := range s.trips {
		c := copyTrip(t)
		c.Expenses = nil
		trips = append(trips, *c)
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	return trips, nil
}

func (s *MemoryStore) DeleteTrip(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trips[id]; !ok {
		return fmt.Errorf("trip %s: %w", id, ErrNotFound)
	}
	delete(s.trips, id)
	return nil
}

func (s *MemoryStore) AddExpense(ctx context.Context, expense *core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[expense.TripID]
	if !ok {
		return fmt.Errorf("trip %s: %w", expense.TripID, ErrNotFound)
	}
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.OccurredAt.IsZero() {
		expense.OccurredAt = time.Now().UTC()
	}

	e := *expense
	e.Splits = append([]core.Split(nil), expense.Splits...)
	trip.Expenses = append(trip.Expenses, e)
	return nil
}

func (s *MemoryStore) DeleteExpense(ctx context.Context, tripID, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[tripID]
	if !ok {
		return fmt.Errorf("trip %s: %w", tripID, ErrNotFound)
	}
	for i, e := range trip.Expenses {
		if e.ID == expenseID {
			trip.Expenses = append(trip.Expenses[:i], trip.Expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
}

func copyTrip(t *core.Trip) *core.Trip {
	c := *t
	c.People = append([]core.Participant(nil), t.People...)
	c.Expenses = make([]core.Expense, len(t.Expenses))
	for i, e := range t.Expenses {
		c.Expenses[i] = e
		c.Expenses[i].Splits = append([]core.Split(nil), e.Splits...)
	}
	return &c
}
