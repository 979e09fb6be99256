package storage

import (
	"context"
	"errors"
	"testing"

	"tripsplit/internal/core"
)

func newTestTrip() *core.Trip {
	return &core.Trip{
		Name:         "Tokyo 2026",
		BaseCurrency: "USD",
		Budget:       3000,
		People: []core.Participant{
			{Name: "Alice"},
			{Name: "Bob"},
		},
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	trip := newTestTrip()
	if err := store.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if trip.ID == "" {
		t.Fatal("CreateTrip should assign an ID")
	}
	if trip.People[0].ID == "" || trip.People[1].ID == "" {
		t.Fatal("CreateTrip should assign participant IDs")
	}

	got, err := store.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got.Name != "Tokyo 2026" || len(got.People) != 2 {
		t.Errorf("unexpected trip: %+v", got)
	}
}

func TestMemoryStore_GetTripNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.GetTrip(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_AddExpense(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	trip := newTestTrip()
	if err := store.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	expense := &core.Expense{
		TripID:      trip.ID,
		Description: "Dinner",
		Amount:      60,
		PayerID:     trip.People[0].ID,
		SplitType:   core.SplitEqual,
		Splits: []core.Split{
			{ParticipantID: trip.People[0].ID, Amount: 30},
			{ParticipantID: trip.People[1].ID, Amount: 30},
		},
	}
	if err := store.AddExpense(ctx, expense); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if expense.ID == "" {
		t.Fatal("AddExpense should assign an ID")
	}

	got, err := store.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if len(got.Expenses) != 1 || len(got.Expenses[0].Splits) != 2 {
		t.Errorf("unexpected expenses: %+v", got.Expenses)
	}
}

func TestMemoryStore_AddExpenseUnknownTrip(t *testing.T) {
	store := NewMemoryStore()
	err := store.AddExpense(context.Background(), &core.Expense{TripID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_DeleteExpense(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	trip := newTestTrip()
	store.CreateTrip(ctx, trip)
	expense := &core.Expense{TripID: trip.ID, Description: "Taxi", Amount: 20, PayerID: trip.People[0].ID}
	store.AddExpense(ctx, expense)

	if err := store.DeleteExpense(ctx, trip.ID, expense.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	got, _ := store.GetTrip(ctx, trip.ID)
	if len(got.Expenses) != 0 {
		t.Errorf("expense not removed: %+v", got.Expenses)
	}

	if err := store.DeleteExpense(ctx, trip.ID, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_DeleteTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	trip := newTestTrip()
	store.CreateTrip(ctx, trip)
	if err := store.DeleteTrip(ctx, trip.ID); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	if _, err := store.GetTrip(ctx, trip.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestMemoryStore_ReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	trip := newTestTrip()
	store.CreateTrip(ctx, trip)

	first, _ := store.GetTrip(ctx, trip.ID)
	first.People[0].Name = "Mallory"

	second, _ := store.GetTrip(ctx, trip.ID)
	if second.People[0].Name != "Alice" {
		t.Error("mutating a returned trip should not affect the store")
	}
}

func TestMemoryStore_ListTrips(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newTestTrip()
	store.CreateTrip(ctx, a)
	b := newTestTrip()
	b.Name = "Lisbon"
	store.CreateTrip(ctx, b)

	trips, err := store.ListTrips(ctx)
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("len(trips) = %d, want 2", len(trips))
	}
	for _, tr := range trips {
		if tr.Expenses != nil {
			t.Error("ListTrips should not hydrate expenses")
		}
	}
}
