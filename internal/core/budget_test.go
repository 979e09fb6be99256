package core

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func allocationSum(plan BudgetPlan) float64 {
	var sum float64
	for _, a := range plan.Allocations {
		sum += a.Allocated
	}
	return Round2(sum)
}

func TestNewBudgetPlan(t *testing.T) {
	plan, err := NewBudgetPlan("trip-1", 1000, 5, "USD", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.DailyBudget != 200 {
		t.Errorf("DailyBudget = %v, want 200", plan.DailyBudget)
	}
	if len(plan.Allocations) != len(DefaultCategoryWeights) {
		t.Fatalf("got %d allocations, want %d", len(plan.Allocations), len(DefaultCategoryWeights))
	}
	if got := allocationSum(plan); got != 1000 {
		t.Errorf("allocations sum to %v, want 1000", got)
	}
	// Default weights sum to 100, so percentages map directly.
	if plan.Allocations[0].Category != "accommodation" || plan.Allocations[0].Allocated != 350 {
		t.Errorf("accommodation allocation = %+v, want 350", plan.Allocations[0])
	}
}

func TestNewBudgetPlanNormalizesWeights(t *testing.T) {
	weights := []CategoryWeight{
		{Name: "food", Weight: 3},
		{Name: "transport", Weight: 1},
	}
	plan, err := NewBudgetPlan("trip-1", 200, 4, "EUR", weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Allocations[0].Allocated != 150 || plan.Allocations[1].Allocated != 50 {
		t.Errorf("allocations = %+v, want 150/50", plan.Allocations)
	}
	if plan.Allocations[0].Percentage != 75 {
		t.Errorf("food percentage = %v, want 75", plan.Allocations[0].Percentage)
	}
}

// Allocation exactness: allocations sum to the budget to the cent even when
// weights divide unevenly.
func TestNewBudgetPlanAllocationExactness(t *testing.T) {
	weights := []CategoryWeight{
		{Name: "a", Weight: 1},
		{Name: "b", Weight: 1},
		{Name: "c", Weight: 1},
	}
	for _, budget := range []float64{100, 0.10, 999.99, 1234.56} {
		plan, err := NewBudgetPlan("t", budget, 1, "USD", weights)
		if err != nil {
			t.Fatalf("budget=%v: %v", budget, err)
		}
		if got := allocationSum(plan); got != Round2(budget) {
			t.Errorf("budget=%v: allocations sum to %v", budget, got)
		}
	}
}

func TestNewBudgetPlanInvalidInputs(t *testing.T) {
	if _, err := NewBudgetPlan("t", 100, 0, "USD", nil); err != ErrInvalidDuration {
		t.Errorf("zero duration: got %v, want ErrInvalidDuration", err)
	}
	if _, err := NewBudgetPlan("t", 100, -3, "USD", nil); err != ErrInvalidDuration {
		t.Errorf("negative duration: got %v, want ErrInvalidDuration", err)
	}
	if _, err := NewBudgetPlan("t", 100, 2, "USD", []CategoryWeight{{Name: "x", Weight: -1}}); err == nil {
		t.Error("negative weight: expected error")
	}
}

func TestUpdateSpending(t *testing.T) {
	plan, err := NewBudgetPlan("trip-1", 1000, 5, "USD", []CategoryWeight{
		{Name: "food", Weight: 50},
		{Name: "transport", Weight: 50},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expenses := []Expense{
		{TripID: "trip-1", Category: "food", Amount: 450},
		{TripID: "trip-1", Category: "transport", Amount: 100},
		{TripID: "other-trip", Category: "food", Amount: 9999}, // ignored
	}

	updated := UpdateSpending(plan, expenses)

	food := updated.Spending[0]
	if food.Spent != 450 || food.Remaining != 50 || food.PercentUsed != 90 {
		t.Errorf("food spending = %+v, want spent 450 remaining 50 used 90%%", food)
	}
	transport := updated.Spending[1]
	if transport.Spent != 100 || transport.Remaining != 400 || transport.PercentUsed != 20 {
		t.Errorf("transport spending = %+v", transport)
	}

	// food crossed 80% -> one category warning; overall is at 55%, no overall alert.
	if len(updated.Alerts) != 1 {
		t.Fatalf("got %d alerts %v, want 1", len(updated.Alerts), updated.Alerts)
	}
	if updated.Alerts[0].Level != AlertWarning || updated.Alerts[0].Category != "food" {
		t.Errorf("alert = %+v, want food warning", updated.Alerts[0])
	}

	// The input plan must be untouched.
	if plan.Spending[0].Spent != 0 || len(plan.Alerts) != 0 {
		t.Errorf("UpdateSpending mutated its input plan: %+v", plan)
	}
}

func TestUpdateSpendingAlertPriority(t *testing.T) {
	plan, err := NewBudgetPlan("t", 100, 1, "USD", []CategoryWeight{
		{Name: "food", Weight: 50},
		{Name: "transport", Weight: 50},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Overall 120% (danger), food 200% (danger), transport 40% (quiet).
	updated := UpdateSpending(plan, []Expense{
		{TripID: "t", Category: "food", Amount: 100},
		{TripID: "t", Category: "transport", Amount: 20},
	})

	if len(updated.Alerts) != 2 {
		t.Fatalf("got %d alerts %v, want 2", len(updated.Alerts), updated.Alerts)
	}
	if updated.Alerts[0].Category != "" || updated.Alerts[0].Level != AlertDanger {
		t.Errorf("first alert = %+v, want overall danger first", updated.Alerts[0])
	}
	if updated.Alerts[1].Category != "food" || updated.Alerts[1].Level != AlertDanger {
		t.Errorf("second alert = %+v, want food danger", updated.Alerts[1])
	}
}

func TestUpdateSpendingInclusiveThresholds(t *testing.T) {
	plan, err := NewBudgetPlan("t", 100, 1, "USD", []CategoryWeight{{Name: "food", Weight: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Exactly 80% is a warning, exactly 100% is a danger.
	at80 := UpdateSpending(plan, []Expense{{TripID: "t", Category: "food", Amount: 80}})
	if len(at80.Alerts) == 0 || at80.Alerts[0].Level != AlertWarning {
		t.Errorf("80%% should raise a warning, got %v", at80.Alerts)
	}
	at100 := UpdateSpending(plan, []Expense{{TripID: "t", Category: "food", Amount: 100}})
	if len(at100.Alerts) == 0 || at100.Alerts[0].Level != AlertDanger {
		t.Errorf("100%% should raise a danger alert, got %v", at100.Alerts)
	}
}

func TestUpdateSpendingZeroAllocation(t *testing.T) {
	plan := BudgetPlan{
		TripID:      "t",
		TotalBudget: 100,
		Allocations: []CategoryAllocation{{Category: "misc", Allocated: 0}},
	}
	updated := UpdateSpending(plan, []Expense{{TripID: "t", Category: "misc", Amount: 10}})
	if updated.Spending[0].PercentUsed != 0 {
		t.Errorf("percentUsed with zero allocation = %v, want 0", updated.Spending[0].PercentUsed)
	}
}

// Idempotence: recomputing with the same expense set is a fixed point.
func TestUpdateSpendingIdempotent(t *testing.T) {
	plan, err := NewBudgetPlan("t", 500, 5, "USD", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expenses := []Expense{
		{TripID: "t", Category: "food", Amount: 123.45},
		{TripID: "t", Category: "transport", Amount: 250},
	}
	once := UpdateSpending(plan, expenses)
	twice := UpdateSpending(once, expenses)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("UpdateSpending not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestTripDays(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{name: "same day", start: day(1), end: day(1), want: 1},
		{name: "inclusive span", start: day(1), end: day(5), want: 5},
		{name: "reversed dates floor to one", start: day(5), end: day(1), want: 1},
		{name: "missing dates default to one", want: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TripDays(tc.start, tc.end); got != tc.want {
				t.Errorf("TripDays = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDefaultWeightsCoverage(t *testing.T) {
	var sum float64
	for _, w := range DefaultCategoryWeights {
		sum += w.Weight
	}
	if math.Abs(sum-100) > 0.001 {
		t.Errorf("default weights sum to %v, want 100", sum)
	}
}
