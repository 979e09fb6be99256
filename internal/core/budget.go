package core

import (
	"fmt"
	"math"
	"time"
)

const (
	AlertWarning AlertLevel = "warning"
	AlertDanger  AlertLevel = "danger"

	// Inclusive percent-used thresholds for budget alerts.
	warnThreshold   = 80
	dangerThreshold = 100
)

type (
	AlertLevel string

	// CategoryWeight is one entry of an ordered weight list. Order matters:
	// the last category absorbs the allocation rounding remainder.
	CategoryWeight struct {
		Name   string
		Weight float64
	}

	// CategoryAllocation is the budget portion assigned to one category.
	CategoryAllocation struct {
		Category   string
		Allocated  float64
		Percentage float64
	}

	// CategorySpending tracks actual spend against one allocation.
	CategorySpending struct {
		Category    string
		Allocated   float64
		Spent       float64
		Remaining   float64
		PercentUsed float64
	}

	// Alert is a threshold notice attached to a plan. Category is empty for
	// overall-budget alerts.
	Alert struct {
		Level    AlertLevel
		Category string
		Message  string
	}

	// BudgetPlan distributes a trip's total budget across categories and
	// tracks spend against it. Plans are values; UpdateSpending returns a new
	// plan rather than mutating.
	BudgetPlan struct {
		TripID       string
		TotalBudget  float64
		BaseCurrency Currency
		DurationDays int
		DailyBudget  float64
		Allocations  []CategoryAllocation
		Spending     []CategorySpending
		Alerts       []Alert
	}
)

// DefaultCategoryWeights is the stock allocation profile applied when a trip
// has no custom weights. Weights are relative, not percentages; they happen
// to sum to 100 here but need not.
var DefaultCategoryWeights = []CategoryWeight{
	{Name: "accommodation", Weight: 35},
	{Name: "transport", Weight: 20},
	{Name: "food", Weight: 20},
	{Name: "activities", Weight: 10},
	{Name: "shopping", Weight: 5},
	{Name: "entertainment", Weight: 5},
	{Name: "health", Weight: 2},
	{Name: "other", Weight: 3},
}

// NewBudgetPlan allocates totalBudget across categories proportionally to
// their weights. Weights need not sum to anything in particular; they are
// normalized by their sum. The last category absorbs the rounding remainder
// so the allocations always sum exactly to totalBudget. A nil or empty weight
// list falls back to DefaultCategoryWeights.
func NewBudgetPlan(tripID string, totalBudget float64, durationDays int, currency Currency, weights []CategoryWeight) (BudgetPlan, error) {
	if durationDays <= 0 {
		return BudgetPlan{}, ErrInvalidDuration
	}
	if len(weights) == 0 {
		weights = DefaultCategoryWeights
	}

	var weightSum float64
	for _, w := range weights {
		if w.Weight <= 0 {
			return BudgetPlan{}, fmt.Errorf("category %q: weight must be positive, got %v", w.Name, w.Weight)
		}
		weightSum += w.Weight
	}

	allocations := make([]CategoryAllocation, len(weights))
	spending := make([]CategorySpending, len(weights))
	var allocated float64
	for i, w := range weights {
		share := w.Weight / weightSum
		var amount float64
		if i == len(weights)-1 {
			amount = Round2(totalBudget - allocated)
		} else {
			amount = Round2(share * totalBudget)
			allocated += amount
		}
		allocations[i] = CategoryAllocation{
			Category:   w.Name,
			Allocated:  amount,
			Percentage: Round2(share * 100),
		}
		spending[i] = CategorySpending{
			Category:  w.Name,
			Allocated: amount,
			Remaining: amount,
		}
	}

	return BudgetPlan{
		TripID:       tripID,
		TotalBudget:  totalBudget,
		BaseCurrency: currency,
		DurationDays: durationDays,
		DailyBudget:  Round2(totalBudget / float64(durationDays)),
		Allocations:  allocations,
		Spending:     spending,
	}, nil
}

// UpdateSpending recomputes per-category spend and threshold alerts from the
// given expense set, returning a new plan. Calling it twice with the same
// expenses yields the same plan.
//
// Alerts are generated in priority order: overall budget first, then each
// category in allocation order. Thresholds are inclusive and multiple alerts
// may coexist; nothing is deduplicated or suppressed.
func UpdateSpending(plan BudgetPlan, expenses []Expense) BudgetPlan {
	tripExpenses := expenses
	if plan.TripID != "" {
		tripExpenses = make([]Expense, 0, len(expenses))
		for _, e := range expenses {
			if e.TripID == "" || e.TripID == plan.TripID {
				tripExpenses = append(tripExpenses, e)
			}
		}
	}

	spentByCategory := make(map[string]float64, len(plan.Allocations))
	for _, e := range tripExpenses {
		spentByCategory[e.Category] += e.Amount
	}

	spending := make([]CategorySpending, len(plan.Allocations))
	for i, alloc := range plan.Allocations {
		spent := Round2(spentByCategory[alloc.Category])
		var percentUsed float64
		if alloc.Allocated > 0 {
			percentUsed = Round2(spent / alloc.Allocated * 100)
		}
		spending[i] = CategorySpending{
			Category:    alloc.Category,
			Allocated:   alloc.Allocated,
			Spent:       spent,
			Remaining:   Round2(alloc.Allocated - spent),
			PercentUsed: percentUsed,
		}
	}

	var alerts []Alert
	totalSpent := TotalSpent(tripExpenses)
	if plan.TotalBudget > 0 {
		overallUsed := totalSpent / plan.TotalBudget * 100
		if overallUsed >= dangerThreshold {
			alerts = append(alerts, Alert{
				Level: AlertDanger,
				Message: fmt.Sprintf("total budget exceeded by %.2f %s",
					Round2(totalSpent-plan.TotalBudget), plan.BaseCurrency),
			})
		} else if overallUsed >= warnThreshold {
			alerts = append(alerts, Alert{
				Level:   AlertWarning,
				Message: fmt.Sprintf("%.2f%% of total budget used", Round2(overallUsed)),
			})
		}
	}
	for _, s := range spending {
		if s.PercentUsed >= dangerThreshold {
			alerts = append(alerts, Alert{
				Level:    AlertDanger,
				Category: s.Category,
				Message: fmt.Sprintf("%s budget exceeded by %.2f %s",
					s.Category, math.Abs(s.Remaining), plan.BaseCurrency),
			})
		} else if s.PercentUsed >= warnThreshold {
			alerts = append(alerts, Alert{
				Level:    AlertWarning,
				Category: s.Category,
				Message:  fmt.Sprintf("%s is at %.2f%% of budget", s.Category, s.PercentUsed),
			})
		}
	}

	updated := plan
	updated.Spending = spending
	updated.Alerts = alerts
	return updated
}

// TripDays returns the inclusive day span between two dates:
// ceil((end-start)/1 day) + 1, with a floor of one day. A zero start or end
// also yields one day.
func TripDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 1
	}
	days := int(math.Ceil(end.Sub(start).Hours()/24)) + 1
	if days < 1 {
		return 1
	}
	return days
}
