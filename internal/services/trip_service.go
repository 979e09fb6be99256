// Package services orchestrates the engine, storage and messaging. Handlers
// call into here and stay transport-only.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tripsplit/internal/core"
	"tripsplit/internal/narrative"
	"tripsplit/internal/storage"
)

var (
	ErrPayerNotInTrip       = errors.New("payer is not a trip participant")
	ErrParticipantNotInTrip = errors.New("split participant is not in the trip")
	ErrUnknownSplitType     = errors.New("unknown split type")
)

// EventPublisher is the outbound messaging port. The AMQP client satisfies
// it; a nil publisher disables events.
type EventPublisher interface {
	PublishExpenseRecorded(ctx context.Context, tripID, expenseID string) error
}

type TripService struct {
	store     storage.TripStore
	publisher EventPublisher
	rates     core.Rates
	narrator  narrative.Generator
}

func NewTripService(store storage.TripStore, publisher EventPublisher, rates core.Rates, narrator narrative.Generator) *TripService {
	if narrator == nil {
		narrator = narrative.Local{}
	}
	return &TripService{
		store:     store,
		publisher: publisher,
		rates:     rates,
		narrator:  narrator,
	}
}

// CreateTrip validates and persists a new trip. An empty base currency
// defaults to USD.
func (s *TripService) CreateTrip(ctx context.Context, trip *core.Trip) error {
	if trip.BaseCurrency == "" {
		trip.BaseCurrency = "USD"
	}
	if err := trip.Validate(); err != nil {
		return err
	}
	if _, ok := s.rates[trip.BaseCurrency]; !ok {
		return &core.UnknownCurrencyError{Code: trip.BaseCurrency}
	}
	return s.store.CreateTrip(ctx, trip)
}

func (s *TripService) GetTrip(ctx context.Context, id string) (*core.Trip, error) {
	return s.store.GetTrip(ctx, id)
}

func (s *TripService) ListTrips(ctx context.Context) ([]core.Trip, error) {
	return s.store.ListTrips(ctx)
}

func (s *TripService) DeleteTrip(ctx context.Context, id string) error {
	return s.store.DeleteTrip(ctx, id)
}

func (s *TripService) DeleteExpense(ctx context.Context, tripID, expenseID string) error {
	return s.store.DeleteExpense(ctx, tripID, expenseID)
}

// ExpenseInput is a split request as received by the API, before conversion
// and validation.
type ExpenseInput struct {
	TripID         string
	Description    string
	Amount         float64
	Currency       core.Currency
	Category       string
	PayerID        string
	SplitType      core.SplitType
	ParticipantIDs []string
	Amounts        []float64
	Percentages    []float64
	OccurredAt     time.Time
}

// RecordExpense converts the amount to the trip's base currency, computes the
// splits, persists the expense and publishes an expense-recorded event. The
// event is best effort: a broker failure never fails the request.
func (s *TripService) RecordExpense(ctx context.Context, in ExpenseInput) (*core.Expense, error) {
	trip, err := s.store.GetTrip(ctx, in.TripID)
	if err != nil {
		return nil, err
	}

	from := in.Currency
	if from == "" {
		from = trip.BaseCurrency
	}
	converted, err := core.Convert(in.Amount, from, trip.BaseCurrency, s.rates)
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = "other"
	}
	splitType := in.SplitType
	if splitType == "" {
		splitType = core.SplitEqual
	}

	expense := core.Expense{
		TripID:           in.TripID,
		Description:      in.Description,
		OriginalAmount:   in.Amount,
		OriginalCurrency: from,
		Amount:           converted,
		Category:         category,
		PayerID:          in.PayerID,
		SplitType:        splitType,
		OccurredAt:       in.OccurredAt,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	members := make(map[string]bool, len(trip.People))
	for _, p := range trip.People {
		members[p.ID] = true
	}
	if !members[in.PayerID] {
		return nil, fmt.Errorf("payer %s: %w", in.PayerID, ErrPayerNotInTrip)
	}

	participantIDs := in.ParticipantIDs
	if len(participantIDs) == 0 {
		participantIDs = make([]string, len(trip.People))
		for i, p := range trip.People {
			participantIDs[i] = p.ID
		}
	}
	for _, id := range participantIDs {
		if !members[id] {
			return nil, fmt.Errorf("participant %s: %w", id, ErrParticipantNotInTrip)
		}
	}

	switch splitType {
	case core.SplitEqual:
		expense.Splits, err = core.EqualSplit(converted, participantIDs)
	case core.SplitUnequal:
		amounts, convErr := s.convertShares(in.Amounts, from, trip.BaseCurrency)
		if convErr != nil {
			return nil, convErr
		}
		expense.Splits, err = core.UnequalSplit(converted, participantIDs, amounts)
	case core.SplitPercentage:
		expense.Splits, err = core.PercentageSplit(converted, participantIDs, in.Percentages)
	default:
		return nil, fmt.Errorf("split type %q: %w", splitType, ErrUnknownSplitType)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.AddExpense(ctx, &expense); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseRecorded(ctx, expense.TripID, expense.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense event",
				"trip_id", expense.TripID,
				"expense_id", expense.ID,
				"error", err)
		}
	}

	return &expense, nil
}

// convertShares converts per-participant share amounts entered in the
// expense's original currency into the trip's base currency.
func (s *TripService) convertShares(amounts []float64, from, to core.Currency) ([]float64, error) {
	if from == to {
		return amounts, nil
	}
	converted := make([]float64, len(amounts))
	for i, a := range amounts {
		c, err := core.Convert(a, from, to, s.rates)
		if err != nil {
			return nil, err
		}
		converted[i] = c
	}
	return converted, nil
}

// PersonShare is one participant's cut of the trip budget.
type PersonShare struct {
	Person string
	Amount float64
}

// BudgetSplit is a computed division of the trip budget. Difference is set
// only for unequal splits and reports how far the entered amounts miss the
// budget.
type BudgetSplit struct {
	Allocations []PersonShare
	Difference  *float64
}

// SplitBudget divides the trip's budget among its people without recording
// anything. Percentages must sum to 100; unequal amounts are taken as-is with
// the leftover budget reported as Difference.
func (s *TripService) SplitBudget(ctx context.Context, tripID string, splitType core.SplitType, percentages, amounts []float64) (*BudgetSplit, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(trip.People) == 0 {
		return nil, fmt.Errorf("trip %s: %w", trip.ID, core.ErrNoParticipants)
	}

	names := make([]string, len(trip.People))
	for i, p := range trip.People {
		names[i] = p.Name
	}

	result := &BudgetSplit{}
	switch splitType {
	case core.SplitEqual:
		splits, err := core.EqualSplit(trip.Budget, names)
		if err != nil {
			return nil, err
		}
		result.Allocations = toPersonShares(splits)
	case core.SplitPercentage:
		splits, err := core.PercentageSplit(trip.Budget, names, percentages)
		if err != nil {
			return nil, err
		}
		result.Allocations = toPersonShares(splits)
	case core.SplitUnequal:
		if len(amounts) != len(names) {
			return nil, core.ErrSplitCountMismatch
		}
		var sum float64
		result.Allocations = make([]PersonShare, len(names))
		for i, name := range names {
			amount := core.Round2(amounts[i])
			result.Allocations[i] = PersonShare{Person: name, Amount: amount}
			sum += amount
		}
		diff := core.Round2(trip.Budget - sum)
		result.Difference = &diff
	default:
		return nil, fmt.Errorf("split type %q: %w", splitType, ErrUnknownSplitType)
	}
	return result, nil
}

func toPersonShares(splits []core.Split) []PersonShare {
	shares := make([]PersonShare, len(splits))
	for i, sp := range splits {
		shares[i] = PersonShare{Person: sp.ParticipantID, Amount: sp.Amount}
	}
	return shares
}

// TripSummary is the full derived view of a trip.
type TripSummary struct {
	TripID       string
	Name         string
	BaseCurrency core.Currency
	TotalSpent   float64
	Balances     []core.Balance
	Settlements  []core.Settlement
	ByCategory   []core.CategoryAmount
}

// Summary derives balances, a settlement plan and category totals from the
// trip's expenses. Nothing is persisted.
func (s *TripService) Summary(ctx context.Context, tripID string) (*TripSummary, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(trip.People) == 0 {
		return nil, fmt.Errorf("trip %s: %w", trip.ID, core.ErrNoParticipants)
	}

	balances := core.AggregateBalances(trip.Expenses, trip.People)
	return &TripSummary{
		TripID:       trip.ID,
		Name:         trip.Name,
		BaseCurrency: trip.BaseCurrency,
		TotalSpent:   core.TotalSpent(trip.Expenses),
		Balances:     balances,
		Settlements:  core.PlanSettlements(balances),
		ByCategory:   categoryTotals(trip.Expenses),
	}, nil
}

func categoryTotals(expenses []core.Expense) []core.CategoryAmount {
	var order []string
	sums := make(map[string]float64)
	for _, e := range expenses {
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount
	}

	totals := make([]core.CategoryAmount, len(order))
	for i, name := range order {
		totals[i] = core.CategoryAmount{Name: name, Amount: core.Round2(sums[name])}
	}
	return totals
}

// PlanInput is a budget planning request. With Categories present the plan is
// resolved ad hoc from them; otherwise the budget is allocated over weights
// (custom or default) and checked against recorded spending.
type PlanInput struct {
	TripID     string
	Budget     float64
	StartDate  time.Time
	EndDate    time.Time
	Days       int
	Categories []core.CategoryInput
	Weights    []core.CategoryWeight
}

// PlanResult carries both plan shapes; exactly one of Budget/AdHoc is set.
type PlanResult struct {
	TripID       string
	Days         int
	PerDayBudget float64
	Budget       *core.BudgetPlan
	AdHoc        *core.AdHocAllocation
	Narrative    string
}

// Plan computes a budget plan for the trip and attaches a narrative.
func (s *TripService) Plan(ctx context.Context, in PlanInput) (*PlanResult, error) {
	trip, err := s.store.GetTrip(ctx, in.TripID)
	if err != nil {
		return nil, err
	}

	budget := in.Budget
	if budget == 0 {
		budget = trip.Budget
	}

	days := in.Days
	if days <= 0 {
		days = core.TripDays(in.StartDate, in.EndDate)
	}

	result := &PlanResult{
		TripID:       trip.ID,
		Days:         days,
		PerDayBudget: core.Round2(budget / float64(days)),
	}

	planCtx := narrative.PlanContext{
		TripName: trip.Name,
		Budget:   budget,
		Days:     days,
		PerDay:   result.PerDayBudget,
	}

	if len(in.Categories) > 0 {
		allocation := core.AllocateAdHoc(budget, in.Categories)
		result.AdHoc = &allocation
		planCtx.Categories = allocation.Categories
		planCtx.Notes = allocation.Notes
	} else {
		plan, err := core.NewBudgetPlan(trip.ID, budget, days, trip.BaseCurrency, in.Weights)
		if err != nil {
			return nil, err
		}
		plan = core.UpdateSpending(plan, trip.Expenses)
		result.Budget = &plan

		planCtx.Categories = make([]core.CategoryAmount, len(plan.Allocations))
		for i, a := range plan.Allocations {
			planCtx.Categories[i] = core.CategoryAmount{Name: a.Category, Amount: a.Allocated}
		}
		for _, alert := range plan.Alerts {
			planCtx.Notes = append(planCtx.Notes, alert.Message)
		}
	}

	text, err := s.narrator.PlanNarrative(ctx, planCtx)
	if err != nil {
		slog.WarnContext(ctx, "Narrative generation failed", "trip_id", trip.ID, "error", err)
	}
	result.Narrative = text

	return result, nil
}
