// Package worker watches trip budgets in the background. It reacts to
// expense-recorded events from AMQP and periodically sweeps all trips,
// logging threshold alerts and optionally exporting expenses to a
// spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tripsplit/internal/amqp"
	"tripsplit/internal/core"
	"tripsplit/internal/metrics"
	"tripsplit/internal/storage"
)

// ExpenseExporter receives expenses for external export. The Google Sheets
// exporter implements it; a nil exporter disables export.
type ExpenseExporter interface {
	AppendExpense(ctx context.Context, trip *core.Trip, expense *core.Expense) error
}

type BudgetWatcher struct {
	store         storage.TripStore
	client        *amqp.Client
	exporter      ExpenseExporter
	collector     *metrics.Collector
	sweepInterval time.Duration
}

func NewBudgetWatcher(store storage.TripStore, client *amqp.Client, exporter ExpenseExporter, collector *metrics.Collector, sweepInterval time.Duration) *BudgetWatcher {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	return &BudgetWatcher{
		store:         store,
		client:        client,
		exporter:      exporter,
		collector:     collector,
		sweepInterval: sweepInterval,
	}
}

// Run consumes expense events and sweeps budgets until ctx is cancelled.
func (w *BudgetWatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if w.client != nil {
		g.Go(func() error {
			err := w.client.ConsumeExpenseRecorded(ctx, func(msg *amqp.ExpenseRecordedMessage) error {
				return w.HandleExpenseRecorded(ctx, msg)
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(w.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				w.Sweep(ctx)
			}
		}
	})

	return g.Wait()
}

// HandleExpenseRecorded re-reads the trip, checks its budget and exports the
// expense when an exporter is configured.
func (w *BudgetWatcher) HandleExpenseRecorded(ctx context.Context, msg *amqp.ExpenseRecordedMessage) error {
	trip, err := w.store.GetTrip(ctx, msg.TripID)
	if err != nil {
		return fmt.Errorf("get trip %s: %w", msg.TripID, err)
	}

	alerts := w.CheckTrip(ctx, trip)
	for _, alert := range alerts {
		w.logAlert(ctx, trip.ID, alert)
	}

	if w.exporter != nil {
		expense := findExpense(trip, msg.ExpenseID)
		if expense == nil {
			slog.WarnContext(ctx, "Expense not found for export",
				"trip_id", msg.TripID,
				"expense_id", msg.ExpenseID)
			return nil
		}
		if err := w.exporter.AppendExpense(ctx, trip, expense); err != nil {
			return fmt.Errorf("export expense %s: %w", msg.ExpenseID, err)
		}
		slog.InfoContext(ctx, "Expense exported",
			"trip_id", trip.ID,
			"expense_id", expense.ID)
	}

	return nil
}

// Sweep checks every trip's budget. Errors are logged, not returned, so one
// bad trip never stops the sweep.
func (w *BudgetWatcher) Sweep(ctx context.Context) {
	trips, err := w.store.ListTrips(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Budget sweep failed to list trips", "error", err)
		return
	}

	var alertCount int
	for i := range trips {
		trip, err := w.store.GetTrip(ctx, trips[i].ID)
		if err != nil {
			slog.ErrorContext(ctx, "Budget sweep failed to load trip", "trip_id", trips[i].ID, "error", err)
			continue
		}
		alerts := w.CheckTrip(ctx, trip)
		for _, alert := range alerts {
			w.logAlert(ctx, trip.ID, alert)
		}
		alertCount += len(alerts)
	}

	slog.InfoContext(ctx, "Budget sweep completed", "trips", len(trips), "alerts", alertCount)
}

// CheckTrip evaluates a trip's spending against its budget with the default
// category weights. Trips without a budget yield no alerts.
func (w *BudgetWatcher) CheckTrip(ctx context.Context, trip *core.Trip) []core.Alert {
	if trip.Budget <= 0 {
		return nil
	}

	days := core.TripDays(trip.CreatedAt, time.Now())
	plan, err := core.NewBudgetPlan(trip.ID, trip.Budget, days, trip.BaseCurrency, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Budget check failed", "trip_id", trip.ID, "error", err)
		return nil
	}
	plan = core.UpdateSpending(plan, trip.Expenses)

	if w.collector != nil {
		for _, alert := range plan.Alerts {
			w.collector.RecordBudgetAlert(string(alert.Level))
		}
	}
	return plan.Alerts
}

func (w *BudgetWatcher) logAlert(ctx context.Context, tripID string, alert core.Alert) {
	attrs := []any{
		"trip_id", tripID,
		"level", alert.Level,
		"message", alert.Message,
	}
	if alert.Category != "" {
		attrs = append(attrs, "category", alert.Category)
	}
	if alert.Level == core.AlertDanger {
		slog.ErrorContext(ctx, "Budget exceeded", attrs...)
	} else {
		slog.WarnContext(ctx, "Budget warning", attrs...)
	}
}

func findExpense(trip *core.Trip, expenseID string) *core.Expense {
	for i := range trip.Expenses {
		if trip.Expenses[i].ID == expenseID {
			return &trip.Expenses[i]
		}
	}
	return nil
}
