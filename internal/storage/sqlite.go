package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// runs pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTrip inserts the trip and its participants in one transaction.
// Missing IDs are filled with fresh UUIDs.
func (r *SQLiteRepository) CreateTrip(ctx context.Context, trip *core.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, name, base_currency, budget, created_at) VALUES (?, ?, ?, ?, ?)`,
		trip.ID, trip.Name, string(trip.BaseCurrency), trip.Budget, trip.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}

	for i := range trip.People {
		if trip.People[i].ID == "" {
			trip.People[i].ID = uuid.NewString()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO participants (id, trip_id, name, position) VALUES (?, ?, ?, ?)`,
			trip.People[i].ID, trip.ID, trip.People[i].Name, i)
		if err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Trip created",
		"trip_id", trip.ID,
		"name", trip.Name,
		"participants", len(trip.People))
	return nil
}

// GetTrip loads the trip with its participants, expenses and splits.
func (r *SQLiteRepository) GetTrip(ctx context.Context, id string) (*core.Trip, error) {
	trip := &core.Trip{}
	var currency string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, base_currency, budget, created_at FROM trips WHERE id = ?`, id).
		Scan(&trip.ID, &trip.Name, &currency, &trip.Budget, &trip.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trip %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip: %w", err)
	}
	trip.BaseCurrency = core.Currency(currency)

	trip.People, err = r.tripParticipants(ctx, id)
	if err != nil {
		return nil, err
	}

	trip.Expenses, err = r.tripExpenses(ctx, id)
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// ListTrips returns every trip with participants but without expenses.
func (r *SQLiteRepository) ListTrips(ctx context.Context) ([]core.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, base_currency, budget, created_at FROM trips ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var trips []core.Trip
	for rows.Next() {
		var t core.Trip
		var currency string
		if err := rows.Scan(&t.ID, &t.Name, &currency, &t.Budget, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		t.BaseCurrency = core.Currency(currency)
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}

	for i := range trips {
		trips[i].People, err = r.tripParticipants(ctx, trips[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return trips, nil
}

// DeleteTrip removes the trip; participants, expenses and splits cascade.
func (r *SQLiteRepository) DeleteTrip(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trip %s: %w", id, ErrNotFound)
	}
	slog.InfoContext(ctx, "Trip deleted", "trip_id", id)
	return nil
}

// AddExpense inserts the expense and its splits in one transaction. The trip
// must exist.
func (r *SQLiteRepository) AddExpense(ctx context.Context, expense *core.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.OccurredAt.IsZero() {
		expense.OccurredAt = time.Now().UTC()
	}

	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM trips WHERE id = ?`, expense.TripID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("trip %s: %w", expense.TripID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check trip: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, description, original_amount, original_currency, amount, category, payer_id, split_type, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.TripID, expense.Description,
		expense.OriginalAmount, string(expense.OriginalCurrency), expense.Amount,
		expense.Category, expense.PayerID, string(expense.SplitType), expense.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	for i, s := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO splits (expense_id, participant_id, amount, percentage, settled, position) VALUES (?, ?, ?, ?, ?, ?)`,
			expense.ID, s.ParticipantID, s.Amount, s.Percentage, boolToInt(s.Settled), i)
		if err != nil {
			return fmt.Errorf("insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", expense.ID,
		"trip_id", expense.TripID,
		"description", expense.Description,
		"amount", expense.Amount,
		"splits", len(expense.Splits))
	return nil
}

// DeleteExpense removes one expense from a trip; its splits cascade.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, tripID, expenseID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND trip_id = ?`, expenseID, tripID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
	}
	slog.InfoContext(ctx, "Expense deleted", "expense_id", expenseID, "trip_id", tripID)
	return nil
}

func (r *SQLiteRepository) tripParticipants(ctx context.Context, tripID string) ([]core.Participant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM participants WHERE trip_id = ? ORDER BY position`, tripID)
	if err != nil {
		return nil, fmt.Errorf("get participants: %w", err)
	}
	defer rows.Close()

	var people []core.Participant
	for rows.Next() {
		var p core.Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (r *SQLiteRepository) tripExpenses(ctx context.Context, tripID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, trip_id, description, original_amount, original_currency, amount, category, payer_id, split_type, occurred_at
		 FROM expenses WHERE trip_id = ? ORDER BY occurred_at`, tripID)
	if err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		var origCurrency, splitType string
		if err := rows.Scan(&e.ID, &e.TripID, &e.Description,
			&e.OriginalAmount, &origCurrency, &e.Amount,
			&e.Category, &e.PayerID, &splitType, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.OriginalCurrency = core.Currency(origCurrency)
		e.SplitType = core.SplitType(splitType)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	for i := range expenses {
		expenses[i].Splits, err = r.expenseSplits(ctx, expenses[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func (r *SQLiteRepository) expenseSplits(ctx context.Context, expenseID string) ([]core.Split, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT participant_id, amount, percentage, settled FROM splits WHERE expense_id = ? ORDER BY position`, expenseID)
	if err != nil {
		return nil, fmt.Errorf("get splits: %w", err)
	}
	defer rows.Close()

	var splits []core.Split
	for rows.Next() {
		var s core.Split
		var settled int
		if err := rows.Scan(&s.ParticipantID, &s.Amount, &s.Percentage, &settled); err != nil {
			return nil, fmt.Errorf("scan split: %w", err)
		}
		s.Settled = settled != 0
		splits = append(splits, s)
	}
	return splits, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
