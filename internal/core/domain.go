package core

import (
	"errors"
	"strings"
	"time"
)

const (
	SplitEqual      SplitType = "equal"
	SplitUnequal    SplitType = "unequal"
	SplitPercentage SplitType = "percentage"
)

type (
	// Currency is an ISO 4217 currency code such as "USD" or "EUR".
	Currency string

	// SplitType is the policy used to divide one expense among participants.
	SplitType string

	// Participant is an immutable identity referenced by ID everywhere else.
	Participant struct {
		ID   string
		Name string
	}

	// Split is one participant's share of an expense, always in the trip's
	// base currency. Settled is the only field that may change after the
	// expense is created.
	Split struct {
		ParticipantID string
		Amount        float64
		Percentage    float64
		Settled       bool
	}

	// Expense is a single recorded cost. Amount is the converted value in the
	// trip's base currency; OriginalAmount/OriginalCurrency preserve the
	// receipt as entered.
	Expense struct {
		ID               string
		TripID           string
		Description      string
		OriginalAmount   float64
		OriginalCurrency Currency
		Amount           float64
		Category         string
		PayerID          string
		SplitType        SplitType
		Splits           []Split
		OccurredAt       time.Time
	}

	// Trip is a read-only snapshot handed to the engine by the storage layer.
	Trip struct {
		ID           string
		Name         string
		BaseCurrency Currency
		Budget       float64
		People       []Participant
		Expenses     []Expense
		CreatedAt    time.Time
	}

	// Balance is a participant's aggregate position, derived on every query
	// and never stored.
	Balance struct {
		ParticipantID string
		Name          string
		TotalPaid     float64
		TotalOwed     float64
		Net           float64
	}

	// Settlement is an advisory payer-to-payee transfer suggestion. It is not
	// a ledger entry; recording actual payments belongs to the caller.
	Settlement struct {
		FromParticipantID string
		ToParticipantID   string
		Amount            float64
	}
)

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyPayer         = errors.New("empty payer")
	ErrNoParticipants     = errors.New("at least one participant required")
	ErrInvalidDuration    = errors.New("duration must be at least one day")
	ErrEmptyTripName      = errors.New("empty trip name")
	ErrEmptyTripCurrency  = errors.New("empty trip currency")
	ErrNegativeBudget     = errors.New("budget cannot be negative")
)

// Validate checks an expense at construction time. Non-positive amounts are
// rejected here so the split calculators can stay total-agnostic.
func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(e.PayerID) == "" {
		return ErrEmptyPayer
	}
	return nil
}

// Validate checks a trip snapshot before it is persisted.
func (t Trip) Validate() error {
	if len(strings.TrimSpace(t.Name)) == 0 {
		return ErrEmptyTripName
	}
	if strings.TrimSpace(string(t.BaseCurrency)) == "" {
		return ErrEmptyTripCurrency
	}
	if t.Budget < 0 {
		return ErrNegativeBudget
	}
	return nil
}
