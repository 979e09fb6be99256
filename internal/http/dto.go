package http

import (
	"time"

	"tripsplit/internal/core"
	"tripsplit/internal/services"
)

type createTripRequest struct {
	Name         string   `json:"name"`
	BaseCurrency string   `json:"baseCurrency"`
	Budget       float64  `json:"budget"`
	Participants []string `json:"participants"`
}

type participantDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tripResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	BaseCurrency string           `json:"baseCurrency"`
	Budget       float64          `json:"budget"`
	People       []participantDTO `json:"people"`
	Expenses     []expenseDTO     `json:"expenses,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type budgetSplitRequest struct {
	Type string `json:"type"`
	Data struct {
		Percentages []float64 `json:"percentages"`
		Amounts     []float64 `json:"amounts"`
	} `json:"data"`
}

type personShareDTO struct {
	Person string  `json:"person"`
	Amount float64 `json:"amount"`
}

type budgetSplitResponse struct {
	Allocations []personShareDTO `json:"allocations"`
	Difference  *float64         `json:"difference,omitempty"`
}

type expenseRequest struct {
	Description  string    `json:"description"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	Category     string    `json:"category"`
	PayerID      string    `json:"payerId"`
	SplitType    string    `json:"splitType"`
	Participants []string  `json:"participants"`
	Amounts      []float64 `json:"amounts"`
	Percentages  []float64 `json:"percentages"`
	OccurredAt   string    `json:"occurredAt"`
}

type splitDTO struct {
	ParticipantID string  `json:"participantId"`
	Amount        float64 `json:"amount"`
	Percentage    float64 `json:"percentage,omitempty"`
	Settled       bool    `json:"settled"`
}

type recordExpenseResponse struct {
	Success bool       `json:"success"`
	Expense expenseDTO `json:"expense"`
}

type expenseDTO struct {
	ID               string     `json:"id"`
	TripID           string     `json:"tripId"`
	Description      string     `json:"description"`
	OriginalAmount   float64    `json:"originalAmount"`
	OriginalCurrency string     `json:"originalCurrency"`
	Amount           float64    `json:"amount"`
	Category         string     `json:"category"`
	PayerID          string     `json:"payerId"`
	SplitType        string     `json:"splitType"`
	Splits           []splitDTO `json:"splits"`
	OccurredAt       time.Time  `json:"occurredAt"`
}

type balanceDTO struct {
	ParticipantID string  `json:"participantId"`
	Name          string  `json:"name"`
	TotalPaid     float64 `json:"totalPaid"`
	TotalOwed     float64 `json:"totalOwed"`
	Net           float64 `json:"net"`
}

type settlementDTO struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type categoryAmountDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type summaryResponse struct {
	TripID       string              `json:"tripId"`
	Name         string              `json:"name"`
	BaseCurrency string              `json:"baseCurrency"`
	TotalSpent   float64             `json:"totalSpent"`
	Balances     []balanceDTO        `json:"balances"`
	Settlements  []settlementDTO     `json:"settlements"`
	ByCategory   []categoryAmountDTO `json:"byCategory"`
}

type planCategoryInput struct {
	Name    string   `json:"name"`
	Amount  float64  `json:"amount"`
	Percent *float64 `json:"percent"`
}

type planWeightInput struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type planRequest struct {
	TotalBudget float64             `json:"totalBudget"`
	StartDate   string              `json:"startDate"`
	EndDate     string              `json:"endDate"`
	Days        int                 `json:"days"`
	Categories  []planCategoryInput `json:"categories"`
	Weights     []planWeightInput   `json:"weights"`
}

type allocationDTO struct {
	Category   string  `json:"category"`
	Allocated  float64 `json:"allocated"`
	Percentage float64 `json:"percentage"`
}

type spendingDTO struct {
	Category    string  `json:"category"`
	Allocated   float64 `json:"allocated"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
}

type alertDTO struct {
	Level    string `json:"level"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
}

type budgetPlanDTO struct {
	TotalBudget  float64         `json:"totalBudget"`
	BaseCurrency string          `json:"baseCurrency"`
	DurationDays int             `json:"durationDays"`
	DailyBudget  float64         `json:"dailyBudget"`
	Allocations  []allocationDTO `json:"allocations"`
	Spending     []spendingDTO   `json:"spending"`
	Alerts       []alertDTO      `json:"alerts"`
}

type planResponse struct {
	TripID       string              `json:"tripId"`
	Days         int                 `json:"days"`
	PerDayBudget float64             `json:"perDayBudget"`
	Categories   []categoryAmountDTO `json:"categories,omitempty"`
	AllocatedSum *float64            `json:"allocatedSum,omitempty"`
	Difference   *float64            `json:"difference,omitempty"`
	Alerts       []string            `json:"alerts,omitempty"`
	Plan         *budgetPlanDTO      `json:"plan,omitempty"`
	AISuggestion string              `json:"aiSuggestion"`
}

func toTripResponse(t *core.Trip, withExpenses bool) tripResponse {
	resp := tripResponse{
		ID:           t.ID,
		Name:         t.Name,
		BaseCurrency: string(t.BaseCurrency),
		Budget:       t.Budget,
		People:       make([]participantDTO, len(t.People)),
		CreatedAt:    t.CreatedAt,
	}
	for i, p := range t.People {
		resp.People[i] = participantDTO{ID: p.ID, Name: p.Name}
	}
	if withExpenses {
		resp.Expenses = make([]expenseDTO, len(t.Expenses))
		for i := range t.Expenses {
			resp.Expenses[i] = toExpenseDTO(&t.Expenses[i])
		}
	}
	return resp
}

func toExpenseDTO(e *core.Expense) expenseDTO {
	dto := expenseDTO{
		ID:               e.ID,
		TripID:           e.TripID,
		Description:      e.Description,
		OriginalAmount:   e.OriginalAmount,
		OriginalCurrency: string(e.OriginalCurrency),
		Amount:           e.Amount,
		Category:         e.Category,
		PayerID:          e.PayerID,
		SplitType:        string(e.SplitType),
		Splits:           make([]splitDTO, len(e.Splits)),
		OccurredAt:       e.OccurredAt,
	}
	for i, s := range e.Splits {
		dto.Splits[i] = splitDTO{
			ParticipantID: s.ParticipantID,
			Amount:        s.Amount,
			Percentage:    s.Percentage,
			Settled:       s.Settled,
		}
	}
	return dto
}

func toBudgetSplitResponse(s *services.BudgetSplit) budgetSplitResponse {
	resp := budgetSplitResponse{
		Allocations: make([]personShareDTO, len(s.Allocations)),
		Difference:  s.Difference,
	}
	for i, a := range s.Allocations {
		resp.Allocations[i] = personShareDTO{Person: a.Person, Amount: a.Amount}
	}
	return resp
}

func toSummaryResponse(s *services.TripSummary) summaryResponse {
	resp := summaryResponse{
		TripID:       s.TripID,
		Name:         s.Name,
		BaseCurrency: string(s.BaseCurrency),
		TotalSpent:   s.TotalSpent,
		Balances:     make([]balanceDTO, len(s.Balances)),
		Settlements:  make([]settlementDTO, len(s.Settlements)),
		ByCategory:   make([]categoryAmountDTO, len(s.ByCategory)),
	}
	for i, b := range s.Balances {
		resp.Balances[i] = balanceDTO{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			TotalPaid:     b.TotalPaid,
			TotalOwed:     b.TotalOwed,
			Net:           b.Net,
		}
	}
	for i, t := range s.Settlements {
		resp.Settlements[i] = settlementDTO{
			From:   t.FromParticipantID,
			To:     t.ToParticipantID,
			Amount: t.Amount,
		}
	}
	for i, c := range s.ByCategory {
		resp.ByCategory[i] = categoryAmountDTO{Name: c.Name, Amount: c.Amount}
	}
	return resp
}

func toPlanResponse(r *services.PlanResult) planResponse {
	resp := planResponse{
		TripID:       r.TripID,
		Days:         r.Days,
		PerDayBudget: r.PerDayBudget,
		AISuggestion: r.Narrative,
	}

	if r.AdHoc != nil {
		resp.Categories = make([]categoryAmountDTO, len(r.AdHoc.Categories))
		for i, c := range r.AdHoc.Categories {
			resp.Categories[i] = categoryAmountDTO{Name: c.Name, Amount: c.Amount}
		}
		allocated := r.AdHoc.AllocatedSum
		difference := r.AdHoc.Difference
		resp.AllocatedSum = &allocated
		resp.Difference = &difference
		resp.Alerts = r.AdHoc.Notes
	}

	if r.Budget != nil {
		plan := budgetPlanDTO{
			TotalBudget:  r.Budget.TotalBudget,
			BaseCurrency: string(r.Budget.BaseCurrency),
			DurationDays: r.Budget.DurationDays,
			DailyBudget:  r.Budget.DailyBudget,
			Allocations:  make([]allocationDTO, len(r.Budget.Allocations)),
			Spending:     make([]spendingDTO, len(r.Budget.Spending)),
			Alerts:       make([]alertDTO, len(r.Budget.Alerts)),
		}
		for i, a := range r.Budget.Allocations {
			plan.Allocations[i] = allocationDTO{Category: a.Category, Allocated: a.Allocated, Percentage: a.Percentage}
		}
		for i, sp := range r.Budget.Spending {
			plan.Spending[i] = spendingDTO{
				Category:    sp.Category,
				Allocated:   sp.Allocated,
				Spent:       sp.Spent,
				Remaining:   sp.Remaining,
				PercentUsed: sp.PercentUsed,
			}
		}
		for i, a := range r.Budget.Alerts {
			plan.Alerts[i] = alertDTO{Level: string(a.Level), Category: a.Category, Message: a.Message}
		}
		resp.Plan = &plan
	}

	return resp
}
