package http

import (
	"net/http"
	"strings"
	"time"

	"tripsplit/internal/core"
	"tripsplit/internal/services"
)

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	trip := &core.Trip{
		Name:         strings.TrimSpace(req.Name),
		BaseCurrency: core.Currency(strings.ToUpper(strings.TrimSpace(req.BaseCurrency))),
		Budget:       req.Budget,
	}
	for _, name := range req.Participants {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		trip.People = append(trip.People, core.Participant{Name: name})
	}

	if err := s.svc.CreateTrip(r.Context(), trip); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toTripResponse(trip, false))
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.svc.ListTrips(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	resp := make([]tripResponse, len(trips))
	for i := range trips {
		resp[i] = toTripResponse(&trips[i], false)
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.svc.GetTrip(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toTripResponse(trip, true))
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.DeleteTrip(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.summaryCache.Delete(id)
	writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
}

// handleSplitBudget divides the trip budget among its people. Nothing is
// persisted, the response is the computed allocation.
func (s *Server) handleSplitBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetSplitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.svc.SplitBudget(r.Context(), r.PathValue("id"),
		core.SplitType(req.Type), req.Data.Percentages, req.Data.Amounts)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if s.collector != nil {
		s.collector.RecordSplit(req.Type)
	}
	writeJSON(r.Context(), w, http.StatusOK, toBudgetSplitResponse(result))
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("id")

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	input := services.ExpenseInput{
		TripID:         tripID,
		Description:    strings.TrimSpace(req.Description),
		Amount:         req.Amount,
		Currency:       core.Currency(strings.ToUpper(strings.TrimSpace(req.Currency))),
		Category:       strings.TrimSpace(req.Category),
		PayerID:        req.PayerID,
		SplitType:      core.SplitType(req.SplitType),
		ParticipantIDs: req.Participants,
		Amounts:        req.Amounts,
		Percentages:    req.Percentages,
	}
	if req.OccurredAt != "" {
		occurred, err := time.Parse("2006-01-02", req.OccurredAt)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid occurredAt, expected YYYY-MM-DD"})
			return
		}
		input.OccurredAt = occurred
	}

	expense, err := s.svc.RecordExpense(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	s.summaryCache.Delete(tripID)
	if s.collector != nil {
		s.collector.RecordExpense()
		s.collector.RecordSplit(string(expense.SplitType))
	}
	writeJSON(r.Context(), w, http.StatusCreated, recordExpenseResponse{
		Success: true,
		Expense: toExpenseDTO(expense),
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("id")
	if err := s.svc.DeleteExpense(r.Context(), tripID, r.PathValue("expenseID")); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.summaryCache.Delete(tripID)
	writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("id")

	if cached, ok := s.summaryCache.Get(tripID); ok {
		writeJSON(r.Context(), w, http.StatusOK, toSummaryResponse(cached))
		return
	}

	start := time.Now()
	summary, err := s.svc.Summary(r.Context(), tripID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if s.collector != nil {
		s.collector.RecordSettlementPlan(time.Since(start))
	}

	s.summaryCache.Set(tripID, summary)
	writeJSON(r.Context(), w, http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("id")

	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.TotalBudget < 0 {
		writeError(r.Context(), w, core.ErrNegativeBudget)
		return
	}

	input := services.PlanInput{
		TripID: tripID,
		Budget: req.TotalBudget,
		Days:   req.Days,
	}
	for _, c := range req.Categories {
		input.Categories = append(input.Categories, core.CategoryInput{
			Name:    strings.TrimSpace(c.Name),
			Amount:  c.Amount,
			Percent: c.Percent,
		})
	}
	for _, wt := range req.Weights {
		input.Weights = append(input.Weights, core.CategoryWeight{Name: wt.Name, Weight: wt.Weight})
	}

	// Unparseable dates are ignored, the plan then defaults to one day.
	if req.StartDate != "" {
		input.StartDate, _ = time.Parse("2006-01-02", req.StartDate)
	}
	if req.EndDate != "" {
		input.EndDate, _ = time.Parse("2006-01-02", req.EndDate)
	}

	start := time.Now()
	result, err := s.svc.Plan(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if s.collector != nil {
		s.collector.RecordBudgetPlan(time.Since(start))
		if result.Budget != nil {
			for _, alert := range result.Budget.Alerts {
				s.collector.RecordBudgetAlert(string(alert.Level))
			}
		}
	}

	writeJSON(r.Context(), w, http.StatusOK, toPlanResponse(result))
}
