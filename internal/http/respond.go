package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tripsplit/internal/core"
	"tripsplit/internal/services"
	"tripsplit/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses: not-found to 404,
// validation and input errors to 400, everything else to 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var splitErr *core.SplitMismatchError
	var pctErr *core.PercentageMismatchError
	var currencyErr *core.UnknownCurrencyError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyPayer),
		errors.Is(err, core.ErrNoParticipants),
		errors.Is(err, core.ErrInvalidDuration),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrEmptyTripName),
		errors.Is(err, core.ErrEmptyTripCurrency),
		errors.Is(err, core.ErrNegativeBudget),
		errors.Is(err, core.ErrSplitCountMismatch),
		errors.Is(err, services.ErrPayerNotInTrip),
		errors.Is(err, services.ErrParticipantNotInTrip),
		errors.Is(err, services.ErrUnknownSplitType),
		errors.As(err, &splitErr),
		errors.As(err, &pctErr),
		errors.As(err, &currencyErr):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(ctx, "Request failed", "error", err)
		writeJSON(ctx, w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
