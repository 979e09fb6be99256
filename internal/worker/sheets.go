package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tripsplit/internal/core"
)

// SheetsExporter appends expenses as rows to a Google Sheets spreadsheet.
type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter builds a service-account backed exporter. Credentials
// come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName string) (*SheetsExporter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet ID is empty")
	}
	if sheetName == "" {
		sheetName = "Expenses"
	}

	credentialsJSON, err := loadCredentials()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets exporter ready",
		"spreadsheet_id", spreadsheetID,
		"sheet", sheetName)

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func loadCredentials() ([]byte, error) {
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); raw != "" {
		return []byte(raw), nil
	}

	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	credentialsJSON, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

// AppendExpense adds one row: date, trip, description, category, amount in
// base currency, currency code, payer name.
func (e *SheetsExporter) AppendExpense(ctx context.Context, trip *core.Trip, expense *core.Expense) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	payerName := expense.PayerID
	for _, p := range trip.People {
		if p.ID == expense.PayerID {
			payerName = p.Name
			break
		}
	}

	vr := &gsheet.ValueRange{Values: [][]any{{
		expense.OccurredAt.Format("2006-01-02"),
		trip.Name,
		expense.Description,
		expense.Category,
		expense.Amount,
		string(trip.BaseCurrency),
		payerName,
	}}}

	rng := fmt.Sprintf("%s!A:G", e.sheetName)
	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append expense row: %w", err)
	}
	return nil
}
