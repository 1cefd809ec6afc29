// Package export mirrors persisted day records to a Google Sheets document,
// one row per day. The spreadsheet is a convenience copy; the repository
// stays the source of truth.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"stromkosten/internal/core"
)

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter creates a Sheets client for the given spreadsheet.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE or application default credentials.
func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName string) (*SheetsExporter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	switch {
	case serviceAccountJSON != "":
		return gsheet.NewService(ctx, goption.WithCredentialsJSON([]byte(serviceAccountJSON)))
	case serviceAccountFile != "":
		return gsheet.NewService(ctx, goption.WithCredentialsFile(serviceAccountFile))
	default:
		// Application default credentials
		return gsheet.NewService(ctx)
	}
}

// AppendDay appends the record as one row: date, heating kWh, general kWh,
// average temperature. Values are appended raw; the sheet does any display
// formatting.
func (e *SheetsExporter) AppendDay(ctx context.Context, d core.DayRecord) error {
	values := &gsheet.ValueRange{
		Values: [][]any{{
			d.Date.String(),
			d.HeatingConsumption,
			d.GeneralConsumption,
			d.AverageTemperature,
		}},
	}

	_, err := e.svc.Spreadsheets.Values.
		Append(e.spreadsheetID, e.sheetName+"!A:D", values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append day row: %w", err)
	}

	slog.InfoContext(ctx, "Day exported to sheet",
		"date", d.Date.String(),
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName)
	return nil
}
