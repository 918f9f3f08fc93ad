package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"envelopes/internal/cache"
	"envelopes/internal/core"
	ports "envelopes/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client appends envelope and goal snapshots to a Google spreadsheet, one
// sheet per entity type.
type Client struct {
	svc            *gsheet.Service
	spreadsheetID  string
	envelopesSheet string
	goalsSheet     string

	// Next free row per sheet, so every append does not re-read the
	// whole column.
	nextRows *cache.LRUCache[int]
}

// Ensure interface conformance
var _ ports.SnapshotWriter = (*Client)(nil)

const nextRowCacheTTL = 5 * time.Minute

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: GOOGLE_ENVELOPES_SHEET_NAME (default "Envelopes"),
// GOOGLE_GOALS_SHEET_NAME (default "Goals").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	envelopesSheet := strings.TrimSpace(os.Getenv("GOOGLE_ENVELOPES_SHEET_NAME"))
	if envelopesSheet == "" {
		envelopesSheet = "Envelopes"
	}
	goalsSheet := strings.TrimSpace(os.Getenv("GOOGLE_GOALS_SHEET_NAME"))
	if goalsSheet == "" {
		goalsSheet = "Goals"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:            svc,
		spreadsheetID:  spreadsheetID,
		envelopesSheet: envelopesSheet,
		goalsSheet:     goalsSheet,
		nextRows:       cache.NewLRUCache[int](4, nextRowCacheTTL),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// AppendEnvelope writes an envelope snapshot row and returns its range.
func (c *Client) AppendEnvelope(ctx context.Context, e *core.Envelope) (string, error) {
	return c.appendRow(ctx, c.envelopesSheet, envelopeSnapshotRow(e, time.Now()))
}

// AppendGoal writes a goal snapshot row and returns its range.
func (c *Client) AppendGoal(ctx context.Context, g *core.Goal) (string, error) {
	return c.appendRow(ctx, c.goalsSheet, goalSnapshotRow(g, time.Now()))
}

func (c *Client) appendRow(ctx context.Context, sheetName string, values []any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row, err := c.nextRow(ctx, sheetName)
	if err != nil {
		return "", err
	}

	lastCol := rune('A' + len(values) - 1)
	rng := fmt.Sprintf("%s!A%d:%c%d", sheetName, row, lastCol, row)
	vr := &gsheet.ValueRange{Values: [][]any{values}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		// The cached row may be stale; drop it so the next attempt re-reads.
		c.nextRows.Delete(sheetName)
		return "", fmt.Errorf("update %s: %w", rng, err)
	}

	c.nextRows.Set(sheetName, row+1)
	return rng, nil
}

// nextRow returns the first empty row of the sheet, reading column A only
// when the cached value expired.
func (c *Client) nextRow(ctx context.Context, sheetName string) (int, error) {
	if row, ok := c.nextRows.Get(sheetName); ok {
		return row, nil
	}

	rng := fmt.Sprintf("%s!A:A", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get sheet dimensions for %s: %w", sheetName, err)
	}
	return len(resp.Values) + 1, nil
}
