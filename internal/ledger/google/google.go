// Package google mirrors the wager ledger into a Google Sheets tab.
//
// The sheet holds one row per wager under a fixed header. Rows are located
// by the id in column A so a settlement updates the row in place.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"banca/internal/analytics"
	"banca/internal/core"
	"banca/internal/ledger"
)

var _ ledger.Mirror = (*Client)(nil)

const lastColumn = "N"

// Header is the first row written to the mirror tab.
var Header = []any{
	"ID", "Date", "Game", "Event", "Tier", "Category", "Side A", "Side B",
	"Backed", "Stake", "Odds", "Handicap", "Outcome", "Return",
}

// Config selects the spreadsheet and credentials of the mirror.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
	Location        *time.Location
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
	loc           *time.Location
}

// New builds a client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(ctx, cfg,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// NewWithOptions builds a client with explicit API options, e.g. a custom
// endpoint and HTTP client.
func NewWithOptions(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = "Wagers"
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: id, sheet: sheet, loc: loc}, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// Upsert rewrites the row of w, appending it when the id is not present yet.
func (c *Client) Upsert(ctx context.Context, w core.Wager) error {
	ids, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read ids of %s: %w", c.sheet, err)
	}

	values := &gsheet.ValueRange{Values: [][]any{c.row(w)}}
	if n := findRow(ids.Values, w.ID); n > 0 {
		rng := fmt.Sprintf("%s!A%d:%s%d", c.sheet, n, lastColumn, n)
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, values).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update row %d of %s: %w", n, c.sheet, err)
		}
		slog.DebugContext(ctx, "Updated mirror row", "id", w.ID, "row", n)
		return nil
	}

	if len(ids.Values) == 0 {
		values.Values = append([][]any{Header}, values.Values...)
	}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheet+"!A1", values).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", c.sheet, err)
	}
	slog.DebugContext(ctx, "Appended mirror row", "id", w.ID)
	return nil
}

// ReplaceAll clears the tab and writes the header followed by every wager.
func (c *Client) ReplaceAll(ctx context.Context, wagers []core.Wager) error {
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, c.sheet+"!A:"+lastColumn, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", c.sheet, err)
	}

	rows := make([][]any, 0, len(wagers)+1)
	rows = append(rows, Header)
	for _, w := range wagers {
		rows = append(rows, c.row(w))
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.sheet+"!A1", &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", c.sheet, err)
	}
	slog.InfoContext(ctx, "Rewrote mirror sheet", "sheet", c.sheet, "rows", len(wagers))
	return nil
}

func (c *Client) row(w core.Wager) []any {
	outcome := string(w.Outcome)
	if outcome == "" {
		outcome = analytics.PendingKey
	}
	return []any{
		w.ID,
		w.Timestamp.In(c.loc).Format(analytics.DateLayout),
		w.GameTitle,
		w.EventName,
		string(w.Tier),
		w.Category.Label(),
		w.SideA,
		w.SideB,
		w.BackedTeam(),
		w.StakeDecimal().InexactFloat64(),
		w.OddsDecimal().InexactFloat64(),
		w.HandicapLine,
		outcome,
		w.ReturnDecimal().InexactFloat64(),
	}
}

// findRow returns the 1-based sheet row holding id in column A, or 0.
func findRow(values [][]any, id string) int {
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return 0
}
