// Package google mirrors transactions into a Google Sheets spreadsheet, one
// tab per collection with a header row followed by one row per document.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"arha/internal/core"
	"arha/internal/remote"
)

// Config holds the spreadsheet and service account credentials.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ remote.DocumentStore = (*Client)(nil)

func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, spreadsheetID), nil
}

// NewWithService wraps an already configured Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID string) *Client {
	return &Client{svc: svc, spreadsheetID: spreadsheetID}
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case cfg.CredentialsJSON != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE)")
	}

	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "project_id", creds.ProjectID)
	return svc, nil
}

func (c *Client) ListRecent(ctx context.Context, collection, sortField string, dir remote.SortDirection, limit int) ([]core.Transaction, error) {
	less, err := lessFor(sortField)
	if err != nil {
		return nil, err
	}

	rng := fmt.Sprintf("%s!A2:%s", quoteSheet(collection), lastColumn)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, classify(err))
	}

	out, skipped := parseRows(resp.Values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped unreadable rows", "sheet", collection, "count", skipped)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == remote.Ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *Client) Upsert(ctx context.Context, collection, id string, t core.Transaction) error {
	row, used, err := c.findRow(ctx, collection, id)
	if err != nil {
		return err
	}

	vr := &gsheet.ValueRange{Values: [][]any{toRow(t)}}
	if row > 0 {
		rng := fmt.Sprintf("%s!A%d:%s%d", quoteSheet(collection), row, lastColumn, row)
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update %s: %w", rng, classify(err))
		}
		return nil
	}

	if used == 0 {
		vr.Values = append([][]any{headerRow()}, vr.Values...)
	}
	rng := fmt.Sprintf("%s!A:%s", quoteSheet(collection), lastColumn)
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", rng, classify(err))
	}
	return nil
}

// Delete clears the document's row. Cleared rows are skipped on read.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	row, _, err := c.findRow(ctx, collection, id)
	if err != nil {
		return err
	}
	if row == 0 {
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", quoteSheet(collection), row, lastColumn, row)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, classify(err))
	}
	return nil
}

// findRow returns the 1-based sheet row holding id (0 when absent) and the
// number of rows in use, header included.
func (c *Client) findRow(ctx context.Context, collection, id string) (row, used int, err error) {
	rng := fmt.Sprintf("%s!A:A", quoteSheet(collection))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", rng, classify(err))
	}
	return indexOfID(resp.Values, id), len(resp.Values), nil
}

// classify marks authorization failures and missing tabs as
// remote.ErrNotProvisioned.
func classify(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch {
	case gerr.Code == 401, gerr.Code == 403, gerr.Code == 404:
		return fmt.Errorf("%w: %w", remote.ErrNotProvisioned, err)
	case gerr.Code == 400 && strings.Contains(gerr.Message, "Unable to parse range"):
		return fmt.Errorf("%w: %w", remote.ErrNotProvisioned, err)
	default:
		return err
	}
}

// quoteSheet quotes a tab name for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
