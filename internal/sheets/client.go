// Package sheets fetches the raw pricing grid from Google Sheets. It is a
// pure I/O boundary: no parsing, no caching, no retries beyond what the
// transport does.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// DefaultRange is the named range holding the full pricing table.
const DefaultRange = "Preistabelle_Verkauf!A1:N100"

// Client implements domain.GridFetcher against the Sheets API.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	readRange     string
	timeout       time.Duration
}

// Config carries the spreadsheet coordinates and credentials. Credentials is
// either inline service-account JSON or a path to a key file; empty falls back
// to application default credentials.
type Config struct {
	SpreadsheetID string
	Range         string
	Credentials   string
	Timeout       time.Duration
}

// New builds a read-only Sheets client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id required")
	}
	opts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsReadonlyScope)}
	if creds := strings.TrimSpace(cfg.Credentials); creds != "" {
		if strings.HasPrefix(creds, "{") {
			opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
		} else {
			opts = append(opts, option.WithCredentialsFile(creds))
		}
	}
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: new service: %w", err)
	}

	readRange := cfg.Range
	if readRange == "" {
		readRange = DefaultRange
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     readRange,
		timeout:       timeout,
	}, nil
}

// Fetch reads the configured range. Failures are wrapped in FetchError so the
// sync pipeline can distinguish transport trouble from bad data.
func (c *Client) Fetch(ctx context.Context) (domain.Grid, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, &domain.FetchError{Op: "values.get " + c.readRange, Err: err}
	}
	if len(resp.Values) == 0 {
		return nil, &domain.FetchError{Op: "values.get " + c.readRange, Err: fmt.Errorf("empty range")}
	}

	grid := make(domain.Grid, len(resp.Values))
	for i, row := range resp.Values {
		grid[i] = row
	}
	return grid, nil
}
