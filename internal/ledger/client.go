package ledger

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client is the Sheets-backed ValuesAPI implementation.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewClient builds a ledger client on the session credential.
func NewClient(ctx context.Context, source oauth2.TokenSource, spreadsheetID, readRange string) (*Client, error) {
	svc, err := sheets.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

// Append implements ValuesAPI.
func (c *Client) Append(ctx context.Context, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.readRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows to ledger: %w", len(rows), err)
	}
	return nil
}

// Get implements ValuesAPI.
func (c *Client) Get(ctx context.Context) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read ledger range %q: %w", c.readRange, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

var _ ValuesAPI = (*Client)(nil)
