package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcodina/facturaflow/internal/domain"
)

// ErrEmpty is returned by ReadAll when the ledger holds no data rows
// (header only, or nothing at all).
var ErrEmpty = errors.New("ledger is empty")

// Table is the ledger read back as a header plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Ledger appends invoice records and reads the history back. The ledger is
// append-only from this system's point of view: no merge, no upsert, no
// dedup against existing rows.
type Ledger struct {
	api ValuesAPI
}

// New creates a Ledger over the given values API.
func New(api ValuesAPI) *Ledger {
	return &Ledger{api: api}
}

// AppendRecords serializes the records and appends them in a single store
// call, order preserved.
func (l *Ledger) AppendRecords(ctx context.Context, records []domain.InvoiceRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Row()
	}

	if err := l.api.Append(ctx, rows); err != nil {
		return fmt.Errorf("append records: %w", err)
	}
	return nil
}

// ReadAll reads the full ledger range. With fewer than two rows present it
// reports ErrEmpty instead of returning a zero-row table.
func (l *Ledger) ReadAll(ctx context.Context) (*Table, error) {
	rows, err := l.api.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	if len(rows) < 2 {
		return nil, ErrEmpty
	}

	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}
