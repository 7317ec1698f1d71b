package ledger

import "context"

// ValuesAPI is the tabular-store surface the ledger consumes: a rectangular
// range read and a row append, both over string matrices.
// This interface enables mocking and testing of ledger functionality.
type ValuesAPI interface {
	// Append appends the rows after the existing content of the range,
	// in the given order, in one store call.
	Append(ctx context.Context, rows [][]string) error

	// Get reads the configured range row-major; the first row is the
	// header when present.
	Get(ctx context.Context) ([][]string, error)
}
