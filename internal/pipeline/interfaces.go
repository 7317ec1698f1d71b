package pipeline

import (
	"context"

	"github.com/jcodina/facturaflow/internal/domain"
)

// LedgerWriter is the slice of the ledger the pipeline needs: one batch
// append per run.
// This interface enables mocking and testing of the append step.
type LedgerWriter interface {
	AppendRecords(ctx context.Context, records []domain.InvoiceRecord) error
}

// TextExtractor decodes PDF bytes into plain text. The production
// implementation is extract.Text; tests substitute their own.
type TextExtractor func(data []byte) (string, error)
