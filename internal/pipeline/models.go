package pipeline

import "github.com/jcodina/facturaflow/internal/domain"

// Result reports one ingestion run.
type Result struct {
	// ProcessedCount counts successfully processed attachments, not
	// messages; one message can carry several PDFs.
	ProcessedCount int

	// Records are the ledger rows produced, in processing order.
	Records []domain.InvoiceRecord

	// FolderName and FolderLink identify the destination folder for this
	// run's period.
	FolderName string
	FolderLink string

	// Skipped itemizes per-message and per-attachment failures that were
	// contained; the run continued past each of them.
	Skipped []string
}
