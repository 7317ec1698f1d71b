package domain

// Fallback values used when field extraction finds no match, and the single
// status this pipeline ever produces.
const (
	TotalAmountFallback = "0.00"
	VendorFallback      = "Desconegut"
	StatusProcessed     = "Processada"
)

// InvoiceRecord is one ledger row, produced once per PDF attachment during an
// ingestion run and appended to the ledger in a single batch. It is never
// updated or deleted by this system.
//
// All fields are strings on purpose: the ledger is a spreadsheet and the
// values are stored exactly as displayed. TotalAmount is decimal-comma
// normalized to decimal-point, not parsed. InvoiceDate is the first 10
// characters of the source message's Date header and is not validated as a
// calendar date.
type InvoiceRecord struct {
	Filename    string
	InvoiceDate string
	TotalAmount string
	Vendor      string
	Status      string
	StorageLink string
	ProcessedAt string
}

// Row serializes the record into the ledger's seven-column layout (A:G).
func (r InvoiceRecord) Row() []string {
	return []string{
		r.Filename,
		r.InvoiceDate,
		r.TotalAmount,
		r.Vendor,
		r.Status,
		r.StorageLink,
		r.ProcessedAt,
	}
}
