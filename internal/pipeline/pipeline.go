package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jcodina/facturaflow/internal/domain"
	"github.com/jcodina/facturaflow/internal/extract"
	"github.com/jcodina/facturaflow/internal/filestore"
	"github.com/jcodina/facturaflow/internal/logger"
	"github.com/jcodina/facturaflow/internal/mailbox"
)

const processedAtFormat = "2006-01-02 15:04:05"

// Deps are the collaborators of one pipeline instance. Mailbox, Store and
// Ledger are required; ExtractText and Now default to the production
// implementations.
type Deps struct {
	Mailbox mailbox.Service
	Store   filestore.API
	Ledger  LedgerWriter

	// Label is the ingestion label marking messages as invoices.
	Label string

	ExtractText TextExtractor
	Now         func() time.Time
}

// Pipeline ingests labeled invoice mail into the file store and the ledger.
type Pipeline struct {
	deps     Deps
	resolver *filestore.Resolver
}

// New creates a Pipeline. The destination resolver is created here so each
// folder name resolves against the store at most once, before any of the
// per-message work begins.
func New(deps Deps) *Pipeline {
	if deps.ExtractText == nil {
		deps.ExtractText = extract.Text
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{
		deps:     deps,
		resolver: filestore.NewResolver(deps.Store),
	}
}

// Run executes one ingestion over the selected period: resolve the
// destination folder, search the mailbox, store each PDF attachment and
// extract its fields, then append all rows to the ledger in one batch.
//
// Failures fetching, uploading or decoding a single message or attachment
// are contained: the item is recorded in Result.Skipped and the loop
// continues. Only credential, search, resolution and final-append failures
// abort the run.
func (p *Pipeline) Run(ctx context.Context, period domain.PeriodSelection) (*Result, error) {
	log := logger.FromContext(ctx)

	folderName := period.FolderName()
	folder, err := p.resolver.ResolveOrCreate(ctx, folderName)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	query := mailbox.BuildQuery(p.deps.Label, period)
	ids, err := p.deps.Mailbox.ListMessageIDs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search mailbox: %w", err)
	}

	result := &Result{FolderName: folderName, FolderLink: folder.Link}
	if len(ids) == 0 {
		log.Info().Str("query", query).Msg("No matching messages")
		return result, nil
	}

	log.Info().Int("messages", len(ids)).Str("folder", folderName).Msg("Processing invoices")

	for _, id := range ids {
		msg, err := p.deps.Mailbox.GetMessage(ctx, id)
		if err != nil {
			p.skip(log, result, fmt.Sprintf("message %s: %v", id, err))
			continue
		}

		for _, att := range msg.PDFAttachments {
			rec, err := p.processAttachment(ctx, folder, msg, att)
			if err != nil {
				p.skip(log, result, fmt.Sprintf("attachment %q of message %s: %v", att.Filename, id, err))
				continue
			}

			result.Records = append(result.Records, *rec)
			result.ProcessedCount++
			log.Info().Str("filename", att.Filename).Str("vendor", rec.Vendor).Msg("Invoice processed")
		}
	}

	if len(result.Records) > 0 {
		if err := p.deps.Ledger.AppendRecords(ctx, result.Records); err != nil {
			// The files are already in the store; a failed append leaves
			// them with no ledger trace and there is no compensating
			// action. Surface it loudly.
			log.Error().Err(err).
				Int("stored_files", result.ProcessedCount).
				Msg("Ledger append failed after uploads; stored files have no ledger rows")
			return result, fmt.Errorf("append ledger rows: %w", err)
		}
	}

	return result, nil
}

func (p *Pipeline) processAttachment(ctx context.Context, folder *filestore.Folder, msg *mailbox.Message, att mailbox.Attachment) (*domain.InvoiceRecord, error) {
	data, err := p.deps.Mailbox.GetAttachment(ctx, msg.ID, att.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	link, err := p.deps.Store.UploadPDF(ctx, folder.ID, att.Filename, data)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	text, err := p.deps.ExtractText(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	fields := extract.Extract(text)

	invoiceDate := msg.Date
	if len(invoiceDate) > 10 {
		invoiceDate = invoiceDate[:10]
	}

	return &domain.InvoiceRecord{
		Filename:    att.Filename,
		InvoiceDate: invoiceDate,
		TotalAmount: fields.TotalAmount,
		Vendor:      fields.Vendor,
		Status:      domain.StatusProcessed,
		StorageLink: link,
		ProcessedAt: p.deps.Now().Format(processedAtFormat),
	}, nil
}

// skip contains one per-item failure: recorded for the caller, warned in the
// log, never fatal to the run.
func (p *Pipeline) skip(log zerolog.Logger, result *Result, reason string) {
	result.Skipped = append(result.Skipped, reason)
	log.Warn().Str("item", reason).Msg("Skipped")
}
