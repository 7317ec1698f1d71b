package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jcodina/facturaflow/internal/auth"
	"github.com/jcodina/facturaflow/internal/config"
	"github.com/jcodina/facturaflow/internal/domain"
	"github.com/jcodina/facturaflow/internal/filestore"
	"github.com/jcodina/facturaflow/internal/jobs"
	"github.com/jcodina/facturaflow/internal/ledger"
	"github.com/jcodina/facturaflow/internal/logger"
	"github.com/jcodina/facturaflow/internal/mailbox"
	"github.com/jcodina/facturaflow/internal/pipeline"
)

// NewPipeline wires the Google-backed collaborators for one authorized
// session. The session is acquired once by the caller and threaded through
// every client.
func NewPipeline(ctx context.Context, cfg *config.Config, session *auth.Session) (*pipeline.Pipeline, error) {
	source := session.TokenSource()

	mail, err := mailbox.NewClient(ctx, source, cfg.MessageLimit)
	if err != nil {
		return nil, err
	}

	store, err := filestore.NewClient(ctx, source)
	if err != nil {
		return nil, err
	}

	ldg, err := NewLedger(ctx, cfg, session)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Deps{
		Mailbox: mail,
		Store:   store,
		Ledger:  ldg,
		Label:   cfg.Label,
	}), nil
}

// NewLedger wires the ledger client for one authorized session.
func NewLedger(ctx context.Context, cfg *config.Config, session *auth.Session) (*ledger.Ledger, error) {
	client, err := ledger.NewClient(ctx, session.TokenSource(), cfg.SpreadsheetID, cfg.LedgerRange)
	if err != nil {
		return nil, err
	}
	return ledger.New(client), nil
}

// IngestJobHandler returns the queue handler that executes one ingestion
// run per job. Runs needing interactive authorization fail with a pointer
// to the auth endpoints instead of blocking the worker.
func IngestJobHandler(cfg *config.Config, manager *auth.Manager, log zerolog.Logger) jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
		ctx = logger.WithContext(ctx, log)

		runJob, ok := job.(*jobs.IngestRunJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		quarter, err := domain.ParseQuarter(runJob.Quarter)
		if err != nil {
			return err
		}
		period := domain.PeriodSelection{Quarter: quarter, Year: runJob.Year}

		session, err := manager.Acquire(ctx)
		if err != nil {
			if errors.Is(err, auth.ErrAuthorizationRequired) {
				return fmt.Errorf("authorization required: visit /api/auth/url and submit the code to /api/auth/code")
			}
			return err
		}

		p, err := NewPipeline(ctx, cfg, session)
		if err != nil {
			return err
		}

		log.Info().
			Str("job_id", runJob.JobID).
			Str("quarter", runJob.Quarter).
			Int("year", runJob.Year).
			Msg("Processing ingestion run")

		result, runErr := p.Run(ctx, period)
		if result != nil {
			runJob.ProcessedCount = result.ProcessedCount
			runJob.FolderLink = result.FolderLink
			runJob.Skipped = result.Skipped
		}
		if runErr != nil {
			log.Error().Err(runErr).Str("job_id", runJob.JobID).Msg("Ingestion run failed")
			return runErr
		}

		log.Info().
			Str("job_id", runJob.JobID).
			Int("processed", result.ProcessedCount).
			Int("skipped", len(result.Skipped)).
			Msg("Ingestion run completed")

		return nil
	}
}
