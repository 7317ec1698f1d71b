package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jcodina/facturaflow/internal/app"
	"github.com/jcodina/facturaflow/internal/auth"
	"github.com/jcodina/facturaflow/internal/config"
	"github.com/jcodina/facturaflow/internal/domain"
	"github.com/jcodina/facturaflow/internal/ledger"
	"github.com/jcodina/facturaflow/internal/logger"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "auth":
		runAuth(log)
	case "ingest":
		runIngest(log)
	case "history":
		runHistory(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("FacturaFlow CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  auth      Run the interactive authorization exchange")
	fmt.Println("  ingest    Import labeled invoice mail for a period")
	fmt.Println("  history   Show the processed-invoice ledger")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func loadConfig(log zerolog.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	return cfg
}

func runAuth(log zerolog.Logger) {
	cfg := loadConfig(log)
	manager := auth.NewManager(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, cfg.TokenPath, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := manager.Acquire(ctx); err == nil {
		fmt.Println("Credential is valid; nothing to do.")
		return
	}

	if err := authorizeInteractively(ctx, manager); err != nil {
		log.Fatal().Err(err).Msg("Authorization failed")
	}
	fmt.Println("Authorization complete; credential persisted.")
}

// authorizeInteractively prints the authorization URL and blocks on a
// single prompt for the one-time code.
func authorizeInteractively(ctx context.Context, manager *auth.Manager) error {
	fmt.Println("Open this URL in a browser and authorize access:")
	fmt.Println("  " + manager.AuthURL())
	fmt.Print("Enter the authorization code: ")

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}
	return manager.Exchange(ctx, strings.TrimSpace(code))
}

func runIngest(log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	quarterFlag := fs.String("quarter", "all", "Quarter to import (all, q1..q4)")
	yearFlag := fs.Int("year", 0, "Year to import (0 for all time)")
	fs.Parse(os.Args[2:])

	quarter, err := domain.ParseQuarter(*quarterFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid period")
	}
	period := domain.PeriodSelection{Quarter: quarter, Year: *yearFlag}

	cfg := loadConfig(log)
	manager := auth.NewManager(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, cfg.TokenPath, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	session, err := manager.Acquire(ctx)
	if errors.Is(err, auth.ErrAuthorizationRequired) {
		if err := authorizeInteractively(ctx, manager); err != nil {
			log.Fatal().Err(err).Msg("Authorization failed")
		}
		session, err = manager.Acquire(ctx)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to acquire credential")
	}

	p, err := app.NewPipeline(ctx, cfg, session)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pipeline")
	}

	result, err := p.Run(ctx, period)
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	for _, item := range result.Skipped {
		fmt.Printf("warning: skipped %s\n", item)
	}

	if result.ProcessedCount == 0 && len(result.Skipped) == 0 {
		fmt.Println("No new invoices found.")
		return
	}
	fmt.Printf("Processed %d invoices into %q\n", result.ProcessedCount, result.FolderName)
	if result.FolderLink != "" {
		fmt.Println("Folder: " + result.FolderLink)
	}
}

func runHistory(log zerolog.Logger) {
	cfg := loadConfig(log)
	manager := auth.NewManager(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, cfg.TokenPath, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	session, err := manager.Acquire(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to acquire credential (run 'cli auth' first)")
	}

	ldg, err := app.NewLedger(ctx, cfg, session)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build ledger client")
	}

	table, err := ldg.ReadAll(ctx)
	if errors.Is(err, ledger.ErrEmpty) {
		fmt.Println("No invoices in the ledger yet.")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read ledger")
	}

	fmt.Println(strings.Join(table.Header, "\t"))
	for _, row := range table.Rows {
		fmt.Println(strings.Join(row, "\t"))
	}
}
