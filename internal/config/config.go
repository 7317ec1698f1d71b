package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	// Label is the Gmail label that marks messages as invoices to import.
	Label string

	// SpreadsheetID identifies the ledger spreadsheet.
	SpreadsheetID string

	// LedgerRange is the A1 range holding the ledger (header row first).
	LedgerRange string

	// OAuth client settings for the installed-app authorization flow.
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// TokenPath is where the serialized credential is persisted across runs.
	TokenPath string

	// MessageLimit caps how many messages one run will process.
	// Zero means no cap: page through every result.
	MessageLimit int
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. Only the OAuth client id and secret are mandatory.
func Load() (*Config, error) {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		Label:         getenv("FACTURAFLOW_LABEL", "Factures"),
		SpreadsheetID: os.Getenv("FACTURAFLOW_SPREADSHEET_ID"),
		LedgerRange:   getenv("FACTURAFLOW_LEDGER_RANGE", "A:G"),
		ClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:   getenv("GOOGLE_REDIRECT_URL", "urn:ietf:wg:oauth:2.0:oob"),
		TokenPath:     getenv("FACTURAFLOW_TOKEN_PATH", "token.json"),
	}

	if v := os.Getenv("FACTURAFLOW_MESSAGE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid FACTURAFLOW_MESSAGE_LIMIT %q", v)
		}
		cfg.MessageLimit = n
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
