package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/sheets/v4"
)

// State is the authorization state of the Manager.
type State string

const (
	// StateNoCredential means no usable token exists and no exchange is in flight.
	StateNoCredential State = "no_credential"
	// StateAwaitingCode means an authorization URL was issued and the manager
	// is waiting for the one-time code.
	StateAwaitingCode State = "awaiting_code"
	// StateAuthorized means a valid token is cached.
	StateAuthorized State = "authorized"
	// StateExpired means a token exists but its access credential has expired.
	StateExpired State = "expired"
)

// ErrAuthorizationRequired is returned by Acquire when no valid credential is
// available and a fresh interactive authorization round-trip is needed. The
// caller should present AuthURL to the user and feed the code into Exchange.
var ErrAuthorizationRequired = errors.New("authorization required")

// Scopes requested for every credential: mail read, file-store write,
// ledger read/write.
var Scopes = []string{
	gmail.GmailReadonlyScope,
	drive.DriveFileScope,
	sheets.SpreadsheetsScope,
}

// Manager obtains and caches the delegated-access credential. It is
// constructed once per process; the token is persisted at tokenPath and
// reloaded on the next run. State transitions are driven by explicit events
// (code received, refresh succeeded, refresh failed), never by ambient
// request parameters.
type Manager struct {
	oauth     *oauth2.Config
	tokenPath string
	log       zerolog.Logger

	mu    sync.Mutex
	token *oauth2.Token
	state State
}

// NewManager creates a Manager and loads any persisted token.
func NewManager(clientID, clientSecret, redirectURL, tokenPath string, log zerolog.Logger) *Manager {
	m := &Manager{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       Scopes,
		},
		tokenPath: tokenPath,
		log:       log,
		state:     StateNoCredential,
	}

	tok, err := loadToken(tokenPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", tokenPath).Msg("Ignoring unreadable token file")
		}
		return m
	}

	m.token = tok
	if tok.Valid() {
		m.state = StateAuthorized
	} else {
		m.state = StateExpired
	}
	return m
}

// State returns the current authorization state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// AuthURL returns the authorization URL for the interactive exchange and
// moves the manager to StateAwaitingCode.
func (m *Manager) AuthURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthorized {
		m.state = StateAwaitingCode
	}
	return m.oauth.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// Exchange handles the CodeReceived event: it trades the one-time code for a
// token, persists it, and moves to StateAuthorized. A failed exchange leaves
// the manager in StateNoCredential and surfaces the error; the caller must
// not proceed without a credential.
func (m *Manager) Exchange(ctx context.Context, code string) error {
	tok, err := m.oauth.Exchange(ctx, code)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = StateNoCredential
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	m.token = tok
	m.state = StateAuthorized
	if err := saveToken(m.tokenPath, tok); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// Acquire returns a Session for one pipeline run. With a valid cached token
// it returns immediately; with an expired-but-refreshable token it refreshes
// in place and persists the result; otherwise it returns
// ErrAuthorizationRequired. Callers acquire once per run and thread the
// session through every collaborator.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil {
		m.state = StateNoCredential
		return nil, ErrAuthorizationRequired
	}

	if !m.token.Valid() {
		if m.token.RefreshToken == "" {
			m.state = StateNoCredential
			return nil, ErrAuthorizationRequired
		}

		tok, err := m.oauth.TokenSource(ctx, m.token).Token()
		if err != nil {
			// RefreshFailed: the refresh token was revoked or the provider
			// rejected it. Back to square one.
			m.log.Warn().Err(err).Msg("Token refresh failed")
			m.state = StateNoCredential
			return nil, ErrAuthorizationRequired
		}

		// RefreshSucceeded.
		m.token = tok
		if err := saveToken(m.tokenPath, tok); err != nil {
			return nil, fmt.Errorf("persist refreshed token: %w", err)
		}
	}

	m.state = StateAuthorized
	return &Session{source: m.oauth.TokenSource(ctx, m.token)}, nil
}

// Session is the short-lived credential handle for a single run.
type Session struct {
	source oauth2.TokenSource
}

// TokenSource exposes the session credential for the Google API clients.
func (s *Session) TokenSource() oauth2.TokenSource {
	return s.source
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode token file %q: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
