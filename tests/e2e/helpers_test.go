//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/nmueses/secaudit/internal/adapter/postgres"
	accountrepo "github.com/nmueses/secaudit/internal/adapter/postgres/account"
	actionrepo "github.com/nmueses/secaudit/internal/adapter/postgres/action"
	eventrepo "github.com/nmueses/secaudit/internal/adapter/postgres/event"
	"github.com/nmueses/secaudit/internal/adapter/postgres/testhelper"
	authpkg "github.com/nmueses/secaudit/internal/auth"
	"github.com/nmueses/secaudit/internal/config"
	"github.com/nmueses/secaudit/internal/domain"
	accountsvc "github.com/nmueses/secaudit/internal/service/account"
	authsvc "github.com/nmueses/secaudit/internal/service/auth"
	eventsvc "github.com/nmueses/secaudit/internal/service/event"
	ledgersvc "github.com/nmueses/secaudit/internal/service/ledger"
	reportsvc "github.com/nmueses/secaudit/internal/service/report"
	"github.com/nmueses/secaudit/internal/transport/middleware"
	"github.com/nmueses/secaudit/internal/transport/rest"
)

// maxFailedAttempts mirrors the lockout threshold the E2E server is
// configured with. Kept low so lockout tests need few requests.
const maxFailedAttempts = 3

// testRecipient receives every mail the stack sends during a test run.
const testRecipient = "security-team@example.com"

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// Recording mailer — stands in for the SMTP adapter.
// ---------------------------------------------------------------------------

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *recordingMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	Mail   *recordingMailer

	hasher *authpkg.PasswordHasher
}

// setupTestServer bootstraps the full application stack backed by a
// real PostgreSQL container (shared via testhelper). Only the SMTP
// adapter is replaced, by an in-memory recording mailer.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	accounts := accountrepo.New(pool)
	events := eventrepo.New(pool)
	actions := actionrepo.New(pool)

	tokens := authpkg.NewJWTManager("test-secret-at-least-32-chars-long!!", "test-issuer", 15*time.Minute)
	hasher := authpkg.NewPasswordHasher(4) // bcrypt.MinCost, tests only
	mail := &recordingMailer{}

	secCfg := config.SecurityConfig{
		MaxFailedAttempts: maxFailedAttempts,
		FailedWindow:      time.Hour,
		RecoveryCodeTTL:   time.Hour,
		RecentEventsLimit: 10,
	}

	eventService := eventsvc.NewService(logger, events, secCfg.RecentEventsLimit)
	ledgerService := ledgersvc.NewService(logger, actions, accounts)
	authService := authsvc.NewService(logger, accounts, eventService, hasher, tokens, mail,
		secCfg, testRecipient)
	accountService := accountsvc.NewService(logger, accounts, ledgerService, eventService, hasher,
		postgres.NewTxManager(pool))
	reportService := reportsvc.NewService(logger, eventService, accounts, ledgerService, mail,
		testRecipient)

	authHandler := rest.NewAuthHandler(authService, logger)
	adminHandler := rest.NewAdminHandler(accountService, reportService, eventService, ledgerService,
		eventService, logger)
	healthHandler := rest.NewHealthHandler(pool, "test-version")

	mux := rest.NewRouter(authHandler, adminHandler, healthHandler)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type,X-Request-Id",
			MaxAge:         300,
		}),
		limiter.Limit(10000),
		middleware.Auth(tokens),
	)(mux)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		Mail:   mail,
		hasher: hasher,
	}
}

// ---------------------------------------------------------------------------
// Account and request helpers.
// ---------------------------------------------------------------------------

// createAccount inserts an account with a real bcrypt hash so it can
// log in through the HTTP API.
func (ts *testServer) createAccount(t *testing.T, role domain.Role, password string) domain.Account {
	t.Helper()
	ctx := context.Background()

	hash, err := ts.hasher.Hash(password)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	account := domain.Account{
		ID:           uuid.New(),
		Username:     "e2e-" + string(role) + "-" + uuid.New().String()[:8],
		PasswordHash: hash,
		Active:       true,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = ts.Pool.Exec(ctx,
		`INSERT INTO accounts (id, username, password_hash, active, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.ID, account.Username, account.PasswordHash, account.Active,
		string(account.Role), account.CreatedAt, account.UpdatedAt,
	)
	require.NoError(t, err)

	return account
}

// doJSON sends a JSON request and returns the status code plus the
// decoded body (nil for empty responses).
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "e2e-suite/1.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			result = nil
		}
	}
	return resp.StatusCode, result
}

// doJSONList is doJSON for endpoints that respond with a JSON array.
func (ts *testServer) doJSONList(t *testing.T, method, path, token string) (int, []any) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "e2e-suite/1.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result []any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		result = nil
	}
	return resp.StatusCode, result
}

// login authenticates through POST /auth/login and returns the access
// token from a successful response.
func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, "login failed: %v", body)

	token, ok := body["accessToken"].(string)
	require.True(t, ok, "expected accessToken in login response")
	return token
}

// adminSession creates an admin account and logs it in.
func (ts *testServer) adminSession(t *testing.T) (domain.Account, string) {
	t.Helper()
	admin := ts.createAccount(t, domain.RoleAdmin, "admin-pass-123")
	return admin, ts.login(t, admin.Username, "admin-pass-123")
}

// ---------------------------------------------------------------------------
// Direct DB assertions.
// ---------------------------------------------------------------------------

// accountActive reads the active flag straight from the database.
func accountActive(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) bool {
	t.Helper()
	var active bool
	err := pool.QueryRow(context.Background(),
		`SELECT active FROM accounts WHERE id = $1`, id).Scan(&active)
	require.NoError(t, err)
	return active
}

// storedRecoveryCode reads the recovery code column, "" when cleared.
func storedRecoveryCode(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) string {
	t.Helper()
	var code *string
	err := pool.QueryRow(context.Background(),
		`SELECT recovery_code FROM accounts WHERE id = $1`, id).Scan(&code)
	require.NoError(t, err)
	if code == nil {
		return ""
	}
	return *code
}

// eventCount counts security events of one kind for one account.
func eventCount(t *testing.T, pool *pgxpool.Pool, accountID uuid.UUID, kind domain.EventKind) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM security_events WHERE account_id = $1 AND kind = $2`,
		accountID, string(kind)).Scan(&n)
	require.NoError(t, err)
	return n
}

// actionCount counts ledger entries of one kind recorded by one admin.
func actionCount(t *testing.T, pool *pgxpool.Pool, adminID uuid.UUID, kind domain.ActionKind) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM admin_actions WHERE admin_id = $1 AND kind = $2`,
		adminID, string(kind)).Scan(&n)
	require.NoError(t, err)
	return n
}
