package service

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/bookbright/electryohype/internal/auth"
	"github.com/bookbright/electryohype/internal/pricing"
	"github.com/bookbright/electryohype/storage"
	"github.com/bookbright/electryohype/storage/db"
)

// testConfig points every filesystem path at a temp dir and leaves the
// supplier API in mock mode.
func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()

	policy := filepath.Join(dir, "admins.yaml")
	require.NoError(t, os.WriteFile(policy, []byte("admins:\n  - owner@example.com\n"), 0o600))

	config := &Config{Environment: "test", Port: "8080"}
	config.Admin.PolicyPath = policy
	config.Import.Timeout = 5 * time.Second
	config.Import.RequestsPerMinute = 60
	config.Import.NavTimeout = 5 * time.Second
	config.Pricing = pricing.DefaultNormalizer()
	config.Upload.Dir = filepath.Join(dir, "uploads")
	config.Upload.BaseURL = "/public/uploads"
	config.Supplier.Default = "temu"
	config.Supplier.PollInterval = time.Hour
	return config
}

// setupTestEcho creates an Echo instance with routes registered on top of
// an in-memory database.
func setupTestEcho(t *testing.T) (*echo.Echo, *Service) {
	t.Helper()

	store, cleanup, err := storage.NewTestStorage()
	require.NoError(t, err)
	t.Cleanup(cleanup)

	svc, err := New(store, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(svc.Shutdown)

	e := echo.New()
	svc.RegisterRoutes(e)
	return e, svc
}

// createAdminKey stores an admin API key and returns its plaintext.
func createAdminKey(t *testing.T, queries *db.Queries) string {
	t.Helper()
	plaintext, hash, prefix, err := auth.GenerateAPIKey("routes")
	require.NoError(t, err)
	_, err = queries.CreateAPIKey(context.Background(), db.CreateAPIKeyParams{
		ID:          ulid.Make().String(),
		Name:        "routes",
		KeyHash:     hash,
		KeyPrefix:   prefix,
		Permissions: sql.NullString{String: auth.PermissionAdmin, Valid: true},
	})
	require.NoError(t, err)
	return plaintext
}
