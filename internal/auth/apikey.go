package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bookbright/electryohype/storage/db"
)

// APIKeyPrefix marks keys issued by GenerateAPIKey.
const APIKeyPrefix = "bbh_"

// PermissionAdmin grants access to every admin endpoint.
const PermissionAdmin = "admin"

type ctxKeyAPIKey struct{}

// APIKeyStore is the part of the query layer used to resolve keys.
type APIKeyStore interface {
	GetAPIKeyByHash(ctx context.Context, keyHash string) (db.ApiKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id string) error
}

type APIKeyInfo struct {
	ID          string
	Name        string
	Permissions string
}

// apiKeyFromRequest returns a bbh_ key from X-API-Key or a Bearer token.
func apiKeyFromRequest(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer "+APIKeyPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// lookupAPIKey resolves an active key. Any failure returns nil.
func lookupAPIKey(ctx context.Context, store APIKeyStore, key string) *APIKeyInfo {
	if store == nil || !strings.HasPrefix(key, APIKeyPrefix) {
		return nil
	}

	apiKey, err := store.GetAPIKeyByHash(ctx, HashAPIKey(key))
	if err != nil {
		slog.Debug("API key lookup failed", "error", err)
		return nil
	}
	if !apiKey.IsActive.Valid || apiKey.IsActive.Int64 != 1 {
		return nil
	}

	if err := store.UpdateAPIKeyLastUsed(ctx, apiKey.ID); err != nil {
		slog.Warn("failed to update API key last used", "key_id", apiKey.ID, "error", err)
	}

	return &APIKeyInfo{
		ID:          apiKey.ID,
		Name:        apiKey.Name,
		Permissions: apiKey.Permissions.String,
	}
}

// GetAPIKeyInfo retrieves API key info from the request context.
func GetAPIKeyInfo(ctx context.Context) *APIKeyInfo {
	if k, ok := ctx.Value(ctxKeyAPIKey{}).(*APIKeyInfo); ok {
		return k
	}
	return nil
}

// HasPermission checks if the API key has the specified permission.
func (a *APIKeyInfo) HasPermission(permission string) bool {
	if a == nil {
		return false
	}
	for _, p := range strings.Split(a.Permissions, ",") {
		if strings.TrimSpace(p) == permission {
			return true
		}
	}
	return false
}

// HashAPIKey is the stored form of a plaintext key.
func HashAPIKey(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}

// GenerateAPIKey creates a new API key with the given name.
// Returns the plaintext key (show once), hash (store), and prefix (display).
func GenerateAPIKey(name string) (plaintext, hash, prefix string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", "", err
	}
	random := hex.EncodeToString(bytes)
	plaintext = APIKeyPrefix + random
	prefix = APIKeyPrefix + random[:8] + "..."

	slog.Info("generated API key", "name", name, "prefix", prefix)
	return plaintext, HashAPIKey(plaintext), prefix, nil
}
