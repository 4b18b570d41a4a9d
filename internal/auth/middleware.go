package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys for storing auth data
const (
	UserKey            = "user"
	IsAuthenticatedKey = "is_authenticated"
)

// SessionMiddleware verifies the session token when one is present and
// stores the user in the echo context. It never rejects a request.
func SessionMiddleware(verifier SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(IsAuthenticatedKey, false)
			if verifier == nil {
				return next(c)
			}

			token := extractSessionToken(c.Request())
			if token == "" {
				return next(c)
			}

			u, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				slog.Debug("session verification failed", "error", err)
				return next(c)
			}

			c.Set(UserKey, u)
			c.Set(IsAuthenticatedKey, true)
			return next(c)
		}
	}
}

// extractSessionToken checks the Clerk-Session header, a non API key
// Bearer token, then the __session cookie.
func extractSessionToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get("Clerk-Session")); token != "" {
		return token
	}

	if auth := strings.TrimSpace(r.Header.Get("Authorization")); len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		if token := strings.TrimSpace(auth[7:]); !strings.HasPrefix(token, APIKeyPrefix) {
			return token
		}
	}

	if cookie, err := r.Cookie("__session"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// RequireAdmin lets a request through when the session user is listed in
// the policy or an active API key carries the admin permission. Anything
// else gets a 401 JSON body.
func RequireAdmin(policy *AdminPolicy, keys APIKeyStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key := apiKeyFromRequest(c.Request()); key != "" {
				info := lookupAPIKey(c.Request().Context(), keys, key)
				if !info.HasPermission(PermissionAdmin) {
					return unauthorized(c, "Invalid or inactive API key")
				}
				ctx := context.WithValue(c.Request().Context(), ctxKeyAPIKey{}, info)
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)
			}

			u, ok := GetUser(c)
			if !ok {
				return unauthorized(c, "Authentication required")
			}
			if !policy.IsAdmin(u.Email) {
				slog.Warn("admin access denied", "user_id", u.ID, "path", c.Path())
				return unauthorized(c, "Admin access required")
			}
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
}
