package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"
)

// User is the authenticated session owner.
type User struct {
	ID       string
	Email    string
	FullName string
}

// SessionVerifier resolves a session token to its user.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// ClerkVerifier verifies Clerk session JWTs and looks up the user's
// primary email, caching users for a few minutes.
type ClerkVerifier struct {
	cache *userCache
}

// NewClerkVerifier sets the global Clerk key.
func NewClerkVerifier(secretKey string) *ClerkVerifier {
	clerk.SetKey(secretKey)
	return &ClerkVerifier{cache: newUserCache(5 * time.Minute)}
}

func (v *ClerkVerifier) Verify(ctx context.Context, token string) (*User, error) {
	claims, err := jwt.Verify(ctx, &jwt.VerifyParams{Token: token})
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}

	if u := v.cache.Get(claims.Subject); u != nil {
		return u, nil
	}

	cu, err := user.Get(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	u := mapClerkUser(cu)
	v.cache.Set(claims.Subject, u)
	return u, nil
}

func mapClerkUser(cu *clerk.User) *User {
	u := &User{ID: cu.ID}

	primary := stringValue(cu.PrimaryEmailAddressID)
	for _, e := range cu.EmailAddresses {
		if e.ID == primary {
			u.Email = e.EmailAddress
			break
		}
	}
	if u.Email == "" && len(cu.EmailAddresses) > 0 {
		u.Email = cu.EmailAddresses[0].EmailAddress
	}

	u.FullName = strings.TrimSpace(stringValue(cu.FirstName) + " " + stringValue(cu.LastName))
	if u.FullName == "" {
		u.FullName = stringValue(cu.Username)
	}
	return u
}

type userCache struct {
	mu   sync.RWMutex
	data map[string]cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	user      *User
	expiresAt time.Time
}

func newUserCache(ttl time.Duration) *userCache {
	return &userCache{data: make(map[string]cacheEntry), ttl: ttl}
}

func (c *userCache) Get(id string) *User {
	c.mu.RLock()
	entry, ok := c.data[id]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.user
}

// Set also drops expired entries so the map cannot grow without bound.
func (c *userCache) Set(id string, u *User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.data {
		if now.After(e.expiresAt) {
			delete(c.data, k)
		}
	}
	c.data[id] = cacheEntry{user: u, expiresAt: now.Add(c.ttl)}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
