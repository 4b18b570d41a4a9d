package auth

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// AdminPolicy is the set of admin emails, read from a YAML file:
//
//	admins:
//	  - owner@example.com
//
// A missing, unreadable or empty file means nobody is an admin.
type AdminPolicy struct {
	path string

	mu      sync.RWMutex
	admins  map[string]struct{}
	modTime time.Time
}

type policyFile struct {
	Admins []string `yaml:"admins"`
}

// LoadAdminPolicy reads the policy at path. Load errors are logged and
// leave the policy empty rather than failing startup.
func LoadAdminPolicy(path string) *AdminPolicy {
	p := &AdminPolicy{path: path, admins: map[string]struct{}{}}
	if err := p.Reload(); err != nil {
		slog.Warn("admin policy not loaded, admin access disabled", "path", path, "error", err)
	}
	return p
}

// Reload re-reads the policy file. On error every admin is dropped.
func (p *AdminPolicy) Reload() error {
	admins, modTime, err := readPolicy(p.path)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.modTime = modTime
	if err != nil {
		p.admins = map[string]struct{}{}
		return err
	}
	p.admins = admins
	return nil
}

func readPolicy(path string) (map[string]struct{}, time.Time, error) {
	if path == "" {
		return nil, time.Time{}, fmt.Errorf("no admin policy path configured")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("stat admin policy: %w", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, info.ModTime(), fmt.Errorf("read admin policy: %w", err)
	}

	var f policyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, info.ModTime(), fmt.Errorf("parse admin policy: %w", err)
	}

	admins := make(map[string]struct{}, len(f.Admins))
	for _, email := range f.Admins {
		if e := normalizeEmail(email); e != "" {
			admins[e] = struct{}{}
		}
	}
	return admins, info.ModTime(), nil
}

// IsAdmin reports whether email is listed, ignoring case.
func (p *AdminPolicy) IsAdmin(email string) bool {
	if p == nil {
		return false
	}
	e := normalizeEmail(email)
	if e == "" {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.admins[e]
	return ok
}

func (p *AdminPolicy) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.admins)
}

// Watch reloads the policy whenever the file's modification time changes,
// until ctx is done.
func (p *AdminPolicy) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.reloadIfChanged()
			}
		}
	}()
}

func (p *AdminPolicy) reloadIfChanged() {
	var modTime time.Time
	if info, err := os.Stat(p.path); err == nil {
		modTime = info.ModTime()
	}

	p.mu.RLock()
	unchanged := modTime.Equal(p.modTime)
	p.mu.RUnlock()
	if unchanged {
		return
	}

	if err := p.Reload(); err != nil {
		slog.Warn("admin policy reload failed, admin access disabled", "path", p.path, "error", err)
		return
	}
	slog.Info("admin policy reloaded", "path", p.path, "admins", p.Len())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
