package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/abisalde/storefront-client/internal/database"
	"github.com/abisalde/storefront-client/pkg/sealing"
)

// DefaultTTL bounds how long a persisted sign-in survives without use.
const DefaultTTL = 30 * 24 * time.Hour

var ErrNoSession = errors.New("no persisted session")

// SessionInfo is the signed-in identity-provider state persisted between
// process runs.
type SessionInfo struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	EmailVerified bool      `json:"email_verified"`
	ProviderID    string    `json:"provider_id"` // "password" or "google.com"
	IDToken       string    `json:"id_token"`
	RefreshToken  string    `json:"refresh_token"`
	Sealed        bool      `json:"sealed"` // RefreshToken is sealed at rest
	ExpiresAt     time.Time `json:"expires_at"` // ID token expiry
	CreatedAt     time.Time `json:"created_at"`
	LastUsedAt    time.Time `json:"last_used_at"`
}

// SessionManager persists one SessionInfo per profile.
type SessionManager struct {
	cache   database.Cache
	sealer  *sealing.Sealer
	profile string
	ttl     time.Duration
}

// NewSessionManager creates a session manager. sealer may be nil, in which
// case refresh tokens are stored as-is.
func NewSessionManager(cache database.Cache, sealer *sealing.Sealer, profile string) *SessionManager {
	if profile == "" {
		profile = "default"
	}
	if sealer == nil {
		log.Printf("⚠️ No session sealing key configured, refresh tokens are stored unencrypted")
	}
	return &SessionManager{
		cache:   cache,
		sealer:  sealer,
		profile: profile,
		ttl:     DefaultTTL,
	}
}

// Save stores the session, sealing the refresh token when possible.
func (sm *SessionManager) Save(ctx context.Context, info *SessionInfo) error {
	stored := *info
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.LastUsedAt = now

	if sm.sealer != nil && stored.RefreshToken != "" {
		sealed, err := sm.sealer.Seal(stored.RefreshToken)
		if err != nil {
			return fmt.Errorf("failed to seal refresh token: %w", err)
		}
		stored.RefreshToken = sealed
		stored.Sealed = true
	}

	if err := sm.cache.Set(ctx, sm.key(), stored, sm.ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Load returns the persisted session or ErrNoSession.
func (sm *SessionManager) Load(ctx context.Context) (*SessionInfo, error) {
	var info SessionInfo
	err := sm.cache.Get(ctx, sm.key(), &info)
	if errors.Is(err, database.ErrCacheMiss) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if info.Sealed {
		if sm.sealer == nil {
			return nil, fmt.Errorf("session for %s is sealed but no sealing key is configured", sm.profile)
		}
		plain, err := sm.sealer.Open(info.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to open refresh token: %w", err)
		}
		info.RefreshToken = plain
		info.Sealed = false
	}
	return &info, nil
}

// Clear removes the persisted session (sign-out).
func (sm *SessionManager) Clear(ctx context.Context) error {
	if err := sm.cache.Delete(ctx, sm.key()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (sm *SessionManager) key() string {
	return fmt.Sprintf("session:%s", sm.profile)
}
