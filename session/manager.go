package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront-admin/utils"
)

// Manager owns the dashboard login lifecycle: a session is created on login,
// restored from its token on every request and removed on logout.
type Manager struct {
	verifier Verifier
	store    Store
	secret   string
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(verifier Verifier, store Store, secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		verifier: verifier,
		store:    store,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (string, *Session, error) {
	admin, err := m.verifier.Verify(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	now := m.now()
	s := Session{
		ID:        uuid.NewString(),
		Admin:     *admin,
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(m.ttl).UTC(),
	}
	token, err := utils.GenerateToken(m.secret, s.ID, admin.Email, now, m.ttl)
	if err != nil {
		return "", nil, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return "", nil, fmt.Errorf("persist session: %w", err)
	}
	return token, &s, nil
}

func (m *Manager) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := utils.ParseToken(m.secret, token)
	if err != nil {
		return nil, err
	}
	return m.store.Get(ctx, claims.SessionID)
}

func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}
