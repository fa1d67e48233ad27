package auth

import (
	"context"
	"fmt"
	"time"

	"portal/internal/session"
	"portal/internal/user"
)

// Grant is a freshly established session, ready to be sent as a cookie.
type Grant struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

// Manager establishes, resolves and destroys sessions.
type Manager struct {
	users    *user.Service
	sessions session.Store
	signer   Signer
	ttl      time.Duration
	now      func() time.Time
}

// NewManager wires a Manager. now defaults to time.Now.
func NewManager(users *user.Service, sessions session.Store, signer Signer, ttl time.Duration, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	if signer.Now == nil {
		signer.Now = now
	}
	return &Manager{users: users, sessions: sessions, signer: signer, ttl: ttl, now: now}
}

// Signup creates the account and logs it in. The session named by previous,
// if any, is replaced.
func (m *Manager) Signup(ctx context.Context, previous string, in user.SignupInput) (Grant, error) {
	u, err := m.users.Register(ctx, in)
	if err != nil {
		return Grant{}, err
	}
	return m.establish(ctx, previous, u)
}

// Login verifies credentials and opens a session for the user. The session
// named by previous, if any, is replaced.
func (m *Manager) Login(ctx context.Context, previous, email, password string) (Grant, error) {
	u, err := m.users.Authenticate(ctx, email, password)
	if err != nil {
		return Grant{}, err
	}
	return m.establish(ctx, previous, u)
}

func (m *Manager) establish(ctx context.Context, previous string, u *user.User) (Grant, error) {
	if err := m.Logout(ctx, previous); err != nil {
		return Grant{}, fmt.Errorf("drop previous session: %w", err)
	}
	id, err := session.NewID()
	if err != nil {
		return Grant{}, fmt.Errorf("session id: %w", err)
	}
	now := m.now()
	s := session.Session{UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(m.ttl)}
	if err := m.sessions.Save(ctx, id, s); err != nil {
		return Grant{}, fmt.Errorf("save session: %w", err)
	}
	token, err := m.signer.Sign(id, now, s.ExpiresAt)
	if err != nil {
		return Grant{}, fmt.Errorf("sign session: %w", err)
	}
	return Grant{Token: token, ExpiresAt: s.ExpiresAt, User: u}, nil
}

// Logout destroys the session named by token. Missing, forged or expired
// tokens are not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := m.signer.Parse(token)
	if err != nil {
		return nil
	}
	return m.sessions.Delete(ctx, id)
}

// CurrentUser resolves token to its user. It returns (nil, nil) when there is
// no valid session; a session whose user has disappeared is destroyed.
func (m *Manager) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, nil
	}
	id, err := m.signer.Parse(token)
	if err != nil {
		return nil, nil
	}
	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	u, err := m.users.Get(ctx, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	if u == nil {
		if err := m.sessions.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("drop orphan session: %w", err)
		}
		return nil, nil
	}
	return u, nil
}
