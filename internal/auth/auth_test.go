package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"portal/internal/session"
	"portal/internal/store"
	"portal/internal/user"
)

type fixture struct {
	m        *Manager
	sessions *session.Memory
	db       *store.DB
	now      time.Time
}

func (f *fixture) clock() time.Time { return f.now }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := store.NewDB("sqlite", filepath.Join(t.TempDir(), "auth.db"), zerolog.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, user.Migrate(db.Client))

	f := &fixture{db: db, now: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}
	f.sessions = session.NewMemory(f.clock)
	users := user.NewService(user.NewRepository(db.Client), bcrypt.MinCost)
	f.m = NewManager(users, f.sessions, Signer{Key: []byte("test-key"), Issuer: "test"}, time.Hour, f.clock)
	return f
}

var ada = user.SignupInput{Name: "Ada", Role: "engineer", Email: "ada@example.com", Password: "secret123"}

func TestSignerRoundTrip(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	s := Signer{Key: []byte("k"), Issuer: "iss", Now: func() time.Time { return now }}

	tok, err := s.Sign("sid-1", now, now.Add(time.Hour))
	require.NoError(t, err)
	sid, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sid)

	_, err = Signer{Key: []byte("other"), Issuer: "iss", Now: s.Now}.Parse(tok)
	assert.Error(t, err, "wrong key")

	_, err = Signer{Key: []byte("k"), Issuer: "someone-else", Now: s.Now}.Parse(tok)
	assert.Error(t, err, "wrong issuer")

	later := Signer{Key: []byte("k"), Issuer: "iss", Now: func() time.Time { return now.Add(2 * time.Hour) }}
	_, err = later.Parse(tok)
	assert.Error(t, err, "expired")

	_, err = s.Parse("not-a-token")
	assert.Error(t, err)
}

func TestSignupEstablishesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.m.Signup(ctx, "", ada)
	require.NoError(t, err)
	assert.Equal(t, f.now.Add(time.Hour), g.ExpiresAt)

	u, err := f.m.CurrentUser(ctx, g.Token)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestLoginErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.m.Signup(ctx, "", ada)
	require.NoError(t, err)

	_, err = f.m.Login(ctx, "", "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = f.m.Login(ctx, "", "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, user.ErrInvalidPassword)
	_, err = f.m.Login(ctx, "", "", "")
	assert.ErrorIs(t, err, user.ErrMissingCredentials)

	g, err := f.m.Login(ctx, "", "ADA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", g.User.Email)
}

func TestLoginRotatesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.m.Signup(ctx, "", ada)
	require.NoError(t, err)
	second, err := f.m.Login(ctx, first.Token, ada.Email, ada.Password)
	require.NoError(t, err)

	u, err := f.m.CurrentUser(ctx, first.Token)
	require.NoError(t, err)
	assert.Nil(t, u)
	u, err = f.m.CurrentUser(ctx, second.Token)
	require.NoError(t, err)
	assert.NotNil(t, u)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.m.Logout(ctx, ""))
	require.NoError(t, f.m.Logout(ctx, "garbage"))

	g, err := f.m.Signup(ctx, "", ada)
	require.NoError(t, err)
	require.NoError(t, f.m.Logout(ctx, g.Token))
	require.NoError(t, f.m.Logout(ctx, g.Token))

	u, err := f.m.CurrentUser(ctx, g.Token)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCurrentUserExpiresWithSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.m.Signup(ctx, "", ada)
	require.NoError(t, err)
	f.now = f.now.Add(time.Hour)

	u, err := f.m.CurrentUser(ctx, g.Token)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCurrentUserDropsOrphanSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.m.Signup(ctx, "", ada)
	require.NoError(t, err)
	require.NoError(t, f.db.Client.Exec("DELETE FROM users WHERE id = ?", g.User.ID).Error)

	u, err := f.m.CurrentUser(ctx, g.Token)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	g, err := f.m.Signup(context.Background(), "", ada)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Sessions(f.m, "sid", zerolog.New(io.Discard)))
	r.GET("/open", func(c *gin.Context) {
		name := ""
		if u := CurrentUser(c); u != nil {
			name = u.Email
		}
		c.String(http.StatusOK, name+"|"+SessionToken(c))
	})
	r.GET("/closed", RequireUser(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).ID)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, "|", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/closed", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: g.Token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, g.User.ID, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: g.Token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "ada@example.com|"+g.Token, w.Body.String())
}
