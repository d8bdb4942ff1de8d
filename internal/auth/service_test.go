// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/salescrm/internal/config"
	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: map[string]*RefreshToken{}}
}

func (m *memTokens) Create(_ context.Context, t *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = time.Now()
	cp := *t
	m.tokens[t.ID] = &cp
	return nil
}

func (m *memTokens) FindByHash(_ context.Context, hash string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memTokens) FindByID(_ context.Context, id string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, core.ErrNotFound
}

func (m *memTokens) MarkAsUsed(_ context.Context, id, replacedByID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok || t.IsUsed {
		return core.ErrNotFound
	}
	t.IsUsed = true
	t.ReplacedByID = &replacedByID
	return nil
}

func (m *memTokens) RevokeByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok || t.RevokedAt != nil {
		return core.ErrNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (m *memTokens) RevokeByFamilyID(_ context.Context, familyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, t := range m.tokens {
		if t.FamilyID == familyID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, t := range m.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (m *memTokens) ListActiveForUser(_ context.Context, userID string, now time.Time) ([]RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RefreshToken
	for _, t := range m.tokens {
		if t.UserID == userID && t.UsableAt(now) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTokens) DeleteExpiredForUser(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*UserInfo
}

func (m *memUsers) GetByLogin(_ context.Context, login string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, username, email, hash string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return nil, core.ErrDuplicateKey
		}
	}
	u := &UserInfo{ID: "user-" + username, Username: username, Email: email, PasswordHash: hash}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) IncrementTokenVersion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].TokenVersion++
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].PasswordHash = hash
	return nil
}

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (b *memBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = ttl
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[jti]
	return ok, nil
}

type fixture struct {
	svc       *Service
	tokens    *memTokens
	users     *memUsers
	blacklist *memBlacklist
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	keyPath := filepath.Join(t.TempDir(), "jwt.pem")
	created, err := EnsureSigningKey(keyPath)
	require.NoError(t, err)
	require.True(t, created)

	created, err = EnsureSigningKey(keyPath)
	require.NoError(t, err)
	assert.False(t, created)

	jwtManager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     keyPath,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "salescrm",
		Audience:           "salescrm-api",
	})
	require.NoError(t, err)
	require.NotEmpty(t, jwtManager.GetKeyID())

	f := &fixture{
		tokens:    newMemTokens(),
		users:     &memUsers{users: map[string]*UserInfo{}},
		blacklist: &memBlacklist{revoked: map[string]time.Duration{}},
	}
	f.svc = NewService(f.tokens, jwtManager, f.users, f.blacklist)
	return f
}

func (f *fixture) register(t *testing.T) *AuthResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	}, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	return resp
}

func TestRegisterIssuesVerifiableAccessToken(t *testing.T) {
	f := newFixture(t)
	resp := f.register(t)

	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.Equal(t, 900, resp.Tokens.ExpiresIn)

	principal, err := f.svc.VerifyAccessToken(context.Background(), resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, principal.UserID)
	assert.NotEmpty(t, principal.TokenID)
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "correct horse battery",
	}, "", "")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t)
	ctx := context.Background()

	for _, login := range []string{"alice", "alice@example.com"} {
		resp, err := f.svc.Login(ctx, LoginRequest{Login: login, Password: "correct horse battery"}, "", "")
		require.NoError(t, err, login)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)
	}

	_, err := f.svc.Login(ctx, LoginRequest{Login: "alice", Password: "wrong password"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, LoginRequest{Login: "nobody", Password: "whatever1"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	f := newFixture(t)
	first := f.register(t)
	ctx := context.Background()

	second, err := f.svc.Refresh(ctx, first.Tokens.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	_, err = f.svc.Refresh(ctx, first.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, ErrTokenReuse)

	_, err = f.svc.Refresh(ctx, second.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.Refresh(ctx, "not-a-token", "", "")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	f := newFixture(t)
	resp := f.register(t)
	ctx := context.Background()

	principal, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, *principal, resp.Tokens.RefreshToken))
	assert.Greater(t, f.blacklist.revoked[principal.TokenID], time.Duration(0))

	_, err = f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.Refresh(ctx, resp.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestLogoutRejectsForeignRefreshToken(t *testing.T) {
	f := newFixture(t)
	resp := f.register(t)

	err := f.svc.Logout(context.Background(), middleware.Principal{
		UserID:    "someone-else",
		TokenID:   "jti",
		ExpiresAt: time.Now().Add(time.Minute),
	}, resp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestChangePasswordInvalidatesOutstandingTokens(t *testing.T) {
	f := newFixture(t)
	resp := f.register(t)
	ctx := context.Background()

	err := f.svc.ChangePassword(ctx, resp.User.ID, "wrong", "new password 123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.svc.ChangePassword(ctx, resp.User.ID, "correct horse battery", "new password 123"))

	_, err = f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.Login(ctx, LoginRequest{Login: "alice", Password: "new password 123"}, "", "")
	assert.NoError(t, err)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyAccessToken(context.Background(), "a.b.c")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestSessionsListAndRevoke(t *testing.T) {
	f := newFixture(t)
	resp := f.register(t)
	ctx := context.Background()

	sessions, err := f.svc.GetActiveSessions(ctx, resp.User.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "test-agent", sessions[0].UserAgent)

	err = f.svc.RevokeSession(ctx, "intruder", sessions[0].ID)
	assert.ErrorIs(t, err, core.ErrForbidden)

	require.NoError(t, f.svc.RevokeSession(ctx, resp.User.ID, sessions[0].ID))

	sessions, err = f.svc.GetActiveSessions(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
