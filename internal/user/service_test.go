// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/organization"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemRepo(users ...User) *memRepo {
	m := &memRepo{users: map[string]*User{}}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *memRepo) taken(u *User) bool {
	for _, other := range m.users {
		if other.ID != u.ID && (other.Username == u.Username || other.Email == u.Email) {
			return true
		}
	}
	return false
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taken(u) {
		return core.ErrDuplicateKey
	}
	u.CreatedAt = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByLogin(_ context.Context, login string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == login || u.Email == strings.ToLower(login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return core.ErrNotFound
	}
	if m.taken(u) {
		return core.ErrDuplicateKey
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memRepo) IncrementTokenVersion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type orgsByUser map[string][]organization.Organization

func (o orgsByUser) ListByUser(_ context.Context, userID string) ([]organization.Organization, error) {
	return o[userID], nil
}

type mockPurger struct {
	mock.Mock
}

func (m *mockPurger) PurgeOrganization(ctx context.Context, orgID string) error {
	return m.Called(ctx, orgID).Error(0)
}

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
)

func seeded() *memRepo {
	return newMemRepo(
		User{ID: alice, Username: "alice", Email: "alice@example.com"},
		User{ID: bob, Username: "bob", Email: "bob@example.com"},
	)
}

func TestCreateNormalizesAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(seeded(), nil, nil)

	info, err := svc.Create(ctx, " carol ", " Carol@Example.COM ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "carol", info.Username)
	assert.Equal(t, "carol@example.com", info.Email)

	byLogin, err := svc.GetByLogin(ctx, " carol@example.com ")
	require.NoError(t, err)
	assert.Equal(t, info.ID, byLogin.ID)

	_, err = svc.Create(ctx, "alice", "other@example.com", "hash")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestGetMe(t *testing.T) {
	ctx := context.Background()
	svc := NewService(seeded(), nil, nil)

	u, err := svc.GetMe(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.GetMe(ctx, "")
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = svc.GetMe(ctx, "33333333-3333-3333-3333-333333333333")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateMe(t *testing.T) {
	ctx := context.Background()
	repo := seeded()
	svc := NewService(repo, nil, nil)

	email := " Alice@Work.Example "
	u, err := svc.UpdateMe(ctx, alice, UpdateUserRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "alice@work.example", u.Email)
	assert.Equal(t, "alice", u.Username, "fields left out stay as they were")

	taken := "bob"
	_, err = svc.UpdateMe(ctx, alice, UpdateUserRequest{Username: &taken})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	stored, err := repo.GetByID(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)

	_, err = svc.UpdateMe(ctx, "", UpdateUserRequest{Username: &taken})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestDeleteMePurgesOwnedOrganizations(t *testing.T) {
	ctx := context.Background()
	repo := seeded()
	orgs := orgsByUser{
		alice: {{ID: "org-a", UserID: alice}, {ID: "org-b", UserID: alice}},
		bob:   {{ID: "org-c", UserID: bob}},
	}
	purger := &mockPurger{}
	purger.On("PurgeOrganization", mock.Anything, "org-a").Return(nil).Once()
	purger.On("PurgeOrganization", mock.Anything, "org-b").Return(nil).Once()

	svc := NewService(repo, orgs, purger)
	require.NoError(t, svc.DeleteMe(ctx, alice))

	purger.AssertExpectations(t)
	purger.AssertNotCalled(t, "PurgeOrganization", mock.Anything, "org-c")

	_, err := repo.GetByID(ctx, alice)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = repo.GetByID(ctx, bob)
	assert.NoError(t, err)
}

func TestDeleteMeToleratesPurgeFailure(t *testing.T) {
	ctx := context.Background()
	repo := seeded()
	purger := &mockPurger{}
	purger.On("PurgeOrganization", mock.Anything, "org-a").Return(errors.New("disk gone"))
	purger.On("PurgeOrganization", mock.Anything, "org-b").Return(nil)

	svc := NewService(repo, orgsByUser{alice: {{ID: "org-a"}, {ID: "org-b"}}}, purger)
	require.NoError(t, svc.DeleteMe(ctx, alice))

	purger.AssertNumberOfCalls(t, "PurgeOrganization", 2)
	_, err := repo.GetByID(ctx, alice)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteMeSkipsPurgeWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	purger := &mockPurger{}

	svc := NewService(newMemRepo(), orgsByUser{alice: {{ID: "org-a"}}}, purger)
	assert.ErrorIs(t, svc.DeleteMe(ctx, alice), core.ErrNotFound)
	purger.AssertNotCalled(t, "PurgeOrganization", mock.Anything, mock.Anything)

	assert.ErrorIs(t, svc.DeleteMe(ctx, ""), core.ErrUnauthorized)
}
