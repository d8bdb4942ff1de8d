// AngelaMos | 2026
// service_test.go

package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/deal"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

type memRepo struct {
	mu     sync.Mutex
	stages map[string]*Stage
}

func newMemRepo() *memRepo {
	return &memRepo{stages: map[string]*Stage{}}
}

func (m *memRepo) Create(_ context.Context, s *Stage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	highest := 0
	for _, st := range m.stages {
		if st.UserID == s.UserID && st.Position > highest {
			highest = st.Position
		}
	}
	s.Position = highest + 1
	s.CreatedAt = time.Now()
	cp := *s
	m.stages[s.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Stage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stages[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memRepo) GetByName(_ context.Context, userID, name string) (*Stage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stages {
		if s.UserID == userID && s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) ListByUser(_ context.Context, userID string) ([]Stage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Stage{}
	for _, s := range m.stages {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, s *Stage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.stages {
		if other.ID != s.ID && other.UserID == s.UserID && other.Position == s.Position {
			return core.ErrDuplicateKey
		}
	}
	cp := *s
	m.stages[s.ID] = &cp
	return nil
}

func (m *memRepo) SetPosition(_ context.Context, id string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stages[id]
	if !ok {
		return core.ErrNotFound
	}
	s.Position = position
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stages[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.stages, id)
	return nil
}

type dealList []deal.Deal

func (d dealList) ListByUser(_ context.Context, userID string) ([]deal.Deal, error) {
	out := []deal.Deal{}
	for _, x := range d {
		if x.UserID == userID {
			out = append(out, x)
		}
	}
	return out, nil
}

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
)

func ptr(s string) *string { return &s }

func TestStagePositionsIncrease(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), dealList{}, core.PassthroughTx{})

	var positions []int
	for _, name := range []string{"Discovery", "Demo", "Contract"} {
		st, err := svc.Create(ctx, alice, CreateStageRequest{Name: name})
		require.NoError(t, err)
		positions = append(positions, st.Position)
	}
	assert.Equal(t, []int{1, 2, 3}, positions)

	st, err := svc.Create(ctx, bob, CreateStageRequest{Name: "Discovery"})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Position, "positions are per user")

	_, err = svc.Create(ctx, alice, CreateStageRequest{Name: "Demo"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestStageUpdateAndOwnership(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), dealList{}, core.PassthroughTx{})

	first, err := svc.Create(ctx, alice, CreateStageRequest{Name: "One"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, CreateStageRequest{Name: "Two"})
	require.NoError(t, err)

	taken := 2
	_, err = svc.Update(ctx, alice, first.ID, UpdateStageRequest{Position: &taken})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	_, err = svc.Update(ctx, alice, first.ID, UpdateStageRequest{Name: ptr("Two")})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	updated, err := svc.Update(ctx, alice, first.ID, UpdateStageRequest{Name: ptr(" First ")})
	require.NoError(t, err)
	assert.Equal(t, "First", updated.Name)

	_, err = svc.Update(ctx, bob, first.ID, UpdateStageRequest{Name: ptr("Mine")})
	assert.ErrorIs(t, err, core.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, bob, first.ID), core.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, alice, first.ID))

	_, err = svc.StageIDByName(ctx, alice, "First")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestBuildBoard(t *testing.T) {
	stages := []Stage{
		{ID: "s1", Name: "Discovery", Position: 1},
		{ID: "s2", Name: "Demo", Position: 2},
		{ID: "s3", Name: "Empty", Position: 3},
	}
	deals := []deal.Deal{
		{ID: "d1", StageID: ptr("s2"), Value: 100},
		{ID: "d2", StageID: ptr("s1"), Value: 50},
		{ID: "d3", StageID: nil, Value: 10},
		{ID: "d4", StageID: ptr("s2"), Value: 200},
		{ID: "d5", StageID: ptr("deleted"), Value: 1},
	}

	board := BuildBoard(stages, deals)

	require.Len(t, board.Columns, 3)
	assert.Equal(t, "Discovery", board.Columns[0].Stage.Name)
	assert.Equal(t, []string{"d2"}, ids(board.Columns[0].Deals))
	assert.Equal(t, []string{"d1", "d4"}, ids(board.Columns[1].Deals))
	assert.Empty(t, board.Columns[2].Deals)
	assert.Equal(t, []string{"d3", "d5"}, ids(board.Unstaged))

	resp := ToBoardResponse(board)
	assert.EqualValues(t, 300, resp.Columns[1].TotalValue)
	assert.NotNil(t, resp.Columns[2].Deals)
}

func TestBuildBoardWithoutStages(t *testing.T) {
	board := BuildBoard(nil, []deal.Deal{{ID: "d1"}})
	assert.Empty(t, board.Columns)
	assert.Equal(t, []string{"d1"}, ids(board.Unstaged))
}

func ids(deals []deal.Deal) []string {
	out := make([]string, 0, len(deals))
	for _, d := range deals {
		out = append(out, d.ID)
	}
	return out
}

func TestHandlerBoardIsScopedToUser(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, dealList{
		{ID: "a1", UserID: alice, Name: "Alice Deal", Stage: deal.StageLead},
		{ID: "b1", UserID: bob, Name: "Bob Deal", Stage: deal.StageLead},
	}, core.PassthroughTx{})
	_, err := svc.Create(ctx, alice, CreateStageRequest{Name: "Discovery"})
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithPrincipal(req.Context(), middleware.Principal{UserID: alice})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pipeline", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data BoardResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Columns, 1)
	require.Len(t, resp.Data.Unstaged, 1)
	assert.Equal(t, "Alice Deal", resp.Data.Unstaged[0].Name)

	req := httptest.NewRequest(http.MethodPost, "/pipeline/stages", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
