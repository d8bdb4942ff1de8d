// AngelaMos | 2026
// service_test.go

package file

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

type memRepo struct {
	mu        sync.Mutex
	files     map[string]*File
	failWrite bool
}

func newMemRepo() *memRepo {
	return &memRepo{files: map[string]*File{}}
}

func (m *memRepo) Create(_ context.Context, f *File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("db down")
	}
	f.UploadedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	cp := *f
	m.files[f.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memRepo) ListByOrganization(_ context.Context, orgID string) ([]File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []File{}
	for _, f := range m.files {
		if f.OrganizationID == orgID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.files, id)
	return nil
}

type orgOwners map[string]string

func (o orgOwners) Authorize(_ context.Context, userID, orgID string) error {
	owner, ok := o[orgID]
	if !ok {
		return core.ErrNotFound
	}
	return core.RequireOwner("authorize organization", owner, userID)
}

const (
	alice    = "11111111-1111-1111-1111-111111111111"
	bob      = "22222222-2222-2222-2222-222222222222"
	aliceOrg = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	bobOrg   = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

func newTestService(t *testing.T) (*Service, *memRepo, *DiskStore) {
	t.Helper()
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	repo := newMemRepo()
	return NewService(repo, store, orgOwners{aliceOrg: alice, bobOrg: bob}), repo, store
}

func TestUploadStoresBlobAndMetadata(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t)

	f, err := svc.Upload(ctx, alice, aliceOrg, Upload{
		Filename: "../Q3 deck.pdf",
		Body:     strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Q3_deck.pdf", f.Filename)
	assert.Equal(t, "application/octet-stream", f.ContentType)
	assert.EqualValues(t, 8, f.SizeBytes)
	assert.Equal(t, aliceOrg+"/"+f.ID+"_Q3_deck.pdf", f.StorageKey)

	rc, err := store.Open(ctx, f.StorageKey)
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestUploadRemovesBlobWhenMetadataFails(t *testing.T) {
	ctx := context.Background()
	svc, repo, store := newTestService(t)
	repo.failWrite = true

	_, err := svc.Upload(ctx, alice, aliceOrg, Upload{Filename: "a.txt", Body: strings.NewReader("x")})
	require.Error(t, err)

	_, err = store.bucket.List(&blob.ListOptions{Prefix: aliceOrg + "/"}).Next(ctx)
	assert.ErrorIs(t, err, io.EOF, "no blob left behind")
}

func TestFileOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Upload(ctx, alice, bobOrg, Upload{Filename: "a.txt", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, core.ErrForbidden)

	f, err := svc.Upload(ctx, bob, bobOrg, Upload{Filename: "b.txt", Body: strings.NewReader("y")})
	require.NoError(t, err)

	_, _, err = svc.Open(ctx, alice, f.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, alice, f.ID), core.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, bob, "missing"), core.ErrNotFound)
}

func TestDeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t)

	first, err := svc.Upload(ctx, alice, aliceOrg, Upload{Filename: "a.txt", Body: strings.NewReader("a")})
	require.NoError(t, err)
	second, err := svc.Upload(ctx, alice, aliceOrg, Upload{Filename: "b.txt", Body: strings.NewReader("b")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice, first.ID))
	_, err = store.Open(ctx, first.StorageKey)
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, svc.PurgeOrganization(ctx, aliceOrg))
	_, err = store.Open(ctx, second.StorageKey)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithPrincipal(r.Context(), middleware.Principal{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandlerUploadAndDownload(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := chi.NewRouter()
	NewHandler(svc, 1<<20).RegisterRoutes(r, asUser(alice))

	body, contentType := multipartBody(t, "notes.txt", "meeting notes")
	req := httptest.NewRequest(http.MethodPost, "/organizations/"+aliceOrg+"/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	files, err := svc.ListByOrganization(context.Background(), alice, aliceOrg)
	require.NoError(t, err)
	require.Len(t, files, 1)

	req = httptest.NewRequest(http.MethodGet, "/files/"+files[0].ID+"/download", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "meeting notes", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename=notes.txt`)
}

func TestHandlerUploadLimits(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := chi.NewRouter()
	NewHandler(svc, 64).RegisterRoutes(r, asUser(alice))

	body, contentType := multipartBody(t, "big.bin", strings.Repeat("x", 1024))
	req := httptest.NewRequest(http.MethodPost, "/organizations/"+aliceOrg+"/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/organizations/"+aliceOrg+"/files",
		strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
