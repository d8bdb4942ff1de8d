// AngelaMos | 2026
// service_test.go

package importer

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/middleware"
	"github.com/carterperez-dev/salescrm/internal/organization"
)

type memOrgs struct {
	mu     sync.Mutex
	orgs   []organization.Organization
	failOn string
}

func (m *memOrgs) ExistsByName(_ context.Context, userID, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orgs {
		if o.UserID == userID && o.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memOrgs) Create(_ context.Context, o *organization.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.Name == m.failOn {
		return errors.New("insert failed")
	}
	m.orgs = append(m.orgs, *o)
	return nil
}

func (m *memOrgs) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.orgs))
	for _, o := range m.orgs {
		out = append(out, o.Name)
	}
	return out
}

// snapshotTx restores the store to its state before fn when fn fails.
type snapshotTx struct {
	store *memOrgs
}

func (s snapshotTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.store.mu.Lock()
	saved := append([]organization.Organization(nil), s.store.orgs...)
	s.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.store.mu.Lock()
		s.store.orgs = saved
		s.store.mu.Unlock()
		return err
	}
	return nil
}

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
)

func newTestService(existing ...organization.Organization) (*Service, *memOrgs) {
	store := &memOrgs{orgs: existing}
	return NewService(store, snapshotTx{store: store}), store
}

func TestImportSkipsBlankAndExistingOrgs(t *testing.T) {
	svc, store := newTestService(
		organization.Organization{UserID: alice, Name: "Acme"},
		organization.Organization{UserID: bob, Name: "Globex"},
	)

	csv := "Org,Country,Sponsorship Potential,Notes\n" +
		"Acme,UK,High,existing\n" +
		",FR,Low,blank org\n" +
		"Globex,DE,Medium,owned by someone else\n" +
		"Initech,US,,\n" +
		"Initech,US,Low,same file twice\n"

	result, err := svc.Import(context.Background(), alice, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 2, Skipped: 3}, result)

	assert.Equal(t, []string{"Acme", "Globex", "Globex", "Initech"}, store.names())

	for _, o := range store.orgs {
		if o.Name == "Initech" {
			assert.Equal(t, organization.DefaultSponsorshipPotential, o.SponsorshipPotential)
			assert.Equal(t, "US", o.Country)
		}
	}
}

func TestImportMissingColumns(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.Import(context.Background(), alice, strings.NewReader("Org,Region\nAcme,EU\n"))
	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Country, Sponsorship Potential")
	assert.Empty(t, store.names())

	_, err = svc.Import(context.Background(), alice, strings.NewReader(""))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestImportRollsBackOnFailure(t *testing.T) {
	svc, store := newTestService()
	store.failOn = "Broken"

	csv := "Org,Country,Sponsorship Potential\nAcme,UK,High\nBroken,UK,High\nGlobex,DE,Low\n"
	_, err := svc.Import(context.Background(), alice, strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Empty(t, store.names())
}

func TestParseCSVHandlesBOMAndShortRows(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("\ufeffOrg, Country ,Sponsorship Potential\n Acme ,UK\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{Line: 2, Org: "Acme", Country: "UK"}, rows[0])
}

func upload(t *testing.T, h http.Handler, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerImport(t *testing.T) {
	svc, _ := newTestService()
	r := chi.NewRouter()
	NewHandler(svc, 1<<20).RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithPrincipal(req.Context(), middleware.Principal{UserID: alice})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	rec := upload(t, r, "orgs.xlsx", "Org,Country,Sponsorship Potential\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, r, "orgs.csv", "Org,Country\nAcme,UK\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sponsorship Potential")

	rec = upload(t, r, "orgs.csv", "Org,Country,Sponsorship Potential\nAcme,UK,High\n,,\n")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"imported":1,"skipped":1}}`, rec.Body.String())
}
