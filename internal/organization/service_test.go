// AngelaMos | 2026
// service_test.go

package organization

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/salescrm/internal/contact"
	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/deal"
	"github.com/carterperez-dev/salescrm/internal/event"
	"github.com/carterperez-dev/salescrm/internal/file"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

type memRepo struct {
	mu     sync.Mutex
	orgs   map[string]*Organization
	fields map[string]*CustomField
}

func newMemRepo() *memRepo {
	return &memRepo{orgs: map[string]*Organization{}, fields: map[string]*CustomField{}}
}

func (m *memRepo) Create(_ context.Context, o *Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orgs[o.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orgs[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) ListByUser(_ context.Context, userID string) ([]Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Organization{}
	for _, o := range m.orgs {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) ExistsByName(_ context.Context, userID, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orgs {
		if o.UserID == userID && o.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Update(_ context.Context, o *Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orgs[o.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orgs[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.orgs, id)
	for fid, f := range m.fields {
		if f.OrganizationID == id {
			delete(m.fields, fid)
		}
	}
	return nil
}

func (m *memRepo) CreateField(_ context.Context, f *CustomField) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.fields[f.ID] = &cp
	return nil
}

func (m *memRepo) GetField(_ context.Context, id string) (*CustomField, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fields[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memRepo) ListFields(_ context.Context, orgID string) ([]CustomField, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []CustomField{}
	for _, f := range m.fields {
		if f.OrganizationID == orgID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateField(_ context.Context, f *CustomField) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.fields[f.ID] = &cp
	return nil
}

func (m *memRepo) DeleteField(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.fields[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.fields, id)
	return nil
}

type contactsByOrg map[string][]contact.Contact

func (c contactsByOrg) ListByOrganization(_ context.Context, orgID string) ([]contact.Contact, error) {
	return c[orgID], nil
}

type dealsByOrg map[string][]deal.Deal

func (d dealsByOrg) ListByOrganization(_ context.Context, orgID string) ([]deal.Deal, error) {
	return d[orgID], nil
}

type filesByOrg map[string][]file.File

func (f filesByOrg) ListByOrganization(_ context.Context, orgID string) ([]file.File, error) {
	return f[orgID], nil
}

type attendancesByOrg map[string][]event.Attendee

func (a attendancesByOrg) ListByOrganization(_ context.Context, orgID string) ([]event.Attendee, error) {
	return a[orgID], nil
}

type recordingPurger struct {
	purged []string
	err    error
}

func (p *recordingPurger) PurgeOrganization(_ context.Context, orgID string) error {
	p.purged = append(p.purged, orgID)
	return p.err
}

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
)

type fixture struct {
	svc    *Service
	repo   *memRepo
	purger *recordingPurger
	src    Sources
}

func newFixture() fixture {
	repo := newMemRepo()
	purger := &recordingPurger{}
	src := Sources{
		Contacts:    contactsByOrg{},
		Deals:       dealsByOrg{},
		Files:       filesByOrg{},
		Attendances: attendancesByOrg{},
		Blobs:       purger,
	}
	return fixture{svc: NewService(repo, src), repo: repo, purger: purger, src: src}
}

func TestCreateDefaultsSponsorshipPotential(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o, err := f.svc.Create(ctx, alice, CreateOrganizationRequest{Name: " Acme ", Country: "UK"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", o.Name)
	assert.Equal(t, DefaultSponsorshipPotential, o.SponsorshipPotential)

	o, err = f.svc.Create(ctx, alice, CreateOrganizationRequest{Name: "Globex", SponsorshipPotential: "Low"})
	require.NoError(t, err)
	assert.Equal(t, "Low", o.SponsorshipPotential)

	exists, err := f.repo.ExistsByName(ctx, alice, "Acme")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDetailAggregatesChildren(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o, err := f.svc.Create(ctx, alice, CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)

	f.src.Contacts.(contactsByOrg)[o.ID] = []contact.Contact{{ID: "c1", Name: "Jane"}}
	f.src.Deals.(dealsByOrg)[o.ID] = []deal.Deal{{ID: "d1", Name: "Sponsorship", Stage: deal.StageLead}}
	f.src.Files.(filesByOrg)[o.ID] = []file.File{{ID: "f1", Filename: "deck.pdf"}}
	f.src.Attendances.(attendancesByOrg)[o.ID] = []event.Attendee{{ID: "a1", EventName: "Expo"}}

	_, err = f.svc.CreateField(ctx, alice, o.ID, CreateFieldRequest{FieldName: "Tier", FieldValue: "Gold"})
	require.NoError(t, err)

	detail, err := f.svc.Detail(ctx, alice, o.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Contacts, 1)
	assert.Len(t, detail.Deals, 1)
	assert.Len(t, detail.Files, 1)
	assert.Len(t, detail.CustomFields, 1)
	assert.Len(t, detail.Attendances, 1)

	resp := ToDetailResponse(detail)
	assert.Equal(t, "Tier", resp.CustomFields[0].FieldName)
	assert.Equal(t, "/v1/files/f1/download", resp.Files[0].DownloadURL)

	_, err = f.svc.Detail(ctx, bob, o.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestDeleteRemovesOrganizationAndPurgesBlobs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o, err := f.svc.Create(ctx, alice, CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)
	field, err := f.svc.CreateField(ctx, alice, o.ID, CreateFieldRequest{FieldName: "Tier"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, bob, o.ID), core.ErrForbidden)
	assert.Empty(t, f.purger.purged)

	require.NoError(t, f.svc.Delete(ctx, alice, o.ID))
	assert.Equal(t, []string{o.ID}, f.purger.purged)

	_, err = f.svc.Detail(ctx, alice, o.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = f.repo.GetField(ctx, field.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteToleratesPurgeFailure(t *testing.T) {
	f := newFixture()
	f.purger.err = errors.New("disk gone")
	ctx := context.Background()

	o, err := f.svc.Create(ctx, alice, CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, alice, o.ID))
}

func TestCustomFieldOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o, err := f.svc.Create(ctx, alice, CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.svc.CreateField(ctx, bob, o.ID, CreateFieldRequest{FieldName: "Tier"})
	assert.ErrorIs(t, err, core.ErrForbidden)

	field, err := f.svc.CreateField(ctx, alice, o.ID, CreateFieldRequest{FieldName: "Tier", FieldValue: "Silver"})
	require.NoError(t, err)

	gold := "Gold"
	_, err = f.svc.UpdateField(ctx, bob, field.ID, UpdateFieldRequest{FieldValue: &gold})
	assert.ErrorIs(t, err, core.ErrForbidden)

	updated, err := f.svc.UpdateField(ctx, alice, field.ID, UpdateFieldRequest{FieldValue: &gold})
	require.NoError(t, err)
	assert.Equal(t, "Gold", updated.FieldValue)

	require.NoError(t, f.svc.DeleteField(ctx, alice, field.ID))
	assert.ErrorIs(t, f.svc.DeleteField(ctx, alice, field.ID), core.ErrNotFound)
}

func TestHandlerFormCreateAndList(t *testing.T) {
	f := newFixture()
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithPrincipal(req.Context(), middleware.Principal{UserID: alice})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	form := url.Values{"name": {"Acme"}, "country": {"UK"}, "strategic_notes": {"Met at Expo"}}
	req := httptest.NewRequest(http.MethodPost, "/organizations", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"sponsorship_potential":"High (Sponsor Target)"`)

	req = httptest.NewRequest(http.MethodPost, "/organizations", strings.NewReader(`{"country":"UK"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/organizations/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
