// AngelaMos | 2026
// handler_test.go

package deal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithPrincipal(r.Context(), middleware.Principal{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func do(h http.Handler, method, path, body string) (*httptest.ResponseRecorder, core.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp core.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func newRouter(svc *Service, userID string) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, asUser(userID))
	return r
}

func TestHandlerUpdateStageStatuses(t *testing.T) {
	f := newFixture()
	d := f.createDeal(t, alice, aliceOrg, "Big Deal")

	asBob := newRouter(f.svc, bob)
	rec, _ := do(asBob, http.MethodPost, "/deals/"+d.ID+"/update_stage", `{"new_stage":"Nonsense"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	asAlice := newRouter(f.svc, alice)
	rec, _ = do(asAlice, http.MethodPost, "/deals/"+aliceStage+"/update_stage", `{"new_stage":"Lead"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp := do(asAlice, http.MethodPost, "/deals/"+d.ID+"/update_stage", `{"new_stage":"Nonsense"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)

	rec, _ = do(asAlice, http.MethodPost, "/deals/"+d.ID+"/update_stage", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp = do(asAlice, http.MethodPost, "/deals/"+d.ID+"/update_stage", `{"new_stage":"Proposal Sent"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Contains(t, data["message"], "Follow up on proposal for Big Deal")
	assert.Equal(t, "Proposal Sent", data["deal"].(map[string]any)["stage"])
	task := data["task"].(map[string]any)
	assert.Equal(t, "2026-03-17", task["due_date"])
}

func TestHandlerDealCRUD(t *testing.T) {
	f := newFixture()
	h := newRouter(f.svc, alice)

	rec, resp := do(h, http.MethodPost, "/organizations/"+aliceOrg+"/deals",
		`{"name":"Sponsorship","value":25000,"closing_date":"2026-09-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := resp.Data.(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "Lead", created["stage"])
	assert.Equal(t, "2026-09-01", created["closing_date"])

	rec, _ = do(h, http.MethodPost, "/organizations/"+aliceOrg+"/deals", `{"name":"Bad","value":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(h, http.MethodPost, "/organizations/"+aliceOrg+"/deals", `{"name":"Neg","value":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp = do(h, http.MethodGet, "/deals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data, 1)

	rec, _ = do(h, http.MethodPost, "/deals/"+id+"/contacts", `{"contact_id":"`+aliceContact+`","role":"Champion"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp = do(h, http.MethodGet, "/deals/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.(map[string]any)["contacts"], 1)

	rec, _ = do(h, http.MethodDelete, "/deals/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(h, http.MethodGet, "/deals/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerRejectsBlankNames(t *testing.T) {
	f := newFixture()
	d := f.createDeal(t, alice, aliceOrg, "Big Deal")
	h := newRouter(f.svc, alice)

	rec, resp := do(h, http.MethodPost, "/organizations/"+aliceOrg+"/deals", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error.Message, "name must not be blank")

	rec, _ = do(h, http.MethodPut, "/deals/"+d.ID, `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(h, http.MethodPost, "/deals/"+d.ID+"/update_stage", `{"new_stage":" "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp = do(h, http.MethodGet, "/deals/"+d.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Big Deal", resp.Data.(map[string]any)["name"])
}

func TestServiceRejectsBlankNames(t *testing.T) {
	f := newFixture()
	d := f.createDeal(t, alice, aliceOrg, "Big Deal")

	_, err := f.svc.Create(t.Context(), alice, aliceOrg, CreateDealRequest{Name: "\t "})
	require.ErrorIs(t, err, core.ErrInvalidInput)

	blank := " "
	_, err = f.svc.Update(t.Context(), alice, d.ID, UpdateDealRequest{Name: &blank})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}
