// AngelaMos | 2026
// handler.go

package organization

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/organizations", h.List)
		r.Post("/organizations", h.Create)
		r.Get("/organizations/{orgID}", h.Get)
		r.Put("/organizations/{orgID}", h.Update)
		r.Delete("/organizations/{orgID}", h.Delete)

		r.Get("/organizations/{orgID}/custom-fields", h.ListFields)
		r.Post("/organizations/{orgID}/custom-fields", h.CreateField)
		r.Put("/custom-fields/{fieldID}", h.UpdateField)
		r.Delete("/custom-fields/{fieldID}", h.DeleteField)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOrganizationResponseList(orgs))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	o, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.Created(w, ToOrganizationResponse(o))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	detail, err := h.service.Detail(r.Context(), middleware.GetUserID(r.Context()), orgID)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.OK(w, ToDetailResponse(detail))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	var req UpdateOrganizationRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	o, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), orgID, req)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.OK(w, ToOrganizationResponse(o))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), orgID); err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListFields(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	fields, err := h.service.ListFields(r.Context(), middleware.GetUserID(r.Context()), orgID)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.OK(w, ToFieldResponseList(fields))
}

func (h *Handler) CreateField(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	var req CreateFieldRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	f, err := h.service.CreateField(r.Context(), middleware.GetUserID(r.Context()), orgID, req)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.Created(w, ToFieldResponse(f))
}

func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	fieldID, err := core.PathID(r, "fieldID")
	if err != nil {
		core.NotFound(w, "custom field")
		return
	}

	var req UpdateFieldRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	f, err := h.service.UpdateField(r.Context(), middleware.GetUserID(r.Context()), fieldID, req)
	if err != nil {
		core.HandleServiceError(w, err, "custom field")
		return
	}

	core.OK(w, ToFieldResponse(f))
}

func (h *Handler) DeleteField(w http.ResponseWriter, r *http.Request) {
	fieldID, err := core.PathID(r, "fieldID")
	if err != nil {
		core.NotFound(w, "custom field")
		return
	}

	if err := h.service.DeleteField(r.Context(), middleware.GetUserID(r.Context()), fieldID); err != nil {
		core.HandleServiceError(w, err, "custom field")
		return
	}

	core.NoContent(w)
}
