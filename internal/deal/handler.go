// AngelaMos | 2026
// handler.go

package deal

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

		r.Get("/deals", h.List)
		r.Get("/organizations/{orgID}/deals", h.ListByOrganization)
		r.Post("/organizations/{orgID}/deals", h.Create)
		r.Get("/deals/{dealID}", h.Get)
		r.Put("/deals/{dealID}", h.Update)
		r.Delete("/deals/{dealID}", h.Delete)
		r.Post("/deals/{dealID}/update_stage", h.UpdateStage)

		r.Post("/deals/{dealID}/contacts", h.AddContact)
		r.Delete("/deals/{dealID}/contacts/{contactID}", h.RemoveContact)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	deals, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDealResponseList(deals))
}

func (h *Handler) ListByOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	deals, err := h.service.ListByOrganization(r.Context(), middleware.GetUserID(r.Context()), orgID)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.OK(w, ToDealResponseList(deals))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	var req CreateDealRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	d, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), orgID, req)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.Created(w, ToDealResponse(d))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	dealID, err := core.PathID(r, "dealID")
	if err != nil {
		core.NotFound(w, "deal")
		return
	}

	detail, err := h.service.Detail(r.Context(), middleware.GetUserID(r.Context()), dealID)
	if err != nil {
		core.HandleServiceError(w, err, "deal")
		return
	}

	core.OK(w, ToDetailResponse(detail))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	dealID, err := core.PathID(r, "dealID")
	if err != nil {
		core.NotFound(w, "deal")
		return
	}

	var req UpdateDealRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	d, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), dealID, req)
	if err != nil {
		core.HandleServiceError(w, err, "deal")
		return
	}

	core.OK(w, ToDealResponse(d))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	dealID, err := core.PathID(r, "dealID")
	if err != nil {
		core.NotFound(w, "deal")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), dealID); err != nil {
		core.HandleServiceError(w, err, "deal")
		return
	}

	core.NoContent(w)
}

// UpdateStage is the kanban drop target. Ownership is checked before the
// body so a foreign deal answers 403 whatever stage was sent.
func (h *Handler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	dealID, err := core.PathID(r, "dealID")
	if err != nil {
		core.NotFound(w, "deal")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if _, err := h.service.Get(r.Context(), userID, dealID); err != nil {
		core.HandleServiceError(w, err, "deal")
		return
	}

	var req UpdateStageRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	change, err := h.service.UpdateStage(r.Context(), userID, dealID, req.NewStage)
	if err != nil {
		core.HandleServiceError(w, err, "deal")
		return
	}

	core.OK(w, ToStageChangeResponse(change))
}

func (h *Handler) AddContact(w http.ResponseWriter, r *http.Request) {
	dealID, err := core.PathID(r, "dealID")
	if err != nil {
		core.NotFound(w, "deal")
		return
	}

	var req AddParticipantRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	p, err := h.service.AddParticipant(r.Context(), middleware.GetUserID(r.Context()), dealID, req)
	if err != nil {
		core.HandleServiceError(w, err, "deal")
		return
	}

	core.Created(w, ParticipantResponse{
		ContactID: p.ContactID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      p.Role,
	})
}

func (h *Handler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	dealID, err := core.PathID(r, "dealID")
	if err != nil {
		core.NotFound(w, "deal")
		return
	}
	contactID, err := core.PathID(r, "contactID")
	if err != nil {
		core.NotFound(w, "contact")
		return
	}

	if err := h.service.RemoveParticipant(r.Context(), middleware.GetUserID(r.Context()), dealID, contactID); err != nil {
		core.HandleServiceError(w, err, "deal")
		return
	}

	core.NoContent(w)
}
