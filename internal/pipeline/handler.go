// AngelaMos | 2026
// handler.go

package pipeline

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

		r.Get("/pipeline", h.Board)
		r.Get("/pipeline/stages", h.List)
		r.Post("/pipeline/stages", h.Create)
		r.Put("/pipeline/stages/order", h.Reorder)
		r.Put("/pipeline/stages/{stageID}", h.Update)
		r.Delete("/pipeline/stages/{stageID}", h.Delete)
	})
}

func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Board(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToBoardResponse(board))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	stages, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToStageResponseList(stages))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStageRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	st, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.HandleServiceError(w, err, "stage")
		return
	}

	core.Created(w, ToStageResponse(st))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	stageID, err := core.PathID(r, "stageID")
	if err != nil {
		core.NotFound(w, "stage")
		return
	}

	var req UpdateStageRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	st, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), stageID, req)
	if err != nil {
		core.HandleServiceError(w, err, "stage")
		return
	}

	core.OK(w, ToStageResponse(st))
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderStagesRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	stages, err := h.service.Reorder(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.HandleServiceError(w, err, "stage")
		return
	}

	core.OK(w, ToStageResponseList(stages))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	stageID, err := core.PathID(r, "stageID")
	if err != nil {
		core.NotFound(w, "stage")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), stageID); err != nil {
		core.HandleServiceError(w, err, "stage")
		return
	}

	core.NoContent(w)
}
