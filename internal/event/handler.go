// AngelaMos | 2026
// handler.go

package event

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

		r.Get("/events", h.List)
		r.Post("/events", h.Create)
		r.Get("/events/{eventID}", h.Get)
		r.Put("/events/{eventID}", h.Update)
		r.Delete("/events/{eventID}", h.Delete)

		r.Post("/events/{eventID}/attendees", h.AddAttendee)
		r.Put("/attendees/{attendeeID}", h.UpdateAttendee)
		r.Delete("/attendees/{attendeeID}", h.RemoveAttendee)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToEventResponseList(events))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	e, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.HandleServiceError(w, err, "event")
		return
	}

	core.Created(w, ToEventResponse(e))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := core.PathID(r, "eventID")
	if err != nil {
		core.NotFound(w, "event")
		return
	}

	detail, err := h.service.Detail(r.Context(), middleware.GetUserID(r.Context()), eventID)
	if err != nil {
		core.HandleServiceError(w, err, "event")
		return
	}

	core.OK(w, ToDetailResponse(detail))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, err := core.PathID(r, "eventID")
	if err != nil {
		core.NotFound(w, "event")
		return
	}

	var req UpdateEventRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	e, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), eventID, req)
	if err != nil {
		core.HandleServiceError(w, err, "event")
		return
	}

	core.OK(w, ToEventResponse(e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID, err := core.PathID(r, "eventID")
	if err != nil {
		core.NotFound(w, "event")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), eventID); err != nil {
		core.HandleServiceError(w, err, "event")
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddAttendee(w http.ResponseWriter, r *http.Request) {
	eventID, err := core.PathID(r, "eventID")
	if err != nil {
		core.NotFound(w, "event")
		return
	}

	var req CreateAttendeeRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	a, err := h.service.AddAttendee(r.Context(), middleware.GetUserID(r.Context()), eventID, req)
	if err != nil {
		core.HandleServiceError(w, err, "attendee")
		return
	}

	core.Created(w, ToAttendeeResponse(a))
}

func (h *Handler) UpdateAttendee(w http.ResponseWriter, r *http.Request) {
	attendeeID, err := core.PathID(r, "attendeeID")
	if err != nil {
		core.NotFound(w, "attendee")
		return
	}

	var req UpdateAttendeeRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	a, err := h.service.UpdateAttendee(r.Context(), middleware.GetUserID(r.Context()), attendeeID, req)
	if err != nil {
		core.HandleServiceError(w, err, "attendee")
		return
	}

	core.OK(w, ToAttendeeResponse(a))
}

func (h *Handler) RemoveAttendee(w http.ResponseWriter, r *http.Request) {
	attendeeID, err := core.PathID(r, "attendeeID")
	if err != nil {
		core.NotFound(w, "attendee")
		return
	}

	if err := h.service.RemoveAttendee(r.Context(), middleware.GetUserID(r.Context()), attendeeID); err != nil {
		core.HandleServiceError(w, err, "attendee")
		return
	}

	core.NoContent(w)
}
