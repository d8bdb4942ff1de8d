// AngelaMos | 2026
// handler.go

package contact

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

		r.Get("/organizations/{orgID}/contacts", h.List)
		r.Post("/organizations/{orgID}/contacts", h.Create)
		r.Get("/contacts/{contactID}", h.Get)
		r.Put("/contacts/{contactID}", h.Update)
		r.Delete("/contacts/{contactID}", h.Delete)

		r.Post("/contacts/{contactID}/interactions", h.CreateInteraction)
		r.Delete("/interactions/{interactionID}", h.DeleteInteraction)

		r.Get("/tasks", h.ListOpenTasks)
		r.Post("/contacts/{contactID}/tasks", h.CreateTask)
		r.Put("/tasks/{taskID}", h.UpdateTask)
		r.Delete("/tasks/{taskID}", h.DeleteTask)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	contacts, err := h.service.ListByOrganization(r.Context(), middleware.GetUserID(r.Context()), orgID)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.OK(w, ToContactResponseList(contacts))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	var req CreateContactRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), orgID, req)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.Created(w, ToContactResponse(c))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "contactID")
	if err != nil {
		core.NotFound(w, "contact")
		return
	}

	detail, err := h.service.Detail(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		core.HandleServiceError(w, err, "contact")
		return
	}

	core.OK(w, DetailResponse{
		ContactResponse: ToContactResponse(detail.Contact),
		Timeline:        detail.Timeline,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "contactID")
	if err != nil {
		core.NotFound(w, "contact")
		return
	}

	var req UpdateContactRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, req)
	if err != nil {
		core.HandleServiceError(w, err, "contact")
		return
	}

	core.OK(w, ToContactResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "contactID")
	if err != nil {
		core.NotFound(w, "contact")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		core.HandleServiceError(w, err, "contact")
		return
	}

	core.NoContent(w)
}

func (h *Handler) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	contactID, err := core.PathID(r, "contactID")
	if err != nil {
		core.NotFound(w, "contact")
		return
	}

	var req CreateInteractionRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	i, err := h.service.LogInteraction(r.Context(), middleware.GetUserID(r.Context()), contactID, req)
	if err != nil {
		core.HandleServiceError(w, err, "contact")
		return
	}

	core.Created(w, ToInteractionResponse(i))
}

func (h *Handler) DeleteInteraction(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "interactionID")
	if err != nil {
		core.NotFound(w, "interaction")
		return
	}

	if err := h.service.DeleteInteraction(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		core.HandleServiceError(w, err, "interaction")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListOpenTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListOpenTasks(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTaskResponseList(tasks))
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	contactID, err := core.PathID(r, "contactID")
	if err != nil {
		core.NotFound(w, "contact")
		return
	}

	var req CreateTaskRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	t, err := h.service.CreateTask(r.Context(), middleware.GetUserID(r.Context()), contactID, req)
	if err != nil {
		core.HandleServiceError(w, err, "contact")
		return
	}

	core.Created(w, ToTaskResponse(t))
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "taskID")
	if err != nil {
		core.NotFound(w, "task")
		return
	}

	var req UpdateTaskRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	t, err := h.service.UpdateTask(r.Context(), middleware.GetUserID(r.Context()), id, req)
	if err != nil {
		core.HandleServiceError(w, err, "task")
		return
	}

	core.OK(w, ToTaskResponse(t))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := core.PathID(r, "taskID")
	if err != nil {
		core.NotFound(w, "task")
		return
	}

	if err := h.service.DeleteTask(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		core.HandleServiceError(w, err, "task")
		return
	}

	core.NoContent(w)
}
