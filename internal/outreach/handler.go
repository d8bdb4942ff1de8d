// AngelaMos | 2026
// handler.go

package outreach

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/salescrm/internal/contact"
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

		r.Post("/contacts/{contactID}/draft-email", h.DraftEmail)
		r.Post("/contacts/{contactID}/send-email", h.SendEmail)
	})
}

func (h *Handler) DraftEmail(w http.ResponseWriter, r *http.Request) {
	contactID, err := core.PathID(r, "contactID")
	if err != nil {
		core.NotFound(w, "contact")
		return
	}

	var req DraftRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	d, err := h.service.DraftEmail(r.Context(), middleware.GetUserID(r.Context()), contactID, req)
	if err != nil {
		core.HandleServiceError(w, err, "contact")
		return
	}

	core.OK(w, DraftResponse{Draft: d.Text, Blocked: d.Blocked})
}

func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	contactID, err := core.PathID(r, "contactID")
	if err != nil {
		core.NotFound(w, "contact")
		return
	}

	var req SendRequest
	if !core.Bind(w, r, h.validator, &req) {
		return
	}

	i, err := h.service.SendEmail(r.Context(), middleware.GetUserID(r.Context()), contactID, req)
	if err != nil {
		core.HandleServiceError(w, err, "contact")
		return
	}

	core.OK(w, SendResponse{
		Message:     "Email sent and logged.",
		Interaction: contact.ToInteractionResponse(i),
	})
}
