// AngelaMos | 2026
// handler.go

package importer

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

const multipartMemory = 8 << 20

type ResultResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Handler struct {
	service  *Service
	maxBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxUploadBytes}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/import", h.Import)
	})
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.JSONError(w, core.NewAppError(
				core.ErrInvalidInput,
				"import file is too large",
				http.StatusRequestEntityTooLarge,
				"FILE_TOO_LARGE",
			))
			return
		}
		core.BadRequest(w, "expected a multipart form upload")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	part, header, err := r.FormFile("file")
	if err != nil {
		core.BadRequest(w, "file is required")
		return
	}
	defer part.Close() //nolint:errcheck // read-only multipart part

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		core.BadRequest(w, "please upload a valid CSV file")
		return
	}

	result, err := h.service.Import(r.Context(), middleware.GetUserID(r.Context()), part)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.OK(w, ResultResponse{Imported: result.Imported, Skipped: result.Skipped})
}
