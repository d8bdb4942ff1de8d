// AngelaMos | 2026
// handler.go

package file

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

// multipartMemory is how much of an upload is buffered in memory before
// the multipart reader spills to a temp file.
const multipartMemory = 8 << 20

type Handler struct {
	service  *Service
	maxBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{
		service:  service,
		maxBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/organizations/{orgID}/files", h.List)
		r.Post("/organizations/{orgID}/files", h.Upload)
		r.Get("/files/{fileID}", h.Get)
		r.Get("/files/{fileID}/download", h.Download)
		r.Delete("/files/{fileID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	files, err := h.service.ListByOrganization(r.Context(), middleware.GetUserID(r.Context()), orgID)
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.OK(w, ToFileResponseList(files))
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	orgID, err := core.PathID(r, "orgID")
	if err != nil {
		core.NotFound(w, "organization")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.JSONError(w, core.NewAppError(
				core.ErrInvalidInput,
				"file exceeds the upload limit of "+strconv.FormatInt(h.maxBytes, 10)+" bytes",
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

	f, err := h.service.Upload(r.Context(), middleware.GetUserID(r.Context()), orgID, Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        part,
	})
	if err != nil {
		core.HandleServiceError(w, err, "organization")
		return
	}

	core.Created(w, ToFileResponse(f))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	fileID, err := core.PathID(r, "fileID")
	if err != nil {
		core.NotFound(w, "file")
		return
	}

	f, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), fileID)
	if err != nil {
		core.HandleServiceError(w, err, "file")
		return
	}

	core.OK(w, ToFileResponse(f))
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	fileID, err := core.PathID(r, "fileID")
	if err != nil {
		core.NotFound(w, "file")
		return
	}

	f, body, err := h.service.Open(r.Context(), middleware.GetUserID(r.Context()), fileID)
	if err != nil {
		core.HandleServiceError(w, err, "file")
		return
	}
	defer body.Close() //nolint:errcheck // read-only blob

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(f.SizeBytes, 10))
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": f.Filename}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		slog.WarnContext(r.Context(), "download interrupted", "file_id", f.ID, "error", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	fileID, err := core.PathID(r, "fileID")
	if err != nil {
		core.NotFound(w, "file")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), fileID); err != nil {
		core.HandleServiceError(w, err, "file")
		return
	}

	core.NoContent(w)
}
