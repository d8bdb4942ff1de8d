// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

const (
	DateLayout       = "2006-01-02"
	maxFormBodyBytes = 1 << 20
)

var formDecoder = form.NewDecoder()

// NewValidator returns a validator that reports fields by their json name.
// The notblank tag rejects strings that are empty once trimmed.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeBody fills dst from a JSON or form-encoded request body, chosen by
// Content-Type. Form fields are matched by their `form` struct tag.
func DecodeBody(r *http.Request, dst any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, maxFormBodyBytes)
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(maxFormBodyBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return fmt.Errorf("parse form: %w", err)
		}
		if err := formDecoder.Decode(dst, r.PostForm); err != nil {
			return fmt.Errorf("decode form: %w", err)
		}
		return nil
	default:
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
		return nil
	}
}

// FormatValidationError renders validator errors as a single user facing
// sentence.
func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "notblank":
			msgs = append(msgs, field+" must not be blank")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "datetime":
			msgs = append(msgs, field+" must be a date in YYYY-MM-DD format")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "uuid4", "uuid":
			msgs = append(msgs, field+" must be a valid id")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}

	return strings.Join(msgs, "; ")
}

// ParseDate parses an ISO YYYY-MM-DD date in UTC.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"%s must be a date in YYYY-MM-DD format: %w",
			field,
			ErrInvalidInput,
		)
	}
	return t, nil
}

// RequireText trims value and rejects it when nothing is left.
func RequireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s must not be blank: %w", field, ErrInvalidInput)
	}
	return value, nil
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// PathID reads a UUID route parameter. Malformed ids are reported as not
// found rather than reaching the database.
func PathID(r *http.Request, key string) (string, error) {
	id := chi.URLParam(r, key)
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%s %q: %w", key, id, ErrNotFound)
	}
	return id, nil
}

// Bind decodes and validates a request body, writing the 400 response itself
// when either step fails.
func Bind(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) bool {
	if err := DecodeBody(r, dst); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}
	if err := v.Struct(dst); err != nil {
		BadRequest(w, FormatValidationError(err))
		return false
	}
	return true
}
