// AngelaMos | 2026
// dto.go

package contact

import (
	"time"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type CreateContactRequest struct {
	Name  string `json:"name"  form:"name"  validate:"required,notblank,max=255"`
	Title string `json:"title" form:"title" validate:"max=255"`
	Email string `json:"email" form:"email" validate:"omitempty,email,max=255"`
}

type UpdateContactRequest struct {
	Name  *string `json:"name,omitempty"  form:"name"  validate:"omitempty,notblank,max=255"`
	Title *string `json:"title,omitempty" form:"title" validate:"omitempty,max=255"`
	Email *string `json:"email,omitempty" form:"email" validate:"omitempty,email,max=255"`
}

// CreateInteractionRequest accepts occurred_at as RFC 3339 or YYYY-MM-DD;
// empty means now.
type CreateInteractionRequest struct {
	InteractionType string `json:"interaction_type" form:"interaction_type" validate:"required,notblank,max=100"`
	OccurredAt      string `json:"occurred_at"      form:"occurred_at"`
	Notes           string `json:"notes"            form:"notes"            validate:"max=10000"`
}

type CreateTaskRequest struct {
	Title   string `json:"title"    form:"title"    validate:"required,notblank,max=255"`
	DueDate string `json:"due_date" form:"due_date" validate:"required,datetime=2006-01-02"`
	Status  string `json:"status"   form:"status"   validate:"omitempty,oneof=Pending Completed"`
}

type UpdateTaskRequest struct {
	Title   *string `json:"title,omitempty"    form:"title"    validate:"omitempty,notblank,max=255"`
	DueDate *string `json:"due_date,omitempty" form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status  *string `json:"status,omitempty"   form:"status"   validate:"omitempty,oneof=Pending Completed"`
}

type ContactResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type InteractionResponse struct {
	ID              string    `json:"id"`
	ContactID       string    `json:"contact_id"`
	InteractionType string    `json:"interaction_type"`
	OccurredAt      time.Time `json:"occurred_at"`
	Notes           string    `json:"notes"`
}

type TaskResponse struct {
	ID          string `json:"id"`
	ContactID   string `json:"contact_id"`
	ContactName string `json:"contact_name,omitempty"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

type DetailResponse struct {
	ContactResponse
	Timeline []TimelineEntry `json:"timeline"`
}

func ToContactResponse(c *Contact) ContactResponse {
	return ContactResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		Title:          c.Title,
		Email:          c.Email,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func ToContactResponseList(contacts []Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, ToContactResponse(&contacts[i]))
	}
	return out
}

func ToInteractionResponse(i *Interaction) InteractionResponse {
	return InteractionResponse{
		ID:              i.ID,
		ContactID:       i.ContactID,
		InteractionType: i.InteractionType,
		OccurredAt:      i.OccurredAt,
		Notes:           i.Notes,
	}
}

func ToTaskResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ContactID:   t.ContactID,
		ContactName: t.ContactName,
		Title:       t.Title,
		DueDate:     core.FormatDate(t.DueDate),
		Status:      t.Status,
	}
}

func ToTaskResponseList(tasks []Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, ToTaskResponse(&tasks[i]))
	}
	return out
}
