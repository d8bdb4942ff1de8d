// AngelaMos | 2026
// dto.go

package deal

import (
	"time"

	"github.com/carterperez-dev/salescrm/internal/contact"
	"github.com/carterperez-dev/salescrm/internal/core"
)

type CreateDealRequest struct {
	Name        string `json:"name"         form:"name"         validate:"required,notblank,max=255"`
	Value       int64  `json:"value"        form:"value"        validate:"min=0"`
	Stage       string `json:"stage"        form:"stage"        validate:"max=100"`
	ClosingDate string `json:"closing_date" form:"closing_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateDealRequest changes the deal's fields. An empty closing_date clears
// it. Stage changes go through update_stage so the stage rules fire.
type UpdateDealRequest struct {
	Name        *string `json:"name,omitempty"         form:"name"         validate:"omitempty,notblank,max=255"`
	Value       *int64  `json:"value,omitempty"        form:"value"        validate:"omitempty,min=0"`
	ClosingDate *string `json:"closing_date,omitempty" form:"closing_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateStageRequest struct {
	NewStage string `json:"new_stage" form:"new_stage" validate:"required,notblank,max=100"`
}

type AddParticipantRequest struct {
	ContactID string `json:"contact_id" form:"contact_id" validate:"required,uuid"`
	Role      string `json:"role"       form:"role"       validate:"max=100"`
}

type DealResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	StageID        *string   `json:"stage_id"`
	Name           string    `json:"name"`
	Value          int64     `json:"value"`
	Stage          string    `json:"stage"`
	ClosingDate    *string   `json:"closing_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ParticipantResponse struct {
	ContactID string `json:"contact_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type DetailResponse struct {
	DealResponse
	Contacts []ParticipantResponse `json:"contacts"`
}

// StageChangeResponse reports the new deal state and the task a stage rule
// created, if any.
type StageChangeResponse struct {
	Message string                `json:"message"`
	Deal    DealResponse          `json:"deal"`
	Task    *contact.TaskResponse `json:"task"`
}

func ToDealResponse(d *Deal) DealResponse {
	resp := DealResponse{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		StageID:        d.StageID,
		Name:           d.Name,
		Value:          d.Value,
		Stage:          d.Stage,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.ClosingDate != nil {
		s := core.FormatDate(*d.ClosingDate)
		resp.ClosingDate = &s
	}
	return resp
}

func ToDealResponseList(deals []Deal) []DealResponse {
	out := make([]DealResponse, 0, len(deals))
	for i := range deals {
		out = append(out, ToDealResponse(&deals[i]))
	}
	return out
}

func ToDetailResponse(d *Detail) DetailResponse {
	contacts := make([]ParticipantResponse, 0, len(d.Participants))
	for _, p := range d.Participants {
		contacts = append(contacts, ParticipantResponse{
			ContactID: p.ContactID,
			Name:      p.Name,
			Email:     p.Email,
			Role:      p.Role,
		})
	}
	return DetailResponse{DealResponse: ToDealResponse(d.Deal), Contacts: contacts}
}

func ToStageChangeResponse(c *StageChange) StageChangeResponse {
	resp := StageChangeResponse{
		Message: "Deal stage updated.",
		Deal:    ToDealResponse(c.Deal),
	}
	if c.Task != nil {
		t := contact.ToTaskResponse(c.Task)
		resp.Task = &t
		resp.Message = "Deal stage updated. Automated task created: " + c.Task.Title
	}
	return resp
}
