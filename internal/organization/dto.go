// AngelaMos | 2026
// dto.go

package organization

import (
	"time"

	"github.com/carterperez-dev/salescrm/internal/contact"
	"github.com/carterperez-dev/salescrm/internal/deal"
	"github.com/carterperez-dev/salescrm/internal/event"
	"github.com/carterperez-dev/salescrm/internal/file"
)

type CreateOrganizationRequest struct {
	Name                 string `json:"name"                  form:"name"                  validate:"required,notblank,max=255"`
	Country              string `json:"country"               form:"country"               validate:"max=100"`
	SponsorshipPotential string `json:"sponsorship_potential" form:"sponsorship_potential" validate:"max=100"`
	StrategicNotes       string `json:"strategic_notes"       form:"strategic_notes"       validate:"max=20000"`
}

type UpdateOrganizationRequest struct {
	Name                 *string `json:"name,omitempty"                  form:"name"                  validate:"omitempty,notblank,max=255"`
	Country              *string `json:"country,omitempty"               form:"country"               validate:"omitempty,max=100"`
	SponsorshipPotential *string `json:"sponsorship_potential,omitempty" form:"sponsorship_potential" validate:"omitempty,max=100"`
	StrategicNotes       *string `json:"strategic_notes,omitempty"       form:"strategic_notes"       validate:"omitempty,max=20000"`
}

type CreateFieldRequest struct {
	FieldName  string `json:"field_name"  form:"field_name"  validate:"required,notblank,max=100"`
	FieldValue string `json:"field_value" form:"field_value" validate:"max=500"`
}

type UpdateFieldRequest struct {
	FieldName  *string `json:"field_name,omitempty"  form:"field_name"  validate:"omitempty,notblank,max=100"`
	FieldValue *string `json:"field_value,omitempty" form:"field_value" validate:"omitempty,max=500"`
}

type OrganizationResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Country              string    `json:"country"`
	SponsorshipPotential string    `json:"sponsorship_potential"`
	StrategicNotes       string    `json:"strategic_notes"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type FieldResponse struct {
	ID         string `json:"id"`
	FieldName  string `json:"field_name"`
	FieldValue string `json:"field_value"`
}

type DetailResponse struct {
	OrganizationResponse
	Contacts         []contact.ContactResponse `json:"contacts"`
	Deals            []deal.DealResponse       `json:"deals"`
	Files            []file.FileResponse       `json:"files"`
	CustomFields     []FieldResponse           `json:"custom_fields"`
	EventAttendances []event.AttendeeResponse  `json:"event_attendances"`
}

func ToOrganizationResponse(o *Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:                   o.ID,
		Name:                 o.Name,
		Country:              o.Country,
		SponsorshipPotential: o.SponsorshipPotential,
		StrategicNotes:       o.StrategicNotes,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func ToOrganizationResponseList(orgs []Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, 0, len(orgs))
	for i := range orgs {
		out = append(out, ToOrganizationResponse(&orgs[i]))
	}
	return out
}

func ToFieldResponse(f *CustomField) FieldResponse {
	return FieldResponse{ID: f.ID, FieldName: f.FieldName, FieldValue: f.FieldValue}
}

func ToFieldResponseList(fields []CustomField) []FieldResponse {
	out := make([]FieldResponse, 0, len(fields))
	for i := range fields {
		out = append(out, ToFieldResponse(&fields[i]))
	}
	return out
}

func ToDetailResponse(d *Detail) DetailResponse {
	return DetailResponse{
		OrganizationResponse: ToOrganizationResponse(d.Organization),
		Contacts:             contact.ToContactResponseList(d.Contacts),
		Deals:                deal.ToDealResponseList(d.Deals),
		Files:                file.ToFileResponseList(d.Files),
		CustomFields:         ToFieldResponseList(d.CustomFields),
		EventAttendances:     event.ToAttendeeResponseList(d.Attendances),
	}
}
