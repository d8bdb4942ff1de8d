// AngelaMos | 2026
// dto.go

package event

import (
	"github.com/carterperez-dev/salescrm/internal/core"
)

type CreateEventRequest struct {
	Name      string `json:"name"       form:"name"       validate:"required,notblank,max=255"`
	EventDate string `json:"event_date" form:"event_date" validate:"required,datetime=2006-01-02"`
	Location  string `json:"location"   form:"location"   validate:"max=255"`
}

type UpdateEventRequest struct {
	Name      *string `json:"name,omitempty"       form:"name"       validate:"omitempty,notblank,max=255"`
	EventDate *string `json:"event_date,omitempty" form:"event_date" validate:"omitempty,datetime=2006-01-02"`
	Location  *string `json:"location,omitempty"   form:"location"   validate:"omitempty,max=255"`
}

type CreateAttendeeRequest struct {
	OrganizationID   string `json:"organization_id"   form:"organization_id"   validate:"required,uuid"`
	RegistrationType string `json:"registration_type" form:"registration_type" validate:"max=100"`
	Value            int64  `json:"value"             form:"value"             validate:"min=0"`
}

type UpdateAttendeeRequest struct {
	RegistrationType *string `json:"registration_type,omitempty" form:"registration_type" validate:"omitempty,max=100"`
	Value            *int64  `json:"value,omitempty"             form:"value"             validate:"omitempty,min=0"`
}

type EventResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	EventDate string `json:"event_date"`
	Location  string `json:"location"`
}

type AttendeeResponse struct {
	ID               string `json:"id"`
	EventID          string `json:"event_id"`
	EventName        string `json:"event_name,omitempty"`
	EventDate        string `json:"event_date,omitempty"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name,omitempty"`
	RegistrationType string `json:"registration_type"`
	Value            int64  `json:"value"`
}

type ProspectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DetailResponse struct {
	EventResponse
	TotalRevenue       int64              `json:"total_revenue"`
	Attendees          []AttendeeResponse `json:"attendees"`
	PotentialAttendees []ProspectResponse `json:"potential_attendees"`
}

func ToEventResponse(e *Event) EventResponse {
	return EventResponse{
		ID:        e.ID,
		Name:      e.Name,
		EventDate: core.FormatDate(e.EventDate),
		Location:  e.Location,
	}
}

func ToEventResponseList(events []Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, ToEventResponse(&events[i]))
	}
	return out
}

func ToAttendeeResponse(a *Attendee) AttendeeResponse {
	resp := AttendeeResponse{
		ID:               a.ID,
		EventID:          a.EventID,
		EventName:        a.EventName,
		OrganizationID:   a.OrganizationID,
		OrganizationName: a.OrganizationName,
		RegistrationType: a.RegistrationType,
		Value:            a.Value,
	}
	if !a.EventDate.IsZero() {
		resp.EventDate = core.FormatDate(a.EventDate)
	}
	return resp
}

func ToAttendeeResponseList(attendees []Attendee) []AttendeeResponse {
	out := make([]AttendeeResponse, 0, len(attendees))
	for i := range attendees {
		out = append(out, ToAttendeeResponse(&attendees[i]))
	}
	return out
}

func ToDetailResponse(d *Detail) DetailResponse {
	prospects := make([]ProspectResponse, 0, len(d.Prospects))
	for _, p := range d.Prospects {
		prospects = append(prospects, ProspectResponse{ID: p.ID, Name: p.Name})
	}

	return DetailResponse{
		EventResponse:      ToEventResponse(d.Event),
		TotalRevenue:       d.TotalRevenue,
		Attendees:          ToAttendeeResponseList(d.Attendees),
		PotentialAttendees: prospects,
	}
}
