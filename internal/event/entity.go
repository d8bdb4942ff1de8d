// AngelaMos | 2026
// entity.go

package event

import (
	"time"
)

type Event struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	EventDate time.Time `db:"event_date"`
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Attendee records an organization's registration at an event. The name
// columns are joined in for display and are not stored on the row.
type Attendee struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	EventID          string    `db:"event_id"`
	OrganizationID   string    `db:"organization_id"`
	RegistrationType string    `db:"registration_type"`
	Value            int64     `db:"value"`
	OrganizationName string    `db:"organization_name"`
	EventName        string    `db:"event_name"`
	EventDate        time.Time `db:"event_date"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Prospect is an organization of the user that is not attending an event.
type Prospect struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type Detail struct {
	Event        *Event
	Attendees    []Attendee
	TotalRevenue int64
	Prospects    []Prospect
}

// TotalRevenue sums the registration value of every attendee.
func TotalRevenue(attendees []Attendee) int64 {
	var total int64
	for _, a := range attendees {
		total += a.Value
	}
	return total
}
