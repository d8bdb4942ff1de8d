// AngelaMos | 2026
// entity.go

package organization

import (
	"time"

	"github.com/carterperez-dev/salescrm/internal/contact"
	"github.com/carterperez-dev/salescrm/internal/deal"
	"github.com/carterperez-dev/salescrm/internal/event"
	"github.com/carterperez-dev/salescrm/internal/file"
)

const DefaultSponsorshipPotential = "High (Sponsor Target)"

type Organization struct {
	ID                   string    `db:"id"`
	UserID               string    `db:"user_id"`
	Name                 string    `db:"name"`
	Country              string    `db:"country"`
	SponsorshipPotential string    `db:"sponsorship_potential"`
	StrategicNotes       string    `db:"strategic_notes"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// CustomField is a free-form key/value pair attached to an organization.
type CustomField struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	OrganizationID string    `db:"organization_id"`
	FieldName      string    `db:"field_name"`
	FieldValue     string    `db:"field_value"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type Detail struct {
	Organization *Organization
	Contacts     []contact.Contact
	Deals        []deal.Deal
	Files        []file.File
	CustomFields []CustomField
	Attendances  []event.Attendee
}
