// AngelaMos | 2026
// entity.go

package contact

import (
	"time"
)

const (
	TaskStatusPending   = "Pending"
	TaskStatusCompleted = "Completed"

	InteractionEmailSent = "Email Sent"
)

type Contact struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	OrganizationID string    `db:"organization_id"`
	Name           string    `db:"name"`
	Title          string    `db:"title"`
	Email          string    `db:"email"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type Interaction struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	ContactID       string    `db:"contact_id"`
	InteractionType string    `db:"interaction_type"`
	OccurredAt      time.Time `db:"occurred_at"`
	Notes           string    `db:"notes"`
	CreatedAt       time.Time `db:"created_at"`
}

// Task is a to-do attached to a contact. ContactName is only populated by
// listings that join the contact.
type Task struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	ContactID   string    `db:"contact_id"`
	ContactName string    `db:"contact_name"`
	Title       string    `db:"title"`
	DueDate     time.Time `db:"due_date"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// TimelineEntry is an interaction or a task placed on a contact's history.
type TimelineEntry struct {
	Kind   string    `json:"kind"`
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Notes  string    `json:"notes,omitempty"`
	Status string    `json:"status,omitempty"`
	At     time.Time `json:"at"`
}

type Detail struct {
	Contact  *Contact
	Timeline []TimelineEntry
}
