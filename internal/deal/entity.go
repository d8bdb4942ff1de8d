// AngelaMos | 2026
// entity.go

package deal

import (
	"time"
)

const (
	StageLead         = "Lead"
	StageQualified    = "Qualified"
	StageProposalSent = "Proposal Sent"
	StageNegotiation  = "Negotiation"
	StageClosedWon    = "Closed-Won"
	StageClosedLost   = "Closed-Lost"
)

// DefaultStages are the stage labels every user can move a deal to, in
// funnel order.
var DefaultStages = []string{
	StageLead,
	StageQualified,
	StageProposalSent,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

func IsDefaultStage(name string) bool {
	for _, s := range DefaultStages {
		if s == name {
			return true
		}
	}
	return false
}

// IsClosed reports whether a stage label ends the deal.
func IsClosed(stage string) bool {
	return stage == StageClosedWon || stage == StageClosedLost
}

type Deal struct {
	ID             string     `db:"id"`
	UserID         string     `db:"user_id"`
	OrganizationID string     `db:"organization_id"`
	StageID        *string    `db:"stage_id"`
	Name           string     `db:"name"`
	Value          int64      `db:"value"`
	Stage          string     `db:"stage"`
	ClosingDate    *time.Time `db:"closing_date"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// Participant is a contact linked to a deal, with the role they play in it.
type Participant struct {
	DealID    string `db:"deal_id"`
	ContactID string `db:"contact_id"`
	Role      string `db:"role"`
	Name      string `db:"name"`
	Email     string `db:"email"`
}

type Detail struct {
	Deal         *Deal
	Participants []Participant
}
