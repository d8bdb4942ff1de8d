// AngelaMos | 2026
// rules.go

package deal

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/salescrm/internal/contact"
)

// FollowUpScheduler creates a task on an organization's first contact. A
// nil task with a nil error means the organization has no contacts.
type FollowUpScheduler interface {
	CreateFollowUpTask(ctx context.Context, userID, orgID, title string, due time.Time) (*contact.Task, error)
}

// StageRule is a side effect run when a deal enters a stage. It executes in
// the same transaction as the stage change.
type StageRule func(ctx context.Context, env RuleEnv, d *Deal) (*contact.Task, error)

type RuleEnv struct {
	UserID   string
	Now      time.Time
	FollowUp FollowUpScheduler
}

const proposalFollowUpDays = 7

// stageRules is keyed by the stage label being entered.
var stageRules = map[string]StageRule{
	StageProposalSent: proposalFollowUp,
}

func proposalFollowUp(ctx context.Context, env RuleEnv, d *Deal) (*contact.Task, error) {
	y, m, day := env.Now.Date()
	due := time.Date(y, m, day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, proposalFollowUpDays)

	return env.FollowUp.CreateFollowUpTask(ctx, env.UserID, d.OrganizationID,
		fmt.Sprintf("Follow up on proposal for %s", d.Name), due)
}

// ruleFor returns the side effect registered for a stage, or nil.
func ruleFor(stage string) StageRule {
	return stageRules[stage]
}
