// AngelaMos | 2026
// dto.go

package outreach

import "github.com/carterperez-dev/salescrm/internal/contact"

type DraftRequest struct {
	Purpose   string `json:"purpose"    form:"purpose"    validate:"required,notblank,max=500"`
	KeyPoints string `json:"key_points" form:"key_points" validate:"required,notblank,max=5000"`
}

type SendRequest struct {
	Subject string `json:"subject" form:"subject" validate:"required,notblank,max=500"`
	Body    string `json:"body"    form:"body"    validate:"required,notblank"`
}

type DraftResponse struct {
	Draft   string `json:"draft"`
	Blocked bool   `json:"blocked"`
}

type SendResponse struct {
	Message     string                      `json:"message"`
	Interaction contact.InteractionResponse `json:"interaction"`
}
