// AngelaMos | 2026
// service.go

package outreach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/salescrm/internal/contact"
	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/organization"
)

var (
	ErrMailNotConfigured = core.NewAppError(
		errors.New("mail not configured"),
		"email credentials are not configured",
		http.StatusServiceUnavailable,
		"MAIL_NOT_CONFIGURED",
	)
	ErrDraftingNotConfigured = core.NewAppError(
		errors.New("drafting not configured"),
		"email drafting is not configured",
		http.StatusServiceUnavailable,
		"DRAFTING_NOT_CONFIGURED",
	)
)

type ContactStore interface {
	Get(ctx context.Context, userID, id string) (*contact.Contact, error)
	LogEmailSent(ctx context.Context, userID, contactID, subject, body string) (*contact.Interaction, error)
}

type OrgLoader interface {
	Load(ctx context.Context, userID, orgID string) (*organization.Organization, error)
}

// Sender names who drafted mail is written on behalf of.
type Sender struct {
	Name    string
	Company string
}

// Deps wires the service. Drafter and Mailer are nil when their
// credentials are absent.
type Deps struct {
	Contacts ContactStore
	Orgs     OrgLoader
	Drafter  Drafter
	Mailer   Mailer
	Sender   Sender
}

type Service struct {
	contacts ContactStore
	orgs     OrgLoader
	drafter  Drafter
	mailer   Mailer
	sender   Sender
}

func NewService(d Deps) *Service {
	return &Service{
		contacts: d.Contacts,
		orgs:     d.Orgs,
		drafter:  d.Drafter,
		mailer:   d.Mailer,
		sender:   d.Sender,
	}
}

func (s *Service) DraftEmail(
	ctx context.Context,
	userID, contactID string,
	req DraftRequest,
) (result Draft, err error) {
	ctx, span := core.StartSpan(ctx, "outreach.draft", attribute.String("contact.id", contactID))
	defer func() { core.EndSpan(span, err) }()

	c, err := s.contacts.Get(ctx, userID, contactID)
	if err != nil {
		return Draft{}, err
	}
	if s.drafter == nil {
		return Draft{}, ErrDraftingNotConfigured
	}

	org, err := s.orgs.Load(ctx, userID, c.OrganizationID)
	if err != nil {
		return Draft{}, err
	}

	result, err = s.drafter.Draft(ctx, s.prompt(c, org.Name, req))
	switch {
	case err != nil:
		core.RecordDraft("error")
		return Draft{}, err
	case result.Blocked:
		core.RecordDraft("blocked")
		slog.InfoContext(ctx, "email draft blocked", "contact_id", contactID)
	default:
		core.RecordDraft("ok")
	}
	return result, nil
}

func (s *Service) prompt(c *contact.Contact, orgName string, req DraftRequest) string {
	recipient := c.Name
	if c.Title != "" {
		recipient += ", the " + c.Title + " at " + orgName
	} else {
		recipient += " at " + orgName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Draft a professional sales email from %s of %s to %s.\n\n",
		s.sender.Name, s.sender.Company, recipient)
	fmt.Fprintf(&b, "The subject of the email is: %s.\n\n", strings.TrimSpace(req.Purpose))
	fmt.Fprintf(&b, "Incorporate these key points:\n%s\n\n", strings.TrimSpace(req.KeyPoints))
	b.WriteString("The tone should be confident and professional. ")
	b.WriteString("Use an active voice and keep sentences under 20 words.")
	return b.String()
}

// SendEmail mails the contact and logs one Email Sent interaction. Nothing
// is logged when the transport fails.
func (s *Service) SendEmail(
	ctx context.Context,
	userID, contactID string,
	req SendRequest,
) (result *contact.Interaction, err error) {
	ctx, span := core.StartSpan(ctx, "outreach.send", attribute.String("contact.id", contactID))
	defer func() { core.EndSpan(span, err) }()

	c, err := s.contacts.Get(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}
	if s.mailer == nil {
		return nil, ErrMailNotConfigured
	}
	if strings.TrimSpace(c.Email) == "" {
		return nil, fmt.Errorf("contact has no email address: %w", core.ErrInvalidInput)
	}

	if err := s.mailer.Send(ctx, Message{To: c.Email, Subject: req.Subject, Body: req.Body}); err != nil {
		core.RecordEmail("failed")
		slog.WarnContext(ctx, "email send failed", "contact_id", contactID, "error", err)
		return nil, core.ExternalServiceError("failed to send email: " + err.Error())
	}
	core.RecordEmail("sent")

	i, err := s.contacts.LogEmailSent(ctx, userID, contactID, req.Subject, req.Body)
	if err != nil {
		slog.ErrorContext(ctx, "email sent but interaction not logged",
			"contact_id", contactID,
			"error", err,
		)
		return nil, err
	}

	slog.InfoContext(ctx, "email sent", "contact_id", contactID, "interaction_id", i.ID)
	return i, nil
}
