// AngelaMos | 2026
// drafter.go

package outreach

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"

	"github.com/carterperez-dev/salescrm/internal/config"
	"github.com/carterperez-dev/salescrm/internal/core"
)

// Draft is a generated email body. Blocked is set when the model returned
// no text, which is how safety filtering shows up.
type Draft struct {
	Text    string
	Blocked bool
}

type Drafter interface {
	Draft(ctx context.Context, prompt string) (Draft, error)
}

// GeminiDrafter generates drafts with the Gemini API.
type GeminiDrafter struct {
	models *genai.Models
	model  string
}

func NewGeminiDrafter(ctx context.Context, cfg config.DraftingConfig) (*GeminiDrafter, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.Endpoint,
			APIVersion: cfg.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiDrafter{models: client.Models, model: cfg.Model}, nil
}

func (g *GeminiDrafter) Draft(ctx context.Context, prompt string) (Draft, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return Draft{}, fmt.Errorf("draft request returned %d %s: %w",
				apiErr.Code, apiErr.Status, core.ErrExternalService)
		}
		return Draft{}, fmt.Errorf("draft request: %v: %w", err, core.ErrExternalService)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return Draft{Blocked: true}, nil
	}

	text := responseText(resp)
	return Draft{Text: text, Blocked: text == ""}, nil
}

// responseText joins the visible text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}
