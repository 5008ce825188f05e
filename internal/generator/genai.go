package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/nepfy/nepfy-backend/internal/apperr"
)

// GenAIModel generates content with Google's Gemini API.
type GenAIModel struct {
	client *genai.Client
	model  string
}

// NewGenAIModel creates a Gemini-backed model. model is used when the
// agent does not name one.
func NewGenAIModel(ctx context.Context, apiKey, model string) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIModel{client: client, model: model}, nil
}

func (m *GenAIModel) Generate(ctx context.Context, p Prompt) (string, error) {
	model := p.Model
	if model == "" {
		model = m.model
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	if p.Temperature > 0 {
		cfg.Temperature = genai.Ptr(p.Temperature)
	}

	resp, err := m.client.Models.GenerateContent(ctx, model, genai.Text(p.User), cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperr.Upstream(http.StatusGatewayTimeout, "ai model timed out", err)
		}
		return "", apperr.Upstream(http.StatusBadGateway, "ai model request failed", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", apperr.Upstream(http.StatusBadGateway, "ai model returned no content", nil)
	}
	return out, nil
}
