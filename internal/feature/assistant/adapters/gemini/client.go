// Package gemini provides the Google Gemini text generator used by the assistant.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"tender_backend/internal/feature/assistant/usecase"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-flash"
)

// ErrMissingAPIKey is returned by NewGenerator when no API key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Generator generates text with the Gemini API.
type Generator struct {
	client *genai.Client
	model  string
}

// Verify at compile time that Generator implements usecase.Generator.
var _ usecase.Generator = (*Generator)(nil)

// NewGenerator creates a Generator for the Gemini Developer API. A nil httpClient
// selects the SDK default.
func NewGenerator(ctx context.Context, apiKey, model string, httpClient *http.Client) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Generator{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn and returns the concatenated text parts.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}

// Disabled stands in for Generator when no API key is configured. Every call fails
// with ErrMissingAPIKey.
type Disabled struct{}

var _ usecase.Generator = Disabled{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrMissingAPIKey
}
