package llm

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"

	ythttp "ytdash/http"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	httpClient *http.Client
	baseURL    string
}

// NewGemini creates a Gemini provider.
func NewGemini(opts Options) *Gemini {
	return &Gemini{httpClient: opts.HTTPClient, baseURL: opts.BaseURL}
}

// Name returns "gemini".
func (g *Gemini) Name() string { return "gemini" }

// Generate sends history as user and model turns and returns the reply text.
func (g *Gemini) Generate(ctx context.Context, key, model string, history []Message) (string, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := g.client(ctx, key)
	if err != nil {
		return "", err
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		contents = append(contents, genai.NewContentFromText(m.Content, geminiRole(m.Role)))
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", convertGeminiError(err)
	}
	return resp.Text(), nil
}

// Validate runs a one word generation with key.
func (g *Gemini) Validate(ctx context.Context, key string) error {
	client, err := g.client(ctx, key)
	if err != nil {
		return err
	}
	_, err = client.Models.GenerateContent(ctx, DefaultGeminiModel, genai.Text("test"), nil)
	return convertGeminiError(err)
}

func (g *Gemini) client(ctx context.Context, key string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	return genai.NewClient(ctx, cfg)
}

func geminiRole(r Role) genai.Role {
	if r == RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}

func convertGeminiError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ythttp.APIError{Service: "gemini", StatusCode: apiErr.Code, Reason: apiErr.Status, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &ythttp.APIError{Service: "gemini", StatusCode: apiErrPtr.Code, Reason: apiErrPtr.Status, Message: apiErrPtr.Message}
	}
	return err
}
