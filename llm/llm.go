// Package llm generates chat replies through Gemini or OpenAI, rotating
// through the configured API keys.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEmptyReply is returned when a provider answers with no text.
	ErrEmptyReply = errors.New("llm: empty reply")
	// ErrEmptyHistory is returned when a chat is requested without messages.
	ErrEmptyHistory = errors.New("llm: empty chat history")
	// ErrUnknownProvider is returned for a provider name other than gemini or openai.
	ErrUnknownProvider = errors.New("llm: unknown provider")
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider is a chat completion backend called with a single API key.
type Provider interface {
	// Name is the service label used in logs, metrics and errors.
	Name() string
	// Generate returns the reply to history using model.
	Generate(ctx context.Context, key, model string, history []Message) (string, error)
	// Validate checks that key is accepted by the backend.
	Validate(ctx context.Context, key string) error
}

// Options configures a Provider.
type Options struct {
	// HTTPClient is used for every request.
	HTTPClient *http.Client
	// BaseURL overrides the provider endpoint (e.g., a test server).
	BaseURL string
}

// NewProvider returns the provider registered under name ("gemini" or "openai").
func NewProvider(name string, opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemini", "":
		return NewGemini(opts), nil
	case "openai":
		return NewOpenAI(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
