package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	ythttp "ytdash/http"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI calls the Chat Completions API through the openai-go SDK.
// SDK retries are disabled; falling back is left to key rotation.
type OpenAI struct {
	httpClient *http.Client
	baseURL    string
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(opts Options) *OpenAI {
	return &OpenAI{httpClient: opts.HTTPClient, baseURL: opts.BaseURL}
}

// Name returns "openai".
func (o *OpenAI) Name() string { return "openai" }

// Generate sends history, with model turns as assistant messages, and
// returns the first choice.
func (o *OpenAI) Generate(ctx context.Context, key, model string, history []Message) (string, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		if m.Role == RoleModel {
			messages = append(messages, openai.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	client := o.client(key)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", convertOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

// Validate lists models with key.
func (o *OpenAI) Validate(ctx context.Context, key string) error {
	client := o.client(key)
	_, err := client.Models.List(ctx)
	return convertOpenAIError(err)
}

func (o *OpenAI) client(key string) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if o.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(o.httpClient))
	}
	if o.baseURL != "" {
		opts = append(opts, option.WithBaseURL(o.baseURL))
	}
	return openai.NewClient(opts...)
}

func convertOpenAIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ythttp.APIError{
			Service:    "openai",
			StatusCode: apiErr.StatusCode,
			Reason:     apiErr.Code,
			Message:    apiErr.Message,
		}
	}
	return err
}
