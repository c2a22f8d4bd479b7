package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	ythttp "ytdash/http"
	"ytdash/internal/keyring"
)

// Assistant runs chat, summary and analysis requests against one provider,
// trying each of Keys in order until one succeeds.
type Assistant struct {
	Provider Provider
	// Keys is the raw key list, newline or comma separated.
	Keys string
	// Model is passed to the provider; empty selects the provider default.
	Model string
}

// NewAssistant creates an assistant for provider.
func NewAssistant(provider Provider, keys, model string) *Assistant {
	return &Assistant{Provider: provider, Keys: keys, Model: model}
}

// Chat returns the model's reply to history.
func (a *Assistant) Chat(ctx context.Context, history []Message) (string, error) {
	if len(history) == 0 {
		return "", ErrEmptyHistory
	}
	return a.generate(ctx, history)
}

// Summarize returns a short Vietnamese summary of a video.
func (a *Assistant) Summarize(ctx context.Context, title, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		description = noDescription
	}
	prompt := fmt.Sprintf(summarizePrompt, title, description)
	return a.generate(ctx, []Message{{Role: RoleUser, Content: prompt}})
}

// CompetitiveAnalysis asks for a Markdown report over csv following the
// JSON task definition in instructions.
func (a *Assistant) CompetitiveAnalysis(ctx context.Context, csv, instructions string) (string, error) {
	prompt := fmt.Sprintf(competitivePrompt, instructions, csv)
	return a.generate(ctx, []Message{{Role: RoleUser, Content: prompt}})
}

// ValidateKeys reports whether at least one key is accepted by the provider.
func (a *Assistant) ValidateKeys(ctx context.Context) bool {
	_, err := keyring.Do(ctx, a.executor(), a.Keys, func(ctx context.Context, key string) (struct{}, error) {
		return struct{}{}, a.Provider.Validate(ctx, key)
	})
	return err == nil
}

func (a *Assistant) generate(ctx context.Context, history []Message) (string, error) {
	reply, err := keyring.Do(ctx, a.executor(), a.Keys, func(ctx context.Context, key string) (string, error) {
		reply, err := a.Provider.Generate(ctx, key, a.Model, history)
		if err != nil {
			return "", err
		}
		reply = strings.TrimSpace(reply)
		if reply == "" {
			return "", ErrEmptyReply
		}
		return reply, nil
	})
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("component", "llm").
		Str("provider", a.Provider.Name()).
		Int("turns", len(history)).
		Int("reply_len", len(reply)).
		Msg("reply generated")
	return reply, nil
}

func (a *Assistant) executor() keyring.Executor {
	return keyring.Executor{Service: a.Provider.Name(), Classify: ythttp.FailureKind}
}

// Opener builds the assistant's first brainstorming message for a channel
// from its top keywords. It returns nil when there are no keywords.
func Opener(channelTitle string, keywords []string) []Message {
	if len(keywords) == 0 {
		return nil
	}
	return []Message{{
		Role:    RoleModel,
		Content: fmt.Sprintf(openerPrompt, channelTitle, strings.Join(keywords, ", ")),
	}}
}
