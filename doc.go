// Package ytdash analyzes YouTube channels.
//
// It fetches a channel's uploads through the YouTube Data API v3, derives
// keyword and hashtag statistics from titles and descriptions, runs an AI
// brainstorming assistant on Gemini or OpenAI and keeps analyses in a local
// session library.
//
// # Quick Start
//
// Analyze a channel:
//
//	ctx := context.Background()
//	result, err := ytdash.Analyze(ctx, "https://www.youtube.com/@handle")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, kw := range result.Keywords {
//		fmt.Println(kw.Phrase, kw.Count)
//	}
//
// # API keys
//
// Every upstream call takes a key list: keys separated by commas or
// newlines. Keys are tried strictly in order; the first success wins and
// later keys are not used. When every key fails the call returns an
// *ExhaustedError that unwraps to the last failure. An empty list returns
// ErrNoCredentials without any network call.
//
// # Configuration
//
// ytdash loads settings from multiple sources:
//
//  1. Environment variables (highest priority)
//  2. A .env file in the working directory
//  3. Config file (ytdash.json or ~/.config/ytdash/ytdash.json)
//  4. Default values (lowest priority)
//
// Environment variables:
//
//   - YTDASH_YOUTUBE_KEYS: YouTube Data API keys
//   - YTDASH_PROVIDER: AI provider, gemini or openai
//   - YTDASH_GEMINI_KEYS, YTDASH_GEMINI_MODEL: Gemini keys and model
//   - YTDASH_OPENAI_KEYS, YTDASH_OPENAI_MODEL: OpenAI keys and model
//   - YTDASH_HTTP_TIMEOUT: Timeout of a single outbound request
//   - YTDASH_DATA_API_RPS, YTDASH_LLM_RPS: Outbound request rate limits
//   - YTDASH_CUSTOM_RATES: Per-host rate overrides, host:rps pairs
//   - YTDASH_STORE_DRIVER, YTDASH_STORE_PATH: Session store (json or sqlite)
//   - YTDASH_LISTEN_ADDR: HTTP API listen address
//   - YTDASH_LOG_LEVEL, YTDASH_LOG_FORMAT: Logging
//
// # Error Handling
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytdash.ErrChannelNotFound) {
//		fmt.Println("Channel not found")
//	}
//
// Extracting upstream error details:
//
//	var apiErr *ytdash.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("%s returned %d: %s\n", apiErr.Service, apiErr.StatusCode, apiErr.Message)
//	}
//
// # Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: Channel resolution and paging through uploads
//   - keywords: Keyword and hashtag statistics
//   - llm: Gemini and OpenAI providers and the assistant
//   - dashboard: The analysis workflow
//   - storage: The session library (JSON file or SQLite)
//   - server: The HTTP API
//   - config: Configuration management
package ytdash
