package ytdash

import (
	ythttp "ytdash/http"
	"ytdash/internal/keyring"
	"ytdash/storage"
	"ytdash/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytdash.ErrChannelNotFound) {
//		fmt.Println("Channel not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var exhausted *ytdash.ExhaustedError
//	if errors.As(err, &exhausted) {
//		fmt.Printf("All %d %s keys failed: %v\n", exhausted.Attempts, exhausted.Service, exhausted.Last)
//	}

// Type aliases for convenient error handling.
type (
	// ExhaustedError reports that every supplied API key failed.
	ExhaustedError = keyring.ExhaustedError
	// APIError is a non-2xx response from YouTube, Gemini or OpenAI.
	APIError = ythttp.APIError
	// ResolveError wraps errors during channel resolution and video listing.
	ResolveError = youtube.ResolveError
	// StorageError wraps errors during storage operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrNoCredentials indicates the key list was empty.
	ErrNoCredentials = keyring.ErrNoCredentials
	// ErrInvalidURL indicates the provided URL is not a recognised channel URL.
	ErrInvalidURL = youtube.ErrInvalidURL
	// ErrChannelNotFound indicates the YouTube channel does not exist.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrNoUploads indicates the channel exposes no uploads playlist.
	ErrNoUploads = youtube.ErrNoUploads

	// Storage errors
	// ErrNotFound indicates a session was not found in storage.
	ErrNotFound = storage.ErrNotFound
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = storage.ErrInvalidInput
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsQuotaExceeded reports whether err came from an exhausted upstream quota.
func IsQuotaExceeded(err error) bool {
	return ythttp.IsQuotaExceeded(err)
}
