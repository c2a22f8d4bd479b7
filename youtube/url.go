package youtube

import (
	"fmt"
	"net/url"
	"strings"
)

// IdentifierKind is the URL shape a channel identifier was taken from.
type IdentifierKind int

const (
	// KindChannelID is a /channel/<ID> URL.
	KindChannelID IdentifierKind = iota
	// KindHandle is a /@<handle> URL.
	KindHandle
	// KindCustom is a legacy /c/<name> URL.
	KindCustom
	// KindUser is a legacy /user/<name> URL.
	KindUser
)

// String returns the name of the kind.
func (k IdentifierKind) String() string {
	switch k {
	case KindChannelID:
		return "channel"
	case KindHandle:
		return "handle"
	case KindCustom:
		return "custom"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

// Identifier is the channel reference extracted from a channel URL.
type Identifier struct {
	Kind IdentifierKind
	// Value is the path segment as written. Handles keep their leading "@".
	Value string
}

// IsChannelID reports whether Value can be used as a channel ID without a search.
func (id Identifier) IsChannelID() bool {
	return strings.HasPrefix(id.Value, "UC") || strings.HasPrefix(id.Value, "HC")
}

// String returns the identifier value.
func (id Identifier) String() string {
	return id.Value
}

// ParseChannelURL extracts the channel identifier from a youtube.com channel URL.
//
// Supported formats:
//   - https://www.youtube.com/channel/UCxxxxx
//   - https://www.youtube.com/@handle
//   - https://www.youtube.com/c/CustomName
//   - https://www.youtube.com/user/LegacyName
//
// Anything else, including a host other than youtube.com or one of its
// subdomains, returns ErrInvalidURL.
func ParseChannelURL(raw string) (Identifier, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return Identifier{}, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	host := strings.ToLower(u.Hostname())
	if host != "youtube.com" && !strings.HasSuffix(host, ".youtube.com") {
		return Identifier{}, fmt.Errorf("%w: %q is not a youtube.com URL", ErrInvalidURL, raw)
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return Identifier{}, fmt.Errorf("%w: %q has no channel path", ErrInvalidURL, raw)
	}

	switch {
	case parts[0] == "channel" && len(parts) > 1:
		return Identifier{Kind: KindChannelID, Value: parts[1]}, nil
	case strings.HasPrefix(parts[0], "@") && len(parts[0]) > 1:
		return Identifier{Kind: KindHandle, Value: parts[0]}, nil
	case parts[0] == "c" && len(parts) > 1:
		return Identifier{Kind: KindCustom, Value: parts[1]}, nil
	case parts[0] == "user" && len(parts) > 1:
		return Identifier{Kind: KindUser, Value: parts[1]}, nil
	}
	return Identifier{}, fmt.Errorf("%w: unrecognised channel path %q", ErrInvalidURL, u.Path)
}
