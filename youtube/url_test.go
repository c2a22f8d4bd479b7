package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannelURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantKind  IdentifierKind
		wantValue string
		wantID    bool
	}{
		{"handle", "https://www.youtube.com/@SomeHandle", KindHandle, "@SomeHandle", false},
		{"handle with subpath", "https://www.youtube.com/@SomeHandle/videos", KindHandle, "@SomeHandle", false},
		{"handle no www", "https://youtube.com/@test", KindHandle, "@test", false},
		{"mobile host", "https://m.youtube.com/@test", KindHandle, "@test", false},
		{"unicode handle", "https://www.youtube.com/@M%E1%BA%B9oHay", KindHandle, "@MẹoHay", false},
		{"channel id", "https://www.youtube.com/channel/UCxxxx", KindChannelID, "UCxxxx", true},
		{"channel id with query", "https://www.youtube.com/channel/UCxxxx?view=0", KindChannelID, "UCxxxx", true},
		{"custom", "https://www.youtube.com/c/CookingTips", KindCustom, "CookingTips", false},
		{"legacy user", "http://www.youtube.com/user/OldName/", KindUser, "OldName", false},
		{"HC prefix", "https://www.youtube.com/c/HCtopic", KindCustom, "HCtopic", true},
		{"surrounding spaces", "  https://www.youtube.com/@test \n", KindHandle, "@test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChannelURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantID, got.IsChannelID())
		})
	}
}

func TestParseChannelURL_Invalid(t *testing.T) {
	tests := []string{
		"https://example.com/not-youtube",
		"https://notyoutube.com/@handle",
		"https://www.youtube.com/",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/channel/",
		"https://www.youtube.com/@",
		"youtube.com/@handle",
		"not a url",
		"",
		"://bad",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseChannelURL(raw)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestIdentifierKindString(t *testing.T) {
	assert.Equal(t, "handle", KindHandle.String())
	assert.Equal(t, "unknown", IdentifierKind(99).String())
}
