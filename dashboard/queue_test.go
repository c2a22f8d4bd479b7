package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueue(t *testing.T) {
	text := `
  https://www.youtube.com/@one
not a url
https://youtu.be/abc
https://example.com/channel/x
https://www.youtube.com/@one
https://www.youtube.com/@existing
`
	got := ParseQueue(text, []string{"https://www.youtube.com/@existing"})
	assert.Equal(t, []string{"https://www.youtube.com/@one", "https://youtu.be/abc"}, got)
}

func TestParseQueue_Empty(t *testing.T) {
	got := ParseQueue("\n  \nhello\n", nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEnqueueDequeue(t *testing.T) {
	queue := Enqueue(nil, "https://www.youtube.com/@a\nhttps://www.youtube.com/@b")
	queue = Enqueue(queue, "https://www.youtube.com/@b\r\nhttps://www.youtube.com/@c")
	assert.Equal(t, []string{
		"https://www.youtube.com/@a",
		"https://www.youtube.com/@b",
		"https://www.youtube.com/@c",
	}, queue)

	rest := Dequeue(queue, "https://www.youtube.com/@b")
	assert.Equal(t, []string{"https://www.youtube.com/@a", "https://www.youtube.com/@c"}, rest)
	assert.Len(t, queue, 3, "Dequeue must not modify its input")
}
