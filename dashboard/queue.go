package dashboard

import (
	"slices"
	"strings"
)

// ParseQueue extracts channel URLs from text, one per line, and returns
// those not already in existing. Lines without a YouTube address are
// skipped.
func ParseQueue(text string, existing []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		seen[u] = struct{}{}
	}

	added := []string{}
	for line := range strings.Lines(text) {
		u := strings.TrimSpace(line)
		if u == "" || !isYouTubeURL(u) {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		added = append(added, u)
	}
	return added
}

func isYouTubeURL(s string) bool {
	return strings.Contains(s, "youtube.com/") || strings.Contains(s, "youtu.be/")
}

// Enqueue appends the new URLs of text to queue.
func Enqueue(queue []string, text string) []string {
	return append(slices.Clone(queue), ParseQueue(text, queue)...)
}

// Dequeue removes every occurrence of url from queue.
func Dequeue(queue []string, url string) []string {
	return slices.DeleteFunc(slices.Clone(queue), func(u string) bool { return u == url })
}
