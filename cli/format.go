package main

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"ytdash/internal/keyring"
)

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// formatDuration renders an ISO 8601 video duration such as PT1H2M3S as
// 1:02:03. Unparseable input is returned unchanged.
func formatDuration(iso string) string {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return iso
	}
	var parts [4]int
	for i := range parts {
		parts[i], _ = strconv.Atoi(m[i+1])
	}
	hours := parts[0]*24 + parts[1]
	minutes, secs := parts[2], parts[3]

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func publishedDate(rfc3339 string) string {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return rfc3339
	}
	return t.Format("2006-01-02")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func keyCount(raw string) string {
	return strconv.Itoa(len(keyring.Parse(raw)))
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAILED"
}
