package dashboard

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"ytdash/keywords"
	"ytdash/storage"
	"ytdash/youtube"
)

// CompetitiveCSV renders one row per video across sessions for the
// competitive analysis.
func CompetitiveCSV(sessions []*storage.Session) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Channel Name", "Video Title", "Publish Date", "View Count", "Likes", "Duration (ISO 8601)"})
	for _, s := range sessions {
		for _, v := range s.Videos {
			w.Write([]string{
				s.Channel.Title,
				v.Snippet.Title,
				v.Snippet.PublishedAt,
				orDefault(v.Statistics.ViewCount, "0"),
				orDefault(v.Statistics.LikeCount, "0"),
				orDefault(v.ContentDetails.Duration, "PT0S"),
			})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteVideosCSV writes the video export of one channel.
func WriteVideosCSV(out io.Writer, videos []youtube.Video) error {
	w := csv.NewWriter(out)
	w.UseCRLF = true

	w.Write([]string{"Title", "Publication Date", "Views", "Likes", "Duration (ISO8601)", "URL"})
	for _, v := range videos {
		w.Write([]string{
			v.Snippet.Title,
			v.Snippet.PublishedAt,
			v.Statistics.ViewCount,
			v.Statistics.LikeCount,
			v.ContentDetails.Duration,
			v.URL(),
		})
	}
	w.Flush()
	return w.Error()
}

// WriteKeywordsCSV writes keyword counts.
func WriteKeywordsCSV(out io.Writer, counts []keywords.Count) error {
	w := csv.NewWriter(out)
	w.UseCRLF = true

	w.Write([]string{"Keyword", "Count"})
	for _, c := range counts {
		w.Write([]string{c.Phrase, strconv.Itoa(c.Count)})
	}
	w.Flush()
	return w.Error()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
