// Package keywords derives keyword and hashtag frequencies from video
// titles and descriptions.
package keywords

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"ytdash/youtube"
)

// MaxNGram is the longest phrase, in words, that Count considers.
const MaxNGram = 3

// Count is a phrase and the number of times it occurred.
type Count struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

// punctuation is stripped from joined phrases.
const punctuation = `/,.-()|[]"“”:?!`

var hashtagRe = regexp.MustCompile(`#[\p{L}\p{M}\p{N}_]+`)

// Counts computes 1 to 3 word phrase frequencies over video titles.
//
// Titles are NFC normalised, lower-cased and split on whitespace. A window
// whose first or last word is a stop word is skipped. Phrases shorter than
// three characters, purely numeric phrases and phrases seen only once are
// dropped. The result is sorted by count, descending; equal counts keep the
// order in which the phrases were first seen.
func Counts(videos []youtube.Video) []Count {
	idx := make(map[string]int)
	counts := []Count{}

	for _, v := range videos {
		words := strings.Fields(strings.ToLower(norm.NFC.String(v.Snippet.Title)))

		for n := 1; n <= MaxNGram; n++ {
			for i := 0; i+n <= len(words); i++ {
				window := words[i : i+n]
				if IsStopWord(window[0]) || IsStopWord(window[n-1]) {
					continue
				}

				phrase := strings.TrimSpace(stripPunctuation(strings.Join(window, " ")))
				if utf8.RuneCountInString(phrase) < 3 || isNumeric(phrase) {
					continue
				}

				if j, ok := idx[phrase]; ok {
					counts[j].Count++
					continue
				}
				idx[phrase] = len(counts)
				counts = append(counts, Count{Phrase: phrase, Count: 1})
			}
		}
	}

	counts = slices.DeleteFunc(counts, func(c Count) bool { return c.Count <= 1 })
	sortByCount(counts)
	return counts
}

// Hashtags counts the hashtags in video descriptions, lower-cased.
// The result is sorted by count, descending, ties in first-seen order.
func Hashtags(videos []youtube.Video) []Count {
	idx := make(map[string]int)
	counts := []Count{}

	for _, v := range videos {
		for _, tag := range hashtagRe.FindAllString(norm.NFC.String(v.Snippet.Description), -1) {
			tag = strings.ToLower(tag)
			if j, ok := idx[tag]; ok {
				counts[j].Count++
				continue
			}
			idx[tag] = len(counts)
			counts = append(counts, Count{Phrase: tag, Count: 1})
		}
	}

	sortByCount(counts)
	return counts
}

// Top returns the first n phrases of counts.
func Top(counts []Count, n int) []string {
	if n <= 0 {
		return []string{}
	}
	n = min(n, len(counts))

	top := make([]string, n)
	for i := range top {
		top[i] = counts[i].Phrase
	}
	return top
}

func sortByCount(counts []Count) {
	slices.SortStableFunc(counts, func(a, b Count) int {
		return b.Count - a.Count
	})
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
}

// isNumeric reports whether s is made of digits only.
func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
