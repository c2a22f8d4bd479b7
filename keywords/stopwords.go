package keywords

import "golang.org/x/text/unicode/norm"

// stopWords are Vietnamese and English function words plus common title
// filler. Multi-word entries never match a single token and are kept for
// completeness.
var stopWords = toSet(
	// Vietnamese
	"một", "hai", "ba", "bốn", "năm", "sáu", "bảy", "tám", "chín", "mười", "bị", "bởi", "cả",
	"cần", "càng", "chắc", "chắn", "chỉ", "chiếc", "cho", "chứ", "chưa", "có", "có thể",
	"cứ", "của", "cùng", "cũng", "đã", "đang", "đây", "để", "đến", "đều", "điều", "do",
	"đó", "được", "gì", "hơn", "hết", "khi", "không", "là", "làm", "lại", "lên", "lúc",
	"mà", "mỗi", "một cách", "này", "nên", "nếu", "ngay", "nhiều", "như", "nhưng",
	"những", "nơi", "nữa", "phải", "qua", "ra", "rằng", "rất", "rồi", "sau", "sẽ",
	"so", "sự", "tại", "theo", "thì", "trên", "trước", "từ", "từng", "và", "vào", "vẫn",
	"về", "vì", "với", "vừa", "thứ", "anh", "em", "chị", "bạn", "tôi", "cách", "để có", "làm sao",
	// English
	"a", "an", "the", "and", "or", "but", "for", "in", "on", "at", "to", "of", "i", "you", "he", "she",
	"it", "we", "they", "is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do",
	"does", "did", "will", "would", "should", "can", "could", "not", "no", "this", "that", "these",
	"those", "my", "your", "his", "her", "its", "our", "their", "with", "from", "by", "as", "into",
	"through", "during", "before", "after", "above", "below", "how", "what", "when", "where", "why",
	// Title filler
	"new", "hot", "top", "best", "official", "video", "music", "live", "full", "hd", "mv", "ep",
	"part", "series", "episode",
)

// IsStopWord reports whether word, already lower-cased, is ignored at the
// edges of a phrase.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[norm.NFC.String(w)] = struct{}{}
	}
	return set
}
