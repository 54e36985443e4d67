package moderation

import (
	"context"
	"strings"
	"unicode/utf8"

	"barber_backend/internal/metrics"
)

// KeywordClassifier отклоняет тексты со стоп-словами, а также
// тексты, набранные в основном заглавными буквами
type KeywordClassifier struct {
	stopWords []string
}

func NewKeywordClassifier(stopWords []string) *KeywordClassifier {
	words := make([]string, 0, len(stopWords))
	for _, w := range stopWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	return &KeywordClassifier{stopWords: words}
}

func (k *KeywordClassifier) CheckReview(_ context.Context, text string) (bool, error) {
	lower := strings.ToLower(text)
	for _, w := range k.stopWords {
		if strings.Contains(lower, w) {
			metrics.ClassifierRequests.WithLabelValues("keyword", "rejected").Inc()
			return false, nil
		}
	}
	if shouting(text) {
		metrics.ClassifierRequests.WithLabelValues("keyword", "rejected").Inc()
		return false, nil
	}
	metrics.ClassifierRequests.WithLabelValues("keyword", "approved").Inc()
	return true, nil
}

func shouting(text string) bool {
	var letters, upper int
	for _, r := range text {
		if strings.ToUpper(string(r)) != strings.ToLower(string(r)) {
			letters++
			if strings.ToUpper(string(r)) == string(r) {
				upper++
			}
		}
	}
	return utf8.RuneCountInString(text) >= 20 && letters > 0 && upper*10 >= letters*8
}
