package selection

import (
	"strings"
	"unicode"

	"learnitalian/internal/util"
)

// Near-duplicate thresholds for prompts already chosen in the same batch.
const (
	// sharedWordRatio is the fraction of shared meaningful words above which
	// two prompts are treated as duplicates, when both have enough of them.
	sharedWordRatio = 0.65
	// minMeaningfulWords is the word count both prompts need before the
	// shared-word rule applies.
	minMeaningfulWords = 2
	// promptSimilarity is the generic string-similarity duplicate threshold.
	promptSimilarity = 0.5
)

// stopwords are filtered out before comparing prompts: Italian and English
// function words plus the blank marker.
var stopwords = map[string]struct{}{
	"il": {}, "lo": {}, "la": {}, "i": {}, "gli": {}, "le": {}, "un": {},
	"uno": {}, "una": {}, "di": {}, "a": {}, "da": {}, "in": {}, "con": {},
	"su": {}, "per": {}, "tra": {}, "fra": {}, "e": {}, "o": {}, "non": {},
	"che": {}, "si": {}, "al": {}, "del": {}, "nel": {}, "è": {},
	"the": {}, "an": {}, "of": {}, "to": {}, "and": {}, "or": {}, "is": {},
	"___": {},
}

// isNearDuplicate reports whether two prompts are close enough to count as
// the same question for batch diversity purposes.
func isNearDuplicate(promptA, promptB string) bool {
	normA := normalizePrompt(promptA)
	normB := normalizePrompt(promptB)

	wordsA := meaningfulWords(normA)
	wordsB := meaningfulWords(normB)
	if len(wordsA) > minMeaningfulWords && len(wordsB) > minMeaningfulWords {
		if sharedRatio(wordsA, wordsB) > sharedWordRatio {
			return true
		}
	}

	return util.Similarity(normA, normB) > promptSimilarity
}

// normalizePrompt lowercases a prompt and strips punctuation, keeping the
// blank marker's underscores so it can be stopword-filtered.
func normalizePrompt(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func meaningfulWords(normalized string) []string {
	fields := strings.Fields(normalized)
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if _, skip := stopwords[w]; skip {
			continue
		}
		words = append(words, w)
	}
	return words
}

// sharedRatio returns the fraction of the smaller word set also present in
// the other.
func sharedRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setB := make(map[string]struct{}, len(b))
	for _, w := range b {
		setB[w] = struct{}{}
	}
	shared := 0
	for _, w := range a {
		if _, ok := setB[w]; ok {
			shared++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(shared) / float64(smaller)
}
