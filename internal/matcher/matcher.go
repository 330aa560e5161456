// Package matcher grades free-typed answers against canonical answers with
// tolerant fuzzy matching. It rewards typo-level and accent-level recall while
// rejecting changes that alter meaning (vowel swaps).
package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"learnitalian/internal/util"
)

// Feedback messages returned alongside partial matches.
const (
	FeedbackAccents  = "watch the accents"
	FeedbackSpelling = "watch the spelling"
	FeedbackClose    = "very close"
)

// closeMatchThreshold is the minimum similarity ratio for the last-resort
// near-match rule.
const closeMatchThreshold = 0.85

// Result is the outcome of grading one typed answer.
type Result struct {
	Correct  bool
	Partial  bool
	Feedback string
}

// Grade evaluates a typed answer against the canonical answer and any
// alternates. Alternates are tried in order only when the canonical answer
// does not match; the first match wins. Empty input is never a match.
func Grade(input, canonical string, alternates []string) Result {
	if strings.TrimSpace(input) == "" {
		return Result{}
	}

	if r, ok := gradeOne(input, canonical); ok {
		return r
	}
	for _, alt := range alternates {
		if r, ok := gradeOne(input, alt); ok {
			return r
		}
	}
	return Result{}
}

// gradeOne applies the match rules in order against a single expected answer.
func gradeOne(input, expected string) (Result, bool) {
	u := strings.ToLower(trimTerminalPunct(input))
	e := strings.ToLower(trimTerminalPunct(expected))
	if e == "" {
		return Result{}, false
	}

	if u == e {
		return Result{Correct: true}, true
	}

	if stripDiacritics(u) == stripDiacritics(e) {
		return Result{Correct: true, Partial: true, Feedback: FeedbackAccents}, true
	}

	if singleConsonantEdit(u, e) {
		return Result{Correct: true, Partial: true, Feedback: FeedbackSpelling}, true
	}

	if util.Similarity(u, e) >= closeMatchThreshold {
		if idx, ok := singleDiffIndex(u, e); ok {
			ur := []rune(u)
			er := []rune(e)
			if !isVowel(ur[idx]) && !isVowel(er[idx]) {
				return Result{Correct: true, Partial: true, Feedback: FeedbackClose}, true
			}
		}
	}

	return Result{}, false
}

// trimTerminalPunct removes surrounding whitespace and trailing terminal
// punctuation.
func trimTerminalPunct(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimRight(s, ".!?…")
}

// stripDiacritics removes combining marks, so "caffè" compares equal to "caffe".
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Vowel swaps usually change the word (bello/bella), so edits touching vowels
// never count as spelling slips.
func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'à', 'è', 'é', 'ì', 'í', 'ò', 'ó', 'ù', 'ú':
		return true
	}
	return false
}

// singleConsonantEdit reports whether a and b differ by exactly one non-vowel
// edit: a substitution of one non-vowel rune for another, or a single
// insertion or deletion of a non-vowel rune.
func singleConsonantEdit(a, b string) bool {
	ra := []rune(a)
	rb := []rune(b)

	switch len(ra) - len(rb) {
	case 0:
		if idx, ok := singleDiffIndex(a, b); ok {
			return !isVowel(ra[idx]) && !isVowel(rb[idx])
		}
		return false
	case 1:
		return singleExtraRune(ra, rb)
	case -1:
		return singleExtraRune(rb, ra)
	default:
		return false
	}
}

// singleDiffIndex returns the sole index at which two equal-length strings
// differ, if they differ at exactly one position.
func singleDiffIndex(a, b string) (int, bool) {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) != len(rb) {
		return 0, false
	}
	idx := -1
	for i := range ra {
		if ra[i] != rb[i] {
			if idx >= 0 {
				return 0, false
			}
			idx = i
		}
	}
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// singleExtraRune reports whether longer equals shorter with exactly one
// additional non-vowel rune inserted somewhere.
func singleExtraRune(longer, shorter []rune) bool {
	if len(longer) != len(shorter)+1 {
		return false
	}
	i, j := 0, 0
	var extra rune
	found := false
	for i < len(longer) && j < len(shorter) {
		if longer[i] == shorter[j] {
			i++
			j++
			continue
		}
		if found {
			return false
		}
		extra = longer[i]
		found = true
		i++
	}
	if i < len(longer) && !found {
		extra = longer[i]
		found = true
	}
	return found && !isVowel(extra)
}
