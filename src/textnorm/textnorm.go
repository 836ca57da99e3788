// Package textnorm condenses extracted question text: duplicate lines from
// overlapping scroll captures are dropped, leading preamble before the first
// enumerated item is cut, and trailing answer/explanation content is trimmed.
package textnorm

import (
	"regexp"
	"strings"
)

// EndMarkers are the line-start markers that terminate a question. The list
// is a variable so new locales can be added without touching the algorithm.
var EndMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^[ \t]*Answer[:\s]`),
	regexp.MustCompile(`(?mi)^[ \t]*Solution[:\s]`),
	regexp.MustCompile(`(?mi)^[ \t]*Explanation[:\s]`),
	regexp.MustCompile(`(?mi)^[ \t]*Correct Answer[:\s]`),
	regexp.MustCompile(`(?m)^[ \t]*答案[:\s]`),
	regexp.MustCompile(`(?m)^[ \t]*解答[:\s]`),
}

var (
	firstNumberedLine = regexp.MustCompile(`(?m)^[ \t]*1[\.)]\s*`)
	firstNumberedAny  = regexp.MustCompile(`\b1[\.)]\s+`)
	// An enumerated item numbered 2 or higher starts the next question.
	nextQuestion = regexp.MustCompile(`(?m)^[ \t]*(?:[2-9]\d*|[1-9]\d{2,})[\.)]\s+`)
)

// CombineChunks merges text chunks line by line, keeping the first occurrence
// of each distinct trimmed line. Running it on its own output is a fixed point.
func CombineChunks(chunks []string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, chunk := range chunks {
		for _, line := range strings.Split(chunk, "\n") {
			l := strings.TrimSpace(line)
			if l == "" {
				continue
			}
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// ExtractFromFirstNumbered returns the substring starting at the first "1."
// or "1)" marker, preferring a line-start match. Unmatched text is returned
// unchanged.
func ExtractFromFirstNumbered(text string) string {
	if text == "" {
		return text
	}
	if loc := firstNumberedLine.FindStringIndex(text); loc != nil {
		return strings.TrimLeft(text[loc[0]:], "\n\r")
	}
	if loc := firstNumberedAny.FindStringIndex(text); loc != nil {
		return strings.TrimLeft(text[loc[0]:], "\n\r")
	}
	return text
}

// TrimToQuestionEnd truncates at the earliest end marker or next-question
// line, whichever occurs first. Unmatched text is returned unchanged.
func TrimToQuestionEnd(text string) string {
	if text == "" {
		return text
	}

	earliest := -1
	for _, pat := range EndMarkers {
		if loc := pat.FindStringIndex(text); loc != nil {
			if earliest < 0 || loc[0] < earliest {
				earliest = loc[0]
			}
		}
	}
	if loc := nextQuestion.FindStringIndex(text); loc != nil {
		if earliest < 0 || loc[0] < earliest {
			earliest = loc[0]
		}
	}
	if earliest >= 0 {
		return strings.TrimRight(text[:earliest], "\n\r ")
	}
	return text
}

// Normalize runs the full pipeline: combine, numbered-start trim, question-end
// trim. Each stage's output is adopted only when non-empty and different, so a
// pathological match can never erase the whole text.
func Normalize(text string) string {
	combined := CombineChunks([]string{text})
	if combined != "" && combined != text {
		text = combined
	}
	if extracted := ExtractFromFirstNumbered(text); extracted != "" && extracted != text {
		text = extracted
	}
	if trimmed := TrimToQuestionEnd(text); trimmed != "" && trimmed != text {
		text = trimmed
	}
	return text
}
