package judge

import (
	"strconv"
	"strings"
	"unicode"
)

// resultMarker precedes the integer score in absolute-grading output
const resultMarker = "[RESULT]"

// ExtractLabel reads a classification label from free-text model output.
// Periods are removed and the text trimmed; an exact label match wins,
// otherwise the first label (Yes, No, To some extent) contained in the text
// case-insensitively is returned. When nothing matches the cleaned text is
// returned with ok false.
func ExtractLabel(output string) (label string, ok bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(output, ".", ""))
	candidates := []string{LabelYes, LabelNo, LabelToSomeExtent}

	for _, candidate := range candidates {
		if cleaned == candidate {
			return candidate, true
		}
	}
	lower := strings.ToLower(cleaned)
	for _, candidate := range candidates {
		if strings.Contains(lower, strings.ToLower(candidate)) {
			return candidate, true
		}
	}
	return cleaned, false
}

// ParseScore extracts the integer that follows the last [RESULT] marker.
// Only scores 1 to 3 are accepted.
func ParseScore(output string) (int, bool) {
	idx := strings.LastIndex(output, resultMarker)
	if idx < 0 {
		return 0, false
	}
	rest := strings.TrimLeftFunc(output[idx+len(resultMarker):], func(r rune) bool {
		return unicode.IsSpace(r) || r == ':' || r == '('
	})

	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	score, err := strconv.Atoi(rest[:end])
	if err != nil || score < 1 || score > 3 {
		return 0, false
	}
	return score, true
}

// ScoreLabel maps a rubric score to its classification label
func ScoreLabel(score int) (string, bool) {
	switch score {
	case 1:
		return LabelNo, true
	case 2:
		return LabelToSomeExtent, true
	case 3:
		return LabelYes, true
	}
	return "", false
}
