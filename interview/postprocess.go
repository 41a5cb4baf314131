package interview

import "strings"

const (
	maxTurnLength = 300
	maxSentences  = 3
)

// Postprocess shapes a raw interviewer continuation into a single
// well-formed turn: at most one question, bounded length.
func Postprocess(raw string) string {
	text := enforceSingleQuestion(strings.TrimSpace(raw))
	return capLength(text)
}

// enforceSingleQuestion truncates to the first two blank-line-separated
// segments (feedback plus one question) when a later segment contains a
// question mark, i.e. when the model asked more than one question.
func enforceSingleQuestion(text string) string {
	segments := strings.Split(text, "\n\n")
	if len(segments) <= 2 {
		return text
	}
	for _, seg := range segments[2:] {
		if strings.Contains(seg, "?") {
			return strings.Join(segments[:2], "\n\n")
		}
	}
	return text
}

// capLength keeps only the first three sentences when the turn exceeds the
// length budget.
func capLength(text string) string {
	if len(text) <= maxTurnLength {
		return text
	}
	sentences := splitSentences(text)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	return strings.Join(sentences, " ")
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		if !isSentenceEnd(text[i]) || !isSpace(text[i+1]) {
			continue
		}
		out = append(out, strings.TrimSpace(text[start:i+1]))
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(text) {
		out = append(out, strings.TrimSpace(text[start:]))
	}
	return out
}

func isSentenceEnd(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}
