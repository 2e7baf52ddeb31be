package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"lockin-backend/internal/models"
)

// Model responses are supposed to be a bare JSON array, but in practice they
// arrive wrapped in code fences, buried in prose, or nested under a wrapper
// object. extractItems works through progressively looser strategies until
// one yields a parseable array.

var arrayRegex = regexp.MustCompile(`\[[\s\S]*?\]`)

// wrapper object fields to check when the response is an object, not an array
var arrayFields = []string{"items", "quiz", "flashcards", "data", "questions"}

func extractItems(text string) ([]json.RawMessage, error) {
	text = stripFences(text)
	if text == "" {
		return nil, fmt.Errorf("empty model response")
	}

	// First try: direct parse
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		return items, nil
	}

	// The response may be an object with the array nested under a field
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &wrapper); err == nil {
		for _, key := range arrayFields {
			raw, ok := wrapper[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &items); err == nil {
				return items, nil
			}
		}
	}

	// Second try: balanced-bracket scan from the first '['
	if candidate := scanArray(text); candidate != "" {
		if err := json.Unmarshal([]byte(candidate), &items); err == nil {
			return items, nil
		}
	}

	// Last try: every regex match that parses as a non-empty array
	for _, match := range arrayRegex.FindAllString(text, -1) {
		if err := json.Unmarshal([]byte(match), &items); err == nil && len(items) > 0 {
			return items, nil
		}
	}

	return nil, fmt.Errorf("no JSON array found in model response")
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// scanArray returns the substring from the first '[' to its balancing ']',
// tracking string literals and escapes so brackets inside values don't
// miscount.
func scanArray(text string) string {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}

// detectKind inspects the first item's shape: front/back means flashcards,
// question/options/correct means a quiz.
func detectKind(items []json.RawMessage) string {
	if len(items) == 0 {
		return models.ActivityFlashcard
	}

	var first map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &first); err != nil {
		return models.ActivityFlashcard
	}

	_, hasQuestion := first["question"]
	_, hasOptions := first["options"]
	_, hasCorrect := first["correct"]
	if hasQuestion && hasOptions && hasCorrect {
		return models.ActivityQuiz
	}

	return models.ActivityFlashcard
}

// validateItems drops malformed entries and returns the cleaned array with
// its detected kind.
func validateItems(items []json.RawMessage) (json.RawMessage, string, int, error) {
	kind := detectKind(items)

	switch kind {
	case models.ActivityQuiz:
		valid := make([]models.QuizItem, 0, len(items))
		for _, raw := range items {
			var q models.QuizItem
			if err := json.Unmarshal(raw, &q); err != nil {
				continue
			}
			if q.Question == "" || len(q.Options) != 4 {
				continue
			}
			if q.Correct != "A" && q.Correct != "B" && q.Correct != "C" && q.Correct != "D" {
				continue
			}
			valid = append(valid, q)
		}
		if len(valid) == 0 {
			return nil, kind, 0, fmt.Errorf("no valid quiz questions in model response")
		}
		out, err := json.Marshal(valid)
		return out, kind, len(valid), err

	default:
		valid := make([]models.FlashcardItem, 0, len(items))
		for _, raw := range items {
			var c models.FlashcardItem
			if err := json.Unmarshal(raw, &c); err != nil {
				continue
			}
			if c.Front == "" || c.Back == "" {
				continue
			}
			valid = append(valid, c)
		}
		if len(valid) == 0 {
			return nil, kind, 0, fmt.Errorf("no valid flashcards in model response")
		}
		out, err := json.Marshal(valid)
		return out, kind, len(valid), err
	}
}
