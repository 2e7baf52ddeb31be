package services

import (
	"encoding/json"
	"testing"

	"lockin-backend/internal/models"
)

func TestExtractItems_BareArray(t *testing.T) {
	items, err := extractItems(`[{"front":"a","back":"b"},{"front":"c","back":"d"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(items))
	}
}

func TestExtractItems_CodeFences(t *testing.T) {
	text := "```json\n[{\"front\":\"a\",\"back\":\"b\"}]\n```"
	items, err := extractItems(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(items))
	}
}

func TestExtractItems_WrapperObject(t *testing.T) {
	for _, field := range []string{"items", "quiz", "flashcards", "data", "questions"} {
		text := `{"` + field + `":[{"front":"a","back":"b"}]}`
		items, err := extractItems(text)
		if err != nil {
			t.Fatalf("field %q: unexpected error: %v", field, err)
		}
		if len(items) != 1 {
			t.Errorf("field %q: expected 1 item, got %d", field, len(items))
		}
	}
}

func TestExtractItems_BuriedInProse(t *testing.T) {
	text := `Sure! Here are your flashcards:

[{"front":"What is Go?","back":"A programming language"}]

Let me know if you want more.`

	items, err := extractItems(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(items))
	}
}

// Brackets inside string values must not confuse the balanced scan.
func TestExtractItems_BracketsInsideStrings(t *testing.T) {
	text := `Here: [{"front":"array syntax [1, 2]","back":"a \"quoted\" list ]"}] done`

	items, err := extractItems(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	var card models.FlashcardItem
	if err := json.Unmarshal(items[0], &card); err != nil {
		t.Fatalf("failed to parse item: %v", err)
	}
	if card.Front != "array syntax [1, 2]" {
		t.Errorf("front mangled: %q", card.Front)
	}
}

func TestExtractItems_NoArray(t *testing.T) {
	if _, err := extractItems("I could not generate anything useful."); err == nil {
		t.Error("Expected error for response with no array")
	}
	if _, err := extractItems(""); err == nil {
		t.Error("Expected error for empty response")
	}
}

func TestDetectKind(t *testing.T) {
	quiz := []json.RawMessage{json.RawMessage(`{"question":"q","options":["a","b","c","d"],"correct":"A"}`)}
	if got := detectKind(quiz); got != models.ActivityQuiz {
		t.Errorf("Expected quiz, got %q", got)
	}

	cards := []json.RawMessage{json.RawMessage(`{"front":"f","back":"b"}`)}
	if got := detectKind(cards); got != models.ActivityFlashcard {
		t.Errorf("Expected flashcard, got %q", got)
	}
}

func TestValidateItems_DropsMalformedQuizQuestions(t *testing.T) {
	items := []json.RawMessage{
		json.RawMessage(`{"question":"ok","options":["a","b","c","d"],"correct":"B"}`),
		json.RawMessage(`{"question":"three options","options":["a","b","c"],"correct":"A"}`),
		json.RawMessage(`{"question":"bad letter","options":["a","b","c","d"],"correct":"E"}`),
		json.RawMessage(`{"question":"","options":["a","b","c","d"],"correct":"A"}`),
	}

	out, kind, count, err := validateItems(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != models.ActivityQuiz {
		t.Errorf("Expected quiz kind, got %q", kind)
	}
	if count != 1 {
		t.Errorf("Expected 1 valid question, got %d", count)
	}

	var valid []models.QuizItem
	if err := json.Unmarshal(out, &valid); err != nil {
		t.Fatalf("output is not a quiz array: %v", err)
	}
	if len(valid) != 1 || valid[0].Question != "ok" {
		t.Errorf("wrong surviving question: %+v", valid)
	}
}

func TestValidateItems_DropsIncompleteFlashcards(t *testing.T) {
	items := []json.RawMessage{
		json.RawMessage(`{"front":"a","back":"b"}`),
		json.RawMessage(`{"front":"","back":"b"}`),
		json.RawMessage(`{"front":"a","back":""}`),
	}

	_, kind, count, err := validateItems(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != models.ActivityFlashcard {
		t.Errorf("Expected flashcard kind, got %q", kind)
	}
	if count != 1 {
		t.Errorf("Expected 1 valid card, got %d", count)
	}
}

func TestValidateItems_ErrorWhenNothingValid(t *testing.T) {
	items := []json.RawMessage{
		json.RawMessage(`{"front":"","back":""}`),
	}
	if _, _, _, err := validateItems(items); err == nil {
		t.Error("Expected error when no items survive validation")
	}
}
