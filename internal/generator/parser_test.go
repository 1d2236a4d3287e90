package generator

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/python-puzzle/backend/internal/models"
)

func validMCQCandidate(n int) GeneratedPuzzle {
	return GeneratedPuzzle{
		Title:       fmt.Sprintf("Puzzle number %d", n),
		Description: "What does the following Python snippet print?\n\nprint([x * 2 for x in range(3)])",
		Options: map[string]string{
			"A": "[0, 2, 4]",
			"B": "[2, 4, 6]",
			"C": "[0, 1, 2]",
			"D": "A TypeError is raised",
		},
		CorrectAnswer: "A",
	}
}

func validCodeCandidate(n int) GeneratedPuzzle {
	return GeneratedPuzzle{
		Title:       fmt.Sprintf("Challenge number %d", n),
		Description: "Write a function that returns the sum of all even numbers in a list.",
		TestCases: map[string]models.TestCase{
			"basic":      {Input: "[1, 2, 3, 4]", Output: "6"},
			"empty list": {Input: "[]", Output: "0"},
		},
		StarterCode: "def sum_even(numbers):\n    pass\n",
	}
}

func batchJSON(t *testing.T, puzzles []GeneratedPuzzle) string {
	t.Helper()
	data, err := json.Marshal(puzzles)
	if err != nil {
		t.Fatalf("marshal test fixture: %v", err)
	}
	return string(data)
}

func TestParsePuzzles_ValidArray(t *testing.T) {
	input := batchJSON(t, []GeneratedPuzzle{validMCQCandidate(1), validMCQCandidate(2), validMCQCandidate(3)})

	puzzles, err := ParsePuzzles(input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(puzzles) != 3 {
		t.Errorf("expected 3 puzzles, got %d", len(puzzles))
	}
	for i, p := range puzzles {
		if len(p.Options) != 4 {
			t.Errorf("puzzle %d: expected 4 options, got %d", i+1, len(p.Options))
		}
		if p.CorrectAnswer == "" {
			t.Errorf("puzzle %d: empty correct_answer", i+1)
		}
	}
}

func TestParsePuzzles_SingleObject(t *testing.T) {
	data, _ := json.Marshal(validCodeCandidate(1))

	puzzles, err := ParsePuzzles(string(data))
	if err != nil {
		t.Fatalf("expected no error for single object, got: %v", err)
	}
	if len(puzzles) != 1 {
		t.Fatalf("expected 1 puzzle, got %d", len(puzzles))
	}
	if len(puzzles[0].TestCases) != 2 {
		t.Errorf("expected 2 test cases, got %d", len(puzzles[0].TestCases))
	}
}

func TestParsePuzzles_MarkdownFences(t *testing.T) {
	input := "```json\n" + batchJSON(t, []GeneratedPuzzle{validMCQCandidate(1)}) + "\n```"

	puzzles, err := ParsePuzzles(input)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}
	if len(puzzles) != 1 {
		t.Errorf("expected 1 puzzle, got %d", len(puzzles))
	}
}

func TestParsePuzzles_FencedBlockInProse(t *testing.T) {
	input := "Here are the puzzles you asked for:\n\n```json\n" +
		batchJSON(t, []GeneratedPuzzle{validMCQCandidate(1), validMCQCandidate(2)}) +
		"\n```\n\nLet me know if you need more."

	puzzles, err := ParsePuzzles(input)
	if err != nil {
		t.Fatalf("expected no error with surrounding prose, got: %v", err)
	}
	if len(puzzles) != 2 {
		t.Errorf("expected 2 puzzles, got %d", len(puzzles))
	}
}

func TestParsePuzzles_InvalidJSON(t *testing.T) {
	_, err := ParsePuzzles("I could not generate puzzles this time, sorry!")
	if err == nil {
		t.Fatal("expected an error for a non-JSON response")
	}
}

func TestStripCodeFences_PlainPayload(t *testing.T) {
	if got := StripCodeFences(`{"title": "x"}`); got != `{"title": "x"}` {
		t.Errorf("plain payload changed: %q", got)
	}
}

func TestStripCodeFences_BareFences(t *testing.T) {
	got := StripCodeFences("```\n[1, 2]\n```")
	if got != "[1, 2]" {
		t.Errorf("expected %q, got %q", "[1, 2]", got)
	}
}

func TestValidateCandidate_ValidMCQ(t *testing.T) {
	c := validMCQCandidate(1)
	if err := ValidateCandidate(&c, models.TypeMCQ); err != nil {
		t.Errorf("expected valid MCQ candidate, got: %v", err)
	}
}

func TestValidateCandidate_ValidCode(t *testing.T) {
	c := validCodeCandidate(1)
	if err := ValidateCandidate(&c, models.TypeCode); err != nil {
		t.Errorf("expected valid coding candidate, got: %v", err)
	}
}

func TestValidateCandidate_MissingFields(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*GeneratedPuzzle)
		puzzleType models.PuzzleType
		wantSubstr string
	}{
		{
			name:       "empty title",
			mutate:     func(p *GeneratedPuzzle) { p.Title = "  " },
			puzzleType: models.TypeMCQ,
			wantSubstr: "missing title",
		},
		{
			name:       "empty description",
			mutate:     func(p *GeneratedPuzzle) { p.Description = "" },
			puzzleType: models.TypeMCQ,
			wantSubstr: "missing description",
		},
		{
			name:       "missing option",
			mutate:     func(p *GeneratedPuzzle) { delete(p.Options, "C") },
			puzzleType: models.TypeMCQ,
			wantSubstr: "missing option C",
		},
		{
			name:       "correct answer not an option",
			mutate:     func(p *GeneratedPuzzle) { p.CorrectAnswer = "E" },
			puzzleType: models.TypeMCQ,
			wantSubstr: "not an option key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validMCQCandidate(1)
			tt.mutate(&c)
			err := ValidateCandidate(&c, tt.puzzleType)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantSubstr, err)
			}
		})
	}
}

func TestValidateCandidate_CodeNeedsTestCases(t *testing.T) {
	c := validCodeCandidate(1)
	c.TestCases = nil
	err := ValidateCandidate(&c, models.TypeCode)
	if err == nil {
		t.Fatal("expected a validation error for missing test cases")
	}
	if !strings.Contains(err.Error(), "no test cases") {
		t.Errorf("expected error about test cases, got: %v", err)
	}
}

func TestValidateCandidate_CodeEmptyTestCase(t *testing.T) {
	c := validCodeCandidate(1)
	c.TestCases["hollow"] = models.TestCase{}
	err := ValidateCandidate(&c, models.TypeCode)
	if err == nil {
		t.Fatal("expected a validation error for an empty test case")
	}
}
