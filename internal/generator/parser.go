package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/python-puzzle/backend/internal/models"
)

// GeneratedPuzzle is one puzzle candidate as produced by the LLM,
// before validation and dedup.
type GeneratedPuzzle struct {
	Title         string                     `json:"title"`
	Description   string                     `json:"description"`
	Options       map[string]string          `json:"options,omitempty"`
	CorrectAnswer string                     `json:"correct_answer,omitempty"`
	TestCases     map[string]models.TestCase `json:"test_cases,omitempty"`
	StarterCode   string                     `json:"starter_code,omitempty"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParsePuzzles extracts puzzle candidates from a raw LLM response.
// The response may be a single object or a list, and may arrive
// wrapped in prose or markdown code fences.
func ParsePuzzles(responseBody string) ([]GeneratedPuzzle, error) {
	cleaned := StripCodeFences(responseBody)

	var puzzles []GeneratedPuzzle
	if err := json.Unmarshal([]byte(cleaned), &puzzles); err == nil {
		return puzzles, nil
	}

	var single GeneratedPuzzle
	if err := json.Unmarshal([]byte(cleaned), &single); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return []GeneratedPuzzle{single}, nil
}

// StripCodeFences removes markdown code fences around a payload. If
// the payload is embedded in surrounding prose, the first fenced
// block is extracted.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	// Payload buried in prose: take the first fenced block.
	if idx := strings.Index(s, "```"); idx > 0 {
		s = s[idx:]
	}

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	return s
}

// ValidateCandidate checks the minimal fields a generated puzzle
// needs before it can enter the catalog.
func ValidateCandidate(p *GeneratedPuzzle, puzzleType models.PuzzleType) error {
	var errs []string

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, "missing title")
	}
	if strings.TrimSpace(p.Description) == "" {
		errs = append(errs, "missing description")
	}

	switch puzzleType {
	case models.TypeMCQ:
		for _, key := range models.MCQOptionKeys {
			if strings.TrimSpace(p.Options[key]) == "" {
				errs = append(errs, fmt.Sprintf("missing option %s", key))
			}
		}
		if _, ok := p.Options[p.CorrectAnswer]; !ok {
			errs = append(errs, fmt.Sprintf("correct_answer %q is not an option key", p.CorrectAnswer))
		}
	case models.TypeCode:
		if len(p.TestCases) == 0 {
			errs = append(errs, "no test cases")
		}
		for name, tc := range p.TestCases {
			if tc.Input == "" && tc.Output == "" {
				errs = append(errs, fmt.Sprintf("test case %q is empty", name))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
