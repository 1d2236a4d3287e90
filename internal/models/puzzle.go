package models

import "time"

type Category string

const (
	CategoryPython      Category = "PY"
	CategoryAI          Category = "AI"
	CategoryDataScience Category = "DS"
)

var ValidCategories = map[Category]bool{
	CategoryPython:      true,
	CategoryAI:          true,
	CategoryDataScience: true,
}

// DisplayName returns the human-readable category label.
func (c Category) DisplayName() string {
	switch c {
	case CategoryPython:
		return "Python"
	case CategoryAI:
		return "AI/ML"
	case CategoryDataScience:
		return "Data Science"
	}
	return string(c)
}

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelExpert       Level = "expert"
)

var ValidLevels = map[Level]bool{
	LevelBeginner:     true,
	LevelIntermediate: true,
	LevelExpert:       true,
}

// Rank orders levels for catalog listing (beginner first).
func (l Level) Rank() int {
	switch l {
	case LevelBeginner:
		return 0
	case LevelIntermediate:
		return 1
	case LevelExpert:
		return 2
	}
	return 3
}

type PuzzleType string

const (
	TypeMCQ  PuzzleType = "mcq"
	TypeCode PuzzleType = "code"
)

// PointsForLevel returns the canonical point value for a level.
func PointsForLevel(level Level) int {
	switch level {
	case LevelBeginner:
		return 10
	case LevelIntermediate:
		return 20
	case LevelExpert:
		return 30
	}
	return 10
}

// MCQOptionKeys is the fixed option set for multiple-choice puzzles.
var MCQOptionKeys = []string{"A", "B", "C", "D"}

// TestCase is a stored input/output pair for a coding puzzle.
// Test cases are reference material for the judge — they are never executed.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// GradingMaterial holds the per-type grading data: answer options for
// MCQ puzzles, named test cases for coding puzzles.
type GradingMaterial struct {
	Options   map[string]string   `json:"options,omitempty"`
	TestCases map[string]TestCase `json:"test_cases,omitempty"`
}

type Puzzle struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        Category        `json:"category"`
	Level           Level           `json:"level"`
	PuzzleType      PuzzleType      `json:"puzzle_type"`
	Points          int             `json:"points"`
	GradingMaterial GradingMaterial `json:"grading_material"`
	Solution        string          `json:"-"`
	StarterCode     string          `json:"starter_code,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Normalize derives puzzle_type from level and fills in canonical
// points. It runs on every create and update path so that changing
// level retroactively reclassifies the type.
func (p *Puzzle) Normalize() {
	if p.Level == LevelBeginner {
		p.PuzzleType = TypeMCQ
	} else {
		p.PuzzleType = TypeCode
	}
	if p.Points <= 0 {
		p.Points = PointsForLevel(p.Level)
	}
}

// HasOption reports whether key is one of the puzzle's declared MCQ options.
func (p *Puzzle) HasOption(key string) bool {
	_, ok := p.GradingMaterial.Options[key]
	return ok
}

// ── Request/Response Types ────────────────────────────────

type PuzzleListResponse struct {
	Puzzles []Puzzle `json:"puzzles"`
	Total   int      `json:"total"`
}

// PuzzleDetailResponse pairs a puzzle with the requesting user's
// existing submission (nil when they have not attempted it).
type PuzzleDetailResponse struct {
	Puzzle     Puzzle      `json:"puzzle"`
	Submission *Submission `json:"submission,omitempty"`
}

type GeneratePuzzlesRequest struct {
	Count    int      `json:"count"`
	Category Category `json:"category"`
	Level    Level    `json:"level"`
}

type GeneratePuzzlesResponse struct {
	CreatedCount  int      `json:"created_count"`
	CreatedTitles []string `json:"created_titles"`
	Attempts      int      `json:"attempts"`
	Message       string   `json:"message"`
}

// EditPuzzleRequest carries a partial manual edit, or regenerate=true
// to request an LLM-assisted rewrite of the puzzle content.
type EditPuzzleRequest struct {
	Title           *string          `json:"title,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Category        *Category        `json:"category,omitempty"`
	Level           *Level           `json:"level,omitempty"`
	Points          *int             `json:"points,omitempty"`
	GradingMaterial *GradingMaterial `json:"grading_material,omitempty"`
	Solution        *string          `json:"solution,omitempty"`
	StarterCode     *string          `json:"starter_code,omitempty"`
	Regenerate      bool             `json:"regenerate,omitempty"`
}
