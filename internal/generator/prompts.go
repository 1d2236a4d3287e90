package generator

import (
	"fmt"
	"strings"

	"github.com/python-puzzle/backend/internal/models"
)

const generationSystemPrompt = `You are a programming-education content author. You write original, self-contained programming puzzles with unambiguous answers. Respond with JSON only — no commentary, no markdown.`

var categoryTopicHints = map[models.Category]string{
	models.CategoryPython:      "core Python: data types, control flow, comprehensions, functions, classes, the standard library",
	models.CategoryAI:          "AI/ML concepts: model training, overfitting, common algorithms, evaluation metrics, simple neural-network behavior",
	models.CategoryDataScience: "data science: pandas-style data manipulation, statistics, data cleaning, visualization concepts",
}

var levelGuidance = map[models.Level]string{
	models.LevelBeginner:     "Suitable for someone in their first months of programming. One concept per puzzle.",
	models.LevelIntermediate: "Assumes comfortable day-to-day programming. Combine two or three concepts.",
	models.LevelExpert:       "Challenging for an experienced practitioner. Edge cases, performance trade-offs, or subtle semantics.",
}

// BuildMCQPrompt requests count multiple-choice puzzles. The response
// shape demands an options mapping plus the correct option key.
func BuildMCQPrompt(category models.Category, level models.Level, count int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write %d multiple-choice programming puzzles.\n\n", count)
	fmt.Fprintf(&sb, "TOPIC AREA: %s (%s)\n", category.DisplayName(), categoryTopicHints[category])
	fmt.Fprintf(&sb, "DIFFICULTY: %s. %s\n\n", level, levelGuidance[level])

	sb.WriteString(`REQUIREMENTS:
- Every puzzle must have a distinct, descriptive title
- The description contains the full puzzle text, including any code snippet
- Exactly four options keyed "A" through "D", exactly one of them correct
- Wrong options must be plausible mistakes, not filler
- Each puzzle must cover a different topic than the others in this batch

Respond with a JSON array only:
[
  {
    "title": "Short unique title",
    "description": "Full puzzle text...",
    "options": {"A": "...", "B": "...", "C": "...", "D": "..."},
    "correct_answer": "B"
  }
]`)

	return sb.String()
}

// BuildCodingPrompt requests count coding puzzles. Coding puzzles are
// graded by a judge at submission time, so the response carries test
// cases but no solution field.
func BuildCodingPrompt(category models.Category, level models.Level, count int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write %d coding challenges to be solved in Python.\n\n", count)
	fmt.Fprintf(&sb, "TOPIC AREA: %s (%s)\n", category.DisplayName(), categoryTopicHints[category])
	fmt.Fprintf(&sb, "DIFFICULTY: %s. %s\n\n", level, levelGuidance[level])

	sb.WriteString(`REQUIREMENTS:
- Every challenge must have a distinct, descriptive title
- The description states the task precisely: input format, output format, constraints
- Provide two to four named test cases as input/output pairs illustrating the contract
- Optionally provide starter code (a function signature with a pass body)
- Do NOT include a solution
- Each challenge must cover a different topic than the others in this batch

Respond with a JSON array only:
[
  {
    "title": "Short unique title",
    "description": "Full task statement...",
    "test_cases": {
      "basic": {"input": "...", "output": "..."},
      "edge case": {"input": "...", "output": "..."}
    },
    "starter_code": "def solve(data):\n    pass\n"
  }
]`)

	return sb.String()
}

const rewriteSystemPrompt = `You are a programming-education content editor. You rewrite an existing puzzle to be clearer and more engaging while keeping its topic, difficulty, and format. Respond with JSON only.`

// BuildRewritePrompt asks for an improved version of an existing
// puzzle, preserving its type-specific response shape.
func BuildRewritePrompt(p *models.Puzzle) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Improve the following %s puzzle. Keep the category (%s) and difficulty (%s). Fix any ambiguity, tighten the wording, and make the task more interesting.\n\n",
		p.PuzzleType, p.Category.DisplayName(), p.Level)
	fmt.Fprintf(&sb, "TITLE: %s\n\nDESCRIPTION:\n%s\n\n", p.Title, p.Description)

	if p.PuzzleType == models.TypeMCQ {
		sb.WriteString("OPTIONS:\n")
		for _, key := range models.MCQOptionKeys {
			fmt.Fprintf(&sb, "(%s) %s\n", key, p.GradingMaterial.Options[key])
		}
		fmt.Fprintf(&sb, "CORRECT: %s\n\n", p.Solution)
		sb.WriteString(`Respond with a single JSON object:
{
  "title": "...",
  "description": "...",
  "options": {"A": "...", "B": "...", "C": "...", "D": "..."},
  "correct_answer": "A"
}`)
	} else {
		sb.WriteString("TEST CASES:\n")
		for name, tc := range p.GradingMaterial.TestCases {
			fmt.Fprintf(&sb, "- %s: input %q, output %q\n", name, tc.Input, tc.Output)
		}
		sb.WriteString(`
Respond with a single JSON object:
{
  "title": "...",
  "description": "...",
  "test_cases": {"name": {"input": "...", "output": "..."}},
  "starter_code": "..."
}`)
	}

	return sb.String()
}
