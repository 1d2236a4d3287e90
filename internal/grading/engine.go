package grading

import (
	"context"
	"log"

	"github.com/python-puzzle/backend/internal/models"
)

// Verdict is the outcome of grading one candidate answer. Grading is
// side-effect-free; the caller persists the submission and triggers
// profile aggregation.
type Verdict struct {
	IsCorrect bool
	Status    models.SubmissionStatus
	Feedback  string
}

type Engine struct {
	judge Judge
}

func NewEngine(judge Judge) *Engine {
	return &Engine{judge: judge}
}

// Grade evaluates a candidate answer for a puzzle. The caller must
// have validated the input shape already: MCQ answers are assumed to
// be declared option keys, coding submissions non-empty.
func (e *Engine) Grade(ctx context.Context, puzzle *models.Puzzle, req models.SubmitRequest) *Verdict {
	if puzzle.PuzzleType == models.TypeMCQ {
		return gradeMCQ(puzzle, req.Answer)
	}
	return e.gradeCode(ctx, puzzle, req.Code)
}

// gradeMCQ is a pure exact match against the stored solution key.
func gradeMCQ(puzzle *models.Puzzle, answer string) *Verdict {
	if answer == puzzle.Solution {
		return &Verdict{
			IsCorrect: true,
			Status:    models.StatusCompleted,
			Feedback:  "Correct!",
		}
	}
	return &Verdict{
		IsCorrect: false,
		Status:    models.StatusCompleted,
		Feedback:  "Incorrect solution.",
	}
}

func (e *Engine) gradeCode(ctx context.Context, puzzle *models.Puzzle, code string) *Verdict {
	verdict, err := e.judge.Evaluate(ctx, puzzle.Description, code)
	if err != nil {
		// Infrastructure failure, not a wrong answer: mark the
		// submission errored and let the user retry without penalty.
		log.Printf("WARN: judge failed for puzzle %d: %v", puzzle.ID, err)
		return &Verdict{
			IsCorrect: false,
			Status:    models.StatusError,
			Feedback:  "An error occurred while judging your solution. Please try again.",
		}
	}

	if verdict.IsValid {
		return &Verdict{
			IsCorrect: true,
			Status:    models.StatusCompleted,
			Feedback:  "Correct!",
		}
	}

	feedback := verdict.Message
	if feedback == "" {
		feedback = "Invalid solution"
	}
	return &Verdict{
		IsCorrect: false,
		Status:    models.StatusFailed,
		Feedback:  feedback,
	}
}
