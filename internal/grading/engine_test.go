package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/python-puzzle/backend/internal/models"
)

type stubJudge struct {
	verdict *JudgeVerdict
	err     error
}

func (s *stubJudge) Evaluate(ctx context.Context, problem string, code string) (*JudgeVerdict, error) {
	return s.verdict, s.err
}

func mcqPuzzle() *models.Puzzle {
	return &models.Puzzle{
		ID:         1,
		Level:      models.LevelBeginner,
		PuzzleType: models.TypeMCQ,
		GradingMaterial: models.GradingMaterial{
			Options: map[string]string{"A": "one", "B": "two", "C": "three", "D": "four"},
		},
		Solution: "B",
	}
}

func codePuzzle() *models.Puzzle {
	return &models.Puzzle{
		ID:          2,
		Level:       models.LevelExpert,
		PuzzleType:  models.TypeCode,
		Description: "Reverse a string without using slicing.",
	}
}

func TestGrade_MCQCorrect(t *testing.T) {
	engine := NewEngine(&stubJudge{})

	v := engine.Grade(context.Background(), mcqPuzzle(), models.SubmitRequest{Answer: "B"})

	if !v.IsCorrect {
		t.Error("expected correct verdict")
	}
	if v.Status != models.StatusCompleted {
		t.Errorf("expected status completed, got %s", v.Status)
	}
}

func TestGrade_MCQIncorrect(t *testing.T) {
	engine := NewEngine(&stubJudge{})

	v := engine.Grade(context.Background(), mcqPuzzle(), models.SubmitRequest{Answer: "A"})

	if v.IsCorrect {
		t.Error("expected incorrect verdict")
	}
	// A wrong MCQ answer is still a completed grading run.
	if v.Status != models.StatusCompleted {
		t.Errorf("expected status completed, got %s", v.Status)
	}
}

func TestGrade_MCQIsDeterministic(t *testing.T) {
	engine := NewEngine(&stubJudge{err: errors.New("judge must not be called for MCQ")})
	puzzle := mcqPuzzle()

	for i := 0; i < 5; i++ {
		v := engine.Grade(context.Background(), puzzle, models.SubmitRequest{Answer: "B"})
		if !v.IsCorrect || v.Status != models.StatusCompleted {
			t.Fatalf("run %d: verdict changed: %+v", i, v)
		}
	}
}

func TestGrade_CodeAccepted(t *testing.T) {
	engine := NewEngine(&stubJudge{
		verdict: &JudgeVerdict{IsValid: true, Message: "Handles all cases correctly."},
	})

	v := engine.Grade(context.Background(), codePuzzle(), models.SubmitRequest{Code: "def solve(): ..."})

	if !v.IsCorrect {
		t.Error("expected correct verdict")
	}
	if v.Status != models.StatusCompleted {
		t.Errorf("expected status completed, got %s", v.Status)
	}
}

func TestGrade_CodeRejectedUsesJudgeMessage(t *testing.T) {
	engine := NewEngine(&stubJudge{
		verdict: &JudgeVerdict{IsValid: false, Message: "Fails on empty input."},
	})

	v := engine.Grade(context.Background(), codePuzzle(), models.SubmitRequest{Code: "def solve(): ..."})

	if v.IsCorrect {
		t.Error("expected incorrect verdict")
	}
	if v.Status != models.StatusFailed {
		t.Errorf("expected status failed, got %s", v.Status)
	}
	if v.Feedback != "Fails on empty input." {
		t.Errorf("expected the judge's message as feedback, got %q", v.Feedback)
	}
}

func TestGrade_CodeRejectedEmptyMessageFallback(t *testing.T) {
	engine := NewEngine(&stubJudge{verdict: &JudgeVerdict{IsValid: false}})

	v := engine.Grade(context.Background(), codePuzzle(), models.SubmitRequest{Code: "x"})

	if v.Feedback != "Invalid solution" {
		t.Errorf("expected fallback feedback, got %q", v.Feedback)
	}
}

func TestGrade_JudgeFailureIsErrorNotFailure(t *testing.T) {
	engine := NewEngine(&stubJudge{err: ErrJudgeUnavailable})

	v := engine.Grade(context.Background(), codePuzzle(), models.SubmitRequest{Code: "def solve(): ..."})

	if v.IsCorrect {
		t.Error("a judge outage must never mark a submission correct")
	}
	if v.Status != models.StatusError {
		t.Errorf("expected status error, got %s", v.Status)
	}
}
