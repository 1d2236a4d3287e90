package puzzles

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/python-puzzle/backend/internal/generator"
	"github.com/python-puzzle/backend/internal/grading"
	"github.com/python-puzzle/backend/internal/models"
)

// ValidationError is a malformed or missing input at the API
// boundary. It is surfaced to the caller and never persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// GenerationFailure means a batch call produced zero usable puzzles
// after exhausting its retries.
type GenerationFailure struct {
	Attempts int
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation produced no usable puzzles after %d attempts", e.Attempts)
}

// generationRetries bounds the LLM calls per batch request.
const generationRetries = 3

// Storage is the catalog and ledger persistence surface. *Store
// satisfies it; tests substitute an in-memory fake.
type Storage interface {
	CreatePuzzle(p *models.Puzzle) error
	GetPuzzle(puzzleID int64) (*models.Puzzle, error)
	ListPuzzles(category *models.Category, level *models.Level) ([]models.Puzzle, error)
	UpdatePuzzle(p *models.Puzzle) error
	DeletePuzzle(puzzleID int64) error
	ListTitles() ([]string, error)
	UpsertSubmission(sub *models.Submission) error
	GetSubmission(userID, puzzleID int64) (*models.Submission, error)
}

// Awarder applies the profile side of a grading event.
// Satisfied by *profile.Service.
type Awarder interface {
	OnGraded(userID int64, puzzle *models.Puzzle, isCorrect bool) (int, error)
}

type Service struct {
	store    Storage
	engine   *grading.Engine
	gen      *generator.Generator
	profiles Awarder
	retry    *RetryCache
}

func NewService(store Storage, engine *grading.Engine, gen *generator.Generator, profiles Awarder) *Service {
	return &Service{
		store:    store,
		engine:   engine,
		gen:      gen,
		profiles: profiles,
		retry:    NewRetryCache(),
	}
}

// ── Catalog Access ──────────────────────────────────────

func (s *Service) GetPuzzle(puzzleID int64) (*models.Puzzle, error) {
	return s.store.GetPuzzle(puzzleID)
}

func (s *Service) ListPuzzles(category *models.Category, level *models.Level) ([]models.Puzzle, error) {
	return s.store.ListPuzzles(category, level)
}

// GetPuzzleDetail returns a puzzle together with the caller's
// existing submission for it, if any, so the client can show the
// prior attempt alongside the puzzle.
func (s *Service) GetPuzzleDetail(userID, puzzleID int64) (*models.PuzzleDetailResponse, error) {
	puzzle, err := s.store.GetPuzzle(puzzleID)
	if err != nil {
		return nil, err
	}
	sub, err := s.store.GetSubmission(userID, puzzleID)
	if err != nil {
		return nil, err
	}
	return &models.PuzzleDetailResponse{Puzzle: *puzzle, Submission: sub}, nil
}

// ── Submission ──────────────────────────────────────────

// Submit runs the full grading sequence for one attempt: validate
// the input against the puzzle type, grade, persist the ledger row,
// then apply profile points. A resubmission overwrites the user's
// existing row for the puzzle.
func (s *Service) Submit(ctx context.Context, userID, puzzleID int64, req models.SubmitRequest) (*models.SubmitResponse, error) {
	puzzle, err := s.store.GetPuzzle(puzzleID)
	if err != nil {
		return nil, err
	}

	if err := validateSubmitInput(puzzle, req); err != nil {
		return nil, err
	}

	sub := models.Submission{
		UserID:   userID,
		PuzzleID: puzzleID,
		Code:     req.Code,
		Answer:   req.Answer,
	}

	// Coding submissions are recorded as pending before the judge is
	// consulted; MCQ grading is synchronous and skips that state.
	if puzzle.PuzzleType == models.TypeCode {
		sub.Status = models.StatusPending
		if err := s.store.UpsertSubmission(&sub); err != nil {
			return nil, err
		}
	}

	verdict := s.engine.Grade(ctx, puzzle, req)

	sub.IsCorrect = verdict.IsCorrect
	sub.Status = verdict.Status
	sub.Feedback = verdict.Feedback
	if err := s.store.UpsertSubmission(&sub); err != nil {
		return nil, err
	}

	awarded := 0
	if verdict.IsCorrect {
		awarded, err = s.profiles.OnGraded(userID, puzzle, true)
		if err != nil {
			log.Printf("WARN: failed to apply points for user %d puzzle %d: %v", userID, puzzleID, err)
		}
	}

	// Preserve the typed code across failed attempts so a retry
	// starts from where the user left off.
	if puzzle.PuzzleType == models.TypeCode {
		switch verdict.Status {
		case models.StatusCompleted:
			s.retry.Clear(userID, puzzleID)
		default:
			s.retry.Put(userID, puzzleID, req.Code)
		}
	}

	message := verdict.Feedback
	if awarded > 0 {
		message = fmt.Sprintf("Correct! You earned %d points!", awarded)
	}

	return &models.SubmitResponse{
		Submission:    sub,
		PointsAwarded: awarded,
		Message:       message,
	}, nil
}

func validateSubmitInput(puzzle *models.Puzzle, req models.SubmitRequest) error {
	switch puzzle.PuzzleType {
	case models.TypeMCQ:
		if req.Answer == "" {
			return &ValidationError{Reason: "answer is required for multiple-choice puzzles"}
		}
		if !puzzle.HasOption(req.Answer) {
			return &ValidationError{Reason: fmt.Sprintf("answer %q is not one of the puzzle's options", req.Answer)}
		}
	case models.TypeCode:
		if strings.TrimSpace(req.Code) == "" {
			return &ValidationError{Reason: "code is required for coding puzzles"}
		}
	}
	return nil
}

// GetRetryCode returns the code preserved from the user's last
// failed or errored attempt at a puzzle ("" when none).
func (s *Service) GetRetryCode(userID, puzzleID int64) string {
	return s.retry.Get(userID, puzzleID)
}

// ── Generation ──────────────────────────────────────────

// GenerateBatch creates up to req.Count new puzzles for a category
// and level. Each LLM call that fails to parse counts as one of the
// bounded attempts; puzzles created in earlier attempts survive
// later failures. Candidates whose title already exists — in the
// catalog or earlier in this batch — are skipped silently.
func (s *Service) GenerateBatch(ctx context.Context, req models.GeneratePuzzlesRequest) (*models.GeneratePuzzlesResponse, error) {
	titles, err := s.store.ListTitles()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(titles))
	for _, t := range titles {
		seen[t] = true
	}

	puzzleType := models.TypeMCQ
	if req.Level != models.LevelBeginner {
		puzzleType = models.TypeCode
	}

	var created []string
	attempts := 0

	for attempts < generationRetries && len(created) < req.Count {
		attempts++

		candidates, err := s.gen.GeneratePuzzles(ctx, req.Category, req.Level, req.Count-len(created))
		if err != nil {
			log.Printf("WARN: generation attempt %d failed: %v", attempts, err)
			continue
		}

		for i := range candidates {
			if len(created) >= req.Count {
				break
			}
			c := &candidates[i]

			if err := generator.ValidateCandidate(c, puzzleType); err != nil {
				log.Printf("WARN: skipping invalid candidate %q: %v", c.Title, err)
				continue
			}
			if seen[c.Title] {
				continue
			}

			puzzle := candidateToPuzzle(c, req.Category, req.Level)
			if err := s.store.CreatePuzzle(puzzle); err != nil {
				if IsDuplicateTitle(err) {
					// Lost a race with a concurrent insert — same
					// outcome as the dedup set.
					seen[c.Title] = true
					continue
				}
				log.Printf("WARN: failed to save generated puzzle %q: %v", c.Title, err)
				continue
			}

			seen[c.Title] = true
			created = append(created, c.Title)
		}
	}

	if len(created) == 0 {
		return nil, &GenerationFailure{Attempts: attempts}
	}

	message := fmt.Sprintf("Created %d puzzles", len(created))
	if len(created) < req.Count {
		message = fmt.Sprintf("Partial success: created %d of %d requested puzzles", len(created), req.Count)
	}

	return &models.GeneratePuzzlesResponse{
		CreatedCount:  len(created),
		CreatedTitles: created,
		Attempts:      attempts,
		Message:       message,
	}, nil
}

func candidateToPuzzle(c *generator.GeneratedPuzzle, category models.Category, level models.Level) *models.Puzzle {
	p := &models.Puzzle{
		Title:       c.Title,
		Description: c.Description,
		Category:    category,
		Level:       level,
		StarterCode: c.StarterCode,
	}
	if level == models.LevelBeginner {
		p.GradingMaterial = models.GradingMaterial{Options: c.Options}
		p.Solution = c.CorrectAnswer
	} else {
		p.GradingMaterial = models.GradingMaterial{TestCases: c.TestCases}
	}
	p.Normalize()
	return p
}

// ── Editing ─────────────────────────────────────────────

// EditPuzzle applies a manual field edit, or an LLM-assisted rewrite
// when the request sets regenerate. Either path re-normalizes the
// puzzle so a level change reclassifies its type.
func (s *Service) EditPuzzle(ctx context.Context, puzzleID int64, req models.EditPuzzleRequest) (*models.Puzzle, error) {
	puzzle, err := s.store.GetPuzzle(puzzleID)
	if err != nil {
		return nil, err
	}

	if req.Regenerate {
		candidate, err := s.gen.RegeneratePuzzle(ctx, puzzle)
		if err != nil {
			return nil, fmt.Errorf("regenerate: %w", err)
		}
		applyCandidate(puzzle, candidate)
	} else {
		applyEdit(puzzle, req)
	}

	if err := validatePuzzle(puzzle); err != nil {
		return nil, err
	}

	puzzle.Normalize()
	if err := s.store.UpdatePuzzle(puzzle); err != nil {
		if IsDuplicateTitle(err) {
			return nil, &ValidationError{Reason: fmt.Sprintf("a puzzle titled %q already exists", puzzle.Title)}
		}
		return nil, err
	}
	return puzzle, nil
}

func applyCandidate(p *models.Puzzle, c *generator.GeneratedPuzzle) {
	p.Title = c.Title
	p.Description = c.Description
	if p.PuzzleType == models.TypeMCQ {
		p.GradingMaterial = models.GradingMaterial{Options: c.Options}
		p.Solution = c.CorrectAnswer
	} else {
		p.GradingMaterial = models.GradingMaterial{TestCases: c.TestCases}
		if c.StarterCode != "" {
			p.StarterCode = c.StarterCode
		}
	}
}

func applyEdit(p *models.Puzzle, req models.EditPuzzleRequest) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Level != nil {
		p.Level = *req.Level
		// Canonical points follow the new level unless the edit also
		// sets points explicitly.
		if req.Points == nil {
			p.Points = models.PointsForLevel(*req.Level)
		}
	}
	if req.Points != nil {
		p.Points = *req.Points
	}
	if req.GradingMaterial != nil {
		p.GradingMaterial = *req.GradingMaterial
	}
	if req.Solution != nil {
		p.Solution = *req.Solution
	}
	if req.StarterCode != nil {
		p.StarterCode = *req.StarterCode
	}
}

func validatePuzzle(p *models.Puzzle) error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Reason: "title must not be empty"}
	}
	if strings.TrimSpace(p.Description) == "" {
		return &ValidationError{Reason: "description must not be empty"}
	}
	if !models.ValidCategories[p.Category] {
		return &ValidationError{Reason: fmt.Sprintf("invalid category %q", p.Category)}
	}
	if !models.ValidLevels[p.Level] {
		return &ValidationError{Reason: fmt.Sprintf("invalid level %q", p.Level)}
	}
	if p.Points < 0 {
		return &ValidationError{Reason: "points must be positive"}
	}
	if p.Level == models.LevelBeginner && p.Solution != "" && !p.HasOption(p.Solution) {
		return &ValidationError{Reason: fmt.Sprintf("solution %q is not one of the puzzle's options", p.Solution)}
	}
	return nil
}

// DeletePuzzle removes a puzzle permanently; dependent submissions
// cascade. Points already earned from it are not revoked.
func (s *Service) DeletePuzzle(puzzleID int64) error {
	return s.store.DeletePuzzle(puzzleID)
}
