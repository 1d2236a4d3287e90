package puzzles

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/python-puzzle/backend/internal/models"
)

// ErrNotFound is returned when a referenced puzzle does not exist.
var ErrNotFound = errors.New("puzzle not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Catalog ─────────────────────────────────────────────

func (s *Store) CreatePuzzle(p *models.Puzzle) error {
	p.Normalize()

	material, err := json.Marshal(p.GradingMaterial)
	if err != nil {
		return fmt.Errorf("marshal grading material: %w", err)
	}

	err = s.db.QueryRow(
		`INSERT INTO puzzles (title, description, category, level, puzzle_type, points, grading_material, solution, starter_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		p.Title, p.Description, p.Category, p.Level, p.PuzzleType, p.Points,
		material, p.Solution, p.StarterCode,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create puzzle: %w", err)
	}
	return nil
}

// IsDuplicateTitle reports whether err is the unique-title violation.
func IsDuplicateTitle(err error) bool {
	return err != nil && strings.Contains(err.Error(), "puzzles_title_key")
}

func (s *Store) GetPuzzle(puzzleID int64) (*models.Puzzle, error) {
	var p models.Puzzle
	var material []byte
	err := s.db.QueryRow(
		`SELECT id, title, description, category, level, puzzle_type, points, grading_material, solution, starter_code, created_at
		 FROM puzzles WHERE id = $1`,
		puzzleID,
	).Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Level, &p.PuzzleType,
		&p.Points, &material, &p.Solution, &p.StarterCode, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get puzzle: %w", err)
	}

	if err := json.Unmarshal(material, &p.GradingMaterial); err != nil {
		return nil, fmt.Errorf("unmarshal grading material: %w", err)
	}
	return &p, nil
}

// ListPuzzles returns the catalog, optionally filtered, ordered by
// level (beginner first) then newest-first within each level.
func (s *Store) ListPuzzles(category *models.Category, level *models.Level) ([]models.Puzzle, error) {
	query := `SELECT id, title, description, category, level, puzzle_type, points, grading_material, solution, starter_code, created_at
		 FROM puzzles`
	var conds []string
	var args []interface{}

	if category != nil {
		args = append(args, *category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if level != nil {
		args = append(args, *level)
		conds = append(conds, fmt.Sprintf("level = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY CASE level
	              WHEN 'beginner' THEN 0
	              WHEN 'intermediate' THEN 1
	              ELSE 2
	           END, created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list puzzles: %w", err)
	}
	defer rows.Close()

	var puzzles []models.Puzzle
	for rows.Next() {
		var p models.Puzzle
		var material []byte
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Level,
			&p.PuzzleType, &p.Points, &material, &p.Solution, &p.StarterCode, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan puzzle: %w", err)
		}
		if err := json.Unmarshal(material, &p.GradingMaterial); err != nil {
			return nil, fmt.Errorf("unmarshal grading material: %w", err)
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, rows.Err()
}

func (s *Store) UpdatePuzzle(p *models.Puzzle) error {
	p.Normalize()

	material, err := json.Marshal(p.GradingMaterial)
	if err != nil {
		return fmt.Errorf("marshal grading material: %w", err)
	}

	res, err := s.db.Exec(
		`UPDATE puzzles SET title = $2, description = $3, category = $4, level = $5,
		    puzzle_type = $6, points = $7, grading_material = $8, solution = $9, starter_code = $10
		 WHERE id = $1`,
		p.ID, p.Title, p.Description, p.Category, p.Level, p.PuzzleType,
		p.Points, material, p.Solution, p.StarterCode,
	)
	if err != nil {
		return fmt.Errorf("update puzzle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePuzzle removes a puzzle permanently. Dependent submissions
// and solved-set rows cascade at the database level.
func (s *Store) DeletePuzzle(puzzleID int64) error {
	res, err := s.db.Exec(`DELETE FROM puzzles WHERE id = $1`, puzzleID)
	if err != nil {
		return fmt.Errorf("delete puzzle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTitles returns every catalog title, seeding the generator's
// dedup set.
func (s *Store) ListTitles() ([]string, error) {
	rows, err := s.db.Query(`SELECT title FROM puzzles`)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// ── Submission Ledger ───────────────────────────────────

// UpsertSubmission writes the single ledger row for the (user,
// puzzle) pair. The UNIQUE constraint makes concurrent writers
// serialize; a resubmission overwrites answer/code/verdict in place
// and keeps the original submitted_at.
func (s *Store) UpsertSubmission(sub *models.Submission) error {
	err := s.db.QueryRow(
		`INSERT INTO submissions (user_id, puzzle_id, code, answer, is_correct, status, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, puzzle_id) DO UPDATE SET
		    code = EXCLUDED.code,
		    answer = EXCLUDED.answer,
		    is_correct = EXCLUDED.is_correct,
		    status = EXCLUDED.status,
		    feedback = EXCLUDED.feedback
		 RETURNING id, submitted_at`,
		sub.UserID, sub.PuzzleID, sub.Code, sub.Answer, sub.IsCorrect, sub.Status, sub.Feedback,
	).Scan(&sub.ID, &sub.SubmittedAt)
	if err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

// GetSubmission returns the user's submission for a puzzle, or nil
// when no attempt exists yet.
func (s *Store) GetSubmission(userID, puzzleID int64) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.QueryRow(
		`SELECT id, user_id, puzzle_id, code, answer, is_correct, status, feedback, submitted_at
		 FROM submissions WHERE user_id = $1 AND puzzle_id = $2`,
		userID, puzzleID,
	).Scan(&sub.ID, &sub.UserID, &sub.PuzzleID, &sub.Code, &sub.Answer,
		&sub.IsCorrect, &sub.Status, &sub.Feedback, &sub.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &sub, nil
}
