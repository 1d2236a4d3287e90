package profile

import (
	"database/sql"
	"fmt"

	"github.com/python-puzzle/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateProfileTx inserts the profile row inside the caller's
// transaction. Registration creates user and profile as one unit.
func CreateProfileTx(tx *sql.Tx, userID int64) error {
	_, err := tx.Exec(
		`INSERT INTO user_profiles (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *Store) EnsureProfile(userID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO user_profiles (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

// AwardIfUnsolved adds the puzzle to the user's solved set and
// applies its points, all in one transaction. Returns false without
// touching the counters when the puzzle was already solved — repeat
// correct submissions never double-award.
func (s *Store) AwardIfUnsolved(userID, puzzleID int64, points int) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO solved_puzzles (user_id, puzzle_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, puzzle_id) DO NOTHING`,
		userID, puzzleID,
	)
	if err != nil {
		return false, fmt.Errorf("insert solved puzzle: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if inserted == 0 {
		return false, nil
	}

	_, err = tx.Exec(
		`UPDATE user_profiles SET
		    total_points = total_points + $2,
		    puzzles_solved = puzzles_solved + 1,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, points,
	)
	if err != nil {
		return false, fmt.Errorf("apply points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit award: %w", err)
	}
	return true, nil
}

func (s *Store) GetProfile(userID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRow(
		`SELECT user_id, total_points, puzzles_solved, updated_at
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.TotalPoints, &p.PuzzlesSolved, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (s *Store) GetSolvedPuzzleIDs(userID int64) ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT puzzle_id FROM solved_puzzles WHERE user_id = $1 ORDER BY solved_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get solved puzzles: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan solved puzzle: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Recompute rebuilds the profile counters from the solved set: the
// sum of points over every puzzle the user has ever solved. The
// solved set is append-only, so an incorrect resubmission that
// overwrites a correct ledger row never lowers the totals, and a
// recompute always lands on the same numbers the incremental award
// path produced.
func (s *Store) Recompute(userID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRow(
		`UPDATE user_profiles SET
		    total_points = agg.points,
		    puzzles_solved = agg.solved,
		    updated_at = NOW()
		 FROM (
		    SELECT COALESCE(SUM(pz.points), 0) AS points, COUNT(pz.id) AS solved
		    FROM solved_puzzles sp
		    JOIN puzzles pz ON pz.id = sp.puzzle_id
		    WHERE sp.user_id = $1
		 ) agg
		 WHERE user_id = $1
		 RETURNING user_id, total_points, puzzles_solved, updated_at`,
		userID,
	).Scan(&p.UserID, &p.TotalPoints, &p.PuzzlesSolved, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("recompute profile: %w", err)
	}
	return &p, nil
}

func (s *Store) ListSubmissions(userID int64) ([]models.Submission, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, puzzle_id, code, answer, is_correct, status, feedback, submitted_at
		 FROM submissions WHERE user_id = $1 ORDER BY submitted_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.PuzzleID, &sub.Code, &sub.Answer,
			&sub.IsCorrect, &sub.Status, &sub.Feedback, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Store) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, p.total_points, p.puzzles_solved,
		        ROW_NUMBER() OVER (ORDER BY p.total_points DESC, p.updated_at ASC) as rank
		 FROM user_profiles p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.total_points DESC, p.updated_at ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.TotalPoints, &e.PuzzlesSolved, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
