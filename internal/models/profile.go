package models

import "time"

// UserProfile aggregates a user's standing. total_points and
// puzzles_solved must always be reconstructable as the sum/count over
// the user's solved set, which is append-only: once a puzzle is
// solved it stays solved regardless of later resubmissions.
type UserProfile struct {
	UserID        int64     `json:"user_id"`
	TotalPoints   int       `json:"total_points"`
	PuzzlesSolved int       `json:"puzzles_solved"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ProfileResponse struct {
	TotalPoints     int          `json:"total_points"`
	PuzzlesSolved   int          `json:"puzzles_solved"`
	SolvedPuzzleIDs []int64      `json:"solved_puzzle_ids"`
	Submissions     []Submission `json:"submissions"`
}

type LeaderboardEntry struct {
	UserID        int64  `json:"user_id"`
	Name          string `json:"name"`
	TotalPoints   int    `json:"total_points"`
	PuzzlesSolved int    `json:"puzzles_solved"`
	Rank          int    `json:"rank"`
}
