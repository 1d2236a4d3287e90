package profile

import (
	"fmt"

	"github.com/python-puzzle/backend/internal/models"
)

// Storage is the persistence surface the service depends on.
// *Store satisfies it; tests substitute an in-memory fake.
type Storage interface {
	EnsureProfile(userID int64) error
	AwardIfUnsolved(userID, puzzleID int64, points int) (bool, error)
	GetProfile(userID int64) (*models.UserProfile, error)
	GetSolvedPuzzleIDs(userID int64) ([]int64, error)
	Recompute(userID int64) (*models.UserProfile, error)
	ListSubmissions(userID int64) ([]models.Submission, error)
	GetLeaderboard(limit int) ([]models.LeaderboardEntry, error)
}

type Service struct {
	store Storage
}

func NewService(store Storage) *Service {
	return &Service{store: store}
}

// OnGraded applies the profile side of a grading event, after the
// submission row is durably updated. Awards the puzzle's points only
// on the first unsolved→solved transition; repeat-correct submissions
// are no-ops, and points are never revoked by a later incorrect
// resubmission. Returns the points awarded (0 if none).
func (s *Service) OnGraded(userID int64, puzzle *models.Puzzle, isCorrect bool) (int, error) {
	if !isCorrect {
		return 0, nil
	}

	if err := s.store.EnsureProfile(userID); err != nil {
		return 0, err
	}

	awarded, err := s.store.AwardIfUnsolved(userID, puzzle.ID, puzzle.Points)
	if err != nil {
		return 0, fmt.Errorf("award points: %w", err)
	}
	if !awarded {
		return 0, nil
	}
	return puzzle.Points, nil
}

func (s *Service) GetProfile(userID int64) (*models.ProfileResponse, error) {
	if err := s.store.EnsureProfile(userID); err != nil {
		return nil, err
	}

	p, err := s.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	solved, err := s.store.GetSolvedPuzzleIDs(userID)
	if err != nil {
		return nil, err
	}
	if solved == nil {
		solved = []int64{}
	}

	subs, err := s.store.ListSubmissions(userID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.Submission{}
	}

	return &models.ProfileResponse{
		TotalPoints:     p.TotalPoints,
		PuzzlesSolved:   p.PuzzlesSolved,
		SolvedPuzzleIDs: solved,
		Submissions:     subs,
	}, nil
}

// Recompute rebuilds a user's counters from their solved set.
func (s *Service) Recompute(userID int64) (*models.UserProfile, error) {
	if err := s.store.EnsureProfile(userID); err != nil {
		return nil, err
	}
	return s.store.Recompute(userID)
}

func (s *Service) GetLeaderboard() ([]models.LeaderboardEntry, error) {
	return s.store.GetLeaderboard(10)
}
