package profile

import (
	"testing"

	"github.com/python-puzzle/backend/internal/models"
)

// fakeStorage mirrors the SQL store's semantics in memory: profiles
// keyed by user, an append-only solved set, recompute derived from
// the solved set.
type fakeStorage struct {
	profiles map[int64]*models.UserProfile
	solved   map[[2]int64]int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		profiles: make(map[int64]*models.UserProfile),
		solved:   make(map[[2]int64]int),
	}
}

func (f *fakeStorage) EnsureProfile(userID int64) error {
	if _, ok := f.profiles[userID]; !ok {
		f.profiles[userID] = &models.UserProfile{UserID: userID}
	}
	return nil
}

func (f *fakeStorage) AwardIfUnsolved(userID, puzzleID int64, points int) (bool, error) {
	key := [2]int64{userID, puzzleID}
	if _, ok := f.solved[key]; ok {
		return false, nil
	}
	f.solved[key] = points
	p := f.profiles[userID]
	p.TotalPoints += points
	p.PuzzlesSolved++
	return true, nil
}

func (f *fakeStorage) GetProfile(userID int64) (*models.UserProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakeStorage) GetSolvedPuzzleIDs(userID int64) ([]int64, error) {
	var ids []int64
	for key := range f.solved {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

func (f *fakeStorage) Recompute(userID int64) (*models.UserProfile, error) {
	p := f.profiles[userID]
	p.TotalPoints = 0
	p.PuzzlesSolved = 0
	for key, points := range f.solved {
		if key[0] == userID {
			p.TotalPoints += points
			p.PuzzlesSolved++
		}
	}
	return p, nil
}

func (f *fakeStorage) ListSubmissions(userID int64) ([]models.Submission, error) {
	return nil, nil
}

func (f *fakeStorage) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}

func beginnerPuzzle(id int64) *models.Puzzle {
	p := &models.Puzzle{ID: id, Level: models.LevelBeginner}
	p.Normalize()
	return p
}

func expertPuzzle(id int64) *models.Puzzle {
	p := &models.Puzzle{ID: id, Level: models.LevelExpert}
	p.Normalize()
	return p
}

func TestOnGraded_AwardsOncePerPuzzle(t *testing.T) {
	svc := NewService(newFakeStorage())
	puzzle := beginnerPuzzle(1)

	first, err := svc.OnGraded(7, puzzle, true)
	if err != nil {
		t.Fatalf("first award: %v", err)
	}
	if first != 10 {
		t.Errorf("expected 10 points on first solve, got %d", first)
	}

	second, err := svc.OnGraded(7, puzzle, true)
	if err != nil {
		t.Fatalf("second award: %v", err)
	}
	if second != 0 {
		t.Errorf("repeat correct verdict must award nothing, got %d", second)
	}
}

func TestOnGraded_IncorrectNeverAwards(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store)

	awarded, err := svc.OnGraded(7, expertPuzzle(1), false)
	if err != nil {
		t.Fatalf("incorrect verdict: %v", err)
	}
	if awarded != 0 {
		t.Errorf("incorrect verdict must award nothing, got %d", awarded)
	}
	if len(store.solved) != 0 {
		t.Error("incorrect verdict must not enter the solved set")
	}
}

func TestOnGraded_DistinctPuzzlesAccumulate(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store)

	if _, err := svc.OnGraded(7, beginnerPuzzle(1), true); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.OnGraded(7, expertPuzzle(2), true); err != nil {
		t.Fatal(err)
	}

	p, err := store.GetProfile(7)
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalPoints != 40 || p.PuzzlesSolved != 2 {
		t.Errorf("expected 40 points over 2 puzzles, got %d over %d", p.TotalPoints, p.PuzzlesSolved)
	}
}

func TestRecompute_MatchesIncrementalTotals(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store)

	// A mixed grading history: solves, repeats, and incorrect
	// verdicts interleaved across puzzles.
	events := []struct {
		puzzle    *models.Puzzle
		isCorrect bool
	}{
		{beginnerPuzzle(1), true},
		{beginnerPuzzle(1), false},
		{expertPuzzle(2), false},
		{expertPuzzle(2), true},
		{beginnerPuzzle(1), true},
		{expertPuzzle(3), true},
		{expertPuzzle(3), true},
	}
	for i, ev := range events {
		if _, err := svc.OnGraded(7, ev.puzzle, ev.isCorrect); err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
	}

	incremental, err := store.GetProfile(7)
	if err != nil {
		t.Fatal(err)
	}
	wantPoints, wantSolved := incremental.TotalPoints, incremental.PuzzlesSolved

	rebuilt, err := svc.Recompute(7)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if rebuilt.TotalPoints != wantPoints || rebuilt.PuzzlesSolved != wantSolved {
		t.Errorf("recompute diverged from incremental totals: got %d/%d, want %d/%d",
			rebuilt.TotalPoints, rebuilt.PuzzlesSolved, wantPoints, wantSolved)
	}
	if rebuilt.TotalPoints != 70 || rebuilt.PuzzlesSolved != 3 {
		t.Errorf("expected 70 points over 3 puzzles, got %d over %d", rebuilt.TotalPoints, rebuilt.PuzzlesSolved)
	}
}

func TestGetProfile_EmptySlicesNotNil(t *testing.T) {
	svc := NewService(newFakeStorage())

	resp, err := svc.GetProfile(7)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if resp.SolvedPuzzleIDs == nil || resp.Submissions == nil {
		t.Error("profile response slices must be empty, not null")
	}
}
