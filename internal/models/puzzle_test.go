package models

import "testing"

func TestNormalize_DerivesTypeFromLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  PuzzleType
	}{
		{LevelBeginner, TypeMCQ},
		{LevelIntermediate, TypeCode},
		{LevelExpert, TypeCode},
	}

	for _, tt := range tests {
		p := Puzzle{Level: tt.level}
		p.Normalize()
		if p.PuzzleType != tt.want {
			t.Errorf("level %s: expected type %s, got %s", tt.level, tt.want, p.PuzzleType)
		}
	}
}

func TestNormalize_ReclassifiesOnLevelChange(t *testing.T) {
	p := Puzzle{Level: LevelBeginner}
	p.Normalize()
	if p.PuzzleType != TypeMCQ {
		t.Fatalf("expected mcq, got %s", p.PuzzleType)
	}

	p.Level = LevelExpert
	p.Normalize()
	if p.PuzzleType != TypeCode {
		t.Errorf("expected type to follow level change, got %s", p.PuzzleType)
	}
}

func TestNormalize_FillsCanonicalPoints(t *testing.T) {
	tests := []struct {
		level Level
		want  int
	}{
		{LevelBeginner, 10},
		{LevelIntermediate, 20},
		{LevelExpert, 30},
	}

	for _, tt := range tests {
		p := Puzzle{Level: tt.level}
		p.Normalize()
		if p.Points != tt.want {
			t.Errorf("level %s: expected %d points, got %d", tt.level, tt.want, p.Points)
		}
	}
}

func TestNormalize_KeepsExplicitPoints(t *testing.T) {
	p := Puzzle{Level: LevelBeginner, Points: 42}
	p.Normalize()
	if p.Points != 42 {
		t.Errorf("explicit points overwritten: got %d", p.Points)
	}
}

func TestHasOption(t *testing.T) {
	p := Puzzle{GradingMaterial: GradingMaterial{
		Options: map[string]string{"A": "yes", "B": "no"},
	}}

	if !p.HasOption("A") {
		t.Error("expected A to be an option")
	}
	if p.HasOption("Z") {
		t.Error("Z must not be an option")
	}

	empty := Puzzle{}
	if empty.HasOption("A") {
		t.Error("a puzzle without options has no option keys")
	}
}

func TestCategoryDisplayName(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryPython, "Python"},
		{CategoryAI, "AI/ML"},
		{CategoryDataScience, "Data Science"},
		{Category("XX"), "XX"},
	}

	for _, tt := range tests {
		if got := tt.category.DisplayName(); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.category, tt.want, got)
		}
	}
}

func TestLevelRank_OrdersBeginnerFirst(t *testing.T) {
	if !(LevelBeginner.Rank() < LevelIntermediate.Rank() && LevelIntermediate.Rank() < LevelExpert.Rank()) {
		t.Error("level ranks out of order")
	}
}
