package generator

import (
	"context"
	"fmt"

	"github.com/python-puzzle/backend/internal/models"
)

// Generator wraps the LLM client with puzzle-production methods.
type Generator struct {
	llm   LLMClient
	model string
}

func New(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GeneratePuzzles requests count puzzle candidates for the given
// category and level. Beginner levels produce MCQ candidates,
// everything else coding candidates, mirroring the catalog's
// level-to-type derivation.
func (g *Generator) GeneratePuzzles(ctx context.Context, category models.Category, level models.Level, count int) ([]GeneratedPuzzle, error) {
	var userPrompt string
	if level == models.LevelBeginner {
		userPrompt = BuildMCQPrompt(category, level, count)
	} else {
		userPrompt = BuildCodingPrompt(category, level, count)
	}

	resp, err := g.llm.Generate(ctx, generationSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate puzzles: %w", err)
	}

	puzzles, err := ParsePuzzles(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse generation response: %w", err)
	}

	return puzzles, nil
}

// RegeneratePuzzle asks the LLM for an improved rewrite of an
// existing puzzle. The caller decides which fields to apply.
func (g *Generator) RegeneratePuzzle(ctx context.Context, p *models.Puzzle) (*GeneratedPuzzle, error) {
	resp, err := g.llm.Generate(ctx, rewriteSystemPrompt, BuildRewritePrompt(p))
	if err != nil {
		return nil, fmt.Errorf("regenerate puzzle: %w", err)
	}

	candidates, err := ParsePuzzles(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse rewrite response: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("rewrite response contained no puzzle")
	}

	candidate := candidates[0]
	if err := ValidateCandidate(&candidate, p.PuzzleType); err != nil {
		return nil, err
	}

	return &candidate, nil
}
