package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/python-puzzle/backend/internal/generator"
)

var (
	// ErrJudgeUnavailable means the judge call itself failed (network,
	// timeout, empty response).
	ErrJudgeUnavailable = errors.New("judge unavailable")
	// ErrJudgeMalformed means the judge responded but the content
	// could not be parsed into a verdict.
	ErrJudgeMalformed = errors.New("judge returned malformed response")
)

// Judge evaluates a coding submission against a problem description.
// The verdict is an LLM opinion — submitted code is never executed.
type Judge interface {
	Evaluate(ctx context.Context, problem string, code string) (*JudgeVerdict, error)
}

// JudgeVerdict is the structured outcome of a judgment call.
type JudgeVerdict struct {
	IsValid bool     `json:"is_valid"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

const judgeSystemPrompt = `You are a strict but fair programming instructor reviewing a student's Python solution. Judge whether the code correctly solves the stated problem. Reason through the problem requirements and the code before answering. Respond with JSON only.`

// LLMJudge implements Judge on the shared LLM client.
type LLMJudge struct {
	llm generator.LLMClient
}

func NewLLMJudge(llm generator.LLMClient) *LLMJudge {
	return &LLMJudge{llm: llm}
}

func (j *LLMJudge) Evaluate(ctx context.Context, problem string, code string) (*JudgeVerdict, error) {
	resp, err := j.llm.Generate(ctx, judgeSystemPrompt, buildJudgePrompt(problem, code))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJudgeUnavailable, err)
	}

	cleaned := generator.StripCodeFences(resp.Content)

	// is_valid and message are required; a pointer catches their
	// absence as distinct from a false/empty value.
	var raw struct {
		IsValid *bool    `json:"is_valid"`
		Message *string  `json:"message"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJudgeMalformed, err)
	}
	if raw.IsValid == nil || raw.Message == nil {
		return nil, fmt.Errorf("%w: missing is_valid or message field", ErrJudgeMalformed)
	}

	return &JudgeVerdict{
		IsValid: *raw.IsValid,
		Message: strings.TrimSpace(*raw.Message),
		Errors:  raw.Errors,
	}, nil
}

func buildJudgePrompt(problem string, code string) string {
	var sb strings.Builder

	sb.WriteString("Validate this Python code solution against the problem description.\n\n")
	sb.WriteString("PROBLEM:\n")
	sb.WriteString(problem)
	sb.WriteString("\n\nCODE:\n```python\n")
	sb.WriteString(code)
	sb.WriteString("\n```\n\n")
	sb.WriteString(`Respond with a JSON object only:
{
  "is_valid": true,
  "message": "Explanation of the verdict...",
  "errors": ["specific problems, if any"]
}`)

	return sb.String()
}
