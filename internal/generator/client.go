package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// LLMClient is the text-generation capability shared by the puzzle
// generator and the coding judge. Implementations must be safe for
// concurrent use; one client is constructed at process start.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content. No structure is
// guaranteed — callers must strip fences and parse defensively.
type LLMResponse struct {
	Content string
}

// callTimeout bounds every LLM call. A timeout surfaces as an error
// from Generate and is handled like any other judge/generator outage.
const callTimeout = 60 * time.Second

// NewClientFromEnv builds the process-wide LLM client. Returns the
// client and the model name it will use.
func NewClientFromEnv() (LLMClient, string) {
	if os.Getenv("MOCK_GENERATOR") == "true" {
		log.Println("LLM client using mock data")
		return NewMockClient(), "mock"
	}

	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-sonnet-4-5-20250929"
	}
	log.Println("LLM client using Anthropic API:", model)
	return NewAPIClient(model), model
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.8),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{Content: responseText}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)

		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{Content: buildMockJSON()}, nil
}

func buildMockJSON() string {
	topics := []string{
		"string reversal", "list comprehension", "dictionary merging",
		"generator expressions", "recursion depth", "slice semantics",
	}

	puzzles := "["
	for i, topic := range topics {
		if i > 0 {
			puzzles += ","
		}
		puzzles += fmt.Sprintf(`{"title":"[Mock] Puzzle about %s","description":"[Mock] Given the snippet below, determine what Python prints. The snippet exercises %s and a common edge case around it.","options":{"A":"The first plausible output","B":"The second plausible output","C":"The third plausible output","D":"A TypeError is raised"},"correct_answer":"B"}`,
			topic, topic)
	}
	puzzles += "]"

	return puzzles
}
