package insights

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/algo-prep/backend/internal/models"
)

// Client names the likely mistake behind a failed attempt. Labels are
// short kebab-case phrases like "off-by-one" or "missing-null-check".
type Client interface {
	Label(ctx context.Context, questionID string, topicSet []string, status models.SubmissionStatus, errorMessage string) (string, error)
}

// NewClient picks the labeler from INSIGHTS_PROVIDER: "api" uses the
// Anthropic API, "cli" shells out to the claude CLI, anything else (and
// the default) answers from local heuristics.
func NewClient() Client {
	switch os.Getenv("INSIGHTS_PROVIDER") {
	case "api":
		model := os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		log.Println("Insights labeler using Anthropic API:", model)
		return NewAPIClient(model)
	case "cli":
		cliPath := os.Getenv("CLAUDE_CLI_PATH")
		if cliPath == "" {
			cliPath = "claude"
		}
		log.Println("Insights labeler using Claude CLI (local plan)")
		return NewCLIClient(cliPath)
	default:
		log.Println("Insights labeler using local heuristics")
		return NewMockClient()
	}
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

func (c *APIClient) Label(ctx context.Context, questionID string, topicSet []string, status models.SubmissionStatus, errorMessage string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   32,
		Temperature: param.NewOpt(0.0),
		System: []anthropic.TextBlockParam{
			{Text: LabelSystemPrompt()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildLabelPrompt(questionID, topicSet, status, errorMessage))),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	label, ok := CleanLabel(responseText)
	if !ok {
		return FallbackLabel(status), nil
	}
	return label, nil
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
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

// MockClient labels from the verdict and error text alone. Deterministic,
// good enough for development and tests.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Label(ctx context.Context, questionID string, topicSet []string, status models.SubmissionStatus, errorMessage string) (string, error) {
	msg := strings.ToLower(errorMessage)
	switch {
	case strings.Contains(msg, "index") && strings.Contains(msg, "range"):
		return "index-out-of-range", nil
	case strings.Contains(msg, "recursion"):
		return "unbounded-recursion", nil
	case strings.Contains(msg, "nil") || strings.Contains(msg, "none"):
		return "missing-null-check", nil
	case strings.Contains(msg, "overflow"):
		return "integer-overflow", nil
	case strings.Contains(msg, "key"):
		return "missing-key-check", nil
	}
	return FallbackLabel(status), nil
}
