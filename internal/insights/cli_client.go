package insights

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/algo-prep/backend/internal/models"
)

// CLIClient shells out to the claude CLI for local dev labeling. Runs on
// your existing Claude plan, so no API key is needed.
type CLIClient struct {
	cliPath string
}

func NewCLIClient(cliPath string) *CLIClient {
	return &CLIClient{cliPath: cliPath}
}

func (c *CLIClient) Label(ctx context.Context, questionID string, topicSet []string, status models.SubmissionStatus, errorMessage string) (string, error) {
	cmd := exec.CommandContext(ctx,
		c.cliPath,
		"--print",
		"--output-format", "text",
		"--system-prompt", LabelSystemPrompt(),
		"--max-turns", "1",
	)

	cmd.Stdin = strings.NewReader(BuildLabelPrompt(questionID, topicSet, status, errorMessage))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("claude CLI error: %w\nstderr: %s", err, stderr.String())
	}

	label, ok := CleanLabel(stdout.String())
	if !ok {
		return FallbackLabel(status), nil
	}
	return label, nil
}
