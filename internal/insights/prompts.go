package insights

import (
	"fmt"
	"strings"

	"github.com/algo-prep/backend/internal/models"
)

func LabelSystemPrompt() string {
	return `You are a coding tutor who names the most likely mistake behind a failed programming submission.

You reply with a single short label in lowercase kebab-case, one to four words. Examples of good labels:

off-by-one, missing-null-check, wrong-data-structure, inefficient-algorithm, unhandled-empty-input, integer-overflow, incorrect-base-case, wrong-loop-bound, missing-edge-case, greedy-when-dp-needed

Reply with the label only. No explanation, no punctuation beyond hyphens, no quotes.`
}

// BuildLabelPrompt describes one failed attempt for the labeler.
func BuildLabelPrompt(questionID string, topicSet []string, status models.SubmissionStatus, errorMessage string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", questionID)
	if len(topicSet) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(topicSet, ", "))
	}
	fmt.Fprintf(&b, "Verdict: %s\n", status)
	if errorMessage != "" {
		fmt.Fprintf(&b, "Error output:\n%s\n", truncate(errorMessage, 2000))
	}
	b.WriteString("\nName the most likely mistake.")
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
