package learner

import (
	"time"

	"github.com/algo-prep/backend/internal/models"
)

// maxPatternsPerTopic bounds the error history kept per topic.
const maxPatternsPerTopic = 3

// AddErrorPattern prepends a labeled mistake to the topic's error history,
// evicting the oldest entry past capacity. Repeated labels are not
// deduplicated. The input map is left untouched.
func AddErrorPattern(commonErrors map[string][]models.ErrorPattern, topic, pattern, questionID string, ts time.Time) map[string][]models.ErrorPattern {
	updated := make(map[string][]models.ErrorPattern, len(commonErrors)+1)
	for t, patterns := range commonErrors {
		updated[t] = patterns
	}

	entry := models.ErrorPattern{
		Topic:      topic,
		Pattern:    pattern,
		QuestionID: questionID,
		Timestamp:  ts,
	}
	history := append([]models.ErrorPattern{entry}, updated[topic]...)
	if len(history) > maxPatternsPerTopic {
		history = history[:maxPatternsPerTopic]
	}
	updated[topic] = history
	return updated
}
