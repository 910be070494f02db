package learner

import (
	"github.com/algo-prep/backend/internal/models"
)

// Mastery movement rates. A success closes a fixed fraction of the gap to
// 1.0, so gains shrink as mastery climbs; a failure removes a fixed
// fraction of what is there, so scores never go negative.
const (
	masteryGain = 0.1
	masteryLoss = 0.15
)

// ApplyOutcome returns the mastery score after one attempt outcome.
// Results always stay within [0, 1].
func ApplyOutcome(mastery float64, success bool) float64 {
	if success {
		mastery += masteryGain * (1 - mastery)
	} else {
		mastery -= masteryLoss * mastery
	}
	return clamp01(mastery)
}

// UpdateMastery applies one outcome to every topic the attempt touched.
// The input map is left untouched; topics without a score start from 0.
func UpdateMastery(mastery map[string]float64, affected []string, success bool) map[string]float64 {
	updated := make(map[string]float64, len(mastery)+len(affected))
	for topic, score := range mastery {
		updated[topic] = score
	}
	for _, topic := range affected {
		updated[topic] = ApplyOutcome(updated[topic], success)
	}
	return updated
}

// MasteryFromHistory folds a full submission history into per-topic
// scores, oldest event first. Each event applies the same movement rule as
// the incremental path, so an older outcome's influence decays
// geometrically with every later attempt on the topic; the result is not a
// running average, and it matches what incremental updates over the same
// history produce.
func MasteryFromHistory(events []models.SubmissionEvent) map[string]float64 {
	mastery := make(map[string]float64)
	for _, ev := range sortedByTime(events) {
		for _, topic := range ev.Topics {
			mastery[topic] = ApplyOutcome(mastery[topic], ev.Success)
		}
	}
	return mastery
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
