package learner

import (
	"sort"
	"time"

	"github.com/algo-prep/backend/internal/models"
)

// Recalculate rebuilds a learner state from the full submission history.
// Events replay in timestamp order through the same rules the incremental
// path applies, so the same history always yields the same state; now is
// used only to stamp the result.
func Recalculate(events []models.SubmissionEvent, now time.Time) *models.LearnerState {
	state := models.DefaultLearnerState()
	state.Mastery = MasteryFromHistory(events)

	for _, ev := range sortedByTime(events) {
		if !ev.Success && ev.Pattern != "" {
			for _, topic := range ev.Topics {
				state.CommonErrors = AddErrorPattern(state.CommonErrors, topic, ev.Pattern, ev.QuestionID, ev.Timestamp)
			}
		}
		state.Reviews = ScheduleReview(state.Reviews, ev.QuestionID, ev.Topics, ev.Success, ev.Timestamp, qualityArgs(ev)...)
		state.Streak, state.LastSeen = UpdateStreak(state.Streak, state.LastSeen, ev.Timestamp)
	}

	state.Updated = now
	return &state
}

// sortedByTime orders events oldest first without touching the input.
func sortedByTime(events []models.SubmissionEvent) []models.SubmissionEvent {
	ordered := make([]models.SubmissionEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})
	return ordered
}

func qualityArgs(ev models.SubmissionEvent) []int {
	if ev.Quality == nil {
		return nil
	}
	return []int{*ev.Quality}
}
