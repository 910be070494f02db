package learner

import (
	"math"
	"sort"
	"time"

	"github.com/algo-prep/backend/internal/models"
)

// A topic needs attention below this mastery, or after this many days
// without practice.
const (
	reviewMasteryThreshold = 0.7
	staleDays              = 7
)

// DueReviews returns the review items due at or before now, most overdue
// first. Ties break on question id so the order is stable.
func DueReviews(state *models.LearnerState, now time.Time) []models.DueReview {
	due := []models.DueReview{}
	for _, item := range state.Reviews {
		if item.DueDate.After(now) {
			continue
		}
		due = append(due, models.DueReview{
			ReviewItem:  item,
			DaysOverdue: int(now.Sub(item.DueDate).Hours() / 24),
		})
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueDate.Equal(due[j].DueDate) {
			return due[i].DueDate.Before(due[j].DueDate)
		}
		return due[i].QuestionID < due[j].QuestionID
	})
	return due
}

// TopicStats aggregates one topic's view from the state and the learner's
// submission history. Nothing is mutated.
func TopicStats(state *models.LearnerState, topic string, events []models.SubmissionEvent, now time.Time) models.TopicStatistics {
	stats := models.TopicStatistics{
		Topic:        topic,
		MasteryLevel: state.Mastery[topic],
		CommonErrors: []models.ErrorPattern{},
	}
	stats.CommonErrors = append(stats.CommonErrors, state.CommonErrors[topic]...)

	solved := map[string]bool{}
	var last time.Time
	for _, ev := range events {
		if !containsTopic(ev.Topics, topic) {
			continue
		}
		stats.TotalAttempts++
		if ev.Success {
			solved[ev.QuestionID] = true
		}
		if ev.Timestamp.After(last) {
			last = ev.Timestamp
		}
	}
	stats.ProblemsSolved = len(solved)
	if stats.TotalAttempts > 0 {
		stats.SuccessRate = float64(stats.ProblemsSolved) / float64(stats.TotalAttempts)
	}
	if !last.IsZero() {
		stats.LastPracticed = &last
	}

	stats.NeedsReview = stats.MasteryLevel < reviewMasteryThreshold
	if stats.LastPracticed != nil && int(now.Sub(last).Hours()/24) > staleDays {
		stats.NeedsReview = true
	}
	return stats
}

// Summarize condenses a state into the dashboard view: practice breadth,
// average mastery, streak, due-review count, and the three strongest and
// weakest topics.
func Summarize(state *models.LearnerState, now time.Time) models.StateSummary {
	summary := models.StateSummary{
		TopicsPracticed:  len(state.Mastery),
		CurrentStreak:    state.Streak,
		ReviewsDue:       len(DueReviews(state, now)),
		StrongestTopics:  []models.TopicMastery{},
		NeedsImprovement: []models.TopicMastery{},
	}
	if len(state.Mastery) == 0 {
		return summary
	}

	ranked := make([]models.TopicMastery, 0, len(state.Mastery))
	var total float64
	for topic, score := range state.Mastery {
		ranked = append(ranked, models.TopicMastery{Topic: topic, Mastery: score})
		total += score
	}
	summary.AverageMastery = math.Round(total/float64(len(ranked))*100) / 100

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Mastery != ranked[j].Mastery {
			return ranked[i].Mastery > ranked[j].Mastery
		}
		return ranked[i].Topic < ranked[j].Topic
	})

	top := len(ranked)
	if top > 3 {
		top = 3
	}
	summary.StrongestTopics = append(summary.StrongestTopics, ranked[:top]...)

	weakest := ranked
	if len(weakest) > 3 {
		weakest = weakest[len(weakest)-3:]
	}
	for _, tm := range weakest {
		if tm.Mastery < reviewMasteryThreshold {
			summary.NeedsImprovement = append(summary.NeedsImprovement, tm)
		}
	}
	return summary
}

func containsTopic(topics []string, topic string) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}
