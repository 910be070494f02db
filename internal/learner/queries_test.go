package learner

import (
	"math"
	"testing"
	"time"

	"github.com/algo-prep/backend/internal/models"
)

func TestDueReviews_FiltersAndOrdersByOverdue(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	state := &models.LearnerState{
		Reviews: []models.ReviewItem{
			{QuestionID: "q1", DueDate: now.AddDate(0, 0, -1), IntervalDays: 1, EaseFactor: 2.5},
			{QuestionID: "q2", DueDate: now.AddDate(0, 0, 1), IntervalDays: 3, EaseFactor: 2.5},
			{QuestionID: "q3", DueDate: now.AddDate(0, 0, -5), IntervalDays: 1, EaseFactor: 2.5},
		},
	}

	due := DueReviews(state, now)
	if len(due) != 2 {
		t.Fatalf("len(due) = %d, want 2", len(due))
	}
	// Five days overdue ranks above one day overdue.
	if due[0].QuestionID != "q3" || due[1].QuestionID != "q1" {
		t.Errorf("order = [%s, %s], want [q3, q1]", due[0].QuestionID, due[1].QuestionID)
	}
	if due[0].DaysOverdue != 5 || due[1].DaysOverdue != 1 {
		t.Errorf("DaysOverdue = [%d, %d], want [5, 1]", due[0].DaysOverdue, due[1].DaysOverdue)
	}
}

func TestDueReviews_IncludesItemsDueExactlyNow(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	state := &models.LearnerState{
		Reviews: []models.ReviewItem{
			{QuestionID: "q1", DueDate: now, IntervalDays: 1, EaseFactor: 2.5},
		},
	}

	due := DueReviews(state, now)
	if len(due) != 1 || due[0].DaysOverdue != 0 {
		t.Errorf("due = %+v, want q1 with 0 days overdue", due)
	}
}

func TestDueReviews_TieBreaksOnQuestionID(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	sameDay := now.AddDate(0, 0, -2)
	state := &models.LearnerState{
		Reviews: []models.ReviewItem{
			{QuestionID: "q9", DueDate: sameDay, IntervalDays: 1, EaseFactor: 2.5},
			{QuestionID: "q2", DueDate: sameDay, IntervalDays: 1, EaseFactor: 2.5},
		},
	}

	due := DueReviews(state, now)
	if due[0].QuestionID != "q2" || due[1].QuestionID != "q9" {
		t.Errorf("order = [%s, %s], want [q2, q9]", due[0].QuestionID, due[1].QuestionID)
	}
}

func TestTopicStats_AggregatesHistory(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	day := func(d int) time.Time {
		return time.Date(2025, 7, 7+d, 10, 0, 0, 0, time.UTC)
	}

	state := &models.LearnerState{
		Mastery: map[string]float64{"array": 0.5},
		CommonErrors: map[string][]models.ErrorPattern{
			"array": {{Topic: "array", Pattern: "off-by-one", QuestionID: "q2", Timestamp: day(1)}},
		},
	}
	events := []models.SubmissionEvent{
		{QuestionID: "q1", Topics: []string{"array"}, Success: true, Timestamp: day(0)},
		{QuestionID: "q2", Topics: []string{"array", "two-pointers"}, Success: false, Timestamp: day(1)},
		{QuestionID: "q1", Topics: []string{"array"}, Success: true, Timestamp: day(2)},
		{QuestionID: "q3", Topics: []string{"tree"}, Success: true, Timestamp: day(2)},
	}

	stats := TopicStats(state, "array", events, now)
	if stats.TotalAttempts != 3 {
		t.Errorf("TotalAttempts = %d, want 3", stats.TotalAttempts)
	}
	// q1 solved twice still counts once.
	if stats.ProblemsSolved != 1 {
		t.Errorf("ProblemsSolved = %d, want 1", stats.ProblemsSolved)
	}
	if math.Abs(stats.SuccessRate-1.0/3.0) > 1e-9 {
		t.Errorf("SuccessRate = %f, want 1/3", stats.SuccessRate)
	}
	if stats.LastPracticed == nil || !stats.LastPracticed.Equal(day(2)) {
		t.Errorf("LastPracticed = %v, want %v", stats.LastPracticed, day(2))
	}
	if !stats.NeedsReview {
		t.Error("NeedsReview = false, want true for mastery 0.5")
	}
	if len(stats.CommonErrors) != 1 || stats.CommonErrors[0].Pattern != "off-by-one" {
		t.Errorf("CommonErrors = %+v, want the stored off-by-one entry", stats.CommonErrors)
	}
}

func TestTopicStats_StaleTopicNeedsReview(t *testing.T) {
	now := time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)
	tenDaysAgo := now.AddDate(0, 0, -10)

	state := &models.LearnerState{Mastery: map[string]float64{"graph": 0.9}}
	events := []models.SubmissionEvent{
		{QuestionID: "q1", Topics: []string{"graph"}, Success: true, Timestamp: tenDaysAgo},
	}

	stats := TopicStats(state, "graph", events, now)
	if !stats.NeedsReview {
		t.Error("NeedsReview = false, want true after 10 idle days")
	}
}

func TestTopicStats_FreshStrongTopicDoesNotNeedReview(t *testing.T) {
	now := time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)

	state := &models.LearnerState{Mastery: map[string]float64{"graph": 0.9}}
	events := []models.SubmissionEvent{
		{QuestionID: "q1", Topics: []string{"graph"}, Success: true, Timestamp: now.Add(-2 * time.Hour)},
	}

	stats := TopicStats(state, "graph", events, now)
	if stats.NeedsReview {
		t.Error("NeedsReview = true, want false for fresh mastery 0.9")
	}
}

func TestTopicStats_UnknownTopic(t *testing.T) {
	now := time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)

	stats := TopicStats(&models.LearnerState{}, "heap", nil, now)
	if stats.MasteryLevel != 0 || stats.TotalAttempts != 0 || stats.LastPracticed != nil {
		t.Errorf("unknown topic stats = %+v, want zeros", stats)
	}
	if !stats.NeedsReview {
		t.Error("NeedsReview = false, want true for unpracticed topic")
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	state := &models.LearnerState{
		Mastery: map[string]float64{
			"array": 0.9,
			"tree":  0.8,
			"math":  0.75,
			"graph": 0.5,
			"dp":    0.3,
		},
		Streak: 4,
		Reviews: []models.ReviewItem{
			{QuestionID: "q1", DueDate: now.AddDate(0, 0, -1), IntervalDays: 1, EaseFactor: 2.5},
			{QuestionID: "q2", DueDate: now.AddDate(0, 0, 2), IntervalDays: 3, EaseFactor: 2.5},
		},
	}

	summary := Summarize(state, now)
	if summary.TopicsPracticed != 5 {
		t.Errorf("TopicsPracticed = %d, want 5", summary.TopicsPracticed)
	}
	if summary.AverageMastery != 0.65 {
		t.Errorf("AverageMastery = %f, want 0.65", summary.AverageMastery)
	}
	if summary.CurrentStreak != 4 {
		t.Errorf("CurrentStreak = %d, want 4", summary.CurrentStreak)
	}
	if summary.ReviewsDue != 1 {
		t.Errorf("ReviewsDue = %d, want 1", summary.ReviewsDue)
	}

	if len(summary.StrongestTopics) != 3 || summary.StrongestTopics[0].Topic != "array" || summary.StrongestTopics[2].Topic != "math" {
		t.Errorf("StrongestTopics = %+v, want [array tree math]", summary.StrongestTopics)
	}
	// math (0.75) sits in the bottom three but clears the threshold.
	if len(summary.NeedsImprovement) != 2 || summary.NeedsImprovement[0].Topic != "graph" || summary.NeedsImprovement[1].Topic != "dp" {
		t.Errorf("NeedsImprovement = %+v, want [graph dp]", summary.NeedsImprovement)
	}
}

func TestSummarize_EmptyState(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	state := models.DefaultLearnerState()

	summary := Summarize(&state, now)
	if summary.TopicsPracticed != 0 || summary.AverageMastery != 0 || summary.ReviewsDue != 0 {
		t.Errorf("summary = %+v, want zeros", summary)
	}
	if len(summary.StrongestTopics) != 0 || len(summary.NeedsImprovement) != 0 {
		t.Errorf("topic lists = %+v / %+v, want empty", summary.StrongestTopics, summary.NeedsImprovement)
	}
}
