package models

import "time"

// ── Learner State ─────────────────────────────────────────

// StateSchemaVersion tags the stored document layout.
const StateSchemaVersion = "1.0"

// Ease factor bounds for review items. The scheduler never lets an item
// leave this range.
const (
	MinEaseFactor = 1.3
	MaxEaseFactor = 2.5
)

// LearnerState is the per-learner knowledge model. One document per
// learner; written only by that learner's update pipeline, read freely.
type LearnerState struct {
	// Version is the optimistic-concurrency token managed by the state
	// store. Zero means the state has never been persisted.
	Version       int                       `bson:"version" json:"version"`
	SchemaVersion string                    `bson:"schema_version" json:"schema_version"`
	Updated       time.Time                 `bson:"updated" json:"updated"`
	Mastery       map[string]float64        `bson:"mastery" json:"mastery"`
	CommonErrors  map[string][]ErrorPattern `bson:"common_errors" json:"common_errors"`
	Reviews       []ReviewItem              `bson:"reviews" json:"reviews"`
	Streak        int                       `bson:"streak" json:"streak"`
	LastSeen      *time.Time                `bson:"last_seen,omitempty" json:"last_seen,omitempty"`
}

// DefaultLearnerState returns a fresh empty state. Callers create state
// explicitly through this factory; reads never create anything.
func DefaultLearnerState() LearnerState {
	return LearnerState{
		SchemaVersion: StateSchemaVersion,
		Updated:       time.Now().UTC(),
		Mastery:       map[string]float64{},
		CommonErrors:  map[string][]ErrorPattern{},
		Reviews:       []ReviewItem{},
	}
}

// ErrorPattern records one labeled mistake on a failed attempt. Immutable
// once created.
type ErrorPattern struct {
	Topic      string    `bson:"topic" json:"topic"`
	Pattern    string    `bson:"pattern" json:"pattern"`
	QuestionID string    `bson:"question_id" json:"question_id"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

// ReviewItem is one scheduled spaced-repetition entry, unique per
// question. EaseFactor stays in [MinEaseFactor, MaxEaseFactor] and
// IntervalDays never drops below 1.
type ReviewItem struct {
	QuestionID   string    `bson:"question_id" json:"question_id"`
	Topics       []string  `bson:"topics" json:"topics"`
	DueDate      time.Time `bson:"due_date" json:"due_date"`
	IntervalDays int       `bson:"interval_days" json:"interval_days"`
	EaseFactor   float64   `bson:"ease_factor" json:"ease_factor"`
}

// SubmissionEvent is the update pipeline's input: one attempt outcome.
// The submissions log is the source of truth; state never stores these.
type SubmissionEvent struct {
	QuestionID string    `json:"question_id"`
	Topics     []string  `json:"topics"`
	Success    bool      `json:"success"`
	Timestamp  time.Time `json:"timestamp"`
	// Pattern carries the error label for failed attempts, when one is
	// known. Empty means unlabeled.
	Pattern string `json:"error_pattern,omitempty"`
	// Quality is the optional 0-5 recall-quality signal for the
	// scheduler's ease adjustment.
	Quality *int `json:"quality,omitempty"`
}

// ── Query Views ───────────────────────────────────────────

// DueReview is a review item annotated with how long it has been waiting.
type DueReview struct {
	ReviewItem
	DaysOverdue int `json:"days_overdue"`
}

type TopicStatistics struct {
	Topic          string         `json:"topic"`
	MasteryLevel   float64        `json:"mastery_level"`
	TotalAttempts  int            `json:"total_attempts"`
	ProblemsSolved int            `json:"problems_solved"`
	SuccessRate    float64        `json:"success_rate"`
	LastPracticed  *time.Time     `json:"last_practiced,omitempty"`
	NeedsReview    bool           `json:"needs_review"`
	CommonErrors   []ErrorPattern `json:"common_errors"`
}

type TopicMastery struct {
	Topic   string  `json:"topic"`
	Mastery float64 `json:"mastery"`
}

type StateSummary struct {
	TopicsPracticed  int            `json:"topics_practiced"`
	AverageMastery   float64        `json:"average_mastery"`
	CurrentStreak    int            `json:"current_streak"`
	ReviewsDue       int            `json:"reviews_due"`
	StrongestTopics  []TopicMastery `json:"strongest_topics"`
	NeedsImprovement []TopicMastery `json:"needs_improvement"`
}
