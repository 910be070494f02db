package models

import "time"

// ── Submission Status ─────────────────────────────────────

type SubmissionStatus string

const (
	StatusAccepted            SubmissionStatus = "Accepted"
	StatusWrongAnswer         SubmissionStatus = "Wrong Answer"
	StatusTimeLimitExceeded   SubmissionStatus = "Time Limit Exceeded"
	StatusMemoryLimitExceeded SubmissionStatus = "Memory Limit Exceeded"
	StatusRuntimeError        SubmissionStatus = "Runtime Error"
	StatusCompileError        SubmissionStatus = "Compile Error"
)

var ValidSubmissionStatuses = map[SubmissionStatus]bool{
	StatusAccepted:            true,
	StatusWrongAnswer:         true,
	StatusTimeLimitExceeded:   true,
	StatusMemoryLimitExceeded: true,
	StatusRuntimeError:        true,
	StatusCompileError:        true,
}

// IsAccepted reports whether the verdict counts as a successful solve.
func (s SubmissionStatus) IsAccepted() bool {
	return s == StatusAccepted
}

// ── Core Submission Structs ───────────────────────────────

type Submission struct {
	ID           int64            `json:"id"`
	UserID       int64            `json:"user_id"`
	QuestionID   string           `json:"question_id"`
	Topics       []string         `json:"topics"`
	Status       SubmissionStatus `json:"status"`
	Language     string           `json:"language"`
	ErrorMessage *string          `json:"error_message,omitempty"`
	ErrorPattern *string          `json:"error_pattern,omitempty"`
	HintsUsed    int              `json:"hints_used"`
	Quality      *int             `json:"quality,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Event converts a stored submission into the update pipeline's input.
func (s Submission) Event() SubmissionEvent {
	ev := SubmissionEvent{
		QuestionID: s.QuestionID,
		Topics:     s.Topics,
		Success:    s.Status.IsAccepted(),
		Timestamp:  s.CreatedAt,
		Quality:    s.Quality,
	}
	if s.ErrorPattern != nil {
		ev.Pattern = *s.ErrorPattern
	}
	return ev
}

// ── Request Types ─────────────────────────────────────────

type SubmitRequest struct {
	QuestionID   string   `json:"question_id"`
	Topics       []string `json:"topics,omitempty"`
	Status       string   `json:"status"`
	Language     string   `json:"language,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	ErrorPattern string   `json:"error_pattern,omitempty"`
	HintsUsed    int      `json:"hints_used,omitempty"`
	Quality      *int     `json:"quality,omitempty"`
}

// ── Response Types ────────────────────────────────────────

type SubmitResponse struct {
	Submission Submission   `json:"submission"`
	State      LearnerState `json:"state"`
}
