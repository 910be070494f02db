package learner

import (
	"context"
	"errors"

	"github.com/algo-prep/backend/internal/models"
)

// Sentinel errors surfaced by the service and its backends. Callers match
// with errors.Is; wrapped variants carry backend detail.
var (
	ErrNotFound     = errors.New("learner state not found")
	ErrConflict     = errors.New("learner state version conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("state store unavailable")
)

// Gateway persists learner states keyed by user id. Load returns
// ErrNotFound when no state exists. Store succeeds only when the
// persisted version still equals expectedVersion (zero creates); on a
// mismatch it returns ErrConflict and writes nothing.
type Gateway interface {
	Load(ctx context.Context, userID int64) (*models.LearnerState, error)
	Store(ctx context.Context, userID int64, state *models.LearnerState, expectedVersion int) error
}

// SubmissionSource reads the append-only attempt history that recalculation
// and topic statistics are derived from.
type SubmissionSource interface {
	EventsByUser(ctx context.Context, userID int64) ([]models.SubmissionEvent, error)
	ActiveUsers(ctx context.Context) ([]int64, error)
}

// TopicResolver maps a question id to its topic set, for events that
// arrive without one.
type TopicResolver interface {
	TopicsForQuestion(ctx context.Context, questionID string) ([]string, error)
}

// Publisher emits domain events after successful state writes.
// Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(routingKey string, payload interface{}) error
}
