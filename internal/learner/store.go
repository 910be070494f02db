package learner

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/algo-prep/backend/internal/models"
)

const stateCollection = "learner_states"

// StateStore persists learner states in MongoDB, one document per learner
// keyed by user id. Writes are guarded by the state's version token so
// concurrent updates cannot silently overwrite each other.
type StateStore struct {
	col *mongo.Collection
}

func NewStateStore(db *mongo.Database) *StateStore {
	return &StateStore{col: db.Collection(stateCollection)}
}

// stateDocument is the stored layout. The user id doubles as the document
// id, which gives the one-state-per-learner invariant for free.
type stateDocument struct {
	UserID              int64 `bson:"_id"`
	models.LearnerState `bson:",inline"`
}

func (s *StateStore) Load(ctx context.Context, userID int64) (*models.LearnerState, error) {
	var doc stateDocument
	err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find state: %w: %v", ErrUnavailable, err)
	}
	state := doc.LearnerState
	return &state, nil
}

// Store writes the state with version expectedVersion+1. Version zero
// inserts a new document; anything else replaces the document only while
// its stored version still matches. On success the state's Version field
// is advanced to the written value.
func (s *StateStore) Store(ctx context.Context, userID int64, state *models.LearnerState, expectedVersion int) error {
	next := *state
	next.Version = expectedVersion + 1
	doc := stateDocument{UserID: userID, LearnerState: next}

	if expectedVersion == 0 {
		if _, err := s.col.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert state: %w: %v", ErrUnavailable, err)
		}
		state.Version = next.Version
		return nil
	}

	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": userID, "version": expectedVersion}, doc)
	if err != nil {
		return fmt.Errorf("replace state: %w: %v", ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	state.Version = next.Version
	return nil
}
