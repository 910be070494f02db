package learner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/algo-prep/backend/internal/models"
	"github.com/algo-prep/backend/internal/topics"
)

// Routing keys for events emitted after state changes.
const (
	EventStateUpdated = "learner.state.updated"
	EventReviewsDue   = "learner.reviews.due"
)

// maxStoreAttempts bounds the reload-and-reapply retries on a version
// conflict before giving up.
const maxStoreAttempts = 3

// Service owns all learner-state reads and writes. The publisher may be
// nil, which disables events.
type Service struct {
	gateway     Gateway
	submissions SubmissionSource
	resolver    TopicResolver
	publisher   Publisher
}

func NewService(gateway Gateway, submissions SubmissionSource, resolver TopicResolver, publisher Publisher) *Service {
	return &Service{
		gateway:     gateway,
		submissions: submissions,
		resolver:    resolver,
		publisher:   publisher,
	}
}

// ── Reads ───────────────────────────────────────────────

// GetState returns the learner's current state, or a fresh default when
// none has been stored yet. Reads never persist anything.
func (s *Service) GetState(ctx context.Context, userID int64) (*models.LearnerState, error) {
	state, err := s.gateway.Load(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		fresh := models.DefaultLearnerState()
		return &fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load learner state: %w", err)
	}
	return state, nil
}

// GetTopicStatistics aggregates mastery, attempt counts, and error
// history for one topic.
func (s *Service) GetTopicStatistics(ctx context.Context, userID int64, topic string) (models.TopicStatistics, error) {
	if topic == "" {
		return models.TopicStatistics{}, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	state, err := s.GetState(ctx, userID)
	if err != nil {
		return models.TopicStatistics{}, err
	}
	events, err := s.submissions.EventsByUser(ctx, userID)
	if err != nil {
		return models.TopicStatistics{}, fmt.Errorf("load submission history: %w", err)
	}
	return TopicStats(state, topic, events, time.Now().UTC()), nil
}

// GetDueReviews lists the reviews due at or before now, most overdue
// first.
func (s *Service) GetDueReviews(ctx context.Context, userID int64, now time.Time) ([]models.DueReview, error) {
	state, err := s.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}
	return DueReviews(state, now), nil
}

// Summary condenses the learner's state for the dashboard.
func (s *Service) Summary(ctx context.Context, userID int64) (models.StateSummary, error) {
	state, err := s.GetState(ctx, userID)
	if err != nil {
		return models.StateSummary{}, err
	}
	return Summarize(state, time.Now().UTC()), nil
}

// ── Writes ──────────────────────────────────────────────

// UpdateAfterSubmission folds one attempt outcome into the learner's
// state: mastery moves for every affected topic, failed attempts record
// their error label, the review schedule advances, and the daily streak
// updates. On a version conflict the event is reapplied to the freshly
// loaded state.
func (s *Service) UpdateAfterSubmission(ctx context.Context, userID int64, event models.SubmissionEvent) (*models.LearnerState, error) {
	if err := s.prepareEvent(ctx, &event); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxStoreAttempts; attempt++ {
		current, err := s.GetState(ctx, userID)
		if err != nil {
			return nil, err
		}
		next := applyEvent(current, event, time.Now().UTC())
		err = s.gateway.Store(ctx, userID, next, current.Version)
		if errors.Is(err, ErrConflict) {
			log.Printf("[learner] version conflict for user %d on attempt %d, retrying", userID, attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("store learner state: %w", err)
		}
		s.publishStateUpdated(userID, next, event)
		return next, nil
	}
	return nil, fmt.Errorf("store learner state after %d attempts: %w", maxStoreAttempts, ErrConflict)
}

// RecalculateState rebuilds the learner's state from the full submission
// history and stores it, replacing whatever was there.
func (s *Service) RecalculateState(ctx context.Context, userID int64) (*models.LearnerState, error) {
	events, err := s.submissions.EventsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load submission history: %w", err)
	}

	for attempt := 1; attempt <= maxStoreAttempts; attempt++ {
		current, err := s.GetState(ctx, userID)
		if err != nil {
			return nil, err
		}
		rebuilt := Recalculate(events, time.Now().UTC())
		err = s.gateway.Store(ctx, userID, rebuilt, current.Version)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("store learner state: %w", err)
		}
		log.Printf("[learner] recalculated state for user %d from %d events", userID, len(events))
		return rebuilt, nil
	}
	return nil, fmt.Errorf("store learner state after %d attempts: %w", maxStoreAttempts, ErrConflict)
}

// prepareEvent validates the event and fills defaults: a zero timestamp
// becomes now, and missing topics resolve from the question's known
// topics, falling back to the general bucket.
func (s *Service) prepareEvent(ctx context.Context, event *models.SubmissionEvent) error {
	if event.QuestionID == "" {
		return fmt.Errorf("%w: question id is required", ErrInvalidInput)
	}
	if event.Quality != nil && (*event.Quality < 0 || *event.Quality > 5) {
		return fmt.Errorf("%w: quality must be between 0 and 5", ErrInvalidInput)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if len(event.Topics) == 0 && s.resolver != nil {
		known, err := s.resolver.TopicsForQuestion(ctx, event.QuestionID)
		if err != nil {
			log.Printf("[learner] resolve topics for %s: %v", event.QuestionID, err)
		} else {
			event.Topics = known
		}
	}
	if len(event.Topics) == 0 {
		event.Topics = []string{topics.General}
	}
	return nil
}

// applyEvent produces the next state for one event without mutating the
// input. Due dates and the streak day come from the event timestamp, so
// replaying the same history lands on the same result.
func applyEvent(state *models.LearnerState, event models.SubmissionEvent, now time.Time) *models.LearnerState {
	next := *state
	next.Mastery = UpdateMastery(state.Mastery, event.Topics, event.Success)
	next.CommonErrors = state.CommonErrors
	if !event.Success && event.Pattern != "" {
		for _, topic := range event.Topics {
			next.CommonErrors = AddErrorPattern(next.CommonErrors, topic, event.Pattern, event.QuestionID, event.Timestamp)
		}
	}
	next.Reviews = ScheduleReview(state.Reviews, event.QuestionID, event.Topics, event.Success, event.Timestamp, qualityArgs(event)...)
	next.Streak, next.LastSeen = UpdateStreak(state.Streak, state.LastSeen, event.Timestamp)
	next.Updated = now
	return &next
}

func (s *Service) publishStateUpdated(userID int64, state *models.LearnerState, event models.SubmissionEvent) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"user_id":     userID,
		"question_id": event.QuestionID,
		"topics":      event.Topics,
		"success":     event.Success,
		"streak":      state.Streak,
		"version":     state.Version,
		"updated":     state.Updated,
	}
	if err := s.publisher.Publish(EventStateUpdated, payload); err != nil {
		log.Printf("WARN: publish %s for user %d: %v", EventStateUpdated, userID, err)
	}
}

// ── Background Workers ──────────────────────────────────

// StartReviewWorker periodically scans active learners and publishes a
// reminder event for each one with due reviews. Runs until ctx is
// canceled.
func (s *Service) StartReviewWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("[learner] Review worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("[learner] Review worker shutting down")
			return
		case <-ticker.C:
			s.runReviewScan(ctx)
		}
	}
}

func (s *Service) runReviewScan(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	users, err := s.submissions.ActiveUsers(ctx)
	if err != nil {
		log.Printf("[learner] review scan: failed to list users: %v", err)
		return
	}

	now := time.Now().UTC()
	for _, userID := range users {
		state, err := s.GetState(ctx, userID)
		if err != nil {
			log.Printf("[learner] review scan: user %d: %v", userID, err)
			continue
		}
		due := DueReviews(state, now)
		if len(due) == 0 {
			continue
		}

		ids := make([]string, len(due))
		for i, d := range due {
			ids[i] = d.QuestionID
		}
		payload := map[string]interface{}{
			"user_id":      userID,
			"due_count":    len(due),
			"question_ids": ids,
		}
		if err := s.publisher.Publish(EventReviewsDue, payload); err != nil {
			log.Printf("WARN: publish %s for user %d: %v", EventReviewsDue, userID, err)
		}
	}
}
