package submissions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/algo-prep/backend/internal/models"
)

// Store is the append-only submissions log in Postgres. It doubles as the
// history source for state recalculation and as the topic resolver for
// submissions that arrive without a topic set.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert appends one submission and fills its id and creation time.
func (s *Store) Insert(ctx context.Context, sub *models.Submission) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO submissions (user_id, question_id, topics, status, language, error_message, error_pattern, hints_used, quality)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		sub.UserID, sub.QuestionID, pq.Array(sub.Topics), sub.Status, sub.Language,
		sub.ErrorMessage, sub.ErrorPattern, sub.HintsUsed, sub.Quality,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// ListByUser returns the learner's submissions, newest first.
func (s *Store) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, question_id, topics, status, language, error_message, error_pattern, hints_used, quality, created_at
		 FROM submissions WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.QuestionID, pq.Array(&sub.Topics),
			&sub.Status, &sub.Language, &sub.ErrorMessage, &sub.ErrorPattern,
			&sub.HintsUsed, &sub.Quality, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// CountByUser returns the learner's total submission count.
func (s *Store) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}

// EventsByUser maps the learner's full history, oldest first, into
// update-pipeline events.
func (s *Store) EventsByUser(ctx context.Context, userID int64) ([]models.SubmissionEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, topics, status, error_pattern, quality, created_at
		 FROM submissions WHERE user_id = $1
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load submission events: %w", err)
	}
	defer rows.Close()

	var events []models.SubmissionEvent
	for rows.Next() {
		var (
			ev      models.SubmissionEvent
			status  models.SubmissionStatus
			pattern *string
		)
		if err := rows.Scan(&ev.QuestionID, pq.Array(&ev.Topics), &status, &pattern, &ev.Quality, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan submission event: %w", err)
		}
		ev.Success = status.IsAccepted()
		if pattern != nil {
			ev.Pattern = *pattern
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// TopicsForQuestion returns the most recent non-empty topic set recorded
// for a question. Used when a submission carries no topics of its own.
func (s *Store) TopicsForQuestion(ctx context.Context, questionID string) ([]string, error) {
	var topics []string
	err := s.db.QueryRowContext(ctx,
		`SELECT topics FROM submissions
		 WHERE question_id = $1 AND cardinality(topics) > 0
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		questionID,
	).Scan(pq.Array(&topics))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("topics for question: %w", err)
	}
	return topics, nil
}

// ActiveUsers lists users with at least one submission in the last 30
// days. Feeds the review reminder scan.
func (s *Store) ActiveUsers(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM submissions
		 WHERE created_at > NOW() - INTERVAL '30 days'`,
	)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var users []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
