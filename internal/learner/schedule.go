package learner

import (
	"math"
	"time"

	"github.com/algo-prep/backend/internal/models"
)

// New review items start at a one-day interval with the maximum ease.
const (
	initialIntervalDays = 1
	defaultEaseFactor   = models.MaxEaseFactor
)

// ScheduleReview updates the review schedule for one question after an
// attempt. Items are keyed by question id and replaced, never duplicated.
//
// A first success schedules the item one day out. A later success grows
// the interval by the current ease factor; the ease itself only moves when
// the optional quality signal (0-5) is supplied. A failure on a scheduled
// item resets its interval to one day and leaves the ease alone. A failure
// on an unscheduled question schedules nothing.
func ScheduleReview(reviews []models.ReviewItem, questionID string, affected []string, success bool, now time.Time, quality ...int) []models.ReviewItem {
	idx := -1
	for i, r := range reviews {
		if r.QuestionID == questionID {
			idx = i
			break
		}
	}

	if idx == -1 {
		if !success {
			return reviews
		}
		item := models.ReviewItem{
			QuestionID:   questionID,
			Topics:       affected,
			DueDate:      now.AddDate(0, 0, initialIntervalDays),
			IntervalDays: initialIntervalDays,
			EaseFactor:   defaultEaseFactor,
		}
		updated := make([]models.ReviewItem, len(reviews), len(reviews)+1)
		copy(updated, reviews)
		return append(updated, item)
	}

	item := reviews[idx]
	if success {
		item.IntervalDays = NextInterval(item.IntervalDays, item.EaseFactor)
		if len(quality) > 0 {
			item.EaseFactor = AdjustEase(item.EaseFactor, quality[0])
		}
	} else {
		item.IntervalDays = initialIntervalDays
	}
	item.DueDate = now.AddDate(0, 0, item.IntervalDays)
	if len(affected) > 0 {
		item.Topics = affected
	}

	updated := make([]models.ReviewItem, len(reviews))
	copy(updated, reviews)
	updated[idx] = item
	return updated
}

// NextInterval grows a review interval by the ease factor, rounded to
// whole days with a one-day floor.
func NextInterval(intervalDays int, ease float64) int {
	next := int(math.Round(float64(intervalDays) * ease))
	if next < 1 {
		next = 1
	}
	return next
}

// AdjustEase applies the SM-2 ease update for a quality response (0-5),
// clamped to [MinEaseFactor, MaxEaseFactor].
func AdjustEase(ease float64, quality int) float64 {
	q := float64(quality)
	ease += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if ease < models.MinEaseFactor {
		ease = models.MinEaseFactor
	}
	if ease > models.MaxEaseFactor {
		ease = models.MaxEaseFactor
	}
	return ease
}
