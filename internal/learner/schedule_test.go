package learner

import (
	"math"
	"testing"
	"time"

	"github.com/algo-prep/backend/internal/models"
)

func TestScheduleReview_FirstSuccess(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	got := ScheduleReview(nil, "q1", []string{"graph"}, true, now)
	if len(got) != 1 {
		t.Fatalf("len(reviews) = %d, want 1", len(got))
	}

	item := got[0]
	if item.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", item.IntervalDays)
	}
	if item.EaseFactor != 2.5 {
		t.Errorf("EaseFactor = %f, want 2.5", item.EaseFactor)
	}
	if !item.DueDate.Equal(now.AddDate(0, 0, 1)) {
		t.Errorf("DueDate = %v, want %v", item.DueDate, now.AddDate(0, 0, 1))
	}
}

func TestScheduleReview_FailureOnUnscheduledIsNoop(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	got := ScheduleReview(nil, "q1", []string{"graph"}, false, now)
	if len(got) != 0 {
		t.Errorf("len(reviews) = %d, want 0", len(got))
	}
}

func TestScheduleReview_SuccessGrowsInterval(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	reviews := []models.ReviewItem{
		{QuestionID: "q1", Topics: []string{"graph"}, DueDate: now, IntervalDays: 4, EaseFactor: 2.5},
	}

	got := ScheduleReview(reviews, "q1", []string{"graph"}, true, now)
	if len(got) != 1 {
		t.Fatalf("len(reviews) = %d, want 1 (replaced, not duplicated)", len(got))
	}
	if got[0].IntervalDays != 10 {
		t.Errorf("IntervalDays = %d, want 10", got[0].IntervalDays)
	}
	if !got[0].DueDate.Equal(now.AddDate(0, 0, 10)) {
		t.Errorf("DueDate = %v, want %v", got[0].DueDate, now.AddDate(0, 0, 10))
	}
	if got[0].EaseFactor != 2.5 {
		t.Errorf("EaseFactor = %f, want unchanged 2.5", got[0].EaseFactor)
	}
}

func TestScheduleReview_FailureResetsInterval(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	reviews := []models.ReviewItem{
		{QuestionID: "q1", Topics: []string{"graph"}, DueDate: now, IntervalDays: 10, EaseFactor: 2.0},
	}

	got := ScheduleReview(reviews, "q1", nil, false, now)
	if got[0].IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want reset to 1", got[0].IntervalDays)
	}
	if !got[0].DueDate.Equal(now.AddDate(0, 0, 1)) {
		t.Errorf("DueDate = %v, want %v", got[0].DueDate, now.AddDate(0, 0, 1))
	}
	if got[0].EaseFactor != 2.0 {
		t.Errorf("EaseFactor = %f, want unchanged 2.0", got[0].EaseFactor)
	}
}

func TestScheduleReview_IntervalUsesEaseBeforeAdjustment(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	reviews := []models.ReviewItem{
		{QuestionID: "q1", Topics: []string{"graph"}, DueDate: now, IntervalDays: 10, EaseFactor: 2.0},
	}

	// Quality 0 drags ease to the floor, but the new interval still uses
	// the ease the item had going in.
	got := ScheduleReview(reviews, "q1", nil, true, now, 0)
	if got[0].IntervalDays != 20 {
		t.Errorf("IntervalDays = %d, want 20", got[0].IntervalDays)
	}
	if math.Abs(got[0].EaseFactor-1.3) > 1e-9 {
		t.Errorf("EaseFactor = %f, want floor 1.3", got[0].EaseFactor)
	}
}

func TestScheduleReview_RefreshesTopics(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	reviews := []models.ReviewItem{
		{QuestionID: "q1", Topics: []string{"graph"}, DueDate: now, IntervalDays: 1, EaseFactor: 2.5},
	}

	got := ScheduleReview(reviews, "q1", []string{"graph", "bfs"}, true, now)
	if len(got[0].Topics) != 2 || got[0].Topics[1] != "bfs" {
		t.Errorf("Topics = %v, want refreshed [graph bfs]", got[0].Topics)
	}
}

func TestScheduleReview_DoesNotMutateInput(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	reviews := []models.ReviewItem{
		{QuestionID: "q1", Topics: []string{"graph"}, DueDate: now, IntervalDays: 4, EaseFactor: 2.5},
	}

	ScheduleReview(reviews, "q1", nil, false, now)
	if reviews[0].IntervalDays != 4 {
		t.Errorf("input slice changed: IntervalDays = %d, want 4", reviews[0].IntervalDays)
	}
}

func TestNextInterval(t *testing.T) {
	tests := []struct {
		interval int
		ease     float64
		want     int
	}{
		{1, 2.5, 3},
		{1, 1.3, 1},
		{2, 1.3, 3},
		{4, 2.5, 10},
		{10, 1.5, 15},
	}

	for _, tt := range tests {
		got := NextInterval(tt.interval, tt.ease)
		if got != tt.want {
			t.Errorf("NextInterval(%d, %.1f) = %d, want %d", tt.interval, tt.ease, got, tt.want)
		}
	}
}

func TestNextInterval_MonotonicForEaseAtLeastOne(t *testing.T) {
	interval := 1
	for i := 0; i < 10; i++ {
		next := NextInterval(interval, 1.3)
		if next < interval {
			t.Fatalf("interval shrank from %d to %d", interval, next)
		}
		interval = next
	}
}

func TestAdjustEase(t *testing.T) {
	// Perfect recall at the ceiling stays clamped.
	if got := AdjustEase(2.5, 5); got != 2.5 {
		t.Errorf("AdjustEase(2.5, 5) = %f, want 2.5", got)
	}

	// Blackout drops ease by 0.8.
	if got := AdjustEase(2.5, 0); math.Abs(got-1.7) > 1e-9 {
		t.Errorf("AdjustEase(2.5, 0) = %f, want 1.7", got)
	}

	// Floor holds.
	if got := AdjustEase(1.4, 0); math.Abs(got-1.3) > 1e-9 {
		t.Errorf("AdjustEase(1.4, 0) = %f, want 1.3", got)
	}

	// Quality 4 nets to zero: 0.1 - 1*(0.08+0.02).
	if got := AdjustEase(2.0, 4); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("AdjustEase(2.0, 4) = %f, want 2.0", got)
	}
}
