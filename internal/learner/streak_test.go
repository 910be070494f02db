package learner

import (
	"testing"
	"time"
)

func TestUpdateStreak_FirstActivity(t *testing.T) {
	today := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	streak, lastSeen := UpdateStreak(0, nil, today)
	if streak != 1 {
		t.Errorf("streak = %d, want 1", streak)
	}
	if lastSeen == nil || !lastSeen.Equal(DateOf(today)) {
		t.Errorf("lastSeen = %v, want %v", lastSeen, DateOf(today))
	}
}

func TestUpdateStreak_SameDayKeepsStreak(t *testing.T) {
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	last := DateOf(morning)

	streak, _ := UpdateStreak(4, &last, evening)
	if streak != 4 {
		t.Errorf("streak = %d, want unchanged 4", streak)
	}
}

func TestUpdateStreak_NextDayIncrements(t *testing.T) {
	last := DateOf(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	nextDay := time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC)

	streak, lastSeen := UpdateStreak(4, &last, nextDay)
	if streak != 5 {
		t.Errorf("streak = %d, want 5", streak)
	}
	if !lastSeen.Equal(DateOf(nextDay)) {
		t.Errorf("lastSeen = %v, want %v", lastSeen, DateOf(nextDay))
	}
}

func TestUpdateStreak_GapResets(t *testing.T) {
	last := DateOf(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	twoDaysLater := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

	streak, _ := UpdateStreak(9, &last, twoDaysLater)
	if streak != 1 {
		t.Errorf("streak = %d, want reset to 1", streak)
	}
}

func TestUpdateStreak_BackdatedActivityIsNoop(t *testing.T) {
	last := DateOf(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	dayBefore := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)

	streak, lastSeen := UpdateStreak(4, &last, dayBefore)
	if streak != 4 {
		t.Errorf("streak = %d, want unchanged 4", streak)
	}
	if !lastSeen.Equal(last) {
		t.Errorf("lastSeen = %v, want unchanged %v", lastSeen, last)
	}
}

func TestUpdateStreak_ConsecutiveDaysProperty(t *testing.T) {
	// Activity on days N, N+1, N+2 yields streak 3.
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	streak := 0
	var lastSeen *time.Time
	for d := 0; d < 3; d++ {
		streak, lastSeen = UpdateStreak(streak, lastSeen, start.AddDate(0, 0, d))
	}
	if streak != 3 {
		t.Errorf("streak = %d, want 3", streak)
	}
}

func TestDateOf_NormalizesToUTCDay(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	// 23:30 EST on March 10 is 04:30 UTC on March 11.
	late := time.Date(2025, 3, 10, 23, 30, 0, 0, est)

	got := DateOf(late)
	want := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOf = %v, want %v", got, want)
	}
}
