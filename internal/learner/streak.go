package learner

import "time"

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// UpdateStreak advances the daily activity streak for an attempt made on
// the given day. Same-day activity keeps the streak, the next day extends
// it, and any longer gap starts over at one. Activity dated before the
// last seen day leaves both values alone.
func UpdateStreak(streak int, lastSeen *time.Time, today time.Time) (int, *time.Time) {
	day := DateOf(today)
	if lastSeen == nil {
		return 1, &day
	}

	last := DateOf(*lastSeen)
	switch days := int(day.Sub(last).Hours() / 24); {
	case days < 0:
		return streak, lastSeen
	case days == 0:
		return streak, &day
	case days == 1:
		return streak + 1, &day
	default:
		return 1, &day
	}
}
