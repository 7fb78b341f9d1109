package progress

import (
	"math"
	"time"
)

// The apply* functions compute the record resulting from one write, given the current record (found is false when
// the pair has none yet). They report whether anything needs saving.

// applySync is last-write-wins with a completion guard: an automatic write can never un-complete a record.
func applySync(cur Record, found bool, upd Update, now time.Time) (Record, bool) {
	rec := cur
	if !found {
		rec.CreatedAt = now
	}

	pct := ClampPercentage(upd.WatchedPercentage)
	completed := upd.Completed || IsAutoComplete(pct)
	if rec.Completed && !completed {
		// late or duplicate low sample after a completion
		pct = math.Max(rec.WatchedPercentage, pct)
		completed = true
	}
	if completed && !rec.Completed {
		rec.CompletedAt = timePtr(now)
	}

	rec.WatchedPercentage = pct
	rec.WatchedSeconds = nonNegativeInt(upd.WatchedSeconds)
	rec.Completed = completed
	rec.UpdatedAt = now
	return rec, true
}

func applyMarkComplete(cur Record, found bool, now time.Time) (Record, bool) {
	if found && cur.Completed && cur.WatchedPercentage == 100 {
		return cur, false
	}
	rec := cur
	if !found {
		rec.CreatedAt = now
	}
	if !rec.Completed {
		rec.CompletedAt = timePtr(now)
	}
	rec.WatchedPercentage = 100
	rec.Completed = true
	rec.UpdatedAt = now
	return rec, true
}

// applyMarkIncomplete discards any partial progress, not just the completed flag.
func applyMarkIncomplete(cur Record, found bool, now time.Time) (Record, bool) {
	if !found {
		return cur, false
	}
	rec := cur
	rec.WatchedPercentage = 0
	rec.WatchedSeconds = 0
	rec.Completed = false
	rec.CompletedAt = nil
	rec.UpdatedAt = now
	return rec, true
}

func applyView(cur Record, found bool, now time.Time) (Record, bool) {
	rec := cur
	if !found {
		rec.CreatedAt = now
	}
	rec.ViewCount++
	rec.UpdatedAt = now
	return rec, true
}

func timePtr(t time.Time) *time.Time { return &t }

func nonNegativeInt(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
