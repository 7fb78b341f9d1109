package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	t0 = time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
	t2 = t1.Add(time.Minute)
)

func completedRecord() Record {
	return Record{
		UserID:            "u1",
		VideoID:           "v1",
		WatchedPercentage: 100,
		WatchedSeconds:    120,
		Completed:         true,
		CompletedAt:       timePtr(t0),
		ViewCount:         2,
		CreatedAt:         t0,
		UpdatedAt:         t0,
	}
}

func TestApplySync(t *testing.T) {
	tests := []struct {
		name  string
		cur   Record
		found bool
		upd   Update
		want  Record
	}{
		{
			name: "first sample",
			upd:  Update{WatchedPercentage: 25, WatchedSeconds: 30},
			want: Record{WatchedPercentage: 25, WatchedSeconds: 30, CreatedAt: t1, UpdatedAt: t1},
		},
		{
			name:  "last write wins",
			cur:   Record{WatchedPercentage: 46, WatchedSeconds: 55, CreatedAt: t0, UpdatedAt: t0},
			found: true,
			upd:   Update{WatchedPercentage: 25, WatchedSeconds: 30},
			want:  Record{WatchedPercentage: 25, WatchedSeconds: 30, CreatedAt: t0, UpdatedAt: t1},
		},
		{
			name:  "reaching the threshold completes",
			cur:   Record{WatchedPercentage: 46, WatchedSeconds: 55, CreatedAt: t0, UpdatedAt: t0},
			found: true,
			upd:   Update{WatchedPercentage: 95, WatchedSeconds: 84},
			want: Record{
				WatchedPercentage: 95, WatchedSeconds: 84, Completed: true, CompletedAt: timePtr(t1),
				CreatedAt: t0, UpdatedAt: t1,
			},
		},
		{
			name:  "low sample cannot un-complete",
			cur:   completedRecord(),
			found: true,
			upd:   Update{WatchedPercentage: 40, WatchedSeconds: 48},
			want: Record{
				UserID: "u1", VideoID: "v1", WatchedPercentage: 100, WatchedSeconds: 48, Completed: true,
				CompletedAt: timePtr(t0), ViewCount: 2, CreatedAt: t0, UpdatedAt: t1,
			},
		},
		{
			name:  "completed sample keeps the first completion time",
			cur:   completedRecord(),
			found: true,
			upd:   Update{WatchedPercentage: 97, WatchedSeconds: 117, Completed: true},
			want: Record{
				UserID: "u1", VideoID: "v1", WatchedPercentage: 97, WatchedSeconds: 117, Completed: true,
				CompletedAt: timePtr(t0), ViewCount: 2, CreatedAt: t0, UpdatedAt: t1,
			},
		},
		{
			name: "out of range values are clamped",
			upd:  Update{WatchedPercentage: 140, WatchedSeconds: -4},
			want: Record{
				WatchedPercentage: 100, Completed: true, CompletedAt: timePtr(t1), CreatedAt: t1, UpdatedAt: t1,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, save := applySync(tt.cur, tt.found, tt.upd, t1)
			assert.True(t, save)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyMarkComplete(t *testing.T) {
	cur := Record{WatchedPercentage: 30, WatchedSeconds: 36, CreatedAt: t0, UpdatedAt: t0}

	once, save := applyMarkComplete(cur, true, t1)
	assert.True(t, save)
	assert.Equal(t, Record{
		WatchedPercentage: 100, WatchedSeconds: 36, Completed: true, CompletedAt: timePtr(t1),
		CreatedAt: t0, UpdatedAt: t1,
	}, once)

	twice, save := applyMarkComplete(once, true, t2)
	assert.False(t, save)
	assert.Equal(t, once, twice)

	// auto-completed below 100: raised to 100, completion time kept
	auto := completedRecord()
	auto.WatchedPercentage = 96
	got, save := applyMarkComplete(auto, true, t1)
	assert.True(t, save)
	assert.Equal(t, float64(100), got.WatchedPercentage)
	assert.Equal(t, timePtr(t0), got.CompletedAt)

	fresh, save := applyMarkComplete(Record{}, false, t1)
	assert.True(t, save)
	assert.Equal(t, t1, fresh.CreatedAt)
	assert.True(t, fresh.Completed)
}

func TestApplyMarkIncomplete(t *testing.T) {
	got, save := applyMarkIncomplete(completedRecord(), true, t1)
	assert.True(t, save)
	assert.Equal(t, Record{
		UserID: "u1", VideoID: "v1", ViewCount: 2, CreatedAt: t0, UpdatedAt: t1,
	}, got)

	_, save = applyMarkIncomplete(Record{}, false, t1)
	assert.False(t, save)
}

func TestApplyView(t *testing.T) {
	cur := completedRecord()
	got, save := applyView(cur, true, t1)
	assert.True(t, save)
	assert.Equal(t, 3, got.ViewCount)
	assert.Equal(t, cur.WatchedPercentage, got.WatchedPercentage)
	assert.Equal(t, cur.WatchedSeconds, got.WatchedSeconds)
	assert.Equal(t, cur.Completed, got.Completed)

	fresh, _ := applyView(Record{}, false, t1)
	assert.Equal(t, Record{ViewCount: 1, CreatedAt: t1, UpdatedAt: t1}, fresh)
}
