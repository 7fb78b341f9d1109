package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

type progressRepository struct {
	db *progressTable
}

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db.progress}
}

func (repo *progressRepository) UpdateRecord(
	_ context.Context,
	userID, videoID string,
	fn progress.UpdateFunc,
) (progress.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := pairKey{userID, videoID}
	cur := progress.Record{UserID: userID, VideoID: videoID}
	stored, found := repo.db.table[key]
	if found {
		cur = *stored
	}

	rec, save, err := fn(cur, found)
	if err != nil {
		return progress.Record{}, err
	}
	if !save {
		return cur, nil
	}
	rec.UserID, rec.VideoID = userID, videoID
	repo.db.table[key] = &rec
	return rec, nil
}

func (repo *progressRepository) GetRecord(_ context.Context, userID, videoID string) (progress.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec, ok := repo.db.table[pairKey{userID, videoID}]; ok {
		return *rec, nil
	}
	return progress.Record{}, progress.ErrNotFound
}

func (repo *progressRepository) QueryRecords(
	_ context.Context,
	filter progress.QueryFilter,
	ordering []core.DBOrdering,
) ([]progress.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var videoIDs map[string]bool
	if filter.VideoIDs != nil {
		videoIDs = make(map[string]bool, len(filter.VideoIDs))
		for _, id := range filter.VideoIDs {
			videoIDs[id] = true
		}
	}

	recs := make([]progress.Record, 0)
	for key, rec := range repo.db.table {
		if filter.UserID != "" && key.userID != filter.UserID {
			continue
		}
		if videoIDs != nil && !videoIDs[key.videoID] {
			continue
		}
		if filter.Completed != nil && rec.Completed != *filter.Completed {
			continue
		}
		recs = append(recs, *rec)
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "updated_at"}}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareRecords(recs[i], recs[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return recs[i].VideoID < recs[j].VideoID
	})
	return recs, nil
}

func compareRecords(a, b progress.Record, field string) int {
	switch field {
	case "created_at":
		return compareTimes(a.CreatedAt, b.CreatedAt)
	case "completed_at":
		var at, bt time.Time
		if a.CompletedAt != nil {
			at = *a.CompletedAt
		}
		if b.CompletedAt != nil {
			bt = *b.CompletedAt
		}
		return compareTimes(at, bt)
	case "watched_percentage":
		return compareFloats(a.WatchedPercentage, b.WatchedPercentage)
	case "watched_seconds":
		return compareFloats(float64(a.WatchedSeconds), float64(b.WatchedSeconds))
	default:
		return compareTimes(a.UpdatedAt, b.UpdatedAt)
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
