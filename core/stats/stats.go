// Package stats derives folder and account statistics from progress records.
// Nothing is cached: every figure is recomputed from the records it is given.
package stats

import (
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

type FolderStats struct {
	FolderID             string  `json:"folder_id"`
	VideoCount           int     `json:"video_count"`
	CompletedCount       int     `json:"completed_count"`
	TotalDurationSeconds int     `json:"total_duration_seconds"`
	ProgressPercent      float64 `json:"progress_percent"` // 0..100
}

// Complete reports whether every video of a non-empty folder is completed.
func (fs FolderStats) Complete() bool {
	return fs.VideoCount > 0 && fs.CompletedCount == fs.VideoCount
}

type AccountWatchStats struct {
	TotalSeconds int `json:"total_seconds"`
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
}

// Folder computes the stats of a folder from the user's records.
// Member videos without a record count as not completed; records of other videos are ignored.
func Folder(folder catalog.Folder, recs []progress.Record) FolderStats {
	completed := make(map[string]bool, len(recs))
	for _, rec := range recs {
		if rec.Completed {
			completed[rec.VideoID] = true
		}
	}

	fs := FolderStats{FolderID: folder.ID, VideoCount: len(folder.Videos)}
	for _, v := range folder.Videos {
		fs.TotalDurationSeconds += v.DurationSeconds
		if completed[v.ID] {
			fs.CompletedCount++
		}
	}
	if fs.VideoCount > 0 {
		fs.ProgressPercent = 100 * float64(fs.CompletedCount) / float64(fs.VideoCount)
	}
	return fs
}

// AccountWatchTime sums the watched seconds of the records whose video is in videos.
// Records of videos that no longer exist are skipped.
func AccountWatchTime(recs []progress.Record, videos map[string]catalog.Video) AccountWatchStats {
	var total int
	for _, rec := range recs {
		if _, ok := videos[rec.VideoID]; !ok {
			continue
		}
		if rec.WatchedSeconds > 0 {
			total += rec.WatchedSeconds
		}
	}
	return AccountWatchStats{
		TotalSeconds: total,
		Hours:        total / 3600,
		Minutes:      (total % 3600) / 60,
	}
}
