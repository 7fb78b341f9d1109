package testutil

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
	logsvc "github.com/Powerhouse0784/Coaching-sub000/services/logger"
)

// NewLogger returns a logger writing nowhere and the hook recording its entries.
func NewLogger() (*logsvc.RollbarLogger, *test.Hook) {
	std, hook := test.NewNullLogger()
	std.SetLevel(logrus.DebugLevel)
	return logsvc.NewRollbarLogger(std, core.NewTestConfig()), hook
}

type folderAdder interface {
	AddFolder(f catalog.Folder)
}

// CreateFolder stores a folder holding one video per duration; video IDs are "<folderID>-v<n>" (1-based).
func CreateFolder(repo folderAdder, id, name string, durations ...int) catalog.Folder {
	f := catalog.Folder{ID: id, Name: name, Videos: make([]catalog.Video, 0, len(durations))}
	for i, d := range durations {
		f.Videos = append(f.Videos, catalog.Video{
			ID:              id + "-v" + strconv.Itoa(i+1),
			FolderID:        id,
			Title:           name + " #" + strconv.Itoa(i+1),
			DurationSeconds: d,
		})
	}
	repo.AddFolder(f)
	return f
}

// CreateRecord stores a progress record as is, bypassing the completion guard.
func CreateRecord(t *testing.T, repo progress.Repository, rec progress.Record) progress.Record {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	if rec.Completed && rec.CompletedAt == nil {
		rec.CompletedAt = &now
	}
	rec, err := repo.UpdateRecord(context.Background(), rec.UserID, rec.VideoID,
		func(progress.Record, bool) (progress.Record, bool, error) { return rec, true, nil })
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
