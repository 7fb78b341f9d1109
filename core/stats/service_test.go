package stats_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
	"github.com/Powerhouse0784/Coaching-sub000/core/stats"
	emailsvc "github.com/Powerhouse0784/Coaching-sub000/services/email"
	inmemdb "github.com/Powerhouse0784/Coaching-sub000/storage/database/inmem"
	testutil "github.com/Powerhouse0784/Coaching-sub000/tests"
)

var ctx = context.Background()

func TestService(t *testing.T) {
	db := inmemdb.Open()
	cat := inmemdb.NewCatalogRepository(db)
	repo := inmemdb.NewProgressRepository(db)
	svc := stats.NewService(repo, cat)

	algebra := testutil.CreateFolder(cat, "algebra", "Algebra", 600, 600, 900, 300)
	geometry := testutil.CreateFolder(cat, "geometry", "Geometry", 1200)
	testutil.CreateFolder(cat, "empty", "Empty")

	for i, v := range algebra.Videos[:3] {
		testutil.CreateRecord(t, repo, progress.Record{
			UserID: "u1", VideoID: v.ID, WatchedPercentage: 100, WatchedSeconds: 600 + i*60, Completed: true,
		})
	}
	testutil.CreateRecord(t, repo, progress.Record{UserID: "u1", VideoID: geometry.Videos[0].ID, WatchedPercentage: 40, WatchedSeconds: 480})
	testutil.CreateRecord(t, repo, progress.Record{UserID: "u2", VideoID: algebra.Videos[3].ID, WatchedPercentage: 100, WatchedSeconds: 300, Completed: true})

	t.Run("folder", func(t *testing.T) {
		fs, err := svc.Folder(ctx, "u1", "algebra")
		require.NoError(t, err)
		assert.Equal(t, stats.FolderStats{
			FolderID: "algebra", VideoCount: 4, CompletedCount: 3, TotalDurationSeconds: 2400, ProgressPercent: 75,
		}, fs)

		fs, err = svc.Folder(ctx, "u1", "empty")
		require.NoError(t, err)
		assert.Equal(t, float64(0), fs.ProgressPercent)

		_, err = svc.Folder(ctx, "u1", "nope")
		assert.Equal(t, catalog.ErrFolderNotFound, errors.Cause(err))
	})

	t.Run("account", func(t *testing.T) {
		ws, err := svc.AccountWatchTime(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, stats.AccountWatchStats{TotalSeconds: 2460, Hours: 0, Minutes: 41}, ws)

		ws, err = svc.AccountWatchTime(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, stats.AccountWatchStats{}, ws)
	})

	t.Run("orphaned record", func(t *testing.T) {
		cat.DeleteVideo(geometry.Videos[0].ID)

		ws, err := svc.AccountWatchTime(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1980, ws.TotalSeconds)

		fs, err := svc.Folder(ctx, "u1", "geometry")
		require.NoError(t, err)
		assert.Equal(t, stats.FolderStats{FolderID: "geometry"}, fs)
	})
}

type countingCatalog struct {
	*inmemdb.CatalogRepository
	folderLookups int
}

func (c *countingCatalog) GetFolder(ctx context.Context, id string) (catalog.Folder, error) {
	c.folderLookups++
	return c.CatalogRepository.GetFolder(ctx, id)
}

func TestFolderCompletionNotifier(t *testing.T) {
	db := inmemdb.Open()
	cat := &countingCatalog{CatalogRepository: inmemdb.NewCatalogRepository(db)}
	repo := inmemdb.NewProgressRepository(db)
	logger, _ := testutil.NewLogger()
	conf := core.NewTestConfig()
	mailer := emailsvc.NewConsoleServiceMock(conf, logger)

	progressSvc := progress.NewService(repo, cat, logger)
	progressSvc.OnCompleted(stats.NewFolderCompletionNotifier(stats.NewService(repo, cat), mailer, logger))

	folder := testutil.CreateFolder(cat, "f1", "Trigonometry", 60, 60)
	usr := core.Identity{ID: "u1", Name: "Amani", Email: "amani@test.test"}

	_, err := progressSvc.MarkComplete(ctx, usr, folder.Videos[0].ID)
	require.NoError(t, err)
	assert.Empty(t, mailer.SentMessages())
	assert.Equal(t, 1, cat.folderLookups)

	_, err = progressSvc.Sync(ctx, usr, folder.Videos[1].ID, progress.Update{WatchedPercentage: 96, WatchedSeconds: 58, Completed: true})
	require.NoError(t, err)

	sent := mailer.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "amani@test.test", sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "Hi Amani")
	assert.Contains(t, sent[0].TextContent, `"Trigonometry" (2 videos)`)
	assert.Contains(t, sent[0].HTMLContent, "Trigonometry")

	// already complete: no new notice
	_, err = progressSvc.Sync(ctx, usr, folder.Videos[1].ID, progress.Update{WatchedPercentage: 100, WatchedSeconds: 60, Completed: true})
	require.NoError(t, err)
	assert.Len(t, mailer.SentMessages(), 1)
}
