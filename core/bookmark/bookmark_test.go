package bookmark_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Powerhouse0784/Coaching-sub000/core/bookmark"
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
	inmemdb "github.com/Powerhouse0784/Coaching-sub000/storage/database/inmem"
	testutil "github.com/Powerhouse0784/Coaching-sub000/tests"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	cat := inmemdb.NewCatalogRepository(db)
	folder := testutil.CreateFolder(cat, "f1", "Geometry", 60, 90)
	progressRepo := inmemdb.NewProgressRepository(db)
	svc := bookmark.NewService(inmemdb.NewBookmarkRepository(db), cat)

	v1, v2 := folder.Videos[0].ID, folder.Videos[1].ID
	rec := testutil.CreateRecord(t, progressRepo, progress.Record{UserID: "u1", VideoID: v1, WatchedPercentage: 40})

	t.Run("unset by default", func(t *testing.T) {
		b, err := svc.Get(ctx, "u1", v1)
		require.NoError(t, err)
		assert.False(t, b.Bookmarked)
	})

	t.Run("unknown video", func(t *testing.T) {
		_, err := svc.Set(ctx, "u1", "nope", true)
		assert.Equal(t, catalog.ErrVideoNotFound, errors.Cause(err))
	})

	t.Run("toggle", func(t *testing.T) {
		bookmark.NowFunc = func() time.Time { return time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC) }
		_, err := svc.Set(ctx, "u1", v1, true)
		require.NoError(t, err)
		bookmark.NowFunc = func() time.Time { return time.Date(2021, 3, 1, 11, 0, 0, 0, time.UTC) }
		_, err = svc.Set(ctx, "u1", v2, true)
		require.NoError(t, err)
		bookmark.NowFunc = time.Now

		bs, err := svc.Query(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, bs, 2)
		assert.Equal(t, v2, bs[0].VideoID)

		b, err := svc.Set(ctx, "u1", v2, false)
		require.NoError(t, err)
		assert.False(t, b.Bookmarked)

		bs, err = svc.Query(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, bs, 1)
		assert.Equal(t, v1, bs[0].VideoID)

		bs, err = svc.Query(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, bs)
	})

	t.Run("progress untouched", func(t *testing.T) {
		got, err := progressRepo.GetRecord(ctx, "u1", v1)
		require.NoError(t, err)
		assert.Equal(t, rec, got)

		_, err = progressRepo.GetRecord(ctx, "u1", v2)
		assert.Equal(t, progress.ErrNotFound, err)
	})
}
