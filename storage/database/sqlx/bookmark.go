package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/bookmark"
)

type bookmarkRepository struct {
	db core.DB
}

func NewBookmarkRepository(db core.DB) bookmark.Repository {
	return &bookmarkRepository{db: db}
}

func (repo *bookmarkRepository) SaveBookmark(ctx context.Context, b bookmark.Bookmark) (bookmark.Bookmark, error) {
	q := `INSERT INTO video_bookmarks (user_id, video_id, bookmarked, updated_at)
		VALUES (:user_id, :video_id, :bookmarked, :updated_at)
		ON CONFLICT (user_id, video_id) DO UPDATE SET bookmarked = EXCLUDED.bookmarked, updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, b); err != nil {
		return bookmark.Bookmark{}, errors.Wrap(err, "upserting bookmark")
	}
	return b, nil
}

func (repo *bookmarkRepository) GetBookmark(ctx context.Context, userID, videoID string) (bookmark.Bookmark, error) {
	var b bookmark.Bookmark
	q := `SELECT user_id, video_id, bookmarked, updated_at FROM video_bookmarks WHERE user_id = $1 AND video_id = $2`
	if err := sqlx.GetContext(ctx, repo.db, &b, q, userID, videoID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return bookmark.Bookmark{}, bookmark.ErrNotFound
		}
		return bookmark.Bookmark{}, errors.Wrap(err, "selecting bookmark")
	}
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}

func (repo *bookmarkRepository) QueryBookmarks(ctx context.Context, userID string) ([]bookmark.Bookmark, error) {
	bs := make([]bookmark.Bookmark, 0)
	q := `SELECT user_id, video_id, bookmarked, updated_at FROM video_bookmarks
		WHERE user_id = $1 AND bookmarked ORDER BY updated_at DESC, video_id ASC`
	if err := sqlx.SelectContext(ctx, repo.db, &bs, q, userID); err != nil {
		return nil, errors.Wrap(err, "selecting bookmarks")
	}
	for i := range bs {
		bs[i].UpdatedAt = bs[i].UpdatedAt.UTC()
	}
	return bs, nil
}
