package inmemdb

import (
	"context"
	"sort"

	"github.com/Powerhouse0784/Coaching-sub000/core/bookmark"
)

type bookmarkRepository struct {
	db *bookmarkTable
}

func NewBookmarkRepository(db *DB) bookmark.Repository {
	return &bookmarkRepository{db: db.bookmark}
}

func (repo *bookmarkRepository) SaveBookmark(_ context.Context, b bookmark.Bookmark) (bookmark.Bookmark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[pairKey{b.UserID, b.VideoID}] = &b
	return b, nil
}

func (repo *bookmarkRepository) GetBookmark(_ context.Context, userID, videoID string) (bookmark.Bookmark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if b, ok := repo.db.table[pairKey{userID, videoID}]; ok {
		return *b, nil
	}
	return bookmark.Bookmark{}, bookmark.ErrNotFound
}

func (repo *bookmarkRepository) QueryBookmarks(_ context.Context, userID string) ([]bookmark.Bookmark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	bs := make([]bookmark.Bookmark, 0)
	for key, b := range repo.db.table {
		if key.userID == userID && b.Bookmarked {
			bs = append(bs, *b)
		}
	}
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].UpdatedAt.Equal(bs[j].UpdatedAt) {
			return bs[i].VideoID < bs[j].VideoID
		}
		return bs[i].UpdatedAt.After(bs[j].UpdatedAt)
	})
	return bs, nil
}
