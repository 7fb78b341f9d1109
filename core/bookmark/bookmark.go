// Package bookmark stores the per-(user, video) bookmark flag.
// It is independent from watch progress: nothing here reads or writes progress records.
package bookmark

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
)

var (
	NowFunc = time.Now // mockable

	ErrNotFound = errors.New("bookmark not found")
)

type Bookmark struct {
	UserID     string    `json:"user_id" db:"user_id"`
	VideoID    string    `json:"video_id" db:"video_id"`
	Bookmarked bool      `json:"bookmarked" db:"bookmarked"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type Toggle struct {
	Bookmarked *bool `json:"bookmarked" validate:"required"`
}

func (t *Toggle) Validate(validate *validator.Validate) error { return validate.Struct(t) }

type (
	Repository interface {
		SaveBookmark(ctx context.Context, b Bookmark) (Bookmark, error)
		GetBookmark(ctx context.Context, userID, videoID string) (Bookmark, error)
		// QueryBookmarks returns the user's set bookmarks, most recent first.
		QueryBookmarks(ctx context.Context, userID string) ([]Bookmark, error)
	}

	Service struct {
		repo   Repository
		videos catalog.Repository
	}
)

func NewService(repo Repository, videos catalog.Repository) *Service {
	return &Service{repo: repo, videos: videos}
}

func (svc *Service) Set(ctx context.Context, userID, videoID string, bookmarked bool) (Bookmark, error) {
	if _, err := svc.videos.GetVideo(ctx, videoID); err != nil {
		return Bookmark{}, pkgerrors.Wrap(err, "resolving video")
	}
	b, err := svc.repo.SaveBookmark(ctx, Bookmark{
		UserID:     userID,
		VideoID:    videoID,
		Bookmarked: bookmarked,
		UpdatedAt:  NowFunc().UTC().Truncate(time.Microsecond),
	})
	return b, pkgerrors.Wrap(err, "saving bookmark")
}

// Get returns the bookmark, or an unset one when the user never toggled it.
func (svc *Service) Get(ctx context.Context, userID, videoID string) (Bookmark, error) {
	if _, err := svc.videos.GetVideo(ctx, videoID); err != nil {
		return Bookmark{}, pkgerrors.Wrap(err, "resolving video")
	}
	b, err := svc.repo.GetBookmark(ctx, userID, videoID)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return Bookmark{UserID: userID, VideoID: videoID}, nil
		}
		return Bookmark{}, pkgerrors.Wrap(err, "getting bookmark")
	}
	return b, nil
}

func (svc *Service) Query(ctx context.Context, userID string) ([]Bookmark, error) {
	bs, err := svc.repo.QueryBookmarks(ctx, userID)
	return bs, pkgerrors.Wrap(err, "querying bookmarks")
}
