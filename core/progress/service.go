package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("progress record not found")

	errCompletedBelowThreshold = fmt.Sprintf("completed requires watched_percentage >= %d", CompletionThresholdPercent)
)

type (
	// UpdateFunc receives the current record of a pair (found is false when there is none yet)
	// and returns the record to save. Nothing is written when save is false.
	UpdateFunc func(cur Record, found bool) (rec Record, save bool, err error)

	Repository interface {
		// UpdateRecord serializes writes on the (user, video) pair: fn runs while the pair is locked,
		// so concurrent writes are applied one after the other in arrival order.
		UpdateRecord(ctx context.Context, userID, videoID string, fn UpdateFunc) (Record, error)
		GetRecord(ctx context.Context, userID, videoID string) (Record, error)
		QueryRecords(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Record, error)
	}

	// CompletionListener is notified after a record went from incomplete to complete (through any path).
	CompletionListener interface {
		VideoCompleted(ctx context.Context, usr core.Identity, rec Record)
	}

	Service struct {
		repo      Repository
		videos    catalog.Repository
		logger    core.Logger
		listeners []CompletionListener
	}
)

func NewService(repo Repository, videos catalog.Repository, logger core.Logger) *Service {
	return &Service{repo: repo, videos: videos, logger: logger}
}

// OnCompleted registers a CompletionListener.
func (svc *Service) OnCompleted(l CompletionListener) {
	svc.listeners = append(svc.listeners, l)
}

func (svc *Service) now() time.Time {
	return NowFunc().UTC().Truncate(time.Microsecond) // DB precision
}

func (svc *Service) write(
	ctx context.Context,
	usr core.Identity,
	videoID string,
	apply func(cur Record, found bool, now time.Time) (Record, bool),
) (Record, error) {
	if _, err := svc.videos.GetVideo(ctx, videoID); err != nil {
		return Record{}, pkgerrors.Wrap(err, "resolving video")
	}

	var completedNow bool
	rec, err := svc.repo.UpdateRecord(ctx, usr.ID, videoID, func(cur Record, found bool) (Record, bool, error) {
		cur.UserID, cur.VideoID = usr.ID, videoID
		rec, save := apply(cur, found, svc.now())
		completedNow = save && rec.Completed && !cur.Completed
		return rec, save, nil
	})
	if err != nil {
		return Record{}, pkgerrors.Wrap(err, "updating progress record")
	}

	if completedNow {
		for _, l := range svc.listeners {
			l.VideoCompleted(ctx, usr, rec)
		}
	}
	return rec, nil
}

// Sync stores a sample from the automatic playback path.
func (svc *Service) Sync(ctx context.Context, usr core.Identity, videoID string, upd Update) (Record, error) {
	if upd.Completed && !IsAutoComplete(upd.WatchedPercentage) {
		return Record{}, core.NewValidationError(nil, core.FieldError{Field: "completed", Error: errCompletedBelowThreshold})
	}
	return svc.write(ctx, usr, videoID, func(cur Record, found bool, now time.Time) (Record, bool) {
		rec, save := applySync(cur, found, upd, now)
		if found && cur.Completed && !IsAutoComplete(upd.WatchedPercentage) {
			svc.logger.Debug(fmt.Sprintf("progress: kept completion of video %s against a %.0f%% sample", videoID, upd.WatchedPercentage), usr)
		}
		return rec, save
	})
}

// MarkComplete forces the video to complete. Calling it on a complete video changes nothing.
func (svc *Service) MarkComplete(ctx context.Context, usr core.Identity, videoID string) (Record, error) {
	return svc.write(ctx, usr, videoID, applyMarkComplete)
}

// MarkIncomplete resets the video to an unwatched state.
func (svc *Service) MarkIncomplete(ctx context.Context, usr core.Identity, videoID string) (Record, error) {
	return svc.write(ctx, usr, videoID, applyMarkIncomplete)
}

// RecordView increments the view counter. It never touches the watched percentage, seconds or completion.
func (svc *Service) RecordView(ctx context.Context, usr core.Identity, videoID string) (Record, error) {
	return svc.write(ctx, usr, videoID, applyView)
}

// Get returns the user's record for the video, or a zero record when none exists yet.
func (svc *Service) Get(ctx context.Context, userID, videoID string) (Record, error) {
	if _, err := svc.videos.GetVideo(ctx, videoID); err != nil {
		return Record{}, pkgerrors.Wrap(err, "resolving video")
	}
	rec, err := svc.repo.GetRecord(ctx, userID, videoID)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return Record{UserID: userID, VideoID: videoID}, nil
		}
		return Record{}, pkgerrors.Wrap(err, "getting progress record")
	}
	return rec, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Record, error) {
	recs, err := svc.repo.QueryRecords(ctx, filter, core.FilterOrderings(ordering, Orderings))
	return recs, pkgerrors.Wrap(err, "querying progress records")
}
