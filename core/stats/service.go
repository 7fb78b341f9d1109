package stats

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

type Service struct {
	records progress.Repository
	catalog catalog.Repository
}

func NewService(records progress.Repository, cat catalog.Repository) *Service {
	return &Service{records: records, catalog: cat}
}

func (svc *Service) Folder(ctx context.Context, userID, folderID string) (FolderStats, error) {
	folder, err := svc.catalog.GetFolder(ctx, folderID)
	if err != nil {
		return FolderStats{}, errors.Wrap(err, "getting folder")
	}
	return svc.folderStats(ctx, userID, folder)
}

func (svc *Service) folderStats(ctx context.Context, userID string, folder catalog.Folder) (FolderStats, error) {
	if len(folder.Videos) == 0 {
		return Folder(folder, nil), nil
	}

	recs, err := svc.records.QueryRecords(ctx, progress.QueryFilter{UserID: userID, VideoIDs: folder.VideoIDs()}, nil)
	if err != nil {
		return FolderStats{}, errors.Wrap(err, "querying progress records")
	}
	return Folder(folder, recs), nil
}

func (svc *Service) AccountWatchTime(ctx context.Context, userID string) (AccountWatchStats, error) {
	recs, err := svc.records.QueryRecords(ctx, progress.QueryFilter{UserID: userID}, nil)
	if err != nil {
		return AccountWatchStats{}, errors.Wrap(err, "querying progress records")
	}
	if len(recs) == 0 {
		return AccountWatchTime(nil, nil), nil
	}

	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.VideoID)
	}
	videos, err := svc.catalog.GetVideos(ctx, ids...)
	if err != nil {
		return AccountWatchStats{}, errors.Wrap(err, "resolving videos")
	}
	return AccountWatchTime(recs, videos), nil
}
