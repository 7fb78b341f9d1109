package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
)

const videoColumns = `id, folder_id, title, description, duration_seconds`

type catalogRepository struct {
	db core.DB
}

func NewCatalogRepository(db core.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) GetVideo(ctx context.Context, id string) (catalog.Video, error) {
	var v catalog.Video
	if err := sqlx.GetContext(ctx, repo.db, &v, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return catalog.Video{}, catalog.ErrVideoNotFound
		}
		return catalog.Video{}, errors.Wrap(err, "selecting video")
	}
	return v, nil
}

func (repo *catalogRepository) GetVideos(ctx context.Context, ids ...string) (map[string]catalog.Video, error) {
	videos := make(map[string]catalog.Video, len(ids))
	if len(ids) == 0 {
		return videos, nil
	}

	var rows []catalog.Video
	q := `SELECT ` + videoColumns + ` FROM videos WHERE id = ANY($1)`
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "selecting videos")
	}
	for _, v := range rows {
		videos[v.ID] = v
	}
	return videos, nil
}

func (repo *catalogRepository) GetFolder(ctx context.Context, id string) (catalog.Folder, error) {
	var f catalog.Folder
	if err := sqlx.GetContext(ctx, repo.db, &f, `SELECT id, name FROM folders WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return catalog.Folder{}, catalog.ErrFolderNotFound
		}
		return catalog.Folder{}, errors.Wrap(err, "selecting folder")
	}

	f.Videos = make([]catalog.Video, 0)
	q := `SELECT ` + videoColumns + ` FROM videos WHERE folder_id = $1 ORDER BY id`
	if err := sqlx.SelectContext(ctx, repo.db, &f.Videos, q, id); err != nil {
		return catalog.Folder{}, errors.Wrap(err, "selecting folder videos")
	}
	return f, nil
}
