package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

const progressColumns = `user_id, video_id, watched_percentage, watched_seconds, completed, completed_at, view_count,
	created_at, updated_at`

type progressRow struct {
	UserID            string    `db:"user_id"`
	VideoID           string    `db:"video_id"`
	WatchedPercentage float64   `db:"watched_percentage"`
	WatchedSeconds    int       `db:"watched_seconds"`
	Completed         bool      `db:"completed"`
	CompletedAt       null.Time `db:"completed_at"`
	ViewCount         int       `db:"view_count"`
	CreatedAt         null.Time `db:"created_at"`
	UpdatedAt         null.Time `db:"updated_at"`
}

func newProgressRow(rec progress.Record) progressRow {
	return progressRow{
		UserID:            rec.UserID,
		VideoID:           rec.VideoID,
		WatchedPercentage: rec.WatchedPercentage,
		WatchedSeconds:    rec.WatchedSeconds,
		Completed:         rec.Completed,
		CompletedAt:       null.TimeFromPtr(rec.CompletedAt),
		ViewCount:         rec.ViewCount,
		CreatedAt:         null.TimeFrom(rec.CreatedAt),
		UpdatedAt:         null.TimeFrom(rec.UpdatedAt),
	}
}

func (row progressRow) record() progress.Record {
	return progress.Record{
		UserID:            row.UserID,
		VideoID:           row.VideoID,
		WatchedPercentage: row.WatchedPercentage,
		WatchedSeconds:    row.WatchedSeconds,
		Completed:         row.Completed,
		CompletedAt:       utcPtr(row.CompletedAt),
		ViewCount:         row.ViewCount,
		CreatedAt:         row.CreatedAt.Time.UTC(),
		UpdatedAt:         row.UpdatedAt.Time.UTC(),
	}
}

type progressRepository struct {
	db core.DB
}

func NewProgressRepository(db core.DB) progress.Repository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) UpdateRecord(
	ctx context.Context,
	userID, videoID string,
	fn progress.UpdateFunc,
) (rec progress.Record, err error) {
	err = withTx(ctx, repo.db, func(tx core.DBTransactor) error {
		// rows that do not exist yet cannot be locked with FOR UPDATE
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || '/' || $2))`, userID, videoID); err != nil {
			return errors.Wrap(err, "locking progress record")
		}

		var row progressRow
		found := true
		q := `SELECT ` + progressColumns + ` FROM video_progress WHERE user_id = $1 AND video_id = $2 FOR UPDATE`
		if err := sqlx.GetContext(ctx, tx, &row, q, userID, videoID); err != nil {
			if errors.Cause(err) != sql.ErrNoRows {
				return errors.Wrap(err, "selecting progress record")
			}
			found = false
		}

		cur := row.record()
		cur.UserID, cur.VideoID = userID, videoID
		newRec, save, err := fn(cur, found)
		if err != nil {
			return err
		}
		if !save {
			rec = cur
			return nil
		}

		newRec.UserID, newRec.VideoID = userID, videoID
		q = `INSERT INTO video_progress (` + progressColumns + `)
			VALUES (:user_id, :video_id, :watched_percentage, :watched_seconds, :completed, :completed_at, :view_count,
				:created_at, :updated_at)
			ON CONFLICT (user_id, video_id) DO UPDATE SET
				watched_percentage = EXCLUDED.watched_percentage,
				watched_seconds = EXCLUDED.watched_seconds,
				completed = EXCLUDED.completed,
				completed_at = EXCLUDED.completed_at,
				view_count = EXCLUDED.view_count,
				updated_at = EXCLUDED.updated_at`
		if _, err := sqlx.NamedExecContext(ctx, tx, q, newProgressRow(newRec)); err != nil {
			return errors.Wrap(err, "upserting progress record")
		}
		rec = newRec
		return nil
	})
	return rec, err
}

func (repo *progressRepository) GetRecord(ctx context.Context, userID, videoID string) (progress.Record, error) {
	var row progressRow
	q := `SELECT ` + progressColumns + ` FROM video_progress WHERE user_id = $1 AND video_id = $2`
	if err := sqlx.GetContext(ctx, repo.db, &row, q, userID, videoID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return progress.Record{}, progress.ErrNotFound
		}
		return progress.Record{}, errors.Wrap(err, "selecting progress record")
	}
	return row.record(), nil
}

func (repo *progressRepository) QueryRecords(
	ctx context.Context,
	filter progress.QueryFilter,
	ordering []core.DBOrdering,
) ([]progress.Record, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.VideoIDs != nil {
		args = append(args, pq.Array(filter.VideoIDs))
		where = append(where, fmt.Sprintf("video_id = ANY($%d)", len(args)))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		where = append(where, fmt.Sprintf("completed = $%d", len(args)))
	}

	q := `SELECT ` + progressColumns + ` FROM video_progress`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += orderBy(ordering, core.DBOrdering{Field: "updated_at"}, "video_id")

	var rows []progressRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting progress records")
	}
	recs := make([]progress.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.record())
	}
	return recs, nil
}
