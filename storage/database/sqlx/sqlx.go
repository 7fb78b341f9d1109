// Package sqlxrepos implements the repositories on Postgres with sqlx.
package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Powerhouse0784/Coaching-sub000/core"
)

// withTx runs fn in a transaction, committed when fn succeeds and rolled back otherwise.
func withTx(ctx context.Context, db core.DB, fn func(tx core.DBTransactor) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

// orderBy builds the ORDER BY clause; ordering fields must already be allowed column names.
func orderBy(ordering []core.DBOrdering, dflt core.DBOrdering, tieBreaker string) string {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{dflt}
	}
	parts := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		parts = append(parts, ord.String())
	}
	parts = append(parts, tieBreaker+" ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func utcPtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}
