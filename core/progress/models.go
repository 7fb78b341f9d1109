package progress

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Powerhouse0784/Coaching-sub000/core"
)

// Record is the durable watch progress of one user on one video.
type Record struct {
	UserID            string     `json:"user_id" db:"user_id"`
	VideoID           string     `json:"video_id" db:"video_id"`
	WatchedPercentage float64    `json:"watched_percentage" db:"watched_percentage"`
	WatchedSeconds    int        `json:"watched_seconds" db:"watched_seconds"`
	Completed         bool       `json:"completed" db:"completed"`
	CompletedAt       *time.Time `json:"completed_at" db:"completed_at"` // UTC
	ViewCount         int        `json:"view_count" db:"view_count"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"` // UTC
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"` // UTC
}

// Update is a progress sample pushed by the automatic (playback) path.
type Update struct {
	WatchedPercentage float64 `json:"watched_percentage" validate:"percentage"`
	WatchedSeconds    int     `json:"watched_seconds" validate:"gte=0"`
	Completed         bool    `json:"completed"`
}

func (u *Update) Validate(validate *validator.Validate) error {
	if err := validate.Struct(u); err != nil {
		return err
	}
	if u.Completed && !IsAutoComplete(u.WatchedPercentage) {
		return core.NewValidationError(nil, core.FieldError{Field: "completed", Error: errCompletedBelowThreshold})
	}
	return nil
}

type QueryFilter struct {
	UserID    string
	VideoIDs  []string
	Completed *bool `query:"completed"`
}

// Orderings maps API ordering fields to record columns.
var Orderings = map[string]string{
	"updated_at":         "updated_at",
	"created_at":         "created_at",
	"completed_at":       "completed_at",
	"watched_percentage": "watched_percentage",
	"watched_seconds":    "watched_seconds",
}
