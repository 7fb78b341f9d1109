// Package catalog is the read-only view of the folder/video catalog.
// Folders and videos are owned by the (external) catalog service; this core only resolves them.
package catalog

import (
	"context"
	"errors"
)

var (
	ErrVideoNotFound  = errors.New("video not found")
	ErrFolderNotFound = errors.New("folder not found")
)

type Video struct {
	ID              string `json:"id" db:"id"`
	FolderID        string `json:"folder_id" db:"folder_id"`
	Title           string `json:"title" db:"title"`
	Description     string `json:"description" db:"description"`
	DurationSeconds int    `json:"duration_seconds" db:"duration_seconds"`
}

type Folder struct {
	ID     string  `json:"id" db:"id"`
	Name   string  `json:"name" db:"name"`
	Videos []Video `json:"videos" db:"-"`
}

// VideoIDs returns the IDs of the folder's member videos.
func (f Folder) VideoIDs() []string {
	ids := make([]string, 0, len(f.Videos))
	for _, v := range f.Videos {
		ids = append(ids, v.ID)
	}
	return ids
}

type Repository interface {
	GetVideo(ctx context.Context, id string) (Video, error)
	// GetVideos returns the videos that exist among ids; unknown IDs are silently left out.
	GetVideos(ctx context.Context, ids ...string) (map[string]Video, error)
	// GetFolder returns the folder with all its member videos.
	GetFolder(ctx context.Context, id string) (Folder, error)
}
