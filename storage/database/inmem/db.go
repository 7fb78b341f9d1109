package inmemdb

import (
	"sync"

	"github.com/Powerhouse0784/Coaching-sub000/core/bookmark"
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

type (
	DB struct {
		catalog  *catalogTables
		progress *progressTable
		bookmark *bookmarkTable
	}

	catalogTables struct {
		folders map[string]*catalog.Folder
		videos  map[string]*catalog.Video
		mutex   sync.RWMutex
	}

	pairKey struct {
		userID  string
		videoID string
	}

	progressTable struct {
		table map[pairKey]*progress.Record
		mutex sync.RWMutex
	}

	bookmarkTable struct {
		table map[pairKey]*bookmark.Bookmark
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		catalog: &catalogTables{
			folders: make(map[string]*catalog.Folder),
			videos:  make(map[string]*catalog.Video),
		},
		progress: &progressTable{table: make(map[pairKey]*progress.Record)},
		bookmark: &bookmarkTable{table: make(map[pairKey]*bookmark.Bookmark)},
	}
}
