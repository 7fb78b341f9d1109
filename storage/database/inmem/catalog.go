package inmemdb

import (
	"context"
	"sort"

	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
)

type CatalogRepository struct {
	db *catalogTables
}

func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db.catalog}
}

// AddFolder stores the folder and its videos, replacing any previous version.
func (repo *CatalogRepository) AddFolder(f catalog.Folder) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, v := range f.Videos {
		v := v
		v.FolderID = f.ID
		repo.db.videos[v.ID] = &v
	}
	f.Videos = nil
	repo.db.folders[f.ID] = &f
}

// DeleteVideo removes a video from the catalog; progress records referencing it become orphans.
func (repo *CatalogRepository) DeleteVideo(id string) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.videos, id)
}

func (repo *CatalogRepository) GetVideo(_ context.Context, id string) (catalog.Video, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if v, ok := repo.db.videos[id]; ok {
		return *v, nil
	}
	return catalog.Video{}, catalog.ErrVideoNotFound
}

func (repo *CatalogRepository) GetVideos(_ context.Context, ids ...string) (map[string]catalog.Video, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	videos := make(map[string]catalog.Video, len(ids))
	for _, id := range ids {
		if v, ok := repo.db.videos[id]; ok {
			videos[id] = *v
		}
	}
	return videos, nil
}

func (repo *CatalogRepository) GetFolder(_ context.Context, id string) (catalog.Folder, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	f, ok := repo.db.folders[id]
	if !ok {
		return catalog.Folder{}, catalog.ErrFolderNotFound
	}
	folder := *f
	folder.Videos = make([]catalog.Video, 0)
	for _, v := range repo.db.videos {
		if v.FolderID == id {
			folder.Videos = append(folder.Videos, *v)
		}
	}
	sort.Slice(folder.Videos, func(i, j int) bool { return folder.Videos[i].ID < folder.Videos[j].ID })
	return folder, nil
}
