package session

import (
	"fmt"

	"go.uber.org/zap"
)

// Favorite is a starred registry project.
type Favorite struct {
	ProjectID string
	Title     string
	IconURL   string
}

// FavoritesRepo persists the favorites list. Mutations are persisted
// immediately, one write per toggle.
type FavoritesRepo interface {
	List() ([]Favorite, error)
	Add(Favorite) error
	Remove(projectID string) error
}

// InstallAllSummary reports the outcome of a bulk favorites install.
type InstallAllSummary struct {
	Installed int
	Skipped   int
	Failed    int
}

// Favorites is the starred-projects store with bulk-install replay.
type Favorites struct {
	repo       FavoritesRepo
	versions   *VersionCache
	downloader ModDownloader
	log        *zap.SugaredLogger
}

// NewFavorites wires the store to its repo and collaborators.
func NewFavorites(repo FavoritesRepo, versions *VersionCache, downloader ModDownloader, log *zap.SugaredLogger) *Favorites {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Favorites{repo: repo, versions: versions, downloader: downloader, log: log}
}

// List returns the favorites in insertion order.
func (f *Favorites) List() ([]Favorite, error) {
	return f.repo.List()
}

// IsFavorite reports membership by project id.
func (f *Favorites) IsFavorite(projectID string) bool {
	favorites, err := f.repo.List()
	if err != nil {
		return false
	}
	for _, fav := range favorites {
		if fav.ProjectID == projectID {
			return true
		}
	}
	return false
}

// Toggle adds the entry if absent (by project id) and removes it if present.
// The list is persisted after every mutation.
func (f *Favorites) Toggle(fav Favorite) error {
	if f.IsFavorite(fav.ProjectID) {
		return f.repo.Remove(fav.ProjectID)
	}
	return f.repo.Add(fav)
}

// InstallAll installs every favorite into the instance, serially: one
// download completes before the next begins. Favorites whose primary file is
// already present (by filename) are skipped; failures are logged and the loop
// continues with the next entry.
func (f *Favorites) InstallAll(instanceName string, installedFiles map[string]bool) (InstallAllSummary, error) {
	favorites, err := f.repo.List()
	if err != nil {
		return InstallAllSummary{}, fmt.Errorf("failed to load favorites: %w", err)
	}

	var summary InstallAllSummary
	for _, fav := range favorites {
		log := f.log.With(zap.String("project_id", fav.ProjectID), zap.String("title", fav.Title))

		versions, err := f.versions.Resolve(fav.ProjectID)
		if err != nil {
			log.Warnw("Failed to resolve favorite versions", zap.Error(err))
			summary.Failed++
			continue
		}
		if len(versions) == 0 {
			log.Warnw("Favorite has no compatible versions")
			summary.Failed++
			continue
		}

		primaryFile := versions[0].PrimaryFile()
		if primaryFile == nil {
			log.Warnw("Favorite version has no files", zap.String("version_id", versions[0].ID))
			summary.Failed++
			continue
		}

		if installedFiles[primaryFile.Filename] {
			summary.Skipped++
			continue
		}

		if err := f.downloader.DownloadMod(instanceName, primaryFile.URL, primaryFile.Filename); err != nil {
			log.Warnw("Failed to install favorite", zap.Error(err))
			summary.Failed++
			continue
		}
		installedFiles[primaryFile.Filename] = true
		summary.Installed++
	}
	return summary, nil
}
