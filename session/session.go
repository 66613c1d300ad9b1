// Package session is the orchestration layer between the views and the
// registry/launcher services: debounced search with pagination, per-project
// install state machines with timed status reversion, memoized version and
// gallery lookups, install progress tracking, and the favorites store.
//
// All state lives in an explicit Session owned by the view composition root,
// so closing the session tears down timers and subscriptions with it.
package session

import (
	"modpack-launcher/events"
	"modpack-launcher/modrinth"

	"go.uber.org/zap"
)

// Searcher issues registry search queries.
type Searcher interface {
	SearchProjects(query string, facets [][]string, index string, offset, limit int) (*modrinth.SearchResponse, error)
}

// VersionSource resolves a project's version list.
type VersionSource interface {
	GetProjectVersions(idOrSlug string, loaders, gameVersions []string) ([]modrinth.Version, error)
}

// ProjectSource resolves full project details, including the gallery.
type ProjectSource interface {
	GetProject(idOrSlug string) (*modrinth.Project, error)
}

// InstallOutcome identifies a completed install operation.
type InstallOutcome struct {
	OpID         string
	InstanceName string
}

// PackInstaller installs a modpack into a new instance.
type PackInstaller interface {
	InstallModpack(slug, instanceName, versionID, preferredGameVersion string) (InstallOutcome, error)
}

// ModDownloader places a single mod file into an existing instance.
type ModDownloader interface {
	DownloadMod(instanceName, downloadURL, filename string) error
}

// Config wires a session's collaborators.
type Config struct {
	ProjectType string // "modpack" or "mod"; used for the search facet
	Searcher    Searcher
	Versions    VersionSource
	Projects    ProjectSource
	Installer   PackInstaller
	Downloader  ModDownloader
	Favorites   FavoritesRepo
	Bus         *events.Bus
	Log         *zap.SugaredLogger

	// OnSearch receives search pages and errors as they arrive.
	OnSearch func(SearchPage, error)
	// OnStatus receives install status transitions per project id.
	OnStatus func(projectID string, status Status)
	// OnRefresh is asked to reload dependent views after a successful
	// install (invoked once, 500ms after success).
	OnRefresh func()
	// OnProgress is notified whenever a progress record changes.
	OnProgress func(events.InstallProgress)
}

// Session is the per-view orchestration context.
type Session struct {
	Search    *SearchCoordinator
	Installs  *InstallStates
	Versions  *VersionCache
	Gallery   *GalleryCache
	Progress  *ProgressSink
	Favorites *Favorites

	log *zap.SugaredLogger
}

// New builds a session from its collaborators.
func New(cfg Config) *Session {
	s := &Session{log: cfg.Log}

	s.Search = NewSearchCoordinator(cfg.ProjectType, cfg.Searcher, cfg.OnSearch)
	s.Versions = NewVersionCache(cfg.Versions)
	s.Gallery = NewGalleryCache(cfg.Projects)
	s.Installs = NewInstallStates(s.Versions, cfg.Installer, cfg.OnStatus, cfg.OnRefresh, cfg.Log)
	if cfg.Bus != nil {
		s.Progress = NewProgressSink(cfg.Bus, cfg.OnProgress)
	}
	if cfg.Favorites != nil {
		s.Favorites = NewFavorites(cfg.Favorites, s.Versions, cfg.Downloader, cfg.Log)
	}
	return s
}

// Close cancels pending debounce and status timers and the progress
// subscription. The session must not be used afterwards.
func (s *Session) Close() {
	s.Search.Close()
	s.Installs.Close()
	if s.Progress != nil {
		s.Progress.Close()
	}
}
