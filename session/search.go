package session

import (
	"sync"
	"time"

	"modpack-launcher/modrinth"
)

const (
	searchDebounce = 500 * time.Millisecond
	pageSize       = 20
)

// SearchPage is one page of results as delivered to the view.
type SearchPage struct {
	Query         string
	VersionFilter string
	Page          int // 1-based
	Hits          []modrinth.Project
	TotalHits     int
}

// TotalPages returns the page count for the result set.
func (p SearchPage) TotalPages() int {
	return TotalPages(p.TotalHits)
}

// ShowPagination reports whether pagination controls should be visible.
func (p SearchPage) ShowPagination() bool {
	return p.TotalHits > pageSize
}

// TotalPages is ceil(totalHits / pageSize).
func TotalPages(totalHits int) int {
	return (totalHits + pageSize - 1) / pageSize
}

// SearchCoordinator debounces free-text query and version-filter edits into a
// single page-1 search, while page changes fire immediately. Stale responses
// (superseded by a newer request) are dropped rather than delivered.
type SearchCoordinator struct {
	mu sync.Mutex

	searcher    Searcher
	projectType string
	onResult    func(SearchPage, error)

	debounce time.Duration
	timer    *time.Timer

	query         string
	versionFilter string
	page          int
	seq           int
	closed        bool
}

// NewSearchCoordinator creates a coordinator for the given project type
// facet.
func NewSearchCoordinator(projectType string, searcher Searcher, onResult func(SearchPage, error)) *SearchCoordinator {
	if onResult == nil {
		onResult = func(SearchPage, error) {}
	}
	return &SearchCoordinator{
		searcher:    searcher,
		projectType: projectType,
		onResult:    onResult,
		debounce:    searchDebounce,
		page:        1,
	}
}

// SetQuery records a new free-text query and schedules a debounced page-1
// search. Edits within the quiet period coalesce into one request carrying
// the final value.
func (c *SearchCoordinator) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.page = 1
	c.scheduleLocked()
}

// SetVersionFilter records a game-version filter; like query edits it is
// debounced and resets to page 1.
func (c *SearchCoordinator) SetVersionFilter(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versionFilter = version
	c.page = 1
	c.scheduleLocked()
}

// SetPage requests a specific page immediately, bypassing the debounce. Any
// pending debounced search is cancelled in favor of this one.
func (c *SearchCoordinator) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.page = page
	c.stopTimerLocked()
	c.fireLocked()
}

// Refresh re-issues the current search immediately.
func (c *SearchCoordinator) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.fireLocked()
}

// Close cancels any pending debounced search.
func (c *SearchCoordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
}

func (c *SearchCoordinator) scheduleLocked() {
	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.fireLocked()
	})
}

func (c *SearchCoordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// fireLocked snapshots the current request and issues it asynchronously.
// Responses for superseded requests are discarded.
func (c *SearchCoordinator) fireLocked() {
	if c.closed {
		return
	}
	c.seq++
	seq := c.seq
	query := c.query
	versionFilter := c.versionFilter
	page := c.page

	facets := [][]string{{"project_type:" + c.projectType}}
	if versionFilter != "" {
		facets = append(facets, []string{"versions:" + versionFilter})
	}

	// Empty query: most-downloaded first. Anything typed: relevance.
	index := modrinth.IndexDownloads
	if query != "" {
		index = modrinth.IndexRelevance
	}
	offset := (page - 1) * pageSize

	go func() {
		result, err := c.searcher.SearchProjects(query, facets, index, offset, pageSize)

		c.mu.Lock()
		stale := c.closed || seq != c.seq
		c.mu.Unlock()
		if stale {
			return
		}

		if err != nil {
			c.onResult(SearchPage{Query: query, VersionFilter: versionFilter, Page: page}, err)
			return
		}
		c.onResult(SearchPage{
			Query:         query,
			VersionFilter: versionFilter,
			Page:          page,
			Hits:          result.Hits,
			TotalHits:     result.TotalHits,
		}, nil)
	}()
}
