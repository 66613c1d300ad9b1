package session

import (
	"sort"
	"strings"
	"sync"

	"modpack-launcher/modrinth"
)

// VersionCache memoizes version lists by project id. A populated entry is
// never refetched; failed fetches are not cached, so a later call retries.
// Concurrent callers for the same id share a single remote fetch.
type VersionCache struct {
	mu       sync.Mutex
	source   VersionSource
	entries  map[string][]modrinth.Version
	inflight map[string]chan struct{}
}

// NewVersionCache creates an empty cache over the given source.
func NewVersionCache(source VersionSource) *VersionCache {
	return &VersionCache{
		source:   source,
		entries:  make(map[string][]modrinth.Version),
		inflight: make(map[string]chan struct{}),
	}
}

// Resolve returns the cached version list for id, fetching it on first use.
func (c *VersionCache) Resolve(id string) ([]modrinth.Version, error) {
	for {
		c.mu.Lock()
		if versions, ok := c.entries[id]; ok {
			c.mu.Unlock()
			return versions, nil
		}
		if wait, ok := c.inflight[id]; ok {
			c.mu.Unlock()
			<-wait
			continue // populated or failed; re-check the entry map
		}
		done := make(chan struct{})
		c.inflight[id] = done
		c.mu.Unlock()

		versions, err := c.source.GetProjectVersions(id, nil, nil)

		c.mu.Lock()
		delete(c.inflight, id)
		if err == nil {
			c.entries[id] = versions
		}
		close(done)
		c.mu.Unlock()

		if err != nil {
			return nil, err
		}
		return versions, nil
	}
}

// Cached reports whether an entry exists without fetching.
func (c *VersionCache) Cached(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

// GalleryCache memoizes a project's sorted gallery image list by project id.
type GalleryCache struct {
	mu       sync.Mutex
	source   ProjectSource
	entries  map[string][]modrinth.GalleryImage
	inflight map[string]chan struct{}
}

// NewGalleryCache creates an empty gallery cache.
func NewGalleryCache(source ProjectSource) *GalleryCache {
	return &GalleryCache{
		source:   source,
		entries:  make(map[string][]modrinth.GalleryImage),
		inflight: make(map[string]chan struct{}),
	}
}

// Resolve returns the sorted gallery for id, fetching the project details on
// first use.
func (c *GalleryCache) Resolve(id string) ([]modrinth.GalleryImage, error) {
	for {
		c.mu.Lock()
		if gallery, ok := c.entries[id]; ok {
			c.mu.Unlock()
			return gallery, nil
		}
		if wait, ok := c.inflight[id]; ok {
			c.mu.Unlock()
			<-wait
			continue
		}
		done := make(chan struct{})
		c.inflight[id] = done
		c.mu.Unlock()

		project, err := c.source.GetProject(id)

		c.mu.Lock()
		delete(c.inflight, id)
		var gallery []modrinth.GalleryImage
		if err == nil {
			gallery = SortGallery(project.Gallery)
			c.entries[id] = gallery
		}
		close(done)
		c.mu.Unlock()

		if err != nil {
			return nil, err
		}
		return gallery, nil
	}
}

// CardImage picks the image shown as a card background: the first sorted
// gallery image, falling back to the plain icon URL, falling back to "".
func CardImage(gallery []modrinth.GalleryImage, iconURL string) string {
	if len(gallery) > 0 {
		return gallery[0].URL
	}
	return iconURL
}

// SortGallery orders gallery images for display: featured images first, then
// images whose title or description mentions "banner", then "header", then
// everything else in original order. The sort is stable.
func SortGallery(images []modrinth.GalleryImage) []modrinth.GalleryImage {
	sorted := make([]modrinth.GalleryImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return galleryRank(sorted[i]) < galleryRank(sorted[j])
	})
	return sorted
}

func galleryRank(img modrinth.GalleryImage) int {
	text := strings.ToLower(img.Title + " " + img.Description)
	switch {
	case img.Featured:
		return 0
	case strings.Contains(text, "banner"):
		return 1
	case strings.Contains(text, "header"):
		return 2
	default:
		return 3
	}
}
