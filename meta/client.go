// Package meta fetches launcher metadata from Mojang and FabricMC: the game
// version manifest and the Fabric loader version list.
package meta

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	goversion "github.com/hashicorp/go-version"
)

const (
	mojangManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"
	fabricLoaderURL   = "https://meta.fabricmc.net/v2/versions/loader"
	defaultTimeout    = 15 * time.Second
)

// MinecraftVersion is one entry of the Mojang version manifest.
type MinecraftVersion struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // release, snapshot, old_beta, old_alpha
	URL         string `json:"url"`
	Time        string `json:"time"`
	ReleaseTime string `json:"releaseTime"`
}

// VersionManifest is the Mojang version manifest document.
type VersionManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []MinecraftVersion `json:"versions"`
}

// FabricLoaderVersion is one entry of the Fabric loader version list.
type FabricLoaderVersion struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

// Client fetches launcher metadata.
type Client struct {
	ManifestURL     string
	FabricLoaderURL string
	UserAgent       string
	HTTPClient      *http.Client
}

// NewClient creates a metadata client.
func NewClient(userAgent string) *Client {
	return &Client{
		ManifestURL:     mojangManifestURL,
		FabricLoaderURL: fabricLoaderURL,
		UserAgent:       userAgent,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

func (c *Client) getJSON(url string, target interface{}) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("metadata request failed: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode json response: %w", err)
	}
	return nil
}

// MinecraftVersions returns the full Mojang version manifest entries.
func (c *Client) MinecraftVersions() ([]MinecraftVersion, error) {
	var manifest VersionManifest
	if err := c.getJSON(c.ManifestURL, &manifest); err != nil {
		return nil, err
	}
	return manifest.Versions, nil
}

// ReleaseVersions returns release game versions sorted newest-first by
// semantic version. Entries that do not parse as versions keep manifest order
// at the end of the list.
func (c *Client) ReleaseVersions() ([]string, error) {
	versions, err := c.MinecraftVersions()
	if err != nil {
		return nil, err
	}
	var releases []MinecraftVersion
	for _, v := range versions {
		if v.Type == "release" {
			releases = append(releases, v)
		}
	}
	return SortReleasesDescending(releases), nil
}

// FabricLoaderVersions returns the Fabric loader version list, stable builds
// first in upstream order.
func (c *Client) FabricLoaderVersions() ([]FabricLoaderVersion, error) {
	var loaders []FabricLoaderVersion
	if err := c.getJSON(c.FabricLoaderURL, &loaders); err != nil {
		return nil, err
	}
	return loaders, nil
}

// LatestStableFabricLoader picks the newest stable loader build, falling back
// to the first entry when nothing is marked stable.
func LatestStableFabricLoader(loaders []FabricLoaderVersion) (FabricLoaderVersion, error) {
	for _, l := range loaders {
		if l.Stable {
			return l, nil
		}
	}
	if len(loaders) > 0 {
		return loaders[0], nil
	}
	return FabricLoaderVersion{}, fmt.Errorf("no fabric loader versions available")
}

// SortReleasesDescending orders release entries newest-first by semantic
// version. The sort is stable so unparseable ids keep their relative order.
func SortReleasesDescending(releases []MinecraftVersion) []string {
	type parsed struct {
		id  string
		ver *goversion.Version
	}
	entries := make([]parsed, 0, len(releases))
	for _, r := range releases {
		v, err := goversion.NewVersion(r.ID)
		if err != nil {
			v = nil
		}
		entries = append(entries, parsed{id: r.ID, ver: v})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].ver, entries[j].ver
		if a == nil || b == nil {
			return false // keep manifest order for unparseable ids
		}
		return a.GreaterThan(b)
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}
