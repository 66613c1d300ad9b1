package modrinth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"modpack-launcher/config"

	"go.uber.org/zap"
)

const (
	modrinthAPIURL = "https://api.modrinth.com/v2"
	defaultTimeout = 15 * time.Second
)

// Search sort indices understood by the registry.
const (
	IndexRelevance = "relevance"
	IndexDownloads = "downloads"
)

// Client handles communication with the Modrinth API.
type Client struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new Modrinth API client using the provided configuration.
func NewClient(cfg config.Config) (*Client, error) {
	if cfg.UserAgent == "" {
		// Should be handled by LoadConfig default, but double-check
		return nil, fmt.Errorf("USERAGENT is not configured")
	}

	return &Client{
		BaseURL:   modrinthAPIURL,
		APIKey:    cfg.ModrinthAPIKey,
		UserAgent: cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

func (c *Client) makeRequest(method, path string, queryParams url.Values, target interface{}, requiresAuth bool, isBinary bool) (*http.Response, error) {
	fullURL := c.BaseURL + path
	if isBinary {
		// For binary downloads, the 'path' is expected to be the full URL already
		fullURL = path
	}

	req, err := http.NewRequest(method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if queryParams != nil {
		req.URL.RawQuery = queryParams.Encode()
	}

	req.Header.Set("User-Agent", c.UserAgent)
	if requiresAuth {
		if c.APIKey == "" {
			return nil, fmt.Errorf("authentication required, but MODRINTH_API_KEY is not set")
		}
		req.Header.Set("Authorization", c.APIKey)
	}

	if !isBinary {
		req.Header.Set("Accept", "application/json")
	} else {
		req.Header.Set("Accept", "application/octet-stream")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Try to read body for more error info, but don't fail if it's already closed or unreadable
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return resp, fmt.Errorf("api request failed: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	// Don't try to decode JSON or close body for binary responses here
	if target != nil && !isBinary {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resp, fmt.Errorf("failed to decode json response: %w", err)
		}
	}

	return resp, nil // For binary, return the response so the caller can handle the body
}

// SearchProjects queries the registry search index. Facets are structured
// filter clauses like [["project_type:modpack"],["versions:1.20.4"]]; each
// outer group is ANDed, entries within a group are ORed.
func (c *Client) SearchProjects(query string, facets [][]string, index string, offset, limit int) (*SearchResponse, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("index", index)
	params.Add("offset", strconv.Itoa(offset))
	params.Add("limit", strconv.Itoa(limit))

	if len(facets) > 0 {
		facetJSON, err := json.Marshal(facets)
		if err != nil {
			return nil, fmt.Errorf("failed to encode facets: %w", err)
		}
		params.Add("facets", string(facetJSON))
	}

	var result SearchResponse
	_, err := c.makeRequest("GET", "/search", params, &result, false, false)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	return &result, nil
}

// GetProjectVersions retrieves versions for a project, optionally filtered by
// loaders and game versions. The registry returns versions newest-first; the
// first entry is treated as the default selection.
func (c *Client) GetProjectVersions(idOrSlug string, loaders, gameVersions []string) ([]Version, error) {
	params := url.Values{}
	if len(loaders) > 0 {
		loaderJSON, _ := json.Marshal(loaders)
		params.Add("loaders", string(loaderJSON))
	}
	if len(gameVersions) > 0 {
		gvJSON, _ := json.Marshal(gameVersions)
		params.Add("game_versions", string(gvJSON))
	}

	var versions []Version
	_, err := c.makeRequest("GET", fmt.Sprintf("/project/%s/version", idOrSlug), params, &versions, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get project versions for '%s': %w", idOrSlug, err)
	}
	return versions, nil
}

// GetProject retrieves details for a specific project, including its gallery.
func (c *Client) GetProject(idOrSlug string) (*Project, error) {
	var project Project
	_, err := c.makeRequest("GET", fmt.Sprintf("/project/%s", idOrSlug), nil, &project, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get project '%s': %w", idOrSlug, err)
	}
	return &project, nil
}

// GetGameVersionTags retrieves the full list of game version tags known to
// the registry, newest first.
func (c *Client) GetGameVersionTags() ([]GameVersionTag, error) {
	var tags []GameVersionTag
	_, err := c.makeRequest("GET", "/tag/game_version", nil, &tags, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get game version tags: %w", err)
	}
	return tags, nil
}

// SupportedGameVersions returns release game versions only, in registry order
// (newest first).
func (c *Client) SupportedGameVersions() ([]string, error) {
	tags, err := c.GetGameVersionTags()
	if err != nil {
		return nil, err
	}
	var releases []string
	for _, tag := range tags {
		if tag.VersionType == "release" {
			releases = append(releases, tag.Version)
		}
	}
	return releases, nil
}

// DownloadFile downloads a file from the given URL and saves it to the
// specified destination path.
func (c *Client) DownloadFile(log *zap.SugaredLogger, destinationPath, downloadURL string) error {
	dir := filepath.Dir(destinationPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Warnw("Target directory for download does not exist, attempting to create", zap.String("directory", dir))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create target directory '%s': %w", dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check target directory '%s': %w", dir, err)
	}

	resp, err := c.makeRequest("GET", downloadURL, nil, nil, false, true) // No auth needed for direct download URL, binary=true
	if err != nil {
		return fmt.Errorf("failed to start download for '%s' from %s: %w", filepath.Base(destinationPath), downloadURL, err)
	}
	defer resp.Body.Close()

	outFile, err := os.Create(destinationPath)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", destinationPath, err)
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, resp.Body)
	if err != nil {
		// Attempt to remove partially downloaded file on error
		os.Remove(destinationPath)
		return fmt.Errorf("failed to write downloaded content to '%s': %w", destinationPath, err)
	}

	return nil
}
