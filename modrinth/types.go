package modrinth

// SearchResponse is a single page of registry search results.
type SearchResponse struct {
	Hits      []Project `json:"hits"`
	Offset    int       `json:"offset"`
	Limit     int       `json:"limit"`
	TotalHits int       `json:"total_hits"`
}

// Project represents a Modrinth project. Search hits carry ProjectID while
// the project detail endpoint carries ID; ProjectID() resolves either.
type Project struct {
	ID          string         `json:"id"`
	HitID       string         `json:"project_id"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Author      string         `json:"author"`
	Description string         `json:"description"`
	Downloads   int            `json:"downloads"`
	IconURL     string         `json:"icon_url"`
	Color       int            `json:"color"`
	Categories  []string       `json:"categories"`
	ProjectType string         `json:"project_type"` // e.g. "mod", "modpack"
	ClientSide  string         `json:"client_side"`  // required, optional, unsupported, unknown
	ServerSide  string         `json:"server_side"`
	Updated     string         `json:"updated"`
	Gallery     []GalleryImage `json:"gallery"`
}

// ProjectID returns the stable registry identifier regardless of which
// endpoint produced the struct.
func (p Project) ProjectID() string {
	if p.ID != "" {
		return p.ID
	}
	return p.HitID
}

// GalleryImage is a single image attached to a project's gallery.
type GalleryImage struct {
	URL         string `json:"url"`
	Featured    bool   `json:"featured"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Created     string `json:"created"`
	Ordering    int    `json:"ordering"`
}

// Version represents a Modrinth project version.
type Version struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"project_id"`
	Name          string   `json:"name"`
	VersionNumber string   `json:"version_number"`
	Loaders       []string `json:"loaders"`
	GameVersions  []string `json:"game_versions"` // first entry = latest/preferred
	Files         []File   `json:"files"`
}

// File represents a file within a Modrinth version.
type File struct {
	Filename string            `json:"filename"`
	URL      string            `json:"url"`
	Primary  bool              `json:"primary"`
	Size     int               `json:"size"`
	Hashes   map[string]string `json:"hashes"` // e.g. {"sha512": "...", "sha1": "..."}
}

// PrimaryFile locates the primary file in a version, or the first file if no
// primary is marked. Returns nil when the version has no files at all.
func (v Version) PrimaryFile() *File {
	for i := range v.Files {
		if v.Files[i].Primary {
			return &v.Files[i]
		}
	}
	if len(v.Files) > 0 {
		return &v.Files[0]
	}
	return nil
}

// GameVersionTag is an entry from the registry's game version tag list.
type GameVersionTag struct {
	Version     string `json:"version"`
	VersionType string `json:"version_type"` // release, snapshot, beta, alpha
	Date        string `json:"date"`
	Major       bool   `json:"major"`
}
