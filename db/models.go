package db

import (
	"time"

	"gorm.io/gorm"
)

// Instance represents a local Minecraft installation
type Instance struct {
	gorm.Model
	Name          string `gorm:"uniqueIndex"` // Instance name (unique key)
	GameVersion   string // Minecraft version string, e.g. "1.20.4"
	Loader        string // "vanilla" or "fabric"
	LoaderVersion string // Fabric loader build, empty for vanilla
	IconPath      string // Path to the extracted instance icon, if any
	PackSlug      string // Registry slug of the modpack this was created from, if any
	PackVersionID string // Registry version id the pack was installed at
	LastPlayed    time.Time
}

// InstalledMod represents a mod file placed into an instance
type InstalledMod struct {
	gorm.Model
	InstanceName string `gorm:"index"` // References Instance.Name
	ProjectID    string // Registry project id
	ProjectSlug  string
	Title        string
	VersionID    string // Registry version id
	FileName     string
	Size         int64
	InstallPath  string
}

// FavoriteMod is a starred registry project
type FavoriteMod struct {
	gorm.Model
	ProjectID string `gorm:"uniqueIndex"` // Registry project id
	Title     string
	IconURL   string
	Position  int // Preserves the order favorites were added in
}

// ServerEntry is a saved multiplayer server with its last status snapshot
type ServerEntry struct {
	gorm.Model
	Name          string `gorm:"uniqueIndex"`
	Address       string
	Port          int
	Status        string // "online", "offline", "unknown"
	PlayersOnline int
	PlayersMax    int
	Version       string
	MOTD          string
	Favicon       string // base64 png, as reported by the server
	LastChecked   time.Time
}
