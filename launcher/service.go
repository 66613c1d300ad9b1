package launcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"modpack-launcher/config"
	"modpack-launcher/db"
	"modpack-launcher/events"
	"modpack-launcher/modrinth"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry is the slice of the Modrinth client the service needs. Kept small
// so tests can substitute a fake.
type Registry interface {
	GetProjectVersions(idOrSlug string, loaders, gameVersions []string) ([]modrinth.Version, error)
	DownloadFile(log *zap.SugaredLogger, destinationPath, downloadURL string) error
}

// Service owns local instances: creation, pack installs, mod downloads, and
// the progress events those operations emit.
type Service struct {
	cfg      config.Config
	registry Registry
	bus      *events.Bus
	log      *zap.SugaredLogger

	now func() time.Time // overridable for tests
}

// NewService creates a launcher service.
func NewService(cfg config.Config, registry Registry, bus *events.Bus, log *zap.SugaredLogger) *Service {
	return &Service{
		cfg:      cfg,
		registry: registry,
		bus:      bus,
		log:      log,
		now:      time.Now,
	}
}

// Bus exposes the progress bus for views to subscribe to.
func (s *Service) Bus() *events.Bus {
	return s.bus
}

// defaultLoader is the loader used when neither the caller nor the pack
// version names one: the configured DEFAULT_LOADER, falling back to fabric.
func (s *Service) defaultLoader() string {
	if s.cfg.DefaultLoader != "" {
		return s.cfg.DefaultLoader
	}
	return "fabric"
}

// InstanceDir returns the directory an instance's files live in.
func (s *Service) InstanceDir(name string) string {
	return filepath.Join(s.cfg.LauncherDir, "instances", name)
}

// Instances lists all known instances, oldest first.
func (s *Service) Instances() ([]db.Instance, error) {
	var instances []db.Instance
	if err := db.DB.Order("created_at ASC").Find(&instances).Error; err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	return instances, nil
}

// UniqueInstanceName returns name unchanged if it is free, otherwise appends
// a timestamp suffix until the result does not collide with an existing
// instance. Existing records are never touched.
func (s *Service) UniqueInstanceName(name string) string {
	exists := func(n string) bool {
		var count int64
		db.DB.Model(&db.Instance{}).Where("name = ?", n).Count(&count)
		return count > 0
	}

	if !exists(name) {
		return name
	}
	candidate := fmt.Sprintf("%s-%d", name, s.now().Unix())
	for exists(candidate) {
		// Second collision within the same second, fall back to nanoseconds
		candidate = fmt.Sprintf("%s-%d", name, s.now().UnixNano())
	}
	return candidate
}

// CreateInstance creates the instance directory tree and database record.
// The returned name may differ from the requested one on collision.
func (s *Service) CreateInstance(name, gameVersion, loader, loaderVersion string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("instance name cannot be empty")
	}
	if loader != "vanilla" && loader != "fabric" {
		return "", fmt.Errorf("unsupported loader %q", loader)
	}

	finalName := s.UniqueInstanceName(name)

	instanceDir := s.InstanceDir(finalName)
	for _, dir := range []string{instanceDir, filepath.Join(instanceDir, "mods")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create instance directory '%s': %w", dir, err)
		}
	}

	instance := db.Instance{
		Name:          finalName,
		GameVersion:   gameVersion,
		Loader:        loader,
		LoaderVersion: loaderVersion,
	}
	if err := db.DB.Create(&instance).Error; err != nil {
		return "", fmt.Errorf("failed to save instance: %w", err)
	}

	s.log.Infow("Created instance",
		zap.String("name", finalName),
		zap.String("game_version", gameVersion),
		zap.String("loader", loader),
	)
	return finalName, nil
}

// InstanceIcon returns the path of the instance's icon, or "" when none has
// been extracted yet.
func (s *Service) InstanceIcon(name string) string {
	iconPath := filepath.Join(s.cfg.LauncherDir, "icons", name+".png")
	if _, err := os.Stat(iconPath); err != nil {
		return ""
	}
	return iconPath
}

// OpenInstanceFolder opens the instance directory in the platform file
// manager.
func (s *Service) OpenInstanceFolder(name string) error {
	dir := s.InstanceDir(name)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("instance folder does not exist: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", dir)
	case "windows":
		cmd = exec.Command("explorer", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open instance folder: %w", err)
	}
	return nil
}

// InstalledMods lists the mod files recorded for an instance.
func (s *Service) InstalledMods(instanceName string) ([]db.InstalledMod, error) {
	var mods []db.InstalledMod
	if err := db.DB.Where("instance_name = ?", instanceName).Find(&mods).Error; err != nil {
		return nil, fmt.Errorf("failed to list installed mods: %w", err)
	}
	return mods, nil
}

// DownloadMod downloads a single mod file into an instance's mods directory
// and records it.
func (s *Service) DownloadMod(instanceName, downloadURL, filename string) error {
	var instance db.Instance
	if err := db.DB.Where("name = ?", instanceName).First(&instance).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("instance '%s' does not exist", instanceName)
		}
		return fmt.Errorf("failed to look up instance: %w", err)
	}

	destPath := filepath.Join(s.InstanceDir(instanceName), "mods", filename)
	if err := s.registry.DownloadFile(s.log, destPath, downloadURL); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	var size int64
	if info, err := os.Stat(destPath); err == nil {
		size = info.Size()
	}

	record := db.InstalledMod{
		InstanceName: instanceName,
		FileName:     filename,
		Size:         size,
		InstallPath:  destPath,
	}
	if err := db.DB.Create(&record).Error; err != nil {
		s.log.Warnw("Failed to record installed mod", zap.String("file", filename), zap.Error(err))
	}
	return nil
}

// copyFile copies src to dst, creating parent directories as needed.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
