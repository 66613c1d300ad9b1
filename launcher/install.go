package launcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"modpack-launcher/db"
	"modpack-launcher/events"
	"modpack-launcher/modrinth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InstallResult describes a completed (or started) install operation.
type InstallResult struct {
	OpID         string // Stable id, also the key of all progress events
	InstanceName string // Final instance name after collision handling
}

func (s *Service) emit(opID, instance string, progress int, stage string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.InstallProgress{
		OpID:     opID,
		Instance: instance,
		Progress: progress,
		Stage:    stage,
	})
}

// InstallModpack resolves a pack version, creates an instance for it, and
// downloads the pack's primary file. Progress is reported on the bus keyed by
// the returned operation id. When versionID is empty the first (newest)
// compatible version is used.
func (s *Service) InstallModpack(slug, instanceName, versionID, preferredGameVersion string) (*InstallResult, error) {
	opID := uuid.NewString()
	log := s.log.With(zap.String("op_id", opID), zap.String("slug", slug))

	s.emit(opID, instanceName, 0, "Resolving version")

	versions, err := s.registry.GetProjectVersions(slug, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get modpack versions for '%s': %w", slug, err)
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("no versions available for modpack '%s'", slug)
	}

	version := versions[0]
	if versionID != "" {
		found := false
		for _, v := range versions {
			if v.ID == versionID {
				version = v
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("version '%s' not found for modpack '%s'", versionID, slug)
		}
	}

	primaryFile := version.PrimaryFile()
	if primaryFile == nil {
		return nil, fmt.Errorf("version '%s' has no files", version.ID)
	}

	gameVersion := preferredGameVersion
	if gameVersion == "" && len(version.GameVersions) > 0 {
		gameVersion = version.GameVersions[0]
	}
	if gameVersion == "" {
		gameVersion = s.cfg.DefaultGameVersion
	}
	loader := s.defaultLoader()
	if len(version.Loaders) > 0 {
		loader = version.Loaders[0]
	}

	s.emit(opID, instanceName, 20, "Creating instance")
	finalName, err := s.CreateInstance(instanceName, gameVersion, loader, "")
	if err != nil {
		return nil, err
	}

	s.emit(opID, finalName, 40, "Downloading pack")
	downloadPath := filepath.Join(s.InstanceDir(finalName), primaryFile.Filename)
	if err := s.registry.DownloadFile(log, downloadPath, primaryFile.URL); err != nil {
		return nil, fmt.Errorf("failed to download pack file: %w", err)
	}

	s.emit(opID, finalName, 90, "Recording install")
	if err := db.DB.Model(&db.Instance{}).Where("name = ?", finalName).
		Updates(map[string]interface{}{"pack_slug": slug, "pack_version_id": version.ID}).Error; err != nil {
		log.Warnw("Failed to record pack source on instance", zap.Error(err))
	}

	s.emit(opID, finalName, 100, "Complete")
	log.Infow("Modpack installed",
		zap.String("instance", finalName),
		zap.String("version_id", version.ID),
		zap.String("file", primaryFile.Filename),
	)
	return &InstallResult{OpID: opID, InstanceName: finalName}, nil
}

// InstallModpackFromFile creates an instance and places a local pack file
// into it, for packs obtained outside the registry.
func (s *Service) InstallModpackFromFile(filePath, instanceName, preferredGameVersion string) (*InstallResult, error) {
	opID := uuid.NewString()

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".mrpack" && ext != ".zip" {
		return nil, fmt.Errorf("unsupported pack file type %q", ext)
	}

	gameVersion := preferredGameVersion
	if gameVersion == "" {
		gameVersion = s.cfg.DefaultGameVersion
	}

	s.emit(opID, instanceName, 20, "Creating instance")
	finalName, err := s.CreateInstance(instanceName, gameVersion, s.defaultLoader(), "")
	if err != nil {
		return nil, err
	}

	s.emit(opID, finalName, 60, "Copying pack file")
	destPath := filepath.Join(s.InstanceDir(finalName), filepath.Base(filePath))
	if err := copyFile(filePath, destPath); err != nil {
		return nil, fmt.Errorf("failed to copy pack file: %w", err)
	}

	s.emit(opID, finalName, 100, "Complete")
	s.log.Infow("Modpack installed from file",
		zap.String("instance", finalName),
		zap.String("file", filepath.Base(filePath)),
	)
	return &InstallResult{OpID: opID, InstanceName: finalName}, nil
}

// InstallMod resolves a mod version compatible with the instance's loader and
// game version and downloads its primary file into the instance.
func (s *Service) InstallMod(instanceName string, project modrinth.Project, version modrinth.Version) error {
	primaryFile := version.PrimaryFile()
	if primaryFile == nil {
		return fmt.Errorf("version '%s' has no files", version.ID)
	}

	if err := s.DownloadMod(instanceName, primaryFile.URL, primaryFile.Filename); err != nil {
		return err
	}

	// Backfill registry identity on the record DownloadMod created
	if err := db.DB.Model(&db.InstalledMod{}).
		Where("instance_name = ? AND file_name = ?", instanceName, primaryFile.Filename).
		Updates(map[string]interface{}{
			"project_id":   project.ProjectID(),
			"project_slug": project.Slug,
			"title":        project.Title,
			"version_id":   version.ID,
		}).Error; err != nil {
		s.log.Warnw("Failed to record mod identity", zap.String("file", primaryFile.Filename), zap.Error(err))
	}
	return nil
}
