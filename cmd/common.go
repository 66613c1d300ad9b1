package cmd

import (
	"modpack-launcher/config"
	"modpack-launcher/db"
	"modpack-launcher/events"
	"modpack-launcher/launcher"
	"modpack-launcher/logger"
	"modpack-launcher/modrinth"
	"modpack-launcher/session"

	"go.uber.org/zap"
)

// bootstrap handles shared initialization logic for commands: config, the
// launcher-dir lock, database, registry client, and service. The returned
// release func frees the lock and must be deferred by the caller.
func bootstrap(path string) (config.Config, *modrinth.Client, *launcher.Service, func()) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	release, err := launcher.AcquireLock(cfg.LauncherDir)
	if err != nil {
		logger.Log.Fatalw("Failed to lock launcher directory", zap.Error(err))
	}

	db.InitDatabase(cfg.DatabasePath)
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	client, err := modrinth.NewClient(cfg)
	if err != nil {
		release()
		logger.Log.Fatalw("Failed to create Modrinth client", zap.Error(err))
	}

	svc := launcher.NewService(cfg, client, events.NewBus(), logger.Log)
	return cfg, client, svc, release
}

// packInstaller adapts launcher.Service to session.PackInstaller.
type packInstaller struct {
	svc *launcher.Service
}

func (p packInstaller) InstallModpack(slug, instanceName, versionID, preferredGameVersion string) (session.InstallOutcome, error) {
	result, err := p.svc.InstallModpack(slug, instanceName, versionID, preferredGameVersion)
	if err != nil {
		return session.InstallOutcome{}, err
	}
	return session.InstallOutcome{OpID: result.OpID, InstanceName: result.InstanceName}, nil
}

// applyConfigDefaults fills unset loader/game-version inputs from the loaded
// configuration, so DEFAULT_LOADER and DEFAULT_GAME_VERSION take effect
// wherever the user left the flags off.
func applyConfigDefaults(cfg config.Config, loader, gameVersion string) (string, string) {
	if loader == "" {
		loader = cfg.DefaultLoader
	}
	if gameVersion == "" {
		gameVersion = cfg.DefaultGameVersion
	}
	return loader, gameVersion
}

// installedFileSet builds the filename set used to skip favorites that are
// already present in an instance.
func installedFileSet(svc *launcher.Service, instanceName string) map[string]bool {
	files := make(map[string]bool)
	mods, err := svc.InstalledMods(instanceName)
	if err != nil {
		logger.Log.Warnw("Failed to list installed mods", zap.String("instance", instanceName), zap.Error(err))
		return files
	}
	for _, mod := range mods {
		files[mod.FileName] = true
	}
	return files
}

// truncate shortens a string for fixed-width table rendering.
func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
