package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LauncherSettings are the runtime options applied when launching the game.
// An instance may carry an override that replaces the global settings.
type LauncherSettings struct {
	JavaPath   string `json:"java_path,omitempty"`
	MemoryMB   int    `json:"memory_mb"`
	JVMArgs    string `json:"jvm_args,omitempty"`
	Fullscreen bool   `json:"fullscreen"`
}

const (
	minMemoryMB = 512
	maxMemoryMB = 32768
)

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() LauncherSettings {
	return LauncherSettings{MemoryMB: 4096}
}

// ValidateMemoryAllocation rejects allocations the JVM cannot reasonably use.
func ValidateMemoryAllocation(memoryMB int) error {
	if memoryMB < minMemoryMB {
		return fmt.Errorf("memory allocation too low: %d MB (minimum %d MB)", memoryMB, minMemoryMB)
	}
	if memoryMB > maxMemoryMB {
		return fmt.Errorf("memory allocation too high: %d MB (maximum %d MB)", memoryMB, maxMemoryMB)
	}
	return nil
}

// ValidateJavaPath checks that the path exists and points at a java binary.
func ValidateJavaPath(javaPath string) error {
	info, err := os.Stat(javaPath)
	if err != nil {
		return fmt.Errorf("java path does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("java path is a directory: %s", javaPath)
	}
	base := strings.TrimSuffix(strings.ToLower(filepath.Base(javaPath)), ".exe")
	if base != "java" && base != "javaw" {
		return fmt.Errorf("java path does not point at a java binary: %s", javaPath)
	}
	return nil
}

func (s *Service) settingsFile() string {
	return filepath.Join(s.cfg.LauncherDir, "settings.json")
}

func (s *Service) instanceSettingsFile(instanceName string) string {
	return filepath.Join(s.InstanceDir(instanceName), "settings.json")
}

func loadSettingsFile(path string) (*LauncherSettings, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	var settings LauncherSettings
	if err := json.Unmarshal(content, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &settings, nil
}

func saveSettingsFile(path string, settings LauncherSettings) error {
	content, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Settings loads the global launcher settings, falling back to defaults when
// none have been saved yet.
func (s *Service) Settings() (LauncherSettings, error) {
	settings, err := loadSettingsFile(s.settingsFile())
	if err != nil {
		return LauncherSettings{}, err
	}
	if settings == nil {
		return DefaultSettings(), nil
	}
	return *settings, nil
}

// SaveSettings validates and persists the global launcher settings.
func (s *Service) SaveSettings(settings LauncherSettings) error {
	if settings.JavaPath != "" {
		if err := ValidateJavaPath(settings.JavaPath); err != nil {
			return err
		}
	}
	if err := ValidateMemoryAllocation(settings.MemoryMB); err != nil {
		return err
	}
	return saveSettingsFile(s.settingsFile(), settings)
}

// InstanceSettings loads an instance's settings override, or nil when the
// instance uses the global settings.
func (s *Service) InstanceSettings(instanceName string) (*LauncherSettings, error) {
	if _, err := os.Stat(s.InstanceDir(instanceName)); err != nil {
		return nil, fmt.Errorf("instance '%s' does not exist", instanceName)
	}
	return loadSettingsFile(s.instanceSettingsFile(instanceName))
}

// SaveInstanceSettings persists an instance override; nil removes it.
func (s *Service) SaveInstanceSettings(instanceName string, settings *LauncherSettings) error {
	if _, err := os.Stat(s.InstanceDir(instanceName)); err != nil {
		return fmt.Errorf("instance '%s' does not exist", instanceName)
	}
	if settings == nil {
		if err := os.Remove(s.instanceSettingsFile(instanceName)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove instance settings: %w", err)
		}
		return nil
	}
	if settings.JavaPath != "" {
		if err := ValidateJavaPath(settings.JavaPath); err != nil {
			return err
		}
	}
	if err := ValidateMemoryAllocation(settings.MemoryMB); err != nil {
		return err
	}
	return saveSettingsFile(s.instanceSettingsFile(instanceName), *settings)
}

// DetectJavaInstallations scans common install roots, JAVA_HOME, and PATH for
// java binaries.
func DetectJavaInstallations() []string {
	var roots []string
	switch {
	case isWindows():
		roots = []string{
			`C:\Program Files\Java`,
			`C:\Program Files (x86)\Java`,
			`C:\Program Files\Eclipse Adoptium`,
			`C:\Program Files\Microsoft`,
			`C:\Program Files\Zulu`,
			`C:\Program Files\Amazon Corretto`,
		}
	case isDarwin():
		roots = []string{
			"/Library/Java/JavaVirtualMachines",
			"/System/Library/Java/JavaVirtualMachines",
		}
	default:
		roots = []string{"/usr/lib/jvm", "/usr/java", "/opt/java"}
	}

	found := map[string]bool{}
	add := func(path string) {
		if ValidateJavaPath(path) == nil {
			found[path] = true
		}
	}

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			add(filepath.Join(root, entry.Name(), javaRelPath()))
		}
	}

	if javaHome := os.Getenv("JAVA_HOME"); javaHome != "" {
		add(filepath.Join(javaHome, "bin", javaBinaryName()))
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		add(filepath.Join(dir, javaBinaryName()))
	}

	paths := make([]string, 0, len(found))
	for path := range found {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func javaRelPath() string {
	if isDarwin() {
		return filepath.Join("Contents", "Home", "bin", "java")
	}
	return filepath.Join("bin", javaBinaryName())
}

func javaBinaryName() string {
	if isWindows() {
		return "javaw.exe"
	}
	return "java"
}
