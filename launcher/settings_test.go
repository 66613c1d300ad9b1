package launcher

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateMemoryAllocation(t *testing.T) {
	tests := []struct {
		memoryMB int
		wantErr  bool
	}{
		{511, true},
		{512, false},
		{4096, false},
		{32768, false},
		{32769, true},
		{0, true},
		{-1024, true},
	}
	for _, tt := range tests {
		err := ValidateMemoryAllocation(tt.memoryMB)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMemoryAllocation(%d) error = %v, wantErr %v", tt.memoryMB, err, tt.wantErr)
		}
	}
}

func TestValidateJavaPath(t *testing.T) {
	dir := t.TempDir()
	javaPath := filepath.Join(dir, "java")
	if err := os.WriteFile(javaPath, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	notJava := filepath.Join(dir, "python")
	if err := os.WriteFile(notJava, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid java binary", javaPath, false},
		{"missing file", filepath.Join(dir, "missing", "java"), true},
		{"directory", dir, true},
		{"wrong binary name", notJava, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJavaPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJavaPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	svc := newTestService(t, &fakeRegistry{})

	// Nothing saved yet: defaults apply
	settings, err := svc.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if settings.MemoryMB != DefaultSettings().MemoryMB {
		t.Errorf("default memory = %d, want %d", settings.MemoryMB, DefaultSettings().MemoryMB)
	}

	settings.MemoryMB = 8192
	settings.JVMArgs = "-XX:+UseG1GC"
	settings.Fullscreen = true
	if err := svc.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	loaded, err := svc.Settings()
	if err != nil {
		t.Fatalf("Settings failed after save: %v", err)
	}
	if loaded != settings {
		t.Errorf("loaded settings = %+v, want %+v", loaded, settings)
	}
}

func TestSaveSettingsValidates(t *testing.T) {
	svc := newTestService(t, &fakeRegistry{})

	if err := svc.SaveSettings(LauncherSettings{MemoryMB: 128}); err == nil {
		t.Error("expected an error for too little memory")
	}
	if err := svc.SaveSettings(LauncherSettings{MemoryMB: 4096, JavaPath: "/does/not/exist/java"}); err == nil {
		t.Error("expected an error for a missing java path")
	}
}

func TestInstanceSettingsOverride(t *testing.T) {
	svc := newTestService(t, &fakeRegistry{})
	if _, err := svc.CreateInstance("alpha", "1.20.4", "fabric", ""); err != nil {
		t.Fatal(err)
	}

	// No override yet
	override, err := svc.InstanceSettings("alpha")
	if err != nil {
		t.Fatalf("InstanceSettings failed: %v", err)
	}
	if override != nil {
		t.Fatalf("unexpected override: %+v", override)
	}

	custom := LauncherSettings{MemoryMB: 2048}
	if err := svc.SaveInstanceSettings("alpha", &custom); err != nil {
		t.Fatalf("SaveInstanceSettings failed: %v", err)
	}
	override, err = svc.InstanceSettings("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if override == nil || override.MemoryMB != 2048 {
		t.Errorf("override = %+v, want memory 2048", override)
	}

	// nil removes the override
	if err := svc.SaveInstanceSettings("alpha", nil); err != nil {
		t.Fatalf("removing override failed: %v", err)
	}
	override, err = svc.InstanceSettings("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if override != nil {
		t.Errorf("override survived removal: %+v", override)
	}

	// Unknown instances are rejected
	if err := svc.SaveInstanceSettings("ghost", &custom); err == nil {
		t.Error("expected an error for a missing instance")
	}
	if _, err := svc.InstanceSettings("ghost"); err == nil {
		t.Error("expected an error for a missing instance")
	}
}

func TestDetectJavaInstallationsFindsJavaHome(t *testing.T) {
	home := t.TempDir()
	binDir := filepath.Join(home, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	javaPath := filepath.Join(binDir, javaBinaryName())
	if err := os.WriteFile(javaPath, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("JAVA_HOME", home)
	t.Setenv("PATH", "")

	found := DetectJavaInstallations()
	for _, path := range found {
		if path == javaPath {
			return
		}
	}
	t.Errorf("JAVA_HOME binary %q not found in %v", javaPath, found)
}
