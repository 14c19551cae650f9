// Package testutil builds throwaway Library fixture trees for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/appsweep/appsweep/internal/platform"
)

// Fixture is a fake user home with the macOS Library layout the scanners
// expect. Everything lives under a t.TempDir and is cleaned up automatically.
type Fixture struct {
	t    *testing.T
	Home string
	Info *platform.Info
}

// NewFixture creates the Library skeleton and a platform.Info pointing at it.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	home := t.TempDir()
	info := &platform.Info{
		OS:       platform.MacOS,
		HomeDir:  home,
		Username: "fixture",

		SystemApplicationsDir: filepath.Join(home, "Applications"),
		UserApplicationsDir:   filepath.Join(home, "UserApplications"),

		ContainersDir:         filepath.Join(home, "Library/Containers"),
		GroupContainersDir:    filepath.Join(home, "Library/Group Containers"),
		PreferencesDir:        filepath.Join(home, "Library/Preferences"),
		LaunchAgentDirs:       []string{filepath.Join(home, "Library/LaunchAgents")},
		ApplicationSupportDir: filepath.Join(home, "Library/Application Support"),
		CachesDir:             filepath.Join(home, "Library/Caches"),
		LogsDir:               filepath.Join(home, "Library/Logs"),
	}

	for _, dir := range []string{
		info.SystemApplicationsDir,
		info.UserApplicationsDir,
		info.ContainersDir,
		info.GroupContainersDir,
		info.PreferencesDir,
		info.LaunchAgentDirs[0],
		info.ApplicationSupportDir,
		info.CachesDir,
		info.LogsDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create fixture dir %s: %v", dir, err)
		}
	}

	return &Fixture{t: t, Home: home, Info: info}
}

// CreateDir creates a directory under the fixture home.
func (f *Fixture) CreateDir(relPath string) string {
	f.t.Helper()
	path := filepath.Join(f.Home, relPath)
	if err := os.MkdirAll(path, 0o755); err != nil {
		f.t.Fatalf("failed to create dir %s: %v", path, err)
	}
	return path
}

// CreateFile creates a file with content under the fixture home.
func (f *Fixture) CreateFile(relPath string, content []byte) string {
	f.t.Helper()
	path := filepath.Join(f.Home, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.t.Fatalf("failed to create parent dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		f.t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// CreateFileOfSize creates a file padded to exactly size bytes.
func (f *Fixture) CreateFileOfSize(relPath string, size int) string {
	f.t.Helper()
	return f.CreateFile(relPath, make([]byte, size))
}

// CreateArtifactDir creates a directory in one of the Library scan locations
// with a single file of the given size inside it.
func (f *Fixture) CreateArtifactDir(parent, name string, size int) string {
	f.t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		f.t.Fatalf("failed to create artifact dir %s: %v", dir, err)
	}
	if size > 0 {
		if err := os.WriteFile(filepath.Join(dir, "data"), make([]byte, size), 0o644); err != nil {
			f.t.Fatalf("failed to write artifact payload: %v", err)
		}
	}
	return dir
}

// CreatePlist writes a *.plist file into dir.
func (f *Fixture) CreatePlist(dir, stem string, content []byte) string {
	f.t.Helper()
	path := filepath.Join(dir, stem+".plist")
	if content == nil {
		content = []byte("payload")
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		f.t.Fatalf("failed to write plist %s: %v", path, err)
	}
	return path
}

// CreateAppBundle creates a minimal .app bundle with an XML Info.plist
// declaring bundleID, in the given applications directory.
func (f *Fixture) CreateAppBundle(appsDir, name, bundleID string) string {
	f.t.Helper()

	contents := filepath.Join(appsDir, name+".app", "Contents")
	if err := os.MkdirAll(contents, 0o755); err != nil {
		f.t.Fatalf("failed to create app bundle %s: %v", name, err)
	}

	plist := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>%s</string>
	<key>CFBundleIdentifier</key>
	<string>%s</string>
</dict>
</plist>
`, name, bundleID)

	path := filepath.Join(contents, "Info.plist")
	if err := os.WriteFile(path, []byte(plist), 0o644); err != nil {
		f.t.Fatalf("failed to write Info.plist: %v", err)
	}
	return filepath.Join(appsDir, name+".app")
}

// FileExists reports whether path exists.
func (f *Fixture) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertExists fails the test if path does not exist.
func (f *Fixture) AssertExists(path string) {
	f.t.Helper()
	if !f.FileExists(path) {
		f.t.Errorf("expected %s to exist", path)
	}
}

// AssertNotExists fails the test if path exists.
func (f *Fixture) AssertNotExists(path string) {
	f.t.Helper()
	if f.FileExists(path) {
		f.t.Errorf("expected %s to not exist", path)
	}
}
