package platform

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	got := Detect()
	if runtime.GOOS == "darwin" {
		if got != MacOS {
			t.Errorf("Detect() = %v, want %v", got, MacOS)
		}
	} else if got != Unknown {
		t.Errorf("Detect() = %v, want %v", got, Unknown)
	}
}

func TestGetMacOSInfo(t *testing.T) {
	info := getMacOSInfo("/Users/alex", "alex")

	if info.OS != MacOS {
		t.Errorf("OS = %v", info.OS)
	}
	if info.ContainersDir != "/Users/alex/Library/Containers" {
		t.Errorf("ContainersDir = %s", info.ContainersDir)
	}
	if info.GroupContainersDir != "/Users/alex/Library/Group Containers" {
		t.Errorf("GroupContainersDir = %s", info.GroupContainersDir)
	}

	if len(info.LaunchAgentDirs) != 2 {
		t.Fatalf("LaunchAgentDirs = %v, want user and system scope", info.LaunchAgentDirs)
	}
	if !strings.HasPrefix(info.LaunchAgentDirs[0], "/Users/alex") {
		t.Errorf("first launch agent dir should be user-scoped, got %s", info.LaunchAgentDirs[0])
	}
	if info.LaunchAgentDirs[1] != "/Library/LaunchAgents" {
		t.Errorf("second launch agent dir = %s", info.LaunchAgentDirs[1])
	}
}

func TestMacOSInfoProtectsUserData(t *testing.T) {
	info := getMacOSInfo("/Users/alex", "alex")

	for _, want := range []string{"/System", "/Applications", filepath.Join("/Users/alex", "Documents")} {
		found := false
		for _, p := range info.ProtectedPaths {
			if p == want {
				found = true
			}
		}
		if !found {
			t.Errorf("protected paths missing %s", want)
		}
	}
}

func TestIsProtectedPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/System", true},
		{"/Applications", true},
		{"/Users/alex/Library/Caches/com.gone.app", false},
	}
	for _, tt := range tests {
		if got := IsProtectedPath(tt.path); got != tt.want {
			t.Errorf("IsProtectedPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestGetInfoOffPlatform(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("darwin host")
	}
	if _, err := GetInfo(); err == nil {
		t.Error("expected error on non-darwin platform")
	}
}
