package platform

import (
	"os/user"
	"runtime"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Unknown Platform = "unknown"
)

// Info contains the well-known filesystem locations the scanners operate on.
// Tests construct an Info by hand to point the engine at fixture trees.
type Info struct {
	OS       Platform
	HomeDir  string
	Username string

	// Installed-application discovery
	SystemApplicationsDir string
	UserApplicationsDir   string

	// Leftover artifact locations
	ContainersDir         string
	GroupContainersDir    string
	PreferencesDir        string
	LaunchAgentDirs       []string // user-scoped first, then system-scoped
	ApplicationSupportDir string
	CachesDir             string
	LogsDir               string

	// Paths that must never be handed to the cleaner
	ProtectedPaths []string
}

// Detect returns the current platform
func Detect() Platform {
	if runtime.GOOS == "darwin" {
		return MacOS
	}
	return Unknown
}

// GetInfo returns platform-specific information for the current user
func GetInfo() (*Info, error) {
	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	if Detect() != MacOS {
		return nil, ErrUnsupportedPlatform
	}

	return getMacOSInfo(currentUser.HomeDir, currentUser.Username), nil
}

// IsProtectedPath checks if a path is protected and should never be deleted
func IsProtectedPath(path string) bool {
	protectedPaths := []string{
		"/",
		"/bin",
		"/dev",
		"/etc",
		"/sbin",
		"/usr",
		"/var",
		"/System",
		"/Applications",
		"/Library/System",
	}

	for _, protected := range protectedPaths {
		if path == protected {
			return true
		}
	}

	return false
}

// Errors
var (
	ErrUnsupportedPlatform = &PlatformError{"unsupported platform"}
)

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}
