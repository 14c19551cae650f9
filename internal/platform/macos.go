package platform

import "path/filepath"

// getMacOSInfo returns the macOS locations the leftover and catalog scanners
// operate on. Containers, Group Containers, Preferences and LaunchAgents are
// the per-user Library locations; LaunchAgents is additionally scanned at the
// system scope because installers drop agents in both.
func getMacOSInfo(homeDir, username string) *Info {
	return &Info{
		OS:       MacOS,
		HomeDir:  homeDir,
		Username: username,

		SystemApplicationsDir: "/Applications",
		UserApplicationsDir:   filepath.Join(homeDir, "Applications"),

		ContainersDir:      filepath.Join(homeDir, "Library/Containers"),
		GroupContainersDir: filepath.Join(homeDir, "Library/Group Containers"),
		PreferencesDir:     filepath.Join(homeDir, "Library/Preferences"),
		LaunchAgentDirs: []string{
			filepath.Join(homeDir, "Library/LaunchAgents"),
			"/Library/LaunchAgents",
		},
		ApplicationSupportDir: filepath.Join(homeDir, "Library/Application Support"),
		CachesDir:             filepath.Join(homeDir, "Library/Caches"),
		LogsDir:               filepath.Join(homeDir, "Library/Logs"),

		ProtectedPaths: []string{
			"/",
			"/System",
			"/Applications",
			"/Library/System",
			"/bin",
			"/sbin",
			"/usr",
			"/etc",
			"/var",
			"/dev",
			"/private/etc",
			"/private/var/db",
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			filepath.Join(homeDir, "Pictures"),
			filepath.Join(homeDir, "Music"),
			filepath.Join(homeDir, "Movies"),
		},
	}
}
