package leftover

import (
	"fmt"
	"strings"

	"github.com/appsweep/appsweep/internal/appindex"
	"github.com/appsweep/appsweep/internal/config"
	"github.com/appsweep/appsweep/internal/platform"
)

// ArtifactKind selects which directory entries a category examines.
type ArtifactKind int

const (
	// ArtifactDir matches subdirectories.
	ArtifactDir ArtifactKind = iota
	// ArtifactPlist matches *.plist files; the artifact key is the stem.
	ArtifactPlist
)

// Category describes one class of leftover artifact: where its entries live,
// which of them belong to the system, how ownership is decided and how
// findings are presented.
type Category struct {
	Name      string // stable identifier, also the config key
	Title     string // display label
	Source    Source
	IDPrefix  string
	Dirs      []string
	Artifact  ArtifactKind
	Skip      []string
	Match     matcher
	MatchKeys func(stem string) []string // nil: match the stem itself

	Confidence Confidence
	MinSize    int64 // report only when size is strictly greater; -1 disables
	Hint       func(name string) string
	InferName  bool // display name via naming.Infer instead of the raw stem
	OwnerWild  bool // record the owner as "*.<stem>"
}

// skips reports whether the artifact stem is covered by the category's
// system skip list. Matching is by normalized prefix.
func (c Category) skips(stem string) bool {
	n := appindex.Normalize(stem)
	for _, skip := range c.Skip {
		if strings.HasPrefix(n, appindex.Normalize(skip)) {
			return true
		}
	}
	return false
}

// owned reports whether any installed application claims the artifact.
func (c Category) owned(stem string, index appindex.Index) bool {
	keys := []string{stem}
	if c.MatchKeys != nil {
		keys = c.MatchKeys(stem)
	}
	for _, key := range keys {
		if c.Match(key, index) {
			return true
		}
	}
	return false
}

// Categories returns the enabled detectors for the given platform, with skip
// lists and thresholds extended from the configuration.
func Categories(info *platform.Info, cfg *config.Config) []Category {
	all := []Category{
		{
			Name:       "containers",
			Title:      "Containers",
			Source:     SourceContainers,
			IDPrefix:   "container",
			Dirs:       []string{info.ContainersDir},
			Artifact:   ArtifactDir,
			Match:      matchExact,
			Confidence: ConfidenceHigh,
			MinSize:    0,
			Hint: func(name string) string {
				return fmt.Sprintf("Sandbox container for %s, which is no longer installed", name)
			},
			InferName: true,
		},
		{
			Name:       "group_containers",
			Title:      "Group Containers",
			Source:     SourceGroupContainers,
			IDPrefix:   "group_container",
			Dirs:       []string{info.GroupContainersDir},
			Artifact:   ArtifactDir,
			Match:      matchSubstring,
			MatchKeys:  groupContainerKeys,
			Confidence: ConfidenceHigh,
			MinSize:    0,
			Hint: func(name string) string {
				return fmt.Sprintf("Shared group container for %s with no matching installed app", name)
			},
			InferName: true,
		},
		{
			Name:     "preferences",
			Title:    "Preferences",
			Source:   SourcePreferences,
			IDPrefix: "pref",
			Dirs:     []string{info.PreferencesDir},
			Artifact: ArtifactPlist,
			Skip: []string{
				"com.apple.", "org.python.", "com.github.",
				"loginwindow", "pbs", "systemsoundserverd",
				"ContextStoreAgent", "NSGlobalDomain",
			},
			Match:      matchContainedIn,
			Confidence: ConfidenceMedium,
			MinSize:    0,
			Hint: func(name string) string {
				return fmt.Sprintf("Preference file for %s, which appears to be uninstalled", name)
			},
			InferName: true,
		},
		{
			Name:     "launch_agents",
			Title:    "Launch Agents",
			Source:   SourceLaunchAgents,
			IDPrefix: "launchagent",
			Dirs:     info.LaunchAgentDirs,
			Artifact: ArtifactPlist,
			Skip: []string{
				"com.apple.", "com.openssh", "bootcamp", "org.gpgtools",
			},
			Match:      matchSubstring,
			Confidence: ConfidenceHigh,
			MinSize:    -1,
			Hint: func(name string) string {
				return fmt.Sprintf("Login item for %s, which is no longer installed", name)
			},
			InferName: true,
		},
		{
			Name:     "app_support",
			Title:    "Application Support",
			Source:   SourceAppSupport,
			IDPrefix: "appsupport",
			Dirs:     []string{info.ApplicationSupportDir},
			Artifact: ArtifactDir,
			Skip: []string{
				"AddressBook", "AppStore", "CallHistoryDB", "CloudDocs",
				"CrashReporter", "Dock", "FileProvider", "iCloud", "icdd",
				"Knowledge", "MobileSync", "NotificationCenter", "Quick Look",
				"Spotlight", "com.apple.", "Apple", "SyncServices", "CoreData",
			},
			Match:      matchToken,
			Confidence: ConfidenceMedium,
			MinSize:    cfg.Thresholds.AppSupportMinBytes,
			Hint: func(name string) string {
				return fmt.Sprintf("Support files left behind by %q", name)
			},
			OwnerWild: true,
		},
		{
			Name:     "caches",
			Title:    "Caches",
			Source:   SourceCaches,
			IDPrefix: "cache",
			Dirs:     []string{info.CachesDir},
			Artifact: ArtifactDir,
			Skip: []string{
				"com.apple.", "CloudKit", "GeoServices", "PassKit",
				"com.crashlytics", "google", "org.swift",
			},
			Match:      matchSubstring,
			Confidence: ConfidenceMedium,
			MinSize:    cfg.Thresholds.CachesMinBytes,
			Hint: func(name string) string {
				return fmt.Sprintf("Cache folder for %s with no matching installed app", name)
			},
			InferName: true,
		},
		{
			Name:     "logs",
			Title:    "Logs",
			Source:   SourceLogs,
			IDPrefix: "logs",
			Dirs:     []string{info.LogsDir},
			Artifact: ArtifactDir,
			Skip: []string{
				"DiagnosticReports", "com.apple.", "CoreSimulator", "Homebrew",
			},
			Match:      matchToken,
			Confidence: ConfidenceLow,
			MinSize:    cfg.Thresholds.LogsMinBytes,
			Hint: func(name string) string {
				return fmt.Sprintf("Log files left behind by %q", name)
			},
			OwnerWild: true,
		},
	}

	enabled := map[string]bool{
		"containers":       cfg.Categories.Containers,
		"group_containers": cfg.Categories.GroupContainers,
		"preferences":      cfg.Categories.Preferences,
		"launch_agents":    cfg.Categories.LaunchAgents,
		"app_support":      cfg.Categories.AppSupport,
		"caches":           cfg.Categories.Caches,
		"logs":             cfg.Categories.Logs,
	}

	var categories []Category
	for _, c := range all {
		if !enabled[c.Name] {
			continue
		}
		c.Skip = append(c.Skip, cfg.ExtraSkip[c.Name]...)
		categories = append(categories, c)
	}
	return categories
}

// groupContainerKeys returns the match keys for a group container folder.
// Folders are commonly prefixed with a developer team ID ("2BUA8C4S2C.
// com.agilebits"); when one is present, the identifier after it is matched
// as well.
func groupContainerKeys(stem string) []string {
	keys := []string{stem}
	if i := strings.Index(stem, "."); i > 0 && looksLikeTeamID(stem[:i]) && i+1 < len(stem) {
		keys = append(keys, stem[i+1:])
	}
	return keys
}

// looksLikeTeamID reports whether s has the shape of an Apple developer team
// identifier: exactly ten characters, uppercase letters and digits only.
func looksLikeTeamID(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
