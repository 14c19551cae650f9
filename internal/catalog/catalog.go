// Package catalog maintains the built-in list of well-known cache and junk
// locations that can be emptied independently of the leftover scan.
package catalog

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/appsweep/appsweep/internal/dirsize"
	"github.com/appsweep/appsweep/internal/platform"
	"github.com/appsweep/appsweep/internal/security"
	"github.com/appsweep/appsweep/pkg/utils"
)

// Risk grades how safe it is to empty a location.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Location is one well-known cleanable path.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
	Hint string `json:"hint"`
	Risk Risk   `json:"risk"`
}

// Entry is a location with its measured on-disk state.
type Entry struct {
	Location
	Exists    bool   `json:"exists"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_human"`
	Selected  bool   `json:"selected"`
}

// Locations returns the catalog for the given platform.
func Locations(info *platform.Info) []Location {
	home := info.HomeDir
	return []Location{
		{
			ID:   "user_caches",
			Name: "User Caches",
			Path: info.CachesDir,
			Hint: "Per-app caches; apps rebuild these as needed",
			Risk: RiskLow,
		},
		{
			ID:   "user_logs",
			Name: "User Logs",
			Path: info.LogsDir,
			Hint: "Diagnostic logs written by apps",
			Risk: RiskLow,
		},
		{
			ID:   "system_caches",
			Name: "System Caches",
			Path: "/Library/Caches",
			Hint: "Shared caches; emptying may require elevated permissions",
			Risk: RiskMedium,
		},
		{
			ID:   "xcode_derived_data",
			Name: "Xcode Derived Data",
			Path: filepath.Join(home, "Library", "Developer", "Xcode", "DerivedData"),
			Hint: "Build intermediates; Xcode regenerates them on the next build",
			Risk: RiskLow,
		},
		{
			ID:   "xcode_archives",
			Name: "Xcode Archives",
			Path: filepath.Join(home, "Library", "Developer", "Xcode", "Archives"),
			Hint: "App archives with debug symbols; needed to symbolicate old builds",
			Risk: RiskHigh,
		},
		{
			ID:   "simulator_caches",
			Name: "Simulator Caches",
			Path: filepath.Join(home, "Library", "Developer", "CoreSimulator", "Caches"),
			Hint: "iOS simulator caches",
			Risk: RiskLow,
		},
		{
			ID:   "device_backups",
			Name: "Device Backups",
			Path: filepath.Join(home, "Library", "Application Support", "MobileSync", "Backup"),
			Hint: "Local iPhone/iPad backups; irreplaceable if the device is lost",
			Risk: RiskHigh,
		},
		{
			ID:   "homebrew_cache",
			Name: "Homebrew Cache",
			Path: filepath.Join(home, "Library", "Caches", "Homebrew"),
			Hint: "Downloaded bottles and sources; brew re-downloads on demand",
			Risk: RiskLow,
		},
		{
			ID:   "pip_cache",
			Name: "pip Cache",
			Path: filepath.Join(home, "Library", "Caches", "pip"),
			Hint: "Downloaded Python wheels",
			Risk: RiskLow,
		},
		{
			ID:   "npm_cache",
			Name: "npm Cache",
			Path: filepath.Join(home, ".npm"),
			Hint: "npm package cache",
			Risk: RiskLow,
		},
		{
			ID:   "trash",
			Name: "Trash",
			Path: filepath.Join(home, ".Trash"),
			Hint: "Files you already deleted",
			Risk: RiskMedium,
		},
	}
}

// Scanner measures catalog locations.
type Scanner struct {
	Sizer *dirsize.Sizer

	info *platform.Info
}

// NewScanner creates a catalog scanner.
func NewScanner(info *platform.Info) *Scanner {
	return &Scanner{Sizer: dirsize.New(), info: info}
}

// Scan sizes every catalog location. Missing locations appear with Exists
// false and zero size. Non-empty low-risk locations are pre-selected; results
// come back largest first.
func (s *Scanner) Scan() []Entry {
	locations := Locations(s.info)
	entries := make([]Entry, 0, len(locations))

	for _, loc := range locations {
		entry := Entry{Location: loc}
		if _, err := os.Stat(loc.Path); err == nil {
			entry.Exists = true
			entry.Size = s.Sizer.Size(loc.Path)
		}
		entry.SizeHuman = utils.FormatBytes(entry.Size)
		entry.Selected = entry.Exists && entry.Size > 0 && loc.Risk == RiskLow
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].ID < entries[j].ID
	})

	return entries
}

// EmptyResult reports what emptying one location did.
type EmptyResult struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Removed   int    `json:"removed"`
	FreedSize int64  `json:"freed_size"`
	DryRun    bool   `json:"dry_run"`
	Error     string `json:"error,omitempty"`
}

// Empty removes the contents of the catalog locations named by ids, keeping
// the directories themselves in place. Unknown IDs are ignored.
func (s *Scanner) Empty(ids []string, dryRun bool) []EmptyResult {
	validator := security.NewPathValidator()

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var results []EmptyResult
	for _, loc := range Locations(s.info) {
		if _, ok := want[loc.ID]; !ok {
			continue
		}
		results = append(results, emptyLocation(loc, s.Sizer, validator, dryRun))
	}
	return results
}

func emptyLocation(loc Location, sizer *dirsize.Sizer, validator *security.PathValidator, dryRun bool) EmptyResult {
	result := EmptyResult{ID: loc.ID, Path: loc.Path, DryRun: dryRun}

	entries, err := os.ReadDir(loc.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Error = err.Error()
		}
		return result
	}

	for _, entry := range entries {
		child := filepath.Join(loc.Path, entry.Name())
		size := sizer.Size(child)

		if err := validator.ValidatePathForRemoval(child); err != nil {
			result.Error = err.Error()
			continue
		}
		if !dryRun {
			if err := os.RemoveAll(child); err != nil {
				result.Error = err.Error()
				continue
			}
		}

		result.Removed++
		result.FreedSize += size
	}

	return result
}
