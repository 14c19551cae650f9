// Package appindex builds the inventory of identifiers belonging to currently
// installed applications. The index is the ground truth every leftover
// detector tests ownership against, so it is built permissively: three
// independent discovery strategies are unioned, and a failing strategy
// degrades to an empty contribution rather than aborting the scan.
// Over-inclusion is safe — it only suppresses orphan detection.
package appindex

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/appsweep/appsweep/internal/platform"
)

const (
	spotlightQuery   = `kMDItemContentType == "com.apple.application-bundle"`
	spotlightTimeout = 30 * time.Second
)

// Index is a set of normalized application identifiers. It is built fresh per
// scan and treated as immutable once constructed.
type Index map[string]struct{}

// Contains reports whether the normalized form of id is in the index.
func (ix Index) Contains(id string) bool {
	_, ok := ix[Normalize(id)]
	return ok
}

// Len returns the number of identifiers in the index.
func (ix Index) Len() int { return len(ix) }

// Identifiers returns the indexed identifiers in sorted order.
func (ix Index) Identifiers() []string {
	ids := make([]string, 0, len(ix))
	for id := range ix {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (ix Index) add(id string) {
	if id == "" {
		return
	}
	ix[Normalize(id)] = struct{}{}
}

// Builder discovers installed-application identifiers. Tool names are fields
// so tests can point them at stubs or at nothing at all.
type Builder struct {
	Info *platform.Info

	SpotlightTool string // normally "mdfind"
	DefaultsTool  string // normally "defaults"
}

// NewBuilder creates a Builder with the standard macOS tools.
func NewBuilder(info *platform.Info) *Builder {
	return &Builder{
		Info:          info,
		SpotlightTool: "mdfind",
		DefaultsTool:  "defaults",
	}
}

// Build runs all discovery strategies and unions their results. It never
// returns an error: a strategy that fails contributes nothing, and an empty
// index is an accepted degraded mode (every artifact then looks orphaned,
// which the caller surfaces rather than corrects).
func (b *Builder) Build(ctx context.Context) Index {
	index := make(Index)

	b.addSpotlightBundles(ctx, index)
	b.addApplicationDir(b.Info.SystemApplicationsDir, index)
	b.addApplicationDir(b.Info.UserApplicationsDir, index)

	return index
}

// addSpotlightBundles queries the platform content index for every
// application bundle on disk, including ones outside the standard directories.
func (b *Builder) addSpotlightBundles(ctx context.Context, index Index) {
	queryCtx, cancel := context.WithTimeout(ctx, spotlightTimeout)
	defer cancel()

	out, err := exec.CommandContext(queryCtx, b.SpotlightTool, spotlightQuery).Output()
	if err != nil {
		return
	}

	for _, appPath := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if appPath == "" {
			continue
		}
		plistPath := filepath.Join(appPath, "Contents", "Info.plist")
		if _, err := os.Stat(plistPath); err != nil {
			continue
		}
		index.add(b.readBundleID(plistPath))
	}
}

// addApplicationDir enumerates *.app bundles directly under dir. A missing or
// unreadable directory contributes nothing.
func (b *Builder) addApplicationDir(dir string, index Index) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".app") {
			continue
		}
		plistPath := filepath.Join(dir, entry.Name(), "Contents", "Info.plist")
		if _, err := os.Stat(plistPath); err != nil {
			continue
		}
		index.add(b.readBundleID(plistPath))
	}
}
