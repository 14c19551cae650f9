package leftover

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/appsweep/appsweep/internal/appindex"
	"github.com/appsweep/appsweep/internal/dirsize"
	"github.com/appsweep/appsweep/internal/naming"
	"github.com/appsweep/appsweep/pkg/utils"
)

// Detect scans the category's directories and returns every artifact that no
// installed application claims, together with a record of everything it
// examined and passed over. Missing or unreadable directories contribute
// nothing.
func (c Category) Detect(index appindex.Index, sizer *dirsize.Sizer) ([]Item, []Skipped) {
	var items []Item
	var skipped []Skipped

	for _, dir := range c.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			stem, ok := c.artifactStem(entry)
			if !ok {
				continue
			}
			path := filepath.Join(dir, entry.Name())

			if c.skips(stem) {
				skipped = append(skipped, Skipped{Path: path, Name: stem, Reason: SkipSystemListed})
				continue
			}
			if c.owned(stem, index) {
				skipped = append(skipped, Skipped{Path: path, Name: stem, Reason: SkipOwned})
				continue
			}

			fi, err := os.Stat(path)
			if err != nil {
				skipped = append(skipped, Skipped{Path: path, Name: stem, Reason: SkipUnreadable})
				continue
			}

			var size int64
			if c.Artifact == ArtifactPlist {
				size = fi.Size()
			} else {
				size = sizer.Size(path)
			}
			if size <= c.MinSize {
				skipped = append(skipped, Skipped{Path: path, Name: stem, Reason: SkipBelowThreshold})
				continue
			}

			items = append(items, c.newItem(path, stem, size))
		}
	}

	return items, skipped
}

// artifactStem extracts the artifact key from a directory entry, or reports
// that the entry is not one of this category's artifacts.
func (c Category) artifactStem(entry os.DirEntry) (string, bool) {
	name := entry.Name()
	switch c.Artifact {
	case ArtifactPlist:
		if entry.IsDir() || !strings.HasSuffix(name, ".plist") {
			return "", false
		}
		return strings.TrimSuffix(name, ".plist"), true
	default:
		if !entry.IsDir() {
			return "", false
		}
		return name, true
	}
}

func (c Category) newItem(path, stem string, size int64) Item {
	display := stem
	if c.InferName {
		display = naming.Infer(stem)
	}

	owner := stem
	if c.OwnerWild {
		owner = "*." + stem
	}

	return Item{
		ID:              c.IDPrefix + "_" + stem,
		Path:            path,
		Name:            display,
		BundleID:        owner,
		DetectionSource: c.Source,
		Category:        c.Name,
		Confidence:      c.Confidence,
		Hint:            c.Hint(display),
		Size:            size,
		SizeHuman:       utils.FormatBytes(size),
		Selected:        c.Confidence.PreSelect(),
	}
}
