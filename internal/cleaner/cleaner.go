// Package cleaner removes leftover items that the user selected, with path
// validation safeguards and dry-run support. Removal is strictly mechanical:
// which items get removed is decided entirely by the caller's selection.
package cleaner

import (
	"os"
	"time"

	"github.com/appsweep/appsweep/internal/config"
	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/progress"
	"github.com/appsweep/appsweep/internal/security"
)

// ItemStatus is the per-item outcome of a clean operation.
type ItemStatus string

const (
	StatusRemoved ItemStatus = "removed"
	StatusDryRun  ItemStatus = "dry_run"
	StatusError   ItemStatus = "error"
)

// ItemResult records what happened to one item. The JSON shape is the API
// wire format.
type ItemResult struct {
	ID     string     `json:"id"`
	Path   string     `json:"path"`
	Status ItemStatus `json:"status"`
	Size   int64      `json:"size"`
	Error  string     `json:"error,omitempty"`
}

// CleanResult represents the result of a clean operation
type CleanResult struct {
	Items       []ItemResult    `json:"items"`
	RemovedSize int64           `json:"removed_size"`
	Removed     int             `json:"removed"`
	Failed      int             `json:"failed"`
	DryRun      bool            `json:"dry_run"`
	Errors      []*RemovalError `json:"-"`
}

// Cleaner removes leftover artifacts with safeguards
type Cleaner struct {
	config           *config.Config
	validator        *security.PathValidator
	progressReporter *progress.Reporter
}

// New creates a new Cleaner. Extra protected paths (the platform's
// never-remove list) may be registered via the validator.
func New(cfg *config.Config) *Cleaner {
	return &Cleaner{
		config:           cfg,
		validator:        security.NewPathValidator(),
		progressReporter: progress.NewReporter(),
	}
}

// SetProgressReporter sets a custom progress reporter
func (c *Cleaner) SetProgressReporter(r *progress.Reporter) {
	c.progressReporter = r
}

// GetProgressReporter returns the cleaner's progress reporter
func (c *Cleaner) GetProgressReporter() *progress.Reporter {
	return c.progressReporter
}

// Validator returns the cleaner's path validator.
func (c *Cleaner) Validator() *security.PathValidator {
	return c.validator
}

// SelectByID filters items down to those whose IDs appear in ids. Unknown IDs
// are ignored; the scan result is the only source of removable paths.
func SelectByID(items []leftover.Item, ids []string) []leftover.Item {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var selected []leftover.Item
	for _, item := range items {
		if _, ok := want[item.ID]; ok {
			selected = append(selected, item)
		}
	}
	return selected
}

// Clean removes the given items. Directories are removed recursively, plist
// artifacts as single files. A failing item is recorded and the rest proceed.
func (c *Cleaner) Clean(items []leftover.Item) *CleanResult {
	result := &CleanResult{DryRun: c.config.DryRun}
	startTime := time.Now()

	c.reportClean(progress.PhaseCleaning, "", result, len(items), startTime)

	for _, item := range items {
		c.reportClean(progress.PhaseCleaning, item.Path, result, len(items), startTime)

		itemResult, removalErr := c.cleanOne(item)
		result.Items = append(result.Items, itemResult)

		switch itemResult.Status {
		case StatusRemoved, StatusDryRun:
			result.Removed++
			result.RemovedSize += item.Size
		case StatusError:
			result.Failed++
			if removalErr != nil {
				result.Errors = append(result.Errors, removalErr)
			}
		}
	}

	c.reportClean(progress.PhaseComplete, "", result, len(items), startTime)

	return result
}

func (c *Cleaner) cleanOne(item leftover.Item) (ItemResult, *RemovalError) {
	res := ItemResult{ID: item.ID, Path: item.Path, Size: item.Size}

	if err := c.validator.ValidatePathForRemoval(item.Path); err != nil {
		re := &RemovalError{ID: item.ID, Path: item.Path, Reason: ErrorInvalidPath, Original: err}
		res.Status = StatusError
		res.Error = re.UserMessage()
		return res, re
	}

	if c.config.DryRun {
		res.Status = StatusDryRun
		return res, nil
	}

	fi, err := os.Lstat(item.Path)
	if err != nil {
		re := CategorizeError(item.ID, item.Path, err)
		res.Status = StatusError
		res.Error = re.UserMessage()
		return res, re
	}

	if fi.IsDir() {
		err = os.RemoveAll(item.Path)
	} else {
		err = os.Remove(item.Path)
	}
	if err != nil {
		re := CategorizeError(item.ID, item.Path, err)
		res.Status = StatusError
		res.Error = re.UserMessage()
		return res, re
	}

	res.Status = StatusRemoved
	return res, nil
}

func (c *Cleaner) reportClean(phase progress.Phase, current string, result *CleanResult, total int, startTime time.Time) {
	if c.progressReporter == nil {
		return
	}
	c.progressReporter.UpdateClean(&progress.CleanProgress{
		Phase:       phase,
		CurrentPath: current,
		Removed:     result.Removed,
		Total:       total,
		RemovedSize: result.RemovedSize,
		Failed:      result.Failed,
		DryRun:      result.DryRun,
		StartTime:   startTime,
	})
}
