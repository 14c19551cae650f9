package leftover

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/appsweep/appsweep/internal/appindex"
	"github.com/appsweep/appsweep/internal/config"
	"github.com/appsweep/appsweep/internal/dirsize"
	"github.com/appsweep/appsweep/internal/platform"
	"github.com/appsweep/appsweep/internal/progress"
)

// Result is the outcome of one full leftover scan.
type Result struct {
	Items         []Item        `json:"leftovers"`
	Skipped       []Skipped     `json:"skipped"`
	InstalledApps int           `json:"installed_apps"`
	TotalCount    int           `json:"total_count"`
	TotalSize     int64         `json:"total_size"`
	Duration      time.Duration `json:"-"`
}

// Engine runs leftover scans: it builds the installed-app index once per
// scan, runs the enabled category detectors in parallel and aggregates their
// findings into a deterministic order.
type Engine struct {
	// Sizer, Builder and Reporter may be replaced before Scan for testing.
	Sizer    *dirsize.Sizer
	Builder  *appindex.Builder
	Reporter *progress.Reporter

	cfg  *config.Config
	info *platform.Info
}

// NewEngine creates a scan engine for the given configuration and platform.
func NewEngine(cfg *config.Config, info *platform.Info) *Engine {
	return &Engine{
		Sizer:   dirsize.New(),
		Builder: appindex.NewBuilder(info),
		cfg:     cfg,
		info:    info,
	}
}

// Scan performs a full scan. Detector failures degrade to empty
// contributions, so Scan always produces a result.
func (e *Engine) Scan(ctx context.Context) *Result {
	startTime := time.Now()
	categories := Categories(e.info, e.cfg)
	totalSteps := len(categories) + 1

	e.reportScan(&progress.ScanProgress{
		Phase:      progress.PhaseScanning,
		Step:       0,
		TotalSteps: totalSteps,
		Location:   "Scanning installed applications...",
		StartTime:  startTime,
	})

	index := e.Builder.Build(ctx)

	result := &Result{InstalledApps: index.Len()}
	step := 1
	var wg sync.WaitGroup
	var mu sync.Mutex // protects result and step

	e.reportScan(&progress.ScanProgress{
		Phase:         progress.PhaseScanning,
		Step:          step,
		TotalSteps:    totalSteps,
		Location:      "Scanning Library locations...",
		InstalledApps: index.Len(),
		StartTime:     startTime,
	})

	for _, category := range categories {
		wg.Add(1)
		go func(c Category) {
			defer wg.Done()

			items, skipped := c.Detect(index, e.Sizer)

			mu.Lock()
			defer mu.Unlock()
			result.Items = append(result.Items, items...)
			result.Skipped = append(result.Skipped, skipped...)
			for _, item := range items {
				result.TotalSize += item.Size
			}
			result.TotalCount = len(result.Items)
			step++
			e.reportScan(&progress.ScanProgress{
				Phase:         progress.PhaseScanning,
				Step:          step,
				TotalSteps:    totalSteps,
				Location:      "Scanning " + c.Title + "...",
				FoundCount:    result.TotalCount,
				TotalSize:     result.TotalSize,
				InstalledApps: index.Len(),
				StartTime:     startTime,
			})
		}(category)
	}

	wg.Wait()

	// Deterministic order: largest first, ID as tiebreak, so repeated scans
	// over an unchanged disk produce identical output.
	sort.SliceStable(result.Items, func(i, j int) bool {
		if result.Items[i].Size != result.Items[j].Size {
			return result.Items[i].Size > result.Items[j].Size
		}
		return result.Items[i].ID < result.Items[j].ID
	})
	sort.SliceStable(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Path < result.Skipped[j].Path
	})

	result.Duration = time.Since(startTime)

	e.reportScan(&progress.ScanProgress{
		Phase:         progress.PhaseComplete,
		Step:          totalSteps,
		TotalSteps:    totalSteps,
		Location:      "Complete",
		FoundCount:    result.TotalCount,
		TotalSize:     result.TotalSize,
		InstalledApps: index.Len(),
		StartTime:     startTime,
	})

	return result
}

func (e *Engine) reportScan(p *progress.ScanProgress) {
	if e.Reporter != nil {
		e.Reporter.UpdateScan(p)
	}
}
