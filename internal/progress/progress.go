// Package progress provides thread-safe progress reporting for scans and
// cleanups, with fan-out to subscribed listeners.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/appsweep/appsweep/pkg/utils"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseScanning Phase = "scanning"
	PhaseCleaning Phase = "cleaning"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// ScanProgress represents progress during a leftover scan. Steps count the
// installed-app index build plus one step per category.
type ScanProgress struct {
	Phase         Phase
	Step          int
	TotalSteps    int
	Location      string
	FoundCount    int
	TotalSize     int64
	InstalledApps int
	StartTime     time.Time
	Error         error
}

// Percent returns completion as a whole percentage.
func (p *ScanProgress) Percent() int {
	if p == nil || p.TotalSteps == 0 {
		return 0
	}
	if p.Phase == PhaseComplete {
		return 100
	}
	return (p.Step * 100) / p.TotalSteps
}

// CleanProgress represents progress during leftover removal
type CleanProgress struct {
	Phase       Phase
	CurrentPath string
	Removed     int
	Total       int
	RemovedSize int64
	Failed      int
	DryRun      bool
	StartTime   time.Time
	Error       error
}

// Reporter provides thread-safe progress reporting
type Reporter struct {
	scanProgress  *ScanProgress
	cleanProgress *CleanProgress
	mu            sync.RWMutex
	listeners     []chan interface{}
}

// NewReporter creates a new progress reporter
func NewReporter() *Reporter {
	return &Reporter{
		listeners: make([]chan interface{}, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (r *Reporter) Subscribe() <-chan interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan interface{}, 10)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (r *Reporter) Unsubscribe(ch <-chan interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// UpdateScan updates scan progress and notifies listeners
func (r *Reporter) UpdateScan(update *ScanProgress) {
	r.mu.Lock()
	r.scanProgress = update
	listeners := make([]chan interface{}, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	// Notify all listeners (non-blocking)
	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// UpdateClean updates clean progress and notifies listeners
func (r *Reporter) UpdateClean(update *CleanProgress) {
	r.mu.Lock()
	r.cleanProgress = update
	listeners := make([]chan interface{}, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
		}
	}
}

// GetScan returns the current scan progress
func (r *Reporter) GetScan() *ScanProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scanProgress
}

// GetClean returns the current clean progress
func (r *Reporter) GetClean() *CleanProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cleanProgress
}

// FormatScan returns a human-readable scan progress string
func FormatScan(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseScanning:
		return fmt.Sprintf("%s (%d%%) Found %d items (%s) [%s]",
			p.Location,
			p.Percent(),
			p.FoundCount,
			utils.FormatBytes(p.TotalSize),
			FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Scan complete: %d leftover items (%s) in %s",
			p.FoundCount,
			utils.FormatBytes(p.TotalSize),
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatClean returns a human-readable clean progress string
func FormatClean(p *CleanProgress) string {
	if p == nil {
		return "Preparing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseCleaning:
		percentage := 0
		if p.Total > 0 {
			percentage = (p.Removed * 100) / p.Total
		}
		mode := ""
		if p.DryRun {
			mode = " [DRY RUN]"
		}
		return fmt.Sprintf("Removing... %d/%d items (%d%%) - %s freed%s",
			p.Removed,
			p.Total,
			percentage,
			utils.FormatBytes(p.RemovedSize),
			mode)
	case PhaseComplete:
		return fmt.Sprintf("Cleanup complete: %d items removed (%s) in %s",
			p.Removed,
			utils.FormatBytes(p.RemovedSize),
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Cleanup error: %v", p.Error)
	default:
		return "Preparing cleanup..."
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
