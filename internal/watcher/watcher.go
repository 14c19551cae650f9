// Package watcher observes the Applications directories and triggers a
// rescan when apps are installed or removed.
package watcher

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/appsweep/appsweep/internal/platform"
)

// DefaultDebounce is how long the watcher waits after the last relevant
// event before triggering. Installers touch a bundle many times in a burst.
const DefaultDebounce = 5 * time.Second

// TriggerFunc is invoked, debounced, after application churn.
type TriggerFunc func()

// Watcher observes application directories.
type Watcher struct {
	Debounce time.Duration

	dirs    []string
	trigger TriggerFunc
}

// New creates a watcher over the platform's application directories.
func New(info *platform.Info, trigger TriggerFunc) *Watcher {
	return &Watcher{
		Debounce: DefaultDebounce,
		dirs:     []string{info.SystemApplicationsDir, info.UserApplicationsDir},
		trigger:  trigger,
	}
}

// Run watches until ctx is cancelled. Directories that do not exist are
// skipped; Run fails only when no directory can be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	watched := 0
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			log.Printf("not watching %s: %v", dir, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return errNothingToWatch
	}

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.Debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			w.trigger()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// relevant reports whether the event is app-bundle churn worth a rescan.
func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".app") {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
