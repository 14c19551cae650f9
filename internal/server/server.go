// Package server exposes the scan, clean, catalog and system-stats
// operations over a local HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/appsweep/appsweep/internal/catalog"
	"github.com/appsweep/appsweep/internal/cleaner"
	"github.com/appsweep/appsweep/internal/config"
	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/notify"
	"github.com/appsweep/appsweep/internal/platform"
	"github.com/appsweep/appsweep/internal/progress"
	"github.com/appsweep/appsweep/internal/scanjob"
	"github.com/appsweep/appsweep/internal/sysmon"
	"github.com/appsweep/appsweep/pkg/utils"
)

// Server wires the scan engine, job manager, cleaner and catalog behind an
// HTTP mux.
type Server struct {
	cfg     *config.Config
	info    *platform.Info
	engine  *leftover.Engine
	jobs    *scanjob.Manager
	cleaner *cleaner.Cleaner
	catalog *catalog.Scanner
	mux     *http.ServeMux

	catalogMu   sync.Mutex
	catalogBusy bool
	catalogDone bool
	catalogSnap []catalog.Entry
}

// New creates a fully wired server.
func New(cfg *config.Config, info *platform.Info) *Server {
	reporter := progress.NewReporter()

	engine := leftover.NewEngine(cfg, info)
	engine.Reporter = reporter

	notifier := notify.New(cfg.Server.Notify)
	jobs := scanjob.NewManager(func(ctx context.Context) *leftover.Result {
		result := engine.Scan(ctx)
		notifier.ScanComplete(result)
		return result
	})
	jobs.Reporter = reporter

	clean := cleaner.New(cfg)
	clean.SetProgressReporter(reporter)
	for _, p := range info.ProtectedPaths {
		clean.Validator().AddProtectedPath(p)
	}

	s := &Server{
		cfg:     cfg,
		info:    info,
		engine:  engine,
		jobs:    jobs,
		cleaner: clean,
		catalog: catalog.NewScanner(info),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/scan/leftovers", s.handleScanLeftovers)
	s.mux.HandleFunc("/api/scan/leftovers/status", s.handleScanStatus)
	s.mux.HandleFunc("/api/leftovers", s.handleLeftovers)
	s.mux.HandleFunc("/api/clean/leftovers", s.handleCleanLeftovers)
	s.mux.HandleFunc("/api/installed-apps", s.handleInstalledApps)
	s.mux.HandleFunc("/api/scan", s.handleCatalogScan)
	s.mux.HandleFunc("/api/scan/status", s.handleCatalogScanStatus)
	s.mux.HandleFunc("/api/locations", s.handleLocations)
	s.mux.HandleFunc("/api/clean", s.handleCleanLocations)
	s.mux.HandleFunc("/api/system/stats", s.handleSystemStats)
	s.mux.HandleFunc("/api/health", s.handleHealth)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the API server until ctx is cancelled. When a scan
// schedule is configured, scans also run on that schedule.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if schedule := s.cfg.Server.ScanSchedule; schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(schedule, func() {
			if id, accepted := s.jobs.Start(context.Background()); accepted {
				log.Printf("scheduled scan started: job %s", id)
			}
		}); err != nil {
			return fmt.Errorf("invalid scan schedule %q: %w", schedule, err)
		}
		c.Start()
		defer c.Stop()
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	log.Printf("listening on http://%s", s.cfg.Server.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleScanLeftovers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jobID, accepted := s.jobs.Start(context.Background())
	status := http.StatusAccepted
	if !accepted {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]interface{}{
		"job_id":   jobID,
		"accepted": accepted,
	})
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.jobs.Status())
}

func (s *Server) handleLeftovers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result := s.jobs.Result()
	if result == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"leftovers":        []leftover.Item{},
			"total_count":      0,
			"total_size":       0,
			"total_size_human": utils.FormatBytes(0),
			"installed_apps":   0,
		})
		return
	}

	items := result.Items
	if items == nil {
		items = []leftover.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leftovers":        items,
		"total_count":      result.TotalCount,
		"total_size":       result.TotalSize,
		"total_size_human": utils.FormatBytes(result.TotalSize),
		"installed_apps":   result.InstalledApps,
	})
}

func (s *Server) handleCleanLeftovers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids must not be empty")
		return
	}

	result := s.jobs.Result()
	if result == nil {
		writeError(w, http.StatusConflict, "no completed scan; run a scan first")
		return
	}

	selected := cleaner.SelectByID(result.Items, req.IDs)
	writeJSON(w, http.StatusOK, s.cleaner.Clean(selected))
}

func (s *Server) handleInstalledApps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	index := s.engine.Builder.Build(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"identifiers": index.Identifiers(),
		"count":       index.Len(),
	})
}

func (s *Server) handleCatalogScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.catalogMu.Lock()
	if s.catalogBusy {
		s.catalogMu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{"status": "already_scanning"})
		return
	}
	s.catalogBusy = true
	s.catalogMu.Unlock()

	go func() {
		entries := s.catalog.Scan()

		s.catalogMu.Lock()
		s.catalogSnap = entries
		s.catalogBusy = false
		s.catalogDone = true
		s.catalogMu.Unlock()
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleCatalogScanStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.catalogMu.Lock()
	state := "idle"
	count := len(s.catalogSnap)
	switch {
	case s.catalogBusy:
		state = "running"
	case s.catalogDone:
		state = "complete"
	}
	s.catalogMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state": state,
		"count": count,
	})
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Serve the last catalog scan when one exists; size fresh otherwise.
	s.catalogMu.Lock()
	entries := s.catalogSnap
	done := s.catalogDone
	s.catalogMu.Unlock()
	if !done {
		entries = s.catalog.Scan()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"locations": entries,
	})
}

func (s *Server) handleCleanLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		IDs    []string `json:"ids"`
		DryRun *bool    `json:"dry_run,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids must not be empty")
		return
	}

	dryRun := s.cfg.DryRun
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": s.catalog.Empty(req.IDs, dryRun),
	})
}

func (s *Server) handleSystemStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := sysmon.Collect()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
