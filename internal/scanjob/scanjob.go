// Package scanjob runs leftover scans as single-flight background jobs with
// pollable status, the execution model behind the HTTP API and the scheduled
// scans.
package scanjob

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/progress"
)

// State is the lifecycle position of the manager.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateComplete State = "complete"
)

// Status is a point-in-time snapshot of the manager, shaped for the status
// endpoint.
type Status struct {
	State      State      `json:"state"`
	JobID      string     `json:"job_id,omitempty"`
	Percent    int        `json:"percent"`
	Location   string     `json:"current_location,omitempty"`
	FoundCount int        `json:"found_count"`
	TotalSize  int64      `json:"total_size"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RunFunc performs one scan. It is injected so tests can substitute a stub.
type RunFunc func(ctx context.Context) *leftover.Result

// Manager owns at most one scan at a time. Starting while a scan is running
// is a no-op that reports the running job; a completed result stays available
// until the next scan replaces it.
type Manager struct {
	// Reporter, when set, supplies live progress for Status snapshots.
	Reporter *progress.Reporter

	run RunFunc

	mu       sync.Mutex
	state    State
	jobID    string
	result   *leftover.Result
	started  time.Time
	finished time.Time
}

// NewManager creates a manager that executes scans via run.
func NewManager(run RunFunc) *Manager {
	return &Manager{run: run, state: StateIdle}
}

// Start launches a background scan and returns its job ID. When a scan is
// already running, the running job's ID is returned with accepted=false and
// no new work begins.
func (m *Manager) Start(ctx context.Context) (jobID string, accepted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateRunning {
		return m.jobID, false
	}

	m.state = StateRunning
	m.jobID = uuid.NewString()
	m.result = nil
	m.started = time.Now()
	m.finished = time.Time{}

	go m.execute(ctx, m.jobID)

	return m.jobID, true
}

func (m *Manager) execute(ctx context.Context, jobID string) {
	result := m.run(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobID != jobID {
		return
	}
	m.result = result
	m.state = StateComplete
	m.finished = time.Now()
}

// Status returns a snapshot of the manager and, while running, the live scan
// progress.
func (m *Manager) Status() Status {
	m.mu.Lock()
	st := Status{State: m.state, JobID: m.jobID}
	if !m.started.IsZero() {
		t := m.started
		st.StartedAt = &t
	}
	if !m.finished.IsZero() {
		t := m.finished
		st.FinishedAt = &t
	}
	result := m.result
	m.mu.Unlock()

	switch st.State {
	case StateComplete:
		st.Percent = 100
		if result != nil {
			st.FoundCount = result.TotalCount
			st.TotalSize = result.TotalSize
		}
	case StateRunning:
		if m.Reporter != nil {
			if p := m.Reporter.GetScan(); p != nil {
				st.Percent = p.Percent()
				st.Location = p.Location
				st.FoundCount = p.FoundCount
				st.TotalSize = p.TotalSize
			}
		}
	}

	return st
}

// Result returns the most recent completed scan result, or nil when no scan
// has completed since the last Start.
func (m *Manager) Result() *leftover.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}
