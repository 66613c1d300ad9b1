package session

import (
	"fmt"
	"sync"
	"time"

	"modpack-launcher/modrinth"

	"go.uber.org/zap"
)

// Status is the install lifecycle state of a single project. Absence from the
// state map means idle.
type Status int

const (
	StatusIdle Status = iota
	StatusResolving
	StatusInstalling
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusResolving:
		return "resolving"
	case StatusInstalling:
		return "installing"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

const (
	successClearDelay = 3 * time.Second
	errorClearDelay   = 5 * time.Second
	refreshDelay      = 500 * time.Millisecond
)

// InstallStates runs the per-project install lifecycle:
//
//	idle -> resolving -> installing -> success|error -> idle
//
// Terminal statuses revert to idle after a fixed delay. The reversion timers
// are cancellable: a new install for the same project, or closing the store,
// stops any pending clear so it cannot wipe newer state.
type InstallStates struct {
	mu sync.Mutex

	versions  *VersionCache
	installer PackInstaller
	onStatus  func(projectID string, status Status)
	onRefresh func()
	log       *zap.SugaredLogger

	states map[string]Status
	timers map[string][]*time.Timer
	closed bool

	successClear time.Duration
	errorClear   time.Duration
	refreshAfter time.Duration
}

// NewInstallStates creates an empty state store.
func NewInstallStates(versions *VersionCache, installer PackInstaller, onStatus func(string, Status), onRefresh func(), log *zap.SugaredLogger) *InstallStates {
	if onStatus == nil {
		onStatus = func(string, Status) {}
	}
	if onRefresh == nil {
		onRefresh = func() {}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &InstallStates{
		versions:     versions,
		installer:    installer,
		onStatus:     onStatus,
		onRefresh:    onRefresh,
		log:          log,
		states:       make(map[string]Status),
		timers:       make(map[string][]*time.Timer),
		successClear: successClearDelay,
		errorClear:   errorClearDelay,
		refreshAfter: refreshDelay,
	}
}

// StatusFor returns the current status for a project id.
func (st *InstallStates) StatusFor(projectID string) Status {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.states[projectID]
}

// Active reports whether an install is in flight for the project.
func (st *InstallStates) Active(projectID string) bool {
	status := st.StatusFor(projectID)
	return status == StatusResolving || status == StatusInstalling
}

// InstallPack runs the install lifecycle for a modpack. A second call while
// an install for the same project is in flight is a no-op and returns nil.
// versionID selects an explicit version; empty means the first (newest)
// entry of the version list. Blocks until the install finishes, so callers
// drive it from their own goroutine.
func (st *InstallStates) InstallPack(project modrinth.Project, versionID, instanceName, gameVersion string) (*InstallOutcome, error) {
	projectID := project.ProjectID()

	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return nil, nil
	}
	if current := st.states[projectID]; current == StatusResolving || current == StatusInstalling {
		st.mu.Unlock()
		return nil, nil // already in flight
	}
	st.cancelTimersLocked(projectID)
	// Resolving is only entered when the version list is not cached yet
	entry := StatusInstalling
	if !st.versions.Cached(projectID) {
		entry = StatusResolving
	}
	st.states[projectID] = entry
	st.mu.Unlock()
	st.onStatus(projectID, entry)

	versions, err := st.versions.Resolve(projectID)
	if err != nil {
		st.fail(projectID, fmt.Errorf("failed to resolve versions: %w", err))
		return nil, err
	}
	if len(versions) == 0 {
		err := fmt.Errorf("no versions available for '%s'", project.Title)
		st.fail(projectID, err)
		return nil, err
	}

	selected := versions[0].ID
	if versionID != "" {
		selected = versionID
	}

	st.setStatus(projectID, StatusInstalling)

	outcome, err := st.installer.InstallModpack(project.Slug, instanceName, selected, gameVersion)
	if err != nil {
		st.fail(projectID, err)
		return nil, err
	}

	st.setStatus(projectID, StatusSuccess)
	st.schedule(projectID, st.refreshAfter, func() { st.onRefresh() })
	st.scheduleClear(projectID, st.successClear)
	return &outcome, nil
}

func (st *InstallStates) fail(projectID string, err error) {
	st.log.Errorw("Install failed", zap.String("project_id", projectID), zap.Error(err))
	st.setStatus(projectID, StatusError)
	st.scheduleClear(projectID, st.errorClear)
}

func (st *InstallStates) setStatus(projectID string, status Status) {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return
	}
	st.states[projectID] = status
	st.mu.Unlock()
	st.onStatus(projectID, status)
}

// schedule registers a cancellable timer owned by the project id.
func (st *InstallStates) schedule(projectID string, delay time.Duration, fn func()) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		st.mu.Lock()
		// Drop if superseded: cancelTimersLocked removed us already
		found := false
		for _, t := range st.timers[projectID] {
			if t == timer {
				found = true
				break
			}
		}
		st.mu.Unlock()
		if found {
			fn()
		}
	})
	st.timers[projectID] = append(st.timers[projectID], timer)
}

func (st *InstallStates) scheduleClear(projectID string, delay time.Duration) {
	st.schedule(projectID, delay, func() {
		st.mu.Lock()
		delete(st.states, projectID)
		delete(st.timers, projectID)
		closed := st.closed
		st.mu.Unlock()
		if !closed {
			st.onStatus(projectID, StatusIdle)
		}
	})
}

func (st *InstallStates) cancelTimersLocked(projectID string) {
	for _, timer := range st.timers[projectID] {
		timer.Stop()
	}
	delete(st.timers, projectID)
}

// Close stops all pending timers; statuses are frozen and no further
// callbacks fire.
func (st *InstallStates) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.closed = true
	for id := range st.timers {
		st.cancelTimersLocked(id)
	}
}
