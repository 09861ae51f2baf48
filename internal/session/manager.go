// Package session tracks configured chart sessions: the loaded dataset,
// the chart instance built from it, and access times for cleanup.
package session

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roadmap-visualizer/backend/internal/dataset"
	"github.com/roadmap-visualizer/backend/internal/models"
	"github.com/roadmap-visualizer/backend/internal/roadmap"
)

// MaxSessions limits concurrent chart sessions to prevent memory exhaustion.
const MaxSessions = 50

// SessionKeepAliveWindow is how long an actively used session survives cleanup.
const SessionKeepAliveWindow = 5 * time.Minute

// Chart is the common surface of the two roadmap kinds held by a session.
type Chart interface {
	Stops() []roadmap.RoadStop
	Magnitude() float64
	Layout(area models.Rect, measurer roadmap.TextMeasurer) *models.Scene
	CreateLegend(includeHeader bool) *models.Legend
	Caption() string
}

// ChartState holds one session's metadata, its chart, and the dataset
// the chart was built from.
type ChartState struct {
	Session      *models.ChartSession
	Chart        Chart
	Dataset      *dataset.Dataset
	LastAccessed time.Time
}

// Manager handles active chart sessions.
type Manager struct {
	sessions map[string]*ChartState
	mu       sync.RWMutex
}

// NewManager creates a new chart session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*ChartState)}
}

// Create registers a new chart session and returns its metadata.
// The chart is already built; the manager only tracks it.
func (m *Manager) Create(fileID string, kind models.ChartKind, chart Chart, ds *dataset.Dataset, goal string) (*models.ChartSession, error) {
	m.cleanupIfAtLimit()

	// An empty chart has no magnitude; NaN is not representable in JSON.
	magnitude := chart.Magnitude()
	if math.IsNaN(magnitude) {
		magnitude = 0
	}

	sess := &models.ChartSession{
		ID:        uuid.New().String(),
		FileID:    fileID,
		Kind:      kind,
		Status:    models.ChartStatusReady,
		StopCount: len(chart.Stops()),
		Magnitude: magnitude,
		Goal:      goal,
		CreatedAt: time.Now().UnixMilli(),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = &ChartState{
		Session:      sess,
		Chart:        chart,
		Dataset:      ds,
		LastAccessed: time.Now(),
	}
	m.mu.Unlock()

	fmt.Printf("[Session %s] Created %s chart: %d stops, magnitude %.3f\n",
		sess.ID[:8], kind, sess.StopCount, sess.Magnitude)
	return sess, nil
}

// Get returns the state for a session and refreshes its access time.
func (m *Manager) Get(id string) (*ChartState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	state.LastAccessed = time.Now()
	return state, true
}

// Touch refreshes a session's access time (keep-alive).
func (m *Manager) Touch(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions removes sessions idle for longer than maxAge,
// keeping anything touched within the keep-alive window.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, state := range m.sessions {
		idle := now.Sub(state.LastAccessed)
		if idle > maxAge && idle > SessionKeepAliveWindow {
			fmt.Printf("[Session %s] Cleaning up (idle %v)\n", id[:8], idle.Round(time.Second))
			delete(m.sessions, id)
		}
	}
}

// cleanupIfAtLimit evicts the least recently used session when at capacity.
func (m *Manager) cleanupIfAtLimit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < MaxSessions {
		return
	}

	oldestID := ""
	var oldestTime time.Time
	for id, state := range m.sessions {
		if oldestID == "" || state.LastAccessed.Before(oldestTime) {
			oldestID = id
			oldestTime = state.LastAccessed
		}
	}
	if oldestID != "" {
		fmt.Printf("[Session %s] Evicting oldest session (at capacity)\n", oldestID[:8])
		delete(m.sessions, oldestID)
	}
}
