package session

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/roadmap-visualizer/backend/internal/dataset"
	"github.com/roadmap-visualizer/backend/internal/models"
	"github.com/roadmap-visualizer/backend/internal/roadmap"
)

func testChart(t *testing.T) (*roadmap.LRRoadmap, *dataset.Dataset) {
	t.Helper()
	ds := dataset.New()
	if err := ds.AddCategoricalColumn("Predictor", []string{"Age", "Income"}); err != nil {
		t.Fatalf("AddCategoricalColumn failed: %v", err)
	}
	if err := ds.AddContinuousColumn("Coefficient", []float64{-7, 3}); err != nil {
		t.Fatalf("AddContinuousColumn failed: %v", err)
	}
	chart := roadmap.NewLRRoadmap()
	err := chart.SetData(ds, roadmap.RegressionData{
		PredictorColumn:   "Predictor",
		CoefficientColumn: "Coefficient",
		PLevel:            math.NaN(),
		Goal:              "Graduation",
	})
	if err != nil {
		t.Fatalf("SetData failed: %v", err)
	}
	return chart, ds
}

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager()
	chart, ds := testChart(t)

	sess, err := m.Create("file-1", models.ChartKindRegression, chart, ds, "Graduation")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected a session ID")
	}
	if sess.Kind != models.ChartKindRegression {
		t.Errorf("Kind = %q, want %q", sess.Kind, models.ChartKindRegression)
	}
	if sess.Status != models.ChartStatusReady {
		t.Errorf("Status = %q, want %q", sess.Status, models.ChartStatusReady)
	}
	if sess.StopCount != 2 {
		t.Errorf("StopCount = %d, want 2", sess.StopCount)
	}
	if sess.Magnitude != 7 {
		t.Errorf("Magnitude = %v, want 7", sess.Magnitude)
	}

	state, ok := m.Get(sess.ID)
	if !ok {
		t.Fatal("Get returned false for a live session")
	}
	if state.Chart != Chart(chart) {
		t.Error("Get returned a different chart instance")
	}
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}
}

func TestManagerGetMissing(t *testing.T) {
	m := NewManager()
	if _, ok := m.Get("nope"); ok {
		t.Error("Get should return false for an unknown session")
	}
	if m.Touch("nope") {
		t.Error("Touch should return false for an unknown session")
	}
}

func TestManagerRemove(t *testing.T) {
	m := NewManager()
	chart, ds := testChart(t)
	sess, err := m.Create("file-1", models.ChartKindRegression, chart, ds, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	m.Remove(sess.ID)
	if _, ok := m.Get(sess.ID); ok {
		t.Error("session should be gone after Remove")
	}
	if m.Count() != 0 {
		t.Errorf("Count = %d, want 0", m.Count())
	}
}

func TestManagerCleanupOldSessions(t *testing.T) {
	m := NewManager()
	chart, ds := testChart(t)
	sess, err := m.Create("file-1", models.ChartKindRegression, chart, ds, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	m.mu.Lock()
	m.sessions[sess.ID].LastAccessed = time.Now().Add(-1 * time.Hour)
	m.mu.Unlock()

	m.CleanupOldSessions(30 * time.Minute)
	if _, ok := m.Get(sess.ID); ok {
		t.Error("stale session should be cleaned up")
	}
}

func TestManagerCleanupKeepsRecent(t *testing.T) {
	m := NewManager()
	chart, ds := testChart(t)
	sess, err := m.Create("file-1", models.ChartKindRegression, chart, ds, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	m.CleanupOldSessions(30 * time.Minute)
	if _, ok := m.Get(sess.ID); !ok {
		t.Error("freshly created session should survive cleanup")
	}
}

func TestManagerEvictsAtCapacity(t *testing.T) {
	m := NewManager()
	chart, ds := testChart(t)

	first, err := m.Create("file-0", models.ChartKindRegression, chart, ds, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	m.mu.Lock()
	m.sessions[first.ID].LastAccessed = time.Now().Add(-1 * time.Hour)
	m.mu.Unlock()

	for i := 1; i < MaxSessions; i++ {
		if _, err := m.Create(fmt.Sprintf("file-%d", i), models.ChartKindRegression, chart, ds, ""); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if m.Count() != MaxSessions {
		t.Fatalf("Count = %d, want %d", m.Count(), MaxSessions)
	}

	// One more create must evict the least recently used session.
	if _, err := m.Create("file-new", models.ChartKindRegression, chart, ds, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if m.Count() != MaxSessions {
		t.Errorf("Count = %d, want %d after eviction", m.Count(), MaxSessions)
	}
	if _, ok := m.Get(first.ID); ok {
		t.Error("oldest session should be evicted at capacity")
	}
}
