package models

// ChartKind selects which reducer builds the road stops.
type ChartKind string

const (
	ChartKindRegression ChartKind = "regression"
	ChartKindProCon     ChartKind = "procon"
)

// ChartStatus represents the lifecycle state of a chart session.
type ChartStatus string

const (
	ChartStatusReady ChartStatus = "ready"
	ChartStatusError ChartStatus = "error"
)

// ChartSession describes one configured chart held by the session manager.
type ChartSession struct {
	ID        string      `json:"id"`
	FileID    string      `json:"fileId"`
	Kind      ChartKind   `json:"kind"`
	Status    ChartStatus `json:"status"`
	StopCount int         `json:"stopCount"`
	Magnitude float64     `json:"magnitude"`
	Goal      string      `json:"goal,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt int64       `json:"createdAt"` // Unix ms
}

// RoadStopView is the wire form of a single road stop.
type RoadStopView struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
