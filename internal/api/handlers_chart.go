// handlers_chart.go - Chart session creation and geometry handlers
package api

import (
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/roadmap-visualizer/backend/internal/dataset"
	"github.com/roadmap-visualizer/backend/internal/models"
	"github.com/roadmap-visualizer/backend/internal/render"
	"github.com/roadmap-visualizer/backend/internal/roadmap"
	"github.com/roadmap-visualizer/backend/internal/session"
	"github.com/roadmap-visualizer/backend/internal/storage"
	"github.com/roadmap-visualizer/backend/internal/styles"
	"github.com/vmihailenco/msgpack/v5"
)

// ChartHandlerImpl implements the ChartHandler interface.
type ChartHandlerImpl struct {
	store         storage.Store
	session       *session.Manager
	styles        *styles.Manager
	datasetsDir   string
	defaultWidth  float64
	defaultHeight float64
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(store storage.Store, sessionMgr *session.Manager, styleMgr *styles.Manager, datasetsDir string, defaultWidth, defaultHeight float64) ChartHandler {
	if defaultWidth <= 0 {
		defaultWidth = 800
	}
	if defaultHeight <= 0 {
		defaultHeight = 600
	}
	return &ChartHandlerImpl{
		store:         store,
		session:       sessionMgr,
		styles:        styleMgr,
		datasetsDir:   datasetsDir,
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
	}
}

// regressionSpec names the dataset columns for a regression chart.
type regressionSpec struct {
	PredictorColumn   string   `json:"predictorColumn"`
	CoefficientColumn string   `json:"coefficientColumn"`
	PValueColumn      string   `json:"pValueColumn,omitempty"`
	PLevel            *float64 `json:"pLevel,omitempty"`
	Include           string   `json:"include,omitempty"`
	Goal              string   `json:"goal,omitempty"`
}

// proConSpec names the dataset columns for a pro/con chart.
type proConSpec struct {
	PositiveColumn      string  `json:"positiveColumn"`
	PositiveValueColumn string  `json:"positiveValueColumn,omitempty"`
	NegativeColumn      string  `json:"negativeColumn"`
	NegativeValueColumn string  `json:"negativeValueColumn,omitempty"`
	MinimumCount        float64 `json:"minimumCount,omitempty"`
	PositiveLegendLabel string  `json:"positiveLegendLabel,omitempty"`
	NegativeLegendLabel string  `json:"negativeLegendLabel,omitempty"`
}

type createChartRequest struct {
	FileID string `json:"fileId"`
	Kind   string `json:"kind"` // "regression" or "procon"

	Regression *regressionSpec `json:"regression,omitempty"`
	ProCon     *proConSpec     `json:"procon,omitempty"`

	// Style is the name of a stored preset applied before overrides.
	Style          string `json:"style,omitempty"`
	Theme          string `json:"theme,omitempty"`
	LaneSeparator  string `json:"laneSeparator,omitempty"`
	LabelPlacement string `json:"labelPlacement,omitempty"`
	MarkerLabels   string `json:"markerLabels,omitempty"`
	Caption        string `json:"caption,omitempty"`
	DefaultCaption bool   `json:"defaultCaption,omitempty"`
}

func (r *createChartRequest) validate() error {
	if r.FileID == "" {
		return fmt.Errorf("fileId is required")
	}
	switch models.ChartKind(r.Kind) {
	case models.ChartKindRegression:
		if r.Regression == nil {
			return fmt.Errorf("regression settings are required")
		}
		if r.Regression.PredictorColumn == "" || r.Regression.CoefficientColumn == "" {
			return fmt.Errorf("predictorColumn and coefficientColumn are required")
		}
	case models.ChartKindProCon:
		if r.ProCon == nil {
			return fmt.Errorf("procon settings are required")
		}
		if r.ProCon.PositiveColumn == "" || r.ProCon.NegativeColumn == "" {
			return fmt.Errorf("positiveColumn and negativeColumn are required")
		}
	default:
		return fmt.Errorf("kind must be %q or %q", models.ChartKindRegression, models.ChartKindProCon)
	}
	return nil
}

// HandleCreateChart builds a chart from an uploaded dataset and
// registers it as a session.
func (h *ChartHandlerImpl) HandleCreateChart(c echo.Context) error {
	var req createChartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if _, err := h.store.Get(req.FileID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "file not found"})
	}

	ds, err := h.loadDataset(&req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("failed to load dataset: %v", err)})
	}

	start := time.Now()

	var chart session.Chart
	var base *roadmap.Roadmap
	var goal string

	switch models.ChartKind(req.Kind) {
	case models.ChartKindRegression:
		lr := roadmap.NewLRRoadmap()
		base = &lr.Roadmap
		h.applyStyle(c, base, &req)

		data := roadmap.RegressionData{
			PredictorColumn:   req.Regression.PredictorColumn,
			CoefficientColumn: req.Regression.CoefficientColumn,
			PValueColumn:      req.Regression.PValueColumn,
			PLevel:            math.NaN(),
			Goal:              req.Regression.Goal,
		}
		if req.Regression.PLevel != nil {
			data.PLevel = *req.Regression.PLevel
		}
		if req.Regression.Include != "" {
			include, err := roadmap.ParseInfluence(req.Regression.Include)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			data.Include = include
		}
		if err := lr.SetData(ds, data); err != nil {
			return chartDataError(c, err)
		}
		chart = lr
		goal = base.GoalLabel()

	case models.ChartKindProCon:
		pc := roadmap.NewProConRoadmap()
		base = &pc.Roadmap
		h.applyStyle(c, base, &req)

		if req.ProCon.PositiveLegendLabel != "" {
			pc.SetPositiveLegendLabel(req.ProCon.PositiveLegendLabel)
		}
		if req.ProCon.NegativeLegendLabel != "" {
			pc.SetNegativeLegendLabel(req.ProCon.NegativeLegendLabel)
		}
		if err := pc.SetData(ds, roadmap.ProConData{
			PositiveColumn:      req.ProCon.PositiveColumn,
			PositiveValueColumn: req.ProCon.PositiveValueColumn,
			NegativeColumn:      req.ProCon.NegativeColumn,
			NegativeValueColumn: req.ProCon.NegativeValueColumn,
			MinimumCount:        req.ProCon.MinimumCount,
		}); err != nil {
			return chartDataError(c, err)
		}
		chart = pc
	}

	if req.Caption != "" {
		base.SetCaption(req.Caption)
	} else if req.DefaultCaption {
		base.AddDefaultCaption()
	}

	sess, err := h.session.Create(req.FileID, models.ChartKind(req.Kind), chart, ds, goal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to create session: %v", err)})
	}

	fmt.Printf("[API] CreateChart: kind=%s file=%s done in %v\n", req.Kind, req.FileID, time.Since(start))
	return c.JSON(http.StatusCreated, sess)
}

// loadDataset prefers the ingested DuckDB store; when the file was never
// ingested it imports the raw upload directly using the columns the
// chart asks for.
func (h *ChartHandlerImpl) loadDataset(req *createChartRequest) (*dataset.Dataset, error) {
	dbPath := dataset.DuckStorePath(h.datasetsDir, req.FileID)
	if _, err := os.Stat(dbPath); err == nil {
		store, err := dataset.OpenDuckStoreReadOnly(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadDataset()
	}

	path, err := h.store.GetFilePath(req.FileID)
	if err != nil {
		return nil, err
	}

	var info dataset.ImportInfo
	switch models.ChartKind(req.Kind) {
	case models.ChartKindRegression:
		info.CategoricalColumns = []string{req.Regression.PredictorColumn}
		info.ContinuousColumns = []string{req.Regression.CoefficientColumn}
		if req.Regression.PValueColumn != "" {
			info.ContinuousColumns = append(info.ContinuousColumns, req.Regression.PValueColumn)
		}
	case models.ChartKindProCon:
		info.CategoricalColumns = []string{req.ProCon.PositiveColumn, req.ProCon.NegativeColumn}
		if req.ProCon.PositiveValueColumn != "" {
			info.ContinuousColumns = append(info.ContinuousColumns, req.ProCon.PositiveValueColumn)
		}
		if req.ProCon.NegativeValueColumn != "" {
			info.ContinuousColumns = append(info.ContinuousColumns, req.ProCon.NegativeValueColumn)
		}
	}

	ds, _, err := dataset.ImportCSV(path, info)
	return ds, err
}

// applyStyle applies the named preset first, then per-request overrides.
func (h *ChartHandlerImpl) applyStyle(c echo.Context, base *roadmap.Roadmap, req *createChartRequest) {
	if req.Style != "" && h.styles != nil {
		if preset, ok := h.styles.Get(req.Style); ok {
			preset.Apply(base)
		}
	}
	if req.Theme != "" {
		base.SetTheme(roadmap.RoadStopTheme(req.Theme))
	}
	if req.LaneSeparator != "" {
		base.SetLaneSeparatorStyle(roadmap.LaneSeparatorStyle(req.LaneSeparator))
	}
	if req.LabelPlacement != "" {
		base.SetLabelPlacement(roadmap.LabelPlacement(req.LabelPlacement))
	}
	if req.MarkerLabels != "" {
		base.SetMarkerLabelDisplay(roadmap.MarkerLabelDisplay(req.MarkerLabels))
	}
}

// chartDataError maps reducer errors onto HTTP statuses.
func chartDataError(c echo.Context, err error) error {
	if _, ok := err.(*dataset.ColumnNotFoundError); ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// HandleChartStatus returns the metadata of a chart session.
func (h *ChartHandlerImpl) HandleChartStatus(c echo.Context) error {
	id := c.Param("sessionId")
	state, ok := h.session.Get(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, state.Session)
}

// HandleChartKeepAlive allows clients to explicitly keep a session alive.
func (h *ChartHandlerImpl) HandleChartKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.session.Touch(id) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HandleDeleteChart drops a chart session.
func (h *ChartHandlerImpl) HandleDeleteChart(c echo.Context) error {
	id := c.Param("sessionId")
	if _, ok := h.session.Get(id); !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	h.session.Remove(id)
	return c.NoContent(http.StatusNoContent)
}

// HandleChartStops returns the road stops of a chart session.
func (h *ChartHandlerImpl) HandleChartStops(c echo.Context) error {
	id := c.Param("sessionId")
	state, ok := h.session.Get(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	stops := state.Chart.Stops()
	views := make([]models.RoadStopView, 0, len(stops))
	for _, s := range stops {
		views = append(views, models.RoadStopView{Name: s.Name, Value: s.Value})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"stops":     views,
		"magnitude": state.Session.Magnitude,
	})
}

// plotArea reads the requested plot size, falling back to defaults.
func (h *ChartHandlerImpl) plotArea(c echo.Context) models.Rect {
	width := h.defaultWidth
	height := h.defaultHeight
	if w, err := strconv.ParseFloat(c.QueryParam("width"), 64); err == nil && w > 0 {
		width = w
	}
	if hh, err := strconv.ParseFloat(c.QueryParam("height"), 64); err == nil && hh > 0 {
		height = hh
	}
	return models.Rect{X: 0, Y: 0, W: width, H: height}
}

// geometryPayload computes the drawable scene and legend for a session.
func (h *ChartHandlerImpl) geometryPayload(c echo.Context, id string) (map[string]interface{}, bool) {
	state, ok := h.session.Get(id)
	if !ok {
		return nil, false
	}

	start := time.Now()
	scene := state.Chart.Layout(h.plotArea(c), render.EstimatingMeasurer{})
	legend := state.Chart.CreateLegend(c.QueryParam("header") != "false")
	fmt.Printf("[API] Geometry: session=%s done in %v (%d markers)\n", id[:8], time.Since(start), len(scene.Markers))

	return map[string]interface{}{
		"scene":  scene,
		"legend": legend,
	}, true
}

// HandleChartGeometry returns the scene primitives as JSON.
func (h *ChartHandlerImpl) HandleChartGeometry(c echo.Context) error {
	id := c.Param("sessionId")
	payload, ok := h.geometryPayload(c, id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, payload)
}

// HandleChartGeometryMsgpack returns the scene primitives in MessagePack
// format, which is 30-50% smaller than JSON for dense geometry.
func (h *ChartHandlerImpl) HandleChartGeometryMsgpack(c echo.Context) error {
	id := c.Param("sessionId")
	payload, ok := h.geometryPayload(c, id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	data, err := msgpack.Marshal(payload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to encode msgpack"})
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleChartLegend returns the chart key on its own.
func (h *ChartHandlerImpl) HandleChartLegend(c echo.Context) error {
	id := c.Param("sessionId")
	state, ok := h.session.Get(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	legend := state.Chart.CreateLegend(c.QueryParam("header") != "false")
	return c.JSON(http.StatusOK, legend)
}

// HandleChartSVG renders the chart server-side and returns an SVG document.
func (h *ChartHandlerImpl) HandleChartSVG(c echo.Context) error {
	id := c.Param("sessionId")
	state, ok := h.session.Get(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	scene := state.Chart.Layout(h.plotArea(c), render.EstimatingMeasurer{})
	legend := state.Chart.CreateLegend(c.QueryParam("header") != "false")

	renderer := &render.SVGRenderer{Background: c.QueryParam("background")}
	svg := renderer.RenderScene(scene, legend)

	return c.Blob(http.StatusOK, "image/svg+xml", svg)
}
