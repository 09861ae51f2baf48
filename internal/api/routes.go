// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/roadmap-visualizer/backend/internal/session"
	"github.com/roadmap-visualizer/backend/internal/storage"
	"github.com/roadmap-visualizer/backend/internal/styles"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store         storage.Store
	SessionMgr    *session.Manager
	StyleMgr      *styles.Manager
	DatasetsDir   string
	DefaultWidth  float64
	DefaultHeight float64
	Version       string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Files  FileHandler
	Charts ChartHandler
	Styles StyleHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version),
		Files:  NewFileHandler(deps.Store, deps.DatasetsDir),
		Charts: NewChartHandler(deps.Store, deps.SessionMgr, deps.StyleMgr, deps.DatasetsDir, deps.DefaultWidth, deps.DefaultHeight),
		Styles: NewStyleHandler(deps.StyleMgr),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check (bare path for load balancers, /api path for clients)
	e.GET("/health", handlers.Health.HandleHealth)
	e.GET("/api/health", handlers.Health.HandleHealth)

	// Dataset file routes
	fileGroup := e.Group("/api/files")
	fileGroup.POST("/upload", handlers.Files.HandleUploadFile)
	fileGroup.POST("/upload/binary", handlers.Files.HandleUploadBinary)
	fileGroup.GET("/recent", handlers.Files.HandleGetRecentFiles)
	fileGroup.GET("/:id", handlers.Files.HandleGetFile)
	fileGroup.DELETE("/:id", handlers.Files.HandleDeleteFile)
	fileGroup.PUT("/:id", handlers.Files.HandleRenameFile)
	fileGroup.POST("/:id/ingest", handlers.Files.HandleIngestFile)
	fileGroup.GET("/:id/columns", handlers.Files.HandleGetColumns)

	// Chart session routes
	chartGroup := e.Group("/api/charts")
	chartGroup.POST("", handlers.Charts.HandleCreateChart)
	chartGroup.GET("/:sessionId", handlers.Charts.HandleChartStatus)
	chartGroup.POST("/:sessionId/keepalive", handlers.Charts.HandleChartKeepAlive)
	chartGroup.DELETE("/:sessionId", handlers.Charts.HandleDeleteChart)
	chartGroup.GET("/:sessionId/stops", handlers.Charts.HandleChartStops)
	chartGroup.GET("/:sessionId/geometry", handlers.Charts.HandleChartGeometry)
	chartGroup.GET("/:sessionId/geometry/msgpack", handlers.Charts.HandleChartGeometryMsgpack)
	chartGroup.GET("/:sessionId/legend", handlers.Charts.HandleChartLegend)
	chartGroup.GET("/:sessionId/svg", handlers.Charts.HandleChartSVG)

	// Style preset routes
	styleGroup := e.Group("/api/styles")
	styleGroup.GET("", handlers.Styles.HandleListStyles)
	styleGroup.GET("/:name", handlers.Styles.HandleGetStyle)
	styleGroup.POST("", handlers.Styles.HandlePutStyle)
	styleGroup.PUT("/:name", handlers.Styles.HandleUpsertStyle)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
