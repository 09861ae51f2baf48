// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// FileHandler handles dataset file operations
type FileHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleUploadBinary(c echo.Context) error
	HandleGetRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
	HandleRenameFile(c echo.Context) error
	HandleIngestFile(c echo.Context) error
	HandleGetColumns(c echo.Context) error
}

// ChartHandler handles chart session operations
type ChartHandler interface {
	HandleCreateChart(c echo.Context) error
	HandleChartStatus(c echo.Context) error
	HandleChartKeepAlive(c echo.Context) error
	HandleDeleteChart(c echo.Context) error
	HandleChartStops(c echo.Context) error
	HandleChartGeometry(c echo.Context) error
	HandleChartGeometryMsgpack(c echo.Context) error
	HandleChartLegend(c echo.Context) error
	HandleChartSVG(c echo.Context) error
}

// StyleHandler handles style preset operations
type StyleHandler interface {
	HandleListStyles(c echo.Context) error
	HandleGetStyle(c echo.Context) error
	HandlePutStyle(c echo.Context) error
	HandleUpsertStyle(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
