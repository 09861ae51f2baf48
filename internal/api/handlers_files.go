// handlers_files.go - Dataset file upload, listing, and ingestion handlers
package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/roadmap-visualizer/backend/internal/dataset"
	"github.com/roadmap-visualizer/backend/internal/models"
	"github.com/roadmap-visualizer/backend/internal/storage"
)

// FileHandlerImpl implements the FileHandler interface.
type FileHandlerImpl struct {
	store       storage.Store
	datasetsDir string
}

// NewFileHandler creates a new dataset file handler.
func NewFileHandler(store storage.Store, datasetsDir string) FileHandler {
	return &FileHandlerImpl{
		store:       store,
		datasetsDir: datasetsDir,
	}
}

// HandleUploadFile accepts a dataset file as base64 JSON and saves it to storage.
func (h *FileHandlerImpl) HandleUploadFile(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
		Data string `json:"data"` // Base64-encoded file content
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if req.Name == "" || req.Data == "" {
		return NewValidationError("name and data")
	}

	// Decode base64
	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	info, err := h.store.SaveBytes(req.Name, decoded)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleUploadBinary accepts a raw dataset file as multipart/form-data.
func (h *FileHandlerImpl) HandleUploadBinary(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(file.Filename, src)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleGetRecentFiles returns a list of recently uploaded dataset files.
func (h *FileHandlerImpl) HandleGetRecentFiles(c echo.Context) error {
	files, err := h.store.List(50) // Fetch more to allow for filtering
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list files"})
	}

	var dataFiles []*models.FileInfo
	for _, f := range files {
		nameLower := strings.ToLower(f.Name)
		// Exclude style presets and other config files
		if !strings.HasSuffix(nameLower, ".yaml") &&
			!strings.HasSuffix(nameLower, ".yml") &&
			!strings.HasSuffix(nameLower, ".xml") {
			dataFiles = append(dataFiles, f)
		}
	}

	// Limit to 20 after filtering
	if len(dataFiles) > 20 {
		dataFiles = dataFiles[:20]
	}

	return c.JSON(http.StatusOK, dataFiles)
}

// HandleGetFile returns metadata for a specific file.
func (h *FileHandlerImpl) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	info, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}
	return c.JSON(http.StatusOK, info)
}

// HandleDeleteFile removes a file from storage and its ingested dataset store.
func (h *FileHandlerImpl) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	err := h.store.Delete(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}
	// Also delete the ingested DuckDB store if it exists
	if store, err := dataset.OpenDuckStoreReadOnly(dataset.DuckStorePath(h.datasetsDir, id)); err == nil {
		store.Close()
		store.Remove()
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleRenameFile updates the name of a file.
func (h *FileHandlerImpl) HandleRenameFile(c echo.Context) error {
	id := c.Param("id")
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	info, err := h.store.Rename(id, req.Name)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	return c.JSON(http.StatusOK, info)
}

// ingestRequest declares which columns of an uploaded file to load.
type ingestRequest struct {
	ContinuousColumns  []string `json:"continuousColumns"`
	CategoricalColumns []string `json:"categoricalColumns"`
}

func (r *ingestRequest) validate() error {
	if len(r.ContinuousColumns) == 0 && len(r.CategoricalColumns) == 0 {
		return fmt.Errorf("at least one column must be declared")
	}
	return nil
}

// HandleIngestFile parses an uploaded delimited file and persists the
// declared columns into a DuckDB dataset store for later chart builds.
func (h *FileHandlerImpl) HandleIngestFile(c echo.Context) error {
	id := c.Param("id")

	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	path, err := h.store.GetFilePath(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	h.store.SetStatus(id, "ingesting")
	start := time.Now()

	ds, importErrors, err := dataset.ImportCSV(path, dataset.ImportInfo{
		ContinuousColumns:  req.ContinuousColumns,
		CategoricalColumns: req.CategoricalColumns,
	})
	if err != nil {
		h.store.SetStatus(id, "error")
		if _, ok := err.(*dataset.ColumnNotFoundError); ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("failed to import file: %v", err)})
	}

	// Re-ingesting replaces any previous store for this file.
	if err := os.Remove(dataset.DuckStorePath(h.datasetsDir, id)); err != nil && !os.IsNotExist(err) {
		h.store.SetStatus(id, "error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to replace dataset store: %v", err)})
	}

	store, err := dataset.NewDuckStore(h.datasetsDir, id)
	if err != nil {
		h.store.SetStatus(id, "error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to create dataset store: %v", err)})
	}
	defer store.Close()

	if err := store.Ingest(ds); err != nil {
		h.store.SetStatus(id, "error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to ingest dataset: %v", err)})
	}
	if err := store.Finalize(); err != nil {
		h.store.SetStatus(id, "error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to finalize dataset store: %v", err)})
	}

	h.store.SetStatus(id, "ready")
	fmt.Printf("[API] Ingest: file=%s rows=%d done in %v (%d row errors)\n",
		id, ds.RowCount(), time.Since(start), len(importErrors))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"fileId":       id,
		"rowCount":     ds.RowCount(),
		"importErrors": importErrors,
	})
}

// HandleGetColumns returns the stored columns of an ingested dataset.
func (h *FileHandlerImpl) HandleGetColumns(c echo.Context) error {
	id := c.Param("id")

	store, err := dataset.OpenDuckStoreReadOnly(dataset.DuckStorePath(h.datasetsDir, id))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "dataset not ingested"})
	}
	defer store.Close()

	cols, err := store.Columns()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to read columns: %v", err)})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"fileId":  id,
		"columns": cols,
	})
}
