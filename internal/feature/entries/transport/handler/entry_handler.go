// Package handler provides the HTTP handlers of the entries feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"auratrack_backend/internal/feature/entries/domain/entity"
	"auratrack_backend/internal/feature/entries/transport/http/dto"
	"auratrack_backend/internal/feature/entries/usecase"
	jwtmw "auratrack_backend/internal/platform/jwt"
)

// EntryCreator records new entries.
// Following Go convention, interfaces are defined by the consumer (handler).
type EntryCreator interface {
	Create(ctx context.Context, in usecase.CreateEntryInput) (string, error)
}

// EntriesUsecase reads and mutates the caller's entries.
type EntriesUsecase interface {
	List(ctx context.Context, f entity.Filter) ([]entity.Entry, error)
	Get(ctx context.Context, id, owner string) (*entity.Entry, error)
	Update(ctx context.Context, id, owner string, patch entity.EntryPatch) (*entity.Entry, error)
	Delete(ctx context.Context, id, owner string) error
}

// ExportUsecase renders filtered entries as CSV.
type ExportUsecase interface {
	Export(ctx context.Context, f entity.Filter) (*usecase.Export, error)
	ExportWithLocale(ctx context.Context, f entity.Filter, locale usecase.Locale) (*usecase.Export, error)
}

// InsightsUsecase summarizes a window of entries.
type InsightsUsecase interface {
	Summarize(ctx context.Context, owner string, from, to time.Time) (*usecase.Insights, error)
}

// EntryHandler handles HTTP requests for migraine entries.
// Every route expects jwtmw.AuthRequired to have run first.
type EntryHandler struct {
	creator  EntryCreator
	entries  EntriesUsecase
	exporter ExportUsecase
	insights InsightsUsecase
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(creator EntryCreator, entries EntriesUsecase, exporter ExportUsecase, insights InsightsUsecase) *EntryHandler {
	return &EntryHandler{creator: creator, entries: entries, exporter: exporter, insights: insights}
}

// Create handles POST /entries.
func (h *EntryHandler) Create(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create entry bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	id, err := h.creator.Create(c.Request.Context(), req.ToInput(owner))
	if err != nil {
		writeError(c, "create entry", err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// List handles GET /entries?from=...&to=...
func (h *EntryHandler) List(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}
	f, ok := bindFilter(c, owner)
	if !ok {
		return
	}
	entries, err := h.entries.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, "list entries", err)
		return
	}
	out := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, dto.NewEntryResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Export handles GET /entries/export and answers with a CSV attachment.
func (h *EntryHandler) Export(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}
	var q dto.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		slog.Warn("export query bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid query"})
		return
	}
	var (
		export *usecase.Export
		err    error
	)
	if q.Locale == "" {
		export, err = h.exporter.Export(c.Request.Context(), q.ToFilter(owner))
	} else {
		export, err = h.exporter.ExportWithLocale(c.Request.Context(), q.ToFilter(owner), usecase.ParseLocale(q.Locale))
	}
	if err != nil {
		writeError(c, "export entries", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Header("X-Total-Count", strconv.Itoa(export.Rows))
	c.Data(http.StatusOK, export.ContentType, export.Content)
}

// Insights handles GET /entries/insights.
func (h *EntryHandler) Insights(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}
	var q dto.InsightsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid query"})
		return
	}
	in, err := h.insights.Summarize(c.Request.Context(), owner, q.From, q.To)
	if err != nil {
		writeError(c, "summarize entries", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewInsightsResponse(in))
}

// Get handles GET /entries/:id.
func (h *EntryHandler) Get(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}
	e, err := h.entries.Get(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		writeError(c, "get entry", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEntryResponse(e))
}

// Update handles PATCH /entries/:id.
func (h *EntryHandler) Update(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update entry bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	e, err := h.entries.Update(c.Request.Context(), c.Param("id"), owner, req.ToPatch())
	if err != nil {
		writeError(c, "update entry", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEntryResponse(e))
}

// Delete handles DELETE /entries/:id.
func (h *EntryHandler) Delete(c *gin.Context) {
	owner, ok := requireOwner(c)
	if !ok {
		return
	}
	if err := h.entries.Delete(c.Request.Context(), c.Param("id"), owner); err != nil {
		writeError(c, "delete entry", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Catalog handles GET /catalog.
func (h *EntryHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, entity.DefaultCatalog())
}

func requireOwner(c *gin.Context) (string, bool) {
	owner := c.GetString(jwtmw.ContextUsername)
	if owner == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return "", false
	}
	return owner, true
}

func bindFilter(c *gin.Context, owner string) (entity.Filter, bool) {
	var q dto.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		slog.Warn("filter query bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid query"})
		return entity.Filter{}, false
	}
	return q.ToFilter(owner), true
}

// writeError maps use case errors to HTTP statuses.
func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "entry not found"})
	case errors.Is(err, usecase.ErrStorage):
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "storage unavailable"})
	default:
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
