package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"citypulse/database"
	"citypulse/models"
	"citypulse/service"
	"citypulse/ws"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

// ReportsHandler translates HTTP requests into service calls and maps
// outcomes to status codes. Validation failures become 400, missing ids
// 404, everything else a generic 500.
type ReportsHandler struct {
	reports *service.ReportService
	hub     *ws.Hub
}

func NewReportsHandler(reports *service.ReportService, hub *ws.Hub) *ReportsHandler {
	return &ReportsHandler{
		reports: reports,
		hub:     hub,
	}
}

// HealthCheck returns a constant liveness body, independent of the report
// collection state.
func (h *ReportsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func filtersFromQuery(c *gin.Context) models.ReportFilters {
	return models.ReportFilters{
		Category: models.Category(c.Query("category")),
		Status:   models.Status(c.Query("status")),
		Severity: models.SeverityLevel(c.Query("severity")),
		Search:   c.Query("search"),
	}
}

func (h *ReportsHandler) writeError(c *gin.Context, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Infof("Validation error in %s: %v", op, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found!"})
	default:
		log.Errorf("Error in %s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

func (h *ReportsHandler) GetReports(c *gin.Context) {
	reports, err := h.reports.List(c.Request.Context(), filtersFromQuery(c))
	if err != nil {
		h.writeError(c, "GET /reports", err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// reportID parses the :id path segment. A non-numeric id cannot reference
// any report, so it maps to 404.
func reportID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found!"})
		return 0, false
	}
	return id, true
}

func (h *ReportsHandler) GetReport(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}
	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "GET /reports/:id", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportsHandler) CreateReport(c *gin.Context) {
	args := &models.CreateReportRequest{}
	if err := c.BindJSON(args); err != nil {
		log.Infof("Failed to get the argument in POST /reports call: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read JSON input."})
		return
	}

	report, err := h.reports.Create(c.Request.Context(), args)
	if err != nil {
		h.writeError(c, "POST /reports", err)
		return
	}

	h.broadcast(models.EventCreated, report)
	c.JSON(http.StatusCreated, report)
}

func (h *ReportsHandler) UpdateReport(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}

	patch := &models.UpdateReportRequest{}
	if err := c.BindJSON(patch); err != nil {
		log.Infof("Failed to get the argument in PUT /reports call: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read JSON input."})
		return
	}

	report, err := h.reports.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.writeError(c, "PUT /reports/:id", err)
		return
	}

	h.broadcast(models.EventUpdated, report)
	c.JSON(http.StatusOK, report)
}

func (h *ReportsHandler) DeleteReport(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}

	if err := h.reports.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "DELETE /reports/:id", err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastEvent(models.ReportEvent{
			Type:      models.EventDeleted,
			ReportID:  id,
			Timestamp: time.Now().UTC(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report successfully deleted!"})
}

func (h *ReportsHandler) broadcast(eventType string, report *models.Report) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastEvent(models.ReportEvent{
		Type:      eventType,
		Report:    report,
		ReportID:  report.ID,
		Timestamp: time.Now().UTC(),
	})
}

// GetMap aggregates report locations inside the requested viewport into
// map cells. The same filters as GET /reports apply.
func (h *ReportsHandler) GetMap(c *gin.Context) {
	var (
		vp  models.ViewPort
		err error
	)
	params := []struct {
		name string
		dest *float64
	}{
		{"sw_lat", &vp.LatMin},
		{"sw_lon", &vp.LonMin},
		{"ne_lat", &vp.LatMax},
		{"ne_lon", &vp.LonMax},
	}
	for _, p := range params {
		raw, has := c.GetQuery(p.name)
		if !has {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Viewport parameter " + p.name + " required."})
			return
		}
		if *p.dest, err = strconv.ParseFloat(raw, 64); err != nil {
			log.Infof("Error in parsing %s param: %v", p.name, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parsing " + p.name + " failed."})
			return
		}
	}

	cells, err := h.reports.MapCells(c.Request.Context(), &vp, filtersFromQuery(c))
	if err != nil {
		h.writeError(c, "GET /map", err)
		return
	}
	c.JSON(http.StatusOK, cells)
}
