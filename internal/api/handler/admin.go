package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketgo/backend/internal/api/middleware"
	"marketgo/backend/internal/models"
)

// AdminListReports lists reports for the moderation console. Defaults to the
// pending queue; ?status=all returns everything.
func (h *Handler) AdminListReports(c *gin.Context) {
	status := c.DefaultQuery("status", models.ReportPending)
	if status == "all" {
		status = ""
	}

	reports, err := h.Storage.ListReportsByStatus(status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// AdminReportStats returns per-status report totals.
func (h *Handler) AdminReportStats(c *gin.Context) {
	stats, err := h.Storage.CountReportsByStatus()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminGetReport returns one report with its related rows.
func (h *Handler) AdminGetReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	reportRow, err := h.Storage.GetReportByID(uint(id))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportRow)
}

type reportActionRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// AdminReportAction approves or rejects a pending report. Approval applies the
// moderation consequence to the target.
func (h *Handler) AdminReportAction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	var req reportActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision is required"})
		return
	}

	reportRow, err := h.Reports.ResolveReport(middleware.CurrentUser(c), uint(id), req.Decision)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportRow)
}
