package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketgo/backend/internal/api/middleware"
	"marketgo/backend/internal/models"
)

type fileReportRequest struct {
	TargetUserID    *uint  `json:"target_user_id"`
	TargetProductID *uint  `json:"target_product_id"`
	Reason          string `json:"reason" binding:"required"`
	Detail          string `json:"detail" binding:"required"`
}

// FileReport files a complaint against a user or a product.
func (h *Handler) FileReport(c *gin.Context) {
	var req fileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report payload"})
		return
	}
	if (req.TargetUserID == nil) == (req.TargetProductID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report exactly one of target_user_id or target_product_id"})
		return
	}

	var target models.Target
	if req.TargetUserID != nil {
		target = models.UserTarget(*req.TargetUserID)
	} else {
		target = models.ProductTarget(*req.TargetProductID)
	}

	reportRow, err := h.Reports.FileReport(middleware.CurrentUser(c), target, req.Reason, req.Detail)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reportRow)
}

// MyReports lists everything the authenticated user has filed.
func (h *Handler) MyReports(c *gin.Context) {
	reports, err := h.Storage.ListReportsByReporter(middleware.CurrentUser(c).ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
