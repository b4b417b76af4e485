package handlers

import (
	"net/http"

	"community_issues/internal/services"
	"community_issues/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	*BaseHandler
	reportService services.ReportService
}

func NewReportHandler(base *BaseHandler, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   base,
		reportService: reportService,
	}
}

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("", h.GetReports)
		reports.GET("/:id", h.GetReport)
		reports.POST("", h.CreateReport)
		reports.PUT("", h.UpdateReport)
		reports.PUT("/:id", h.UpdateReport)
		reports.DELETE("", h.DeleteReport)
		reports.DELETE("/:id", h.DeleteReport)
	}
}

// GetReports godoc
// @Summary List reports
// @Description Newest first. With ?id= returns a single report.
// @Tags reports
// @Produce json
// @Param id query int false "Report ID"
// @Param status query string false "pending, in-progress, resolved or rejected"
// @Param category query string false "Category"
// @Param reporter_id query int false "Reporter"
// @Param assigned_to query int false "Assignee"
// @Success 200 {array} dto.ReportResponse
// @Failure 400 {object} map[string]interface{}
// @Router /reports [get]
func (h *ReportHandler) GetReports(c *gin.Context) {
	if c.Query("id") != "" {
		h.GetReport(c)
		return
	}

	var filter dto.ReportFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	reports, err := h.reportService.GetReports(c.Request.Context(), h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetReport godoc
// @Summary Get a report
// @Tags reports
// @Produce json
// @Param id path int true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 404 {object} map[string]interface{}
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := h.ResolveID(c, nil)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CreateReport godoc
// @Summary Report an issue
// @Description Notifies the designated reviewer.
// @Tags reports
// @Accept json
// @Produce json
// @Param report body dto.CreateReportRequest true "Report"
// @Success 201 {object} dto.CreateReportResponse
// @Failure 400 {object} map[string]interface{}
// @Router /reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req dto.CreateReportRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	id, err := h.reportService.CreateReport(c.Request.Context(), h.GetDB(c), h.ActorID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateReportResponse{
		Success: true,
		ID:      id,
		Message: "Report created successfully",
	})
}

// UpdateReport godoc
// @Summary Update a report
// @Description Sparse update. A status change notifies the reporter.
// @Tags reports
// @Accept json
// @Produce json
// @Param id path int false "Report ID (or id in the body)"
// @Param report body dto.UpdateReportRequest true "Fields to change"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /reports/{id} [put]
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	var req dto.UpdateReportRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	id, ok := h.ResolveID(c, req.ID)
	if !ok {
		return
	}

	if err := h.reportService.UpdateReport(c.Request.Context(), h.GetDB(c), id, h.ActorID(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Report updated successfully"})
}

// DeleteReport godoc
// @Summary Delete a report
// @Tags reports
// @Produce json
// @Param id path int false "Report ID (or id in the query or body)"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} map[string]interface{}
// @Router /reports/{id} [delete]
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	var req dto.DeleteRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}
	id, ok := h.ResolveID(c, req.ID)
	if !ok {
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), h.GetDB(c), id, h.ActorID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Report deleted successfully"})
}
