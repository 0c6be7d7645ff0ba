package handlers

import (
	"fmt"
	"laundry_manager/internal/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	agingService     services.AgingService
	loc              *time.Location
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, agingService services.AgingService, loc *time.Location) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, agingService: agingService, loc: loc}
}

func (h *AnalyticsHandler) report(c *gin.Context) (*services.AnalyticsReport, bool) {
	from, to, ok := dateRange(c, h.loc)
	if !ok {
		return nil, false
	}
	period := services.Period(c.DefaultQuery("period", string(services.PeriodDay)))
	report, err := h.analyticsService.Report(c.Request.Context(), from, to, period)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return report, true
}

func (h *AnalyticsHandler) Report(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	from, to, ok := dateRange(c, h.loc)
	if !ok {
		return
	}
	summary, err := h.analyticsService.Summary(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) Export(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	data, err := services.ExportAnalyticsXLSX(report)
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("analytics_%s_%s.xlsx", report.From.In(h.loc).Format("20060102"), report.To.In(h.loc).Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *AnalyticsHandler) Aging(c *gin.Context) {
	report, err := h.agingService.Report(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) TicketNotices(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	notices, err := h.agingService.Notices(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": notices, "count": len(notices)})
}
