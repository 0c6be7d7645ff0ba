package handlers

import (
	"laundry_manager/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService services.AdminService
	agingService services.AgingService
}

func NewAdminHandler(adminService services.AdminService, agingService services.AgingService) *AdminHandler {
	return &AdminHandler{adminService: adminService, agingService: agingService}
}

type ClearCacheRequest struct {
	IncludePreferences bool `json:"include_preferences"`
}

type ResetCounterRequest struct {
	Value int64 `json:"value"`
}

func (h *AdminHandler) ClearCache(c *gin.Context) {
	var req ClearCacheRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request format")
			return
		}
	}
	result, err := h.adminService.ClearCache(c.Request.Context(), req.IncludePreferences)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ResetCounter(c *gin.Context) {
	var req ResetCounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	name := c.Param("name")
	ctx := c.Request.Context()
	if err := h.adminService.ResetCounter(ctx, name, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "value": req.Value, "status": "reset"})
}

func (h *AdminHandler) ScanAging(c *gin.Context) {
	result, err := h.agingService.Scan(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) GetCounter(c *gin.Context) {
	name := c.Param("name")
	value, err := h.adminService.CounterValue(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "value": value})
}
