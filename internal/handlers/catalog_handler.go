package handlers

import (
	"laundry_manager/internal/models"
	"laundry_manager/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type ServiceRequest struct {
	Name  string             `json:"name"`
	Kind  models.ServiceKind `json:"kind"`
	Price int64              `json:"price"`
}

type UpdateServiceRequest struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	IsActive *bool  `json:"is_active"`
}

func (h *CatalogHandler) List(c *gin.Context) {
	list, err := h.catalogService.ListServices(c.Request.Context(), c.Query("all") != "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": list, "count": len(list)})
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	svc, err := h.catalogService.CreateService(c.Request.Context(), req.Name, req.Kind, req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	svc, err := h.catalogService.UpdateService(c.Request.Context(), id, req.Name, req.Price, active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}
