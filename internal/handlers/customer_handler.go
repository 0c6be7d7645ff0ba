package handlers

import (
	"context"
	"laundry_manager/internal/models"
	"laundry_manager/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomerHandler struct {
	customerService services.CustomerService
	loyaltyService  services.LoyaltyService
}

func NewCustomerHandler(customerService services.CustomerService, loyaltyService services.LoyaltyService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, loyaltyService: loyaltyService}
}

type CustomerRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

func (h *CustomerHandler) List(c *gin.Context) {
	if phone := c.Query("phone"); phone != "" {
		customer, err := h.customerService.FindByPhone(c.Request.Context(), phone)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": []models.Customer{*customer}, "count": 1})
		return
	}
	customers, err := h.customerService.SearchCustomers(c.Request.Context(), c.Query("q"), intQuery(c, "limit", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "count": len(customers)})
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req.Name, req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	rule := h.loyaltyService.Rule()
	c.JSON(http.StatusOK, gin.H{
		"customer":       customer,
		"can_redeem":     rule.CanRedeem(customer.LoyaltyPoints),
		"redeem_at":      rule.RedemptionThreshold,
		"points_per_use": rule.PointsPerValet,
	})
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	customer, err := h.customerService.UpdateProfile(c.Request.Context(), id, req.Name, req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) loyaltyAction(c *gin.Context, action func(ctx context.Context, id uuid.UUID) (*models.Customer, error)) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	customer, err := action(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Redeem(c *gin.Context) {
	h.loyaltyAction(c, h.loyaltyService.Redeem)
}

func (h *CustomerHandler) ConsumeFreeValet(c *gin.Context) {
	h.loyaltyAction(c, h.loyaltyService.ConsumeFreeValet)
}

func (h *CustomerHandler) LoyaltyHistory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	entries, err := h.loyaltyService.History(c.Request.Context(), id, intQuery(c, "limit", 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
