package handlers

import (
	"laundry_manager/internal/models"
	"laundry_manager/internal/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenseService services.ExpenseService
	loc            *time.Location
}

func NewExpenseHandler(expenseService services.ExpenseService, loc *time.Location) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, loc: loc}
}

func (h *ExpenseHandler) List(c *gin.Context) {
	from, to, ok := dateRange(c, h.loc)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	expenses, err := h.expenseService.ListExpenses(ctx, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.expenseService.TotalExpenses(ctx, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses, "count": len(expenses), "total": total})
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var expense models.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if user := currentUser(c); user != nil {
		expense.CreatedBy = user.ID
	}
	if err := h.expenseService.CreateExpense(c.Request.Context(), &expense); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}
