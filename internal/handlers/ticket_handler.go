package handlers

import (
	"context"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"laundry_manager/internal/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TicketHandler struct {
	ticketService services.TicketService
	loc           *time.Location
}

func NewTicketHandler(ticketService services.TicketService, loc *time.Location) *TicketHandler {
	return &TicketHandler{ticketService: ticketService, loc: loc}
}

func (h *TicketHandler) List(c *gin.Context) {
	filter := repository.TicketFilter{
		Status: models.TicketStatus(c.Query("status")),
		Limit:  intQuery(c, "limit", 100),
		Offset: intQuery(c, "offset", 0),
	}
	if v := c.Query("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, "invalid customer_id")
			return
		}
		filter.CustomerID = &id
	}
	if c.Query("from") != "" || c.Query("to") != "" {
		from, to, ok := dateRange(c, h.loc)
		if !ok {
			return
		}
		filter.From, filter.To = &from, &to
	}
	tickets, err := h.ticketService.ListTickets(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets, "count": len(tickets)})
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req services.CreateTicketInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	ticket, err := h.ticketService.CreateTicket(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	ticket, err := h.ticketService.GetTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) GetByNumber(c *gin.Context) {
	ticket, err := h.ticketService.GetTicketByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type ticketAction func(ctx context.Context, id uuid.UUID) (*models.Ticket, error)

func (h *TicketHandler) act(c *gin.Context, action ticketAction) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	ticket, err := action(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Process(c *gin.Context) { h.act(c, h.ticketService.StartProcessing) }
func (h *TicketHandler) Ready(c *gin.Context)   { h.act(c, h.ticketService.MarkReady) }
func (h *TicketHandler) Deliver(c *gin.Context) { h.act(c, h.ticketService.MarkDelivered) }
func (h *TicketHandler) Pay(c *gin.Context)     { h.act(c, h.ticketService.MarkPaid) }

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (h *TicketHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	h.act(c, func(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
		return h.ticketService.Cancel(ctx, id, req.Reason)
	})
}
