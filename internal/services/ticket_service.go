package services

import (
	"context"
	"fmt"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/metrics"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DryCleaningSelection struct {
	ServiceID uuid.UUID `json:"service_id"`
	Quantity  int       `json:"quantity"`
}

type CreateTicketInput struct {
	CustomerID    *uuid.UUID             `json:"customer_id"`
	CustomerName  string                 `json:"customer_name"`
	PhoneNumber   string                 `json:"phone_number"`
	ServiceIDs    []uuid.UUID            `json:"service_ids"`
	DryCleaning   []DryCleaningSelection `json:"dry_cleaning"`
	ValetQuantity int                    `json:"valet_quantity"`
	Options       models.LaundryOptions  `json:"options"`
	PaymentMethod models.PaymentMethod   `json:"payment_method"`
	IsPaid        bool                   `json:"is_paid"`
}

type TicketService interface {
	CreateTicket(ctx context.Context, in CreateTicketInput) (*models.Ticket, error)
	GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	GetTicketByNumber(ctx context.Context, number string) (*models.Ticket, error)
	ListTickets(ctx context.Context, filter repository.TicketFilter) ([]models.Ticket, error)
	StartProcessing(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	MarkReady(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	// MarkDelivered settles payment, stamps the delivery time and accrues
	// loyalty for the owner, all in one write. Repeating it is a no-op.
	MarkDelivered(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*models.Ticket, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
}

type ticketService struct {
	ticketRepo      repository.TicketRepository
	serviceRepo     repository.ServiceRepository
	customerService CustomerService
	rule            LoyaltyRule
	numberWidth     int
	now             func() time.Time
}

func NewTicketService(
	ticketRepo repository.TicketRepository,
	serviceRepo repository.ServiceRepository,
	customerService CustomerService,
	rule LoyaltyRule,
	numberWidth int,
) TicketService {
	return &ticketService{
		ticketRepo:      ticketRepo,
		serviceRepo:     serviceRepo,
		customerService: customerService,
		rule:            rule,
		numberWidth:     numberWidth,
		now:             time.Now,
	}
}

func (s *ticketService) CreateTicket(ctx context.Context, in CreateTicketInput) (*models.Ticket, error) {
	if !in.PaymentMethod.Valid() {
		return nil, apperr.Validation("tickets.create", fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
	}
	if in.ValetQuantity < 0 {
		return nil, apperr.Validation("tickets.create", "valet quantity cannot be negative")
	}
	if len(in.ServiceIDs) == 0 && len(in.DryCleaning) == 0 {
		return nil, apperr.Validation("tickets.create", "select at least one service")
	}

	items, total, err := s.priceItems(ctx, in)
	if err != nil {
		return nil, err
	}

	var customer *models.Customer
	if in.CustomerID != nil {
		customer, err = s.customerService.GetCustomer(ctx, *in.CustomerID)
	} else {
		customer, err = s.customerService.ResolveCustomer(ctx, in.CustomerName, in.PhoneNumber)
	}
	if err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		CustomerID:    customer.ID,
		Items:         items,
		ValetQuantity: in.ValetQuantity,
		TotalPrice:    total,
		PaymentMethod: in.PaymentMethod,
		IsPaid:        in.IsPaid,
		Status:        models.TicketPending,
	}
	ticket.SetOptions(in.Options)

	width := s.numberWidth
	err = s.ticketRepo.Create(ctx, ticket, models.TicketCounter, func(seq int64) string {
		return FormatTicketNumber(seq, width)
	})
	if err != nil {
		return nil, err
	}
	ticket.Customer = customer
	metrics.TicketsCreated.Inc()
	return ticket, nil
}

// priceItems resolves the selected catalog entries into ticket lines and
// their total.
func (s *ticketService) priceItems(ctx context.Context, in CreateTicketInput) ([]models.TicketItem, int64, error) {
	ids := make([]uuid.UUID, 0, len(in.ServiceIDs)+len(in.DryCleaning))
	seen := make(map[uuid.UUID]bool)
	for _, id := range in.ServiceIDs {
		if seen[id] {
			return nil, 0, apperr.Validation("tickets.create", "a service was selected twice")
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, dc := range in.DryCleaning {
		ids = append(ids, dc.ServiceID)
	}
	catalog, err := s.serviceRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	lookup := func(id uuid.UUID) (models.Service, error) {
		svc, ok := catalog[id]
		if !ok || !svc.IsActive {
			return models.Service{}, apperr.Validation("tickets.create", "unknown service "+id.String())
		}
		return svc, nil
	}

	var (
		items    []models.TicketItem
		selected []PricedService
		lines    []DryCleaningLine
	)
	for _, id := range in.ServiceIDs {
		svc, err := lookup(id)
		if err != nil {
			return nil, 0, err
		}
		serviceID := svc.ID
		selected = append(selected, PricedService{Name: svc.Name, Price: svc.Price})
		items = append(items, models.TicketItem{
			ServiceID: &serviceID,
			Kind:      models.ItemService,
			Name:      svc.Name,
			UnitPrice: svc.Price,
			Quantity:  1,
			Position:  len(items),
		})
	}
	for _, dc := range in.DryCleaning {
		svc, err := lookup(dc.ServiceID)
		if err != nil {
			return nil, 0, err
		}
		if svc.Kind != models.ServiceDryCleaning {
			return nil, 0, apperr.Validation("tickets.create", fmt.Sprintf("%q is not a dry-cleaning item", svc.Name))
		}
		serviceID := svc.ID
		lines = append(lines, DryCleaningLine{Name: svc.Name, Price: svc.Price, Quantity: dc.Quantity})
		items = append(items, models.TicketItem{
			ServiceID: &serviceID,
			Kind:      models.ItemDryCleaning,
			Name:      svc.Name,
			UnitPrice: svc.Price,
			Quantity:  dc.Quantity,
			Position:  len(items),
		})
	}

	total, err := CalculateTotal(selected, lines)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *ticketService) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, id)
}

func (s *ticketService) GetTicketByNumber(ctx context.Context, number string) (*models.Ticket, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, apperr.Validation("tickets.get_by_number", "ticket number is required")
	}
	return s.ticketRepo.GetByNumber(ctx, number)
}

func (s *ticketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]models.Ticket, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.Validation("tickets.list", fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.ticketRepo.List(ctx, filter)
}

func (s *ticketService) StartProcessing(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return s.transition(ctx, id, models.TicketProcessing, "")
}

func (s *ticketService) MarkReady(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return s.transition(ctx, id, models.TicketReady, "")
}

func (s *ticketService) MarkDelivered(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return s.transition(ctx, id, models.TicketDelivered, "")
}

func (s *ticketService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*models.Ticket, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("tickets.cancel", "a cancellation reason is required")
	}
	return s.transition(ctx, id, models.TicketCanceled, reason)
}

func (s *ticketService) MarkPaid(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return s.ticketRepo.MarkPaid(ctx, id)
}

func (s *ticketService) transition(ctx context.Context, id uuid.UUID, to models.TicketStatus, reason string) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == to {
		return ticket, nil
	}
	if !CanTransition(ticket.Status, to) {
		return nil, apperr.Conflict("tickets.transition",
			fmt.Sprintf("cannot move ticket %s from %s to %s", ticket.TicketNumber, ticket.Status, to))
	}

	in := repository.TransitionInput{
		TicketID:     id,
		From:         ticket.Status,
		To:           to,
		At:           s.now(),
		CancelReason: reason,
	}
	var accrual models.CustomerDelta
	if to == models.TicketDelivered {
		in.MarkPaid = true
		in.SetDelivered = true
		accrual = s.rule.Accrual(*ticket)
		in.Loyalty = &models.LoyaltyEntry{
			CustomerID:       ticket.CustomerID,
			Kind:             models.LoyaltyAccrual,
			PointsDelta:      accrual.PointsDelta,
			ValetsCountDelta: accrual.ValetsCountDelta,
		}
	}

	updated, changed, err := s.ticketRepo.Transition(ctx, in)
	if err != nil {
		return nil, err
	}
	if changed {
		metrics.TicketTransitions.WithLabelValues(string(to)).Inc()
		if to == models.TicketDelivered {
			metrics.LoyaltyPointsAccrued.Add(float64(accrual.PointsDelta))
		}
	}
	return updated, nil
}
