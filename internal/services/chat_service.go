package services

import (
	"context"
	"fmt"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"strings"
)

// ChatService answers customers writing to the shop's WhatsApp number.
type ChatService interface {
	Reply(ctx context.Context, phone, text string) (string, error)
}

type chatService struct {
	customerService CustomerService
	ticketRepo      repository.TicketRepository
	rule            LoyaltyRule
}

func NewChatService(customerService CustomerService, ticketRepo repository.TicketRepository, rule LoyaltyRule) ChatService {
	return &chatService{customerService: customerService, ticketRepo: ticketRepo, rule: rule}
}

const chatHelp = "Escribí *estado* para ver tus pedidos o *puntos* para ver tus puntos."

func (s *chatService) Reply(ctx context.Context, phone, text string) (string, error) {
	customer, err := s.customerService.FindByPhone(ctx, phone)
	if err != nil {
		if apperr.IsNotFound(err) || apperr.IsValidation(err) {
			return "Hola! No encontramos pedidos asociados a este número.", nil
		}
		return "", err
	}

	command := strings.ToLower(strings.TrimSpace(text))
	command = strings.TrimPrefix(command, "/")
	switch command {
	case "estado", "status", "pedidos":
		return s.statusReply(ctx, customer)
	case "puntos", "points":
		return s.pointsReply(customer), nil
	}
	return fmt.Sprintf("Hola %s! %s", customer.Name, chatHelp), nil
}

func (s *chatService) statusReply(ctx context.Context, customer *models.Customer) (string, error) {
	tickets, err := s.ticketRepo.List(ctx, repository.TicketFilter{CustomerID: &customer.ID, Limit: 20})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	open := 0
	for _, t := range tickets {
		if t.Status.Terminal() {
			continue
		}
		open++
		fmt.Fprintf(&b, "\n#%s: %s", t.TicketNumber, statusLabel(t.Status))
	}
	if open == 0 {
		return fmt.Sprintf("Hola %s! No tenés pedidos pendientes.", customer.Name), nil
	}
	return fmt.Sprintf("Hola %s! Tus pedidos:%s", customer.Name, b.String()), nil
}

func (s *chatService) pointsReply(customer *models.Customer) string {
	msg := fmt.Sprintf("Hola %s! Tenés %d puntos y %d valets gratis.",
		customer.Name, customer.LoyaltyPoints, customer.FreeValets)
	if missing := s.rule.RedemptionThreshold - customer.LoyaltyPoints; missing > 0 {
		msg += fmt.Sprintf(" Te faltan %d puntos para un valet gratis.", missing)
	}
	return msg
}

func statusLabel(s models.TicketStatus) string {
	switch s {
	case models.TicketPending:
		return "recibido"
	case models.TicketProcessing:
		return "en proceso"
	case models.TicketReady:
		return "listo para retirar"
	}
	return string(s)
}
