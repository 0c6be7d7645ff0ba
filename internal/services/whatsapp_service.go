package services

import (
	"context"
	"errors"
	"laundry_manager/pkg/whatsapp"
)

var ErrWhatsAppDisabled = errors.New("whatsapp gateway is not configured")

type WhatsAppService interface {
	SendMessage(ctx context.Context, phone, message string) error
}

type whatsappService struct {
	client *whatsapp.Client
}

func NewWhatsAppService(client *whatsapp.Client) WhatsAppService {
	return &whatsappService{client: client}
}

func (s *whatsappService) SendMessage(ctx context.Context, phone, message string) error {
	if s.client == nil || s.client.BaseURL == "" {
		return ErrWhatsAppDisabled
	}
	return s.client.SendTextMessage(ctx, phone, message)
}
