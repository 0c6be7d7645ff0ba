package handlers

import (
	"crypto/subtle"
	"errors"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/services"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type WhatsAppHandler struct {
	whatsappService services.WhatsAppService
	chatService     services.ChatService
	webhookSecret   string
}

func NewWhatsAppHandler(
	whatsappService services.WhatsAppService,
	chatService services.ChatService,
	webhookSecret string,
) *WhatsAppHandler {
	return &WhatsAppHandler{
		whatsappService: whatsappService,
		chatService:     chatService,
		webhookSecret:   webhookSecret,
	}
}

type WebhookRequest struct {
	SenderID  string `json:"sender_id"`
	ChatID    string `json:"chat_id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Pushname  string `json:"pushname"`
	Message   struct {
		Text          string `json:"text"`
		ID            string `json:"id"`
		RepliedID     string `json:"replied_id"`
		QuotedMessage string `json:"quoted_message"`
	} `json:"message"`
}

type SendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// senderPhone extracts the number from the gateway's JID form
// (5491122334455@s.whatsapp.net).
func senderPhone(req WebhookRequest) string {
	phone := req.From
	if phone == "" {
		phone = req.SenderID
	}
	if i := strings.Index(phone, "@"); i >= 0 {
		phone = phone[:i]
	}
	return phone
}

func (h *WhatsAppHandler) HandleWebhook(c *gin.Context) {
	if h.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(c.Query("secret")), []byte(h.webhookSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
		return
	}

	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	phone := senderPhone(req)
	if phone == "" || strings.TrimSpace(req.Message.Text) == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()
	reply, err := h.chatService.Reply(ctx, phone, req.Message.Text)
	if err != nil {
		log.Printf("Webhook reply for %s: %v", phone, err)
		reply = "Disculpá, no pudimos consultar tus pedidos. Probá de nuevo en unos minutos."
	}

	// Answer 2xx even when the reply fails so the gateway does not redeliver.
	if err := h.whatsappService.SendMessage(ctx, phone, reply); err != nil {
		log.Printf("Webhook send to %s: %v", phone, err)
		c.JSON(http.StatusOK, gin.H{"status": "reply_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *WhatsAppHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Message) == "" {
		badRequest(c, "phone and message are required")
		return
	}

	err := h.whatsappService.SendMessage(c.Request.Context(), req.Phone, req.Message)
	if errors.Is(err, services.ErrWhatsAppDisabled) {
		respondError(c, apperr.Validation("whatsapp.send", err.Error()))
		return
	}
	if err != nil {
		respondError(c, apperr.Transient("whatsapp.send", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
