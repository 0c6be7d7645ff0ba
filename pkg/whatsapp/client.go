package whatsapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	BaseURL       string
	Username      string
	Password      string
	Path          string
	CountryPrefix string
	HTTPClient    *http.Client
}

type SendMessageRequest struct {
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	IsForwarded bool   `json:"is_forwarded"`
	Duration    int    `json:"duration"`
}

type SendMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"message_id"`
		Status    string `json:"status"`
	} `json:"data"`
}

type WebhookMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	From    string `json:"from"`
	To      string `json:"to"`
	Time    string `json:"time"`
}

func NewClient(baseURL, username, password, path, countryPrefix string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Username:      username,
		Password:      password,
		Path:          strings.Trim(path, "/"),
		CountryPrefix: countryPrefix,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NormalizePhone turns a locally written number (with spaces, dashes, a
// leading 0 or the mobile 15 after the area code) into the international
// digits form.
func NormalizePhone(phone, countryPrefix string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if countryPrefix == "" {
		return digits
	}
	mobile := strings.HasPrefix(countryPrefix, "54")
	national := func(n string) string {
		if mobile {
			return stripMobileMarker(n)
		}
		return n
	}
	if strings.HasPrefix(digits, countryPrefix) {
		return countryPrefix + national(digits[len(countryPrefix):])
	}
	// 54 without the mobile 9
	if len(countryPrefix) > 2 && strings.HasPrefix(digits, countryPrefix[:2]) && len(digits) > 11 {
		return countryPrefix + national(digits[2:])
	}
	return countryPrefix + national(strings.TrimPrefix(digits, "0"))
}

// stripMobileMarker drops the 15 written between the area code and the
// subscriber in the local mobile form. National numbers have ten digits and
// the area code is 11 or three to four digits long.
func stripMobileMarker(n string) string {
	if len(n) != 12 {
		return n
	}
	areaLens := []int{3, 4}
	if strings.HasPrefix(n, "11") {
		areaLens = []int{2}
	}
	for _, k := range areaLens {
		if n[k:k+2] == "15" {
			return n[:k] + n[k+2:]
		}
	}
	return n
}

// Send message via WhatsApp
func (c *Client) SendMessage(ctx context.Context, phone, message string, isForwarded bool, duration int) (*SendMessageResponse, error) {
	convertedPhone := NormalizePhone(phone, c.CountryPrefix)
	if convertedPhone == "" {
		return nil, fmt.Errorf("invalid phone number %q", phone)
	}

	requestData := SendMessageRequest{
		Phone:       convertedPhone + "@s.whatsapp.net",
		Message:     message,
		IsForwarded: isForwarded,
		Duration:    duration,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := fmt.Sprintf("%s/%s/send/message", c.BaseURL, c.Path)
	if c.Path == "" {
		url = fmt.Sprintf("%s/send/message", c.BaseURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response SendMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !response.Success {
		return &response, fmt.Errorf("whatsapp gateway rejected message: %s", response.Message)
	}

	return &response, nil
}

// Send simple text message
func (c *Client) SendTextMessage(ctx context.Context, phone, message string) error {
	_, err := c.SendMessage(ctx, phone, message, false, 0)
	return err
}
