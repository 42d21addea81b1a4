package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// IntegrationType enumerates supported inbound channels.
type IntegrationType string

const (
	IntegrationTelegram IntegrationType = "telegram"
	IntegrationWhatsapp IntegrationType = "whatsapp"
	IntegrationEmail    IntegrationType = "email"
	IntegrationAPI      IntegrationType = "api"
	IntegrationWebhook  IntegrationType = "webhook"
)

// Valid reports vocabulary membership.
func (t IntegrationType) Valid() bool {
	switch t {
	case IntegrationTelegram, IntegrationWhatsapp, IntegrationEmail, IntegrationAPI, IntegrationWebhook:
		return true
	}
	return false
}

// IntegrationConfig is the per-type settings variant. Each integration
// type has its own struct with an explicit field set; the free-form
// string map of earlier iterations is gone on purpose.
type IntegrationConfig interface {
	IntegrationType() IntegrationType
	Validate() error
}

// TelegramConfig configures a Telegram bot channel.
type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id,omitempty"`
}

func (TelegramConfig) IntegrationType() IntegrationType { return IntegrationTelegram }

func (c TelegramConfig) Validate() error {
	if c.BotToken == "" {
		return errors.New("telegram: bot_token required")
	}
	return nil
}

// WhatsappConfig configures a WhatsApp Business channel.
type WhatsappConfig struct {
	PhoneID     string `json:"phone_id"`
	AccessToken string `json:"access_token"`
}

func (WhatsappConfig) IntegrationType() IntegrationType { return IntegrationWhatsapp }

func (c WhatsappConfig) Validate() error {
	if c.PhoneID == "" || c.AccessToken == "" {
		return errors.New("whatsapp: phone_id and access_token required")
	}
	return nil
}

// EmailConfig configures an IMAP mailbox channel.
type EmailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Mailbox  string `json:"mailbox,omitempty"`
}

func (EmailConfig) IntegrationType() IntegrationType { return IntegrationEmail }

func (c EmailConfig) Validate() error {
	if c.Host == "" || c.Username == "" {
		return errors.New("email: host and username required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("email: port out of range")
	}
	return nil
}

// APIConfig configures an outbound REST integration.
type APIConfig struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key,omitempty"`
}

func (APIConfig) IntegrationType() IntegrationType { return IntegrationAPI }

func (c APIConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("api: base_url required")
	}
	return nil
}

// WebhookConfig configures an inbound webhook endpoint.
type WebhookConfig struct {
	URL    string `json:"url"`
	Secret string `json:"secret,omitempty"`
}

func (WebhookConfig) IntegrationType() IntegrationType { return IntegrationWebhook }

func (c WebhookConfig) Validate() error {
	if c.URL == "" {
		return errors.New("webhook: url required")
	}
	return nil
}

// DecodeIntegrationConfig unmarshals the stored JSON envelope into the
// variant struct for the given type.
func DecodeIntegrationConfig(t IntegrationType, raw []byte) (IntegrationConfig, error) {
	var cfg IntegrationConfig
	var err error
	switch t {
	case IntegrationTelegram:
		var c TelegramConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case IntegrationWhatsapp:
		var c WhatsappConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case IntegrationEmail:
		var c EmailConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case IntegrationAPI:
		var c APIConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case IntegrationWebhook:
		var c WebhookConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	default:
		return nil, fmt.Errorf("unknown integration type %q", t)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Integration is a configured inbound/outbound channel, optionally
// scoped to a department.
type Integration struct {
	ID           string
	Name         string
	Type         IntegrationType
	Config       IntegrationConfig
	IsActive     bool
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
