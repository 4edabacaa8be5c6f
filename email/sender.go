package email

import (
	"context"
	"encoding/json"
)

// ProviderType represents the type of email provider
type ProviderType string

const (
	ProviderTypeConsole  ProviderType = "console"
	ProviderTypeSMTP     ProviderType = "smtp"
	ProviderTypeSendGrid ProviderType = "sendgrid"
	ProviderTypeMailgun  ProviderType = "mailgun"
)

// ProviderInfo contains metadata about a provider type
type ProviderInfo struct {
	Type        ProviderType `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
}

// SupportedProviders returns list of all supported provider types
func SupportedProviders() []ProviderInfo {
	return []ProviderInfo{
		{Type: ProviderTypeConsole, Name: "Console (Development)", Description: "Prints emails to server console for development"},
		{Type: ProviderTypeSMTP, Name: "SMTP", Description: "Generic SMTP server"},
		{Type: ProviderTypeSendGrid, Name: "SendGrid", Description: "SendGrid transactional email service"},
		{Type: ProviderTypeMailgun, Name: "Mailgun", Description: "Mailgun email API"},
	}
}

// ProviderConfig represents configuration for an email provider
type ProviderConfig struct {
	Name           string          `json:"name"`
	ProviderType   ProviderType    `json:"provider_type"`
	FromAddress    string          `json:"from_address"`
	FromName       string          `json:"from_name"`
	ReplyToAddress string          `json:"reply_to_address,omitempty"`
	Config         json.RawMessage `json:"config"`
	AppName        string          `json:"app_name"`
	SupportEmail   string          `json:"support_email,omitempty"`
}

// SMTPConfig holds SMTP-specific configuration
type SMTPConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	UseTLS     bool   `json:"use_tls"`
	UseSSL     bool   `json:"use_ssl"`
	SkipVerify bool   `json:"skip_verify"`
}

// SendGridConfig holds SendGrid-specific configuration
type SendGridConfig struct {
	APIKey string `json:"api_key"`
}

// MailgunConfig holds Mailgun-specific configuration
type MailgunConfig struct {
	Domain  string `json:"domain"`
	APIKey  string `json:"api_key"`
	APIBase string `json:"api_base"` // "https://api.mailgun.net/v3" or "https://api.eu.mailgun.net/v3"
}

// AuthorizationEmailData contains everything needed to render the
// package authorization notification. Phrase fields arrive already
// localized so the senders stay locale-agnostic.
type AuthorizationEmailData struct {
	To           string
	Subject      string // localized subject line
	PackageName  string
	TrackingCode string
	Description  string
	ImageURL     string // optional package photo, already publicly hosted
	MapImageURL  string // optional static map, best-effort
	MapLinkURL   string // optional map provider link, best-effort
	AuthorizeURL string
	ExpiresInMin int

	// Localized phrases
	Greeting     string
	Intro        string
	ButtonLabel  string
	MapLabel     string
	ExpiryNotice string
	Footer       string

	AppName      string
	SupportEmail string
}

// EmailData represents generic email data
type EmailData struct {
	To          string
	Subject     string
	TextBody    string
	HTMLBody    string
	FromAddress string
	FromName    string
	ReplyTo     string
}

// Sender defines the interface for sending emails
type Sender interface {
	// SendAuthorizationRequest sends the branded package notification
	// carrying the authorization link
	SendAuthorizationRequest(ctx context.Context, data AuthorizationEmailData) error

	// SendEmail sends a generic email
	SendEmail(ctx context.Context, data EmailData) error

	// Health checks if the email service is available
	Health(ctx context.Context) error

	// ProviderType returns the type of the provider
	ProviderType() ProviderType
}

// Factory creates a Sender from a ProviderConfig
func Factory(config *ProviderConfig) (Sender, error) {
	switch config.ProviderType {
	case ProviderTypeConsole:
		return NewConsoleSender(), nil
	case ProviderTypeSMTP:
		return NewSMTPSenderFromConfig(config)
	case ProviderTypeSendGrid:
		return NewSendGridSenderFromConfig(config)
	case ProviderTypeMailgun:
		return NewMailgunSenderFromConfig(config)
	default:
		return NewConsoleSender(), nil
	}
}
