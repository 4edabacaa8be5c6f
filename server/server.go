package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nwafor-princewill/fedex-task-system/email"
	"github.com/nwafor-princewill/fedex-task-system/geocode"
	"github.com/nwafor-princewill/fedex-task-system/store"
	"github.com/nwafor-princewill/fedex-task-system/upload"
)

// Server holds the request handlers' collaborators. The token store is
// an owned instance constructed here and passed by handle, never a
// package-level singleton, so each test can build an isolated server.
type Server struct {
	Config *AppConfig

	tokens      store.TokenStore
	submissions *store.SubmissionStore // optional; nil skips persistence
	mailer      email.Sender
	uploader    upload.Uploader // optional; nil rejects image uploads
	geocoder    *geocode.Client // optional; nil skips map artifacts
}

// Deps are the collaborators a Server is assembled from.
type Deps struct {
	Tokens      store.TokenStore
	Submissions *store.SubmissionStore
	Mailer      email.Sender
	Uploader    upload.Uploader
	Geocoder    *geocode.Client
}

// New assembles a Server from explicit collaborators.
func New(cfg *AppConfig, deps Deps) *Server {
	mailer := deps.Mailer
	if mailer == nil {
		mailer = email.NewConsoleSender()
	}
	return &Server{
		Config:      cfg,
		tokens:      deps.Tokens,
		submissions: deps.Submissions,
		mailer:      mailer,
		uploader:    deps.Uploader,
		geocoder:    deps.Geocoder,
	}
}

// NewFromConfig builds every collaborator the configuration names and
// assembles the Server. Collaborators left unconfigured stay nil and
// their features degrade per the error policy.
func NewFromConfig(cfg *AppConfig) (*Server, error) {
	tokens, err := buildTokenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("token store: %w", err)
	}

	mailer, err := buildMailer(cfg)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}

	uploader, err := buildUploader(cfg)
	if err != nil {
		return nil, fmt.Errorf("uploader: %w", err)
	}

	var geocoder *geocode.Client
	if cfg.Geocode.Enabled {
		if cfg.Geocode.Endpoint != "" {
			geocoder = geocode.NewClientWithEndpoint(cfg.Geocode.Endpoint, cfg.Geocode.UserAgent)
		} else {
			geocoder = geocode.NewClient(cfg.Geocode.UserAgent)
		}
	}

	var submissions *store.SubmissionStore
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		submissions = store.NewSubmissionStore(db)
	} else {
		log.Printf("server: no database DSN configured, submissions are not persisted")
	}

	return New(cfg, Deps{
		Tokens:      tokens,
		Submissions: submissions,
		Mailer:      mailer,
		Uploader:    uploader,
		Geocoder:    geocoder,
	}), nil
}

// Close releases the token store's background resources.
func (s *Server) Close() error {
	if s.tokens != nil {
		return s.tokens.Close()
	}
	return nil
}

func buildTokenStore(cfg *AppConfig) (store.TokenStore, error) {
	tc := store.TokenConfig{
		TTL:           cfg.Token.TTL(),
		EntropyBytes:  cfg.Token.EntropyBytes,
		SweepInterval: cfg.Token.SweepInterval(),
		MaxActive:     cfg.Token.MaxActive,
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Token.Backend)) {
	case "", "memory":
		return store.NewMemoryTokenStore(tc), nil
	case "buntdb":
		path := cfg.Token.BuntPath
		if path == "" {
			path = ":memory:"
		}
		return store.NewBuntTokenStore(path, tc)
	case "valkey":
		if cfg.Token.ValkeyAddr == "" {
			return nil, fmt.Errorf("valkey backend requires token.valkey_addr")
		}
		return store.NewValkeyTokenStore(cfg.Token.ValkeyAddr, cfg.Token.ValkeyPrefix, tc)
	default:
		return nil, fmt.Errorf("unknown token backend %q", cfg.Token.Backend)
	}
}

func buildMailer(cfg *AppConfig) (email.Sender, error) {
	pc := &email.ProviderConfig{
		ProviderType: email.ProviderType(strings.ToLower(strings.TrimSpace(cfg.Email.Provider))),
		FromAddress:  cfg.Email.FromAddress,
		FromName:     cfg.Email.FromName,
		AppName:      cfg.App.Name,
		SupportEmail: cfg.App.SupportEmail,
	}
	if pc.ProviderType == "" {
		pc.ProviderType = email.ProviderTypeConsole
	}

	var raw interface{}
	switch pc.ProviderType {
	case email.ProviderTypeSMTP:
		raw = email.SMTPConfig{
			Host:       cfg.Email.SMTP.Host,
			Port:       cfg.Email.SMTP.Port,
			Username:   cfg.Email.SMTP.Username,
			Password:   cfg.Email.SMTP.Password,
			UseTLS:     cfg.Email.SMTP.UseTLS,
			UseSSL:     cfg.Email.SMTP.UseSSL,
			SkipVerify: cfg.Email.SMTP.SkipVerify,
		}
	case email.ProviderTypeSendGrid:
		raw = email.SendGridConfig{APIKey: cfg.Email.SendGrid.APIKey}
	case email.ProviderTypeMailgun:
		raw = email.MailgunConfig{
			Domain:  cfg.Email.Mailgun.Domain,
			APIKey:  cfg.Email.Mailgun.APIKey,
			APIBase: cfg.Email.Mailgun.APIBase,
		}
	}
	if raw != nil {
		jv, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		pc.Config = jv
	}
	return email.Factory(pc)
}

func buildUploader(cfg *AppConfig) (upload.Uploader, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Upload.Backend)) {
	case "", "none":
		return nil, nil
	case "filesystem":
		dir := cfg.Upload.LocalDir
		if dir == "" {
			dir = "uploads"
		}
		base := strings.TrimRight(cfg.App.BaseURL, "/") + "/uploads"
		return upload.NewFilesystemUploader(dir, base)
	case "s3":
		s3 := cfg.Upload.S3
		return upload.NewS3Uploader(s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.Bucket, s3.PublicBaseURL, s3.UseSSL)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
}

// isValidEmail performs a light syntactic check on recipient addresses.
func isValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// externalBaseURL returns the prefix for links sent to recipients:
// the configured base URL when set, otherwise derived from the request.
func (s *Server) externalBaseURL(c *gin.Context) string {
	if base := strings.TrimRight(s.Config.App.BaseURL, "/"); base != "" {
		return base
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}

// NotImplementedGin writes a standardized not_implemented JSON error.
func NotImplementedGin(c *gin.Context, description string) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error":             "not_implemented",
		"error_description": description,
	})
}
