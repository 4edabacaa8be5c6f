package server

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nwafor-princewill/fedex-task-system/email"
	"github.com/nwafor-princewill/fedex-task-system/geocode"
	"github.com/nwafor-princewill/fedex-task-system/i18n"
	"github.com/nwafor-princewill/fedex-task-system/store"
)

// SubmitPackageResponse is the response for the submission endpoints.
// SpecialID is the human-facing tracking code, independent from the
// token id the authorization link carries.
type SubmitPackageResponse struct {
	Success   bool      `json:"success"`
	SpecialID string    `json:"special_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleSubmitPackageGin handles POST /api/v1/packages and
// POST /api/v1/suspended-packages. The full pipeline: validate the
// multipart form, upload the optional image (hard fail), geocode the
// address (soft fail), issue an authorization token, send the
// notification email (hard fail), persist the submission (soft fail).
func (s *Server) HandleSubmitPackageGin(kind store.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipient := strings.TrimSpace(strings.ToLower(c.PostForm("recipient_email")))
		if recipient == "" || !isValidEmail(recipient) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_request",
				"error_description": "valid recipient_email is required",
			})
			return
		}

		packageName := strings.TrimSpace(c.PostForm("package_name"))
		if packageName == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_request",
				"error_description": "package_name is required",
			})
			return
		}

		locale := i18n.ParseLocale(c.PostForm("locale"))
		if c.PostForm("locale") == "" {
			locale = i18n.MatchAccept(c.GetHeader("Accept-Language"))
		}

		trackingCode, err := store.GenerateTrackingCode()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "failed to generate tracking code",
			})
			return
		}

		// Required-image-upload failures are fatal for the request.
		imageURL, ok := s.uploadFormImage(c)
		if !ok {
			return
		}

		addr := geocode.Address{
			Street:  strings.TrimSpace(c.PostForm("street")),
			City:    strings.TrimSpace(c.PostForm("city")),
			Country: strings.TrimSpace(c.PostForm("country")),
		}
		var maps geocode.MapArtifacts
		if s.geocoder != nil && !addr.Empty() {
			maps = s.geocoder.Resolve(c.Request.Context(), addr)
		}

		tok, err := s.tokens.Issue(c.Request.Context(), store.IssueParams{
			Recipient: recipient,
			Subject:   packageName,
			Kind:      kind,
			Locale:    locale,
		})
		if err != nil {
			if errors.Is(err, store.ErrCapacity) {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error":             "capacity_exhausted",
					"error_description": "too many pending authorizations, try again later",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "failed to issue authorization token",
			})
			return
		}

		authorizeURL := s.externalBaseURL(c) + "/authorize/" + tok.ID
		expiresInMin := int(time.Until(tok.ExpiresAt).Round(time.Minute) / time.Minute)

		introKey := "email.intro.standard"
		if kind == store.KindSuspended {
			introKey = "email.intro.suspended"
		}
		data := email.AuthorizationEmailData{
			To:           recipient,
			Subject:      i18n.Translate("email.subject", locale, map[string]string{"name": packageName}),
			PackageName:  packageName,
			TrackingCode: trackingCode,
			Description:  strings.TrimSpace(c.PostForm("description")),
			ImageURL:     imageURL,
			MapImageURL:  maps.ImageURL,
			MapLinkURL:   maps.LinkURL,
			AuthorizeURL: authorizeURL,
			ExpiresInMin: expiresInMin,
			Greeting:     i18n.Translate("email.greeting", locale, nil),
			Intro:        i18n.Translate(introKey, locale, nil),
			ButtonLabel:  i18n.Translate("email.button", locale, nil),
			MapLabel:     i18n.Translate("email.map_label", locale, nil),
			ExpiryNotice: i18n.Translate("email.expiry", locale, map[string]string{"minutes": strconv.Itoa(expiresInMin)}),
			Footer:       i18n.Translate("email.footer", locale, map[string]string{"app": s.Config.App.Name}),
			AppName:      s.Config.App.Name,
			SupportEmail: s.Config.App.SupportEmail,
		}

		// Primary delivery: a failed notification fails the request.
		if err := s.mailer.SendAuthorizationRequest(c.Request.Context(), data); err != nil {
			log.Printf("submit: notification send failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":             "delivery_failed",
				"error_description": "failed to send notification email",
			})
			return
		}

		if s.submissions != nil {
			sub := &store.Submission{
				TrackingCode: trackingCode,
				Kind:         kind,
				Recipient:    recipient,
				Subject:      packageName,
				Description:  data.Description,
				ImageURL:     imageURL,
				Street:       addr.Street,
				City:         addr.City,
				Country:      addr.Country,
				MapLinkURL:   maps.LinkURL,
				Locale:       locale,
				TokenID:      tok.ID,
			}
			if err := s.submissions.Create(c.Request.Context(), sub); err != nil {
				// The notification is already out; losing the audit row
				// must not fail the request.
				log.Printf("submit: failed to persist submission %s: %v", trackingCode, err)
			}
		}

		c.JSON(http.StatusCreated, SubmitPackageResponse{
			Success:   true,
			SpecialID: trackingCode,
			Token:     tok.ID,
			ExpiresAt: tok.ExpiresAt,
		})
	}
}

// uploadFormImage uploads the optional "image" form file. The bool is
// false when a response was already written (upload failed hard).
func (s *Server) uploadFormImage(c *gin.Context) (string, bool) {
	fh, err := c.FormFile("image")
	if err != nil {
		// No image attached.
		return "", true
	}

	if s.uploader == nil {
		NotImplementedGin(c, "image uploads not configured")
		return "", false
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "unreadable image upload",
		})
		return "", false
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		// Some clients do not tag the part; fall back to the extension.
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	}
	url, err := s.uploader.Upload(c.Request.Context(), fh.Filename, contentType, f, fh.Size)
	if err != nil {
		log.Printf("submit: image upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":             "upload_failed",
			"error_description": "failed to store package image",
		})
		return "", false
	}
	return url, true
}

// HandleListSubmissionsGin handles GET /api/v1/submissions, returning
// recent persisted submissions, newest first.
func (s *Server) HandleListSubmissionsGin(c *gin.Context) {
	if s.submissions == nil {
		NotImplementedGin(c, "submission persistence not configured")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	subs, err := s.submissions.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "submission listing failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// HandleTrackingLookupGin handles GET /api/v1/tracking/:code, returning
// the persisted submission for a human-facing tracking code.
func (s *Server) HandleTrackingLookupGin(c *gin.Context) {
	if s.submissions == nil {
		NotImplementedGin(c, "submission persistence not configured")
		return
	}

	code := strings.TrimSpace(c.Param("code"))
	sub, err := s.submissions.GetByTrackingCode(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "tracking lookup failed",
		})
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "unknown tracking code",
		})
		return
	}
	c.JSON(http.StatusOK, sub)
}
