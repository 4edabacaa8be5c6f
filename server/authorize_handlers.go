package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nwafor-princewill/fedex-task-system/email"
	"github.com/nwafor-princewill/fedex-task-system/i18n"
	"github.com/nwafor-princewill/fedex-task-system/store"
)

// HandleAuthorizeGin handles GET /authorize/:tokenID, the link target
// from the notification email. A plain link click mutates state on GET
// so the emailed link works from any mail client; prefetchers are
// mitigated only by the link's short life.
func (s *Server) HandleAuthorizeGin(c *gin.Context) {
	id := c.Param("tokenID")

	info, err := s.tokens.Authorize(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			locale := i18n.MatchAccept(c.GetHeader("Accept-Language"))
			s.renderErrorView(c, http.StatusNotFound, locale)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "authorization failed",
		})
		return
	}

	if info.FirstTransition {
		s.afterFirstAuthorization(id, info)
	}

	s.renderSuccessView(c, info)
}

// afterFirstAuthorization records the click against the persisted
// submission and notifies the admin mailbox. Both are best-effort side
// effects of the first transition only.
func (s *Server) afterFirstAuthorization(tokenID string, info *store.AuthorizedInfo) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracking := ""
	if s.submissions != nil {
		code, err := s.submissions.MarkAuthorized(ctx, tokenID)
		if err != nil {
			log.Printf("authorize: failed to mark submission for token: %v", err)
		}
		tracking = code
	}

	if admin := s.Config.Email.AdminEmail; admin != "" {
		params := map[string]string{
			"name":     info.Subject,
			"kind":     string(info.Kind),
			"tracking": tracking,
		}
		err := s.mailer.SendEmail(ctx, email.EmailData{
			To:       admin,
			Subject:  i18n.Translate("admin.subject", i18n.DefaultLocale, params),
			TextBody: i18n.Translate("admin.body", i18n.DefaultLocale, params),
		})
		if err != nil {
			log.Printf("authorize: admin notification failed: %v", err)
		}
	}
}

// StatusResponse is the JSON body for GET /status/:tokenID.
type StatusResponse struct {
	Exists            bool   `json:"exists"`
	Authorized        bool   `json:"authorized"`
	Expired           bool   `json:"expired"`
	SubjectName       string `json:"subject_name,omitempty"`
	TimeRemainingSecs int64  `json:"time_remaining_secs"`
}

// HandleStatusGin handles GET /status/:tokenID. Pure read; unknown ids
// are a normal outcome, not an error status.
func (s *Server) HandleStatusGin(c *gin.Context) {
	st, err := s.tokens.Status(c.Request.Context(), c.Param("tokenID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "status lookup failed",
		})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Exists:            st.Exists,
		Authorized:        st.Authorized,
		Expired:           st.Expired,
		SubjectName:       st.Subject,
		TimeRemainingSecs: int64(st.TimeRemaining / time.Second),
	})
}

// HandleHealthGin handles GET /healthz.
func (s *Server) HandleHealthGin(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := s.mailer.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"mailer": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
