package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nwafor-princewill/fedex-task-system/store"
)

// NewGinEngine builds a Gin router and registers all routes.
func NewGinEngine(s *Server) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())

	// Submission endpoints (multipart forms)
	r.POST("/api/v1/packages", s.HandleSubmitPackageGin(store.KindStandard))
	r.POST("/api/v1/suspended-packages", s.HandleSubmitPackageGin(store.KindSuspended))

	// Recipient-facing link targets
	r.GET("/authorize/:tokenID", s.HandleAuthorizeGin)
	r.GET("/status/:tokenID", s.HandleStatusGin)

	// Tracking lookup by human-facing code, recent-submission listing
	r.GET("/api/v1/tracking/:code", s.HandleTrackingLookupGin)
	r.GET("/api/v1/submissions", s.HandleListSubmissionsGin)

	r.GET("/healthz", s.HandleHealthGin)

	// Locally stored images, when the filesystem uploader is active
	if s.Config != nil && strings.EqualFold(s.Config.Upload.Backend, "filesystem") {
		dir := s.Config.Upload.LocalDir
		if dir == "" {
			dir = "uploads"
		}
		r.Static("/uploads", dir)
	}

	return r
}
