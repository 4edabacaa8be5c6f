package server

import (
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nwafor-princewill/fedex-task-system/i18n"
	"github.com/nwafor-princewill/fedex-task-system/store"
)

// resultView is the minimal branded page shown after an authorization
// click. The email carries all the detail; this page only confirms.
var resultView = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #4d148c 0%, #ff6600 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
        <h1 style="color: white; margin: 0; font-size: 24px;">{{.AppName}}</h1>
    </div>
    <div style="background: #ffffff; padding: 30px; border: 1px solid #e0e0e0; border-top: none; border-radius: 0 0 10px 10px; text-align: center;">
        <h2 style="color: {{if .OK}}#2e7d32{{else}}#c62828{{end}}; margin-top: 0;">{{.Title}}</h2>
        <p>{{.Body}}</p>
    </div>
</body>
</html>`))

type resultViewData struct {
	AppName string
	Title   string
	Body    string
	OK      bool
}

func (s *Server) renderSuccessView(c *gin.Context, info *store.AuthorizedInfo) {
	bodyKey := "authorize.success.standard"
	if info.Kind == store.KindSuspended {
		bodyKey = "authorize.success.suspended"
	}
	s.renderResultView(c, http.StatusOK, resultViewData{
		AppName: s.Config.App.Name,
		Title:   i18n.Translate("authorize.success.title", info.Locale, nil),
		Body:    i18n.Translate(bodyKey, info.Locale, map[string]string{"name": info.Subject}),
		OK:      true,
	})
}

func (s *Server) renderErrorView(c *gin.Context, status int, locale string) {
	s.renderResultView(c, status, resultViewData{
		AppName: s.Config.App.Name,
		Title:   i18n.Translate("authorize.error.title", locale, nil),
		Body:    i18n.Translate("authorize.error.body", locale, nil),
		OK:      false,
	})
}

func (s *Server) renderResultView(c *gin.Context, status int, data resultViewData) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := resultView.Execute(c.Writer, data); err != nil {
		log.Printf("views: failed to render result page: %v", err)
	}
}
