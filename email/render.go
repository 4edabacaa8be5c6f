package email

import (
	"fmt"
	"html/template"
	"strings"
)

// renderAuthorizationHTML renders the branded notification shared by all
// providers. The layout mirrors the service's web styling: gradient
// header, white card body, prominent call-to-action button.
func renderAuthorizationHTML(data AuthorizationEmailData) (string, error) {
	tmpl := `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Subject}}</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #4d148c 0%, #ff6600 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
        <h1 style="color: white; margin: 0; font-size: 24px;">{{.AppName}}</h1>
    </div>

    <div style="background: #ffffff; padding: 30px; border: 1px solid #e0e0e0; border-top: none; border-radius: 0 0 10px 10px;">
        <h2 style="color: #333; margin-top: 0;">{{.Greeting}}</h2>

        <p>{{.Intro}}</p>

        <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
            <tr>
                <td style="padding: 8px 0; color: #666;">{{.PackageName}}</td>
                <td style="padding: 8px 0; text-align: right; font-weight: bold; letter-spacing: 2px;">{{.TrackingCode}}</td>
            </tr>
        </table>

        {{if .Description}}<p style="color: #666;">{{.Description}}</p>{{end}}

        {{if .ImageURL}}
        <div style="text-align: center; margin: 20px 0;">
            <img src="{{.ImageURL}}" alt="{{.PackageName}}" style="max-width: 100%; border-radius: 8px;">
        </div>
        {{end}}

        {{if .MapImageURL}}
        <div style="text-align: center; margin: 20px 0;">
            <img src="{{.MapImageURL}}" alt="map" style="max-width: 100%; border-radius: 8px;">
        </div>
        {{end}}
        {{if .MapLinkURL}}
        <p style="text-align: center;">
            <a href="{{.MapLinkURL}}" style="color: #4d148c;">{{.MapLabel}}</a>
        </p>
        {{end}}

        <div style="text-align: center; margin: 30px 0;">
            <a href="{{.AuthorizeURL}}" style="background: #ff6600; color: white; padding: 14px 32px; border-radius: 8px; text-decoration: none; font-weight: bold; display: inline-block;">{{.ButtonLabel}}</a>
        </div>

        <p style="color: #666; font-size: 14px;">{{.ExpiryNotice}}</p>

        <hr style="border: none; border-top: 1px solid #e0e0e0; margin: 25px 0;">

        <p style="color: #999; font-size: 12px; margin-bottom: 0;">
            {{.Footer}}
            {{if .SupportEmail}}<a href="mailto:{{.SupportEmail}}" style="color: #4d148c;">{{.SupportEmail}}</a>{{end}}
        </p>
    </div>
</body>
</html>`

	t, err := template.New("authorization_request").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderAuthorizationText renders the plain-text alternative part.
func renderAuthorizationText(data AuthorizationEmailData) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s\n\n", data.AppName))
	buf.WriteString(fmt.Sprintf("%s\n\n", data.Greeting))
	buf.WriteString(fmt.Sprintf("%s\n\n", data.Intro))
	buf.WriteString(fmt.Sprintf("%s: %s\n\n", data.PackageName, data.TrackingCode))
	if data.Description != "" {
		buf.WriteString(fmt.Sprintf("%s\n\n", data.Description))
	}
	if data.MapLinkURL != "" {
		buf.WriteString(fmt.Sprintf("%s: %s\n\n", data.MapLabel, data.MapLinkURL))
	}
	buf.WriteString(fmt.Sprintf("%s:\n\n    %s\n\n", data.ButtonLabel, data.AuthorizeURL))
	buf.WriteString(fmt.Sprintf("%s\n\n", data.ExpiryNotice))
	buf.WriteString(data.Footer)
	if data.SupportEmail != "" {
		buf.WriteString(" " + data.SupportEmail)
	}
	buf.WriteString("\n")

	return buf.String()
}
