package server

import (
	"strings"
	"testing"
	"time"

	"github.com/nwafor-princewill/fedex-task-system/store"
	"github.com/nwafor-princewill/fedex-task-system/upload"
)

func TestSubmitPackage(t *testing.T) {
	_, mailer, e := newTestServer(t, testServerOpts{})

	resp := e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt@example.com").
		WithFormField("package_name", "Box A").
		WithFormField("description", "Fragile").
		Expect().
		Status(201).
		JSON().Object()

	resp.HasValue("success", true)
	special := resp.Value("special_id").String().Raw()
	if len(special) != 12 {
		t.Errorf("special_id should be a 12-digit tracking code, got %q", special)
	}
	token := resp.Value("token").String().NotEmpty().Raw()

	sent := mailer.lastNotification(t)
	if sent.To != "rcpt@example.com" {
		t.Errorf("notification sent to %q", sent.To)
	}
	wantURL := "http://pkg.test/authorize/" + token
	if sent.AuthorizeURL != wantURL {
		t.Errorf("authorize URL = %q, want %q", sent.AuthorizeURL, wantURL)
	}
	if sent.TrackingCode != special {
		t.Errorf("tracking code mismatch: %q vs %q", sent.TrackingCode, special)
	}
	if sent.PackageName != "Box A" {
		t.Errorf("package name = %q", sent.PackageName)
	}
}

func TestSubmitPackage_SuspendedVariant(t *testing.T) {
	_, mailer, e := newTestServer(t, testServerOpts{})

	e.POST("/api/v1/suspended-packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt@example.com").
		WithFormField("package_name", "Pkg 7").
		Expect().
		Status(201)

	sent := mailer.lastNotification(t)
	if !strings.Contains(sent.Intro, "suspended") {
		t.Errorf("suspended submissions should use the suspended intro, got %q", sent.Intro)
	}
}

func TestSubmitPackage_LocaleSelectsPhrases(t *testing.T) {
	_, mailer, e := newTestServer(t, testServerOpts{})

	e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt@example.com").
		WithFormField("package_name", "Box A").
		WithFormField("locale", "es").
		Expect().
		Status(201)

	sent := mailer.lastNotification(t)
	if sent.ButtonLabel != "Autorizar paquete" {
		t.Errorf("expected Spanish button label, got %q", sent.ButtonLabel)
	}
}

func TestSubmitPackage_AcceptLanguageFallback(t *testing.T) {
	_, mailer, e := newTestServer(t, testServerOpts{})

	e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt@example.com").
		WithFormField("package_name", "Box A").
		WithHeader("Accept-Language", "fr-CA,fr;q=0.9").
		Expect().
		Status(201)

	sent := mailer.lastNotification(t)
	if sent.ButtonLabel != "Autoriser le colis" {
		t.Errorf("expected French button label via Accept-Language, got %q", sent.ButtonLabel)
	}
}

func TestSubmitPackage_InvalidRecipient(t *testing.T) {
	_, _, e := newTestServer(t, testServerOpts{})

	e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "not-an-email").
		WithFormField("package_name", "Box A").
		Expect().
		Status(400).
		JSON().Object().HasValue("error", "invalid_request")
}

func TestSubmitPackage_MissingPackageName(t *testing.T) {
	_, _, e := newTestServer(t, testServerOpts{})

	e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt@example.com").
		Expect().
		Status(400).
		JSON().Object().HasValue("error", "invalid_request")
}

func TestSubmitPackage_MailerOutageFailsRequest(t *testing.T) {
	_, mailer, e := newTestServer(t, testServerOpts{})
	mailer.FailSends = true

	e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt@example.com").
		WithFormField("package_name", "Box A").
		Expect().
		Status(502).
		JSON().Object().HasValue("error", "delivery_failed")
}

func TestSubmitPackage_ImageWithoutUploader(t *testing.T) {
	_, _, e := newTestServer(t, testServerOpts{})

	e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt@example.com").
		WithFormField("package_name", "Box A").
		WithFileBytes("image", "box.png", []byte("png-bytes")).
		Expect().
		Status(501).
		JSON().Object().HasValue("error", "not_implemented")
}

func TestSubmitPackage_ImageUploaded(t *testing.T) {
	up, err := upload.NewFilesystemUploader(t.TempDir(), "http://pkg.test/uploads")
	if err != nil {
		t.Fatalf("uploader: %v", err)
	}
	_, mailer, e := newTestServer(t, testServerOpts{deps: Deps{Uploader: up}})

	e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt@example.com").
		WithFormField("package_name", "Box A").
		WithFileBytes("image", "box.png", []byte("png-bytes")).
		Expect().
		Status(201)

	sent := mailer.lastNotification(t)
	if !strings.HasPrefix(sent.ImageURL, "http://pkg.test/uploads/packages/") {
		t.Errorf("notification should carry the hosted image URL, got %q", sent.ImageURL)
	}
}

func TestSubmitPackage_CapacityExhausted(t *testing.T) {
	_, _, e := newTestServer(t, testServerOpts{
		tokenCfg: store.TokenConfig{TTL: time.Minute, MaxActive: 1},
	})

	e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt@example.com").
		WithFormField("package_name", "Box A").
		Expect().
		Status(201)

	e.POST("/api/v1/packages").
		WithMultipart().
		WithFormField("recipient_email", "rcpt2@example.com").
		WithFormField("package_name", "Box B").
		Expect().
		Status(503).
		JSON().Object().HasValue("error", "capacity_exhausted")
}

func TestTrackingLookup_NotConfigured(t *testing.T) {
	_, _, e := newTestServer(t, testServerOpts{})

	e.GET("/api/v1/tracking/123456789012").
		Expect().
		Status(501).
		JSON().Object().HasValue("error", "not_implemented")
}

func TestListSubmissions_NotConfigured(t *testing.T) {
	_, _, e := newTestServer(t, testServerOpts{})

	e.GET("/api/v1/submissions").
		Expect().
		Status(501).
		JSON().Object().HasValue("error", "not_implemented")
}
