package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nwafor-princewill/fedex-task-system/store"
)

func issueTestToken(t *testing.T, s *Server, params store.IssueParams) *store.AuthToken {
	t.Helper()
	tok, err := s.tokens.Issue(context.Background(), params)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return tok
}

func TestAuthorize_Success(t *testing.T) {
	s, _, e := newTestServer(t, testServerOpts{})
	tok := issueTestToken(t, s, store.IssueParams{Subject: "Box A", Kind: store.KindStandard, Locale: "en"})

	body := e.GET("/authorize/" + tok.ID).
		Expect().
		Status(200).
		ContentType("text/html").
		Body().Raw()

	if !strings.Contains(body, "Package authorized") {
		t.Errorf("success view missing title: %s", body)
	}
	if !strings.Contains(body, "Box A") {
		t.Error("success view should name the package")
	}
}

func TestAuthorize_SuspendedMessageDistinct(t *testing.T) {
	s, _, e := newTestServer(t, testServerOpts{})
	tok := issueTestToken(t, s, store.IssueParams{Subject: "Pkg 7", Kind: store.KindSuspended, Locale: "en"})

	body := e.GET("/authorize/" + tok.ID).
		Expect().
		Status(200).
		Body().Raw()

	if !strings.Contains(body, "suspended package Pkg 7") {
		t.Errorf("suspended view should use the suspended message: %s", body)
	}
}

func TestAuthorize_LocalizedSuccess(t *testing.T) {
	s, _, e := newTestServer(t, testServerOpts{})
	tok := issueTestToken(t, s, store.IssueParams{Subject: "Box A", Kind: store.KindStandard, Locale: "es"})

	body := e.GET("/authorize/" + tok.ID).
		Expect().
		Status(200).
		Body().Raw()

	if !strings.Contains(body, "Paquete autorizado") {
		t.Errorf("view should use the token's locale: %s", body)
	}
}

func TestAuthorize_RepeatClickSucceeds(t *testing.T) {
	s, _, e := newTestServer(t, testServerOpts{})
	tok := issueTestToken(t, s, store.IssueParams{Subject: "Box A", Kind: store.KindStandard})

	e.GET("/authorize/" + tok.ID).Expect().Status(200)
	e.GET("/authorize/" + tok.ID).Expect().Status(200)
}

func TestAuthorize_UnknownToken(t *testing.T) {
	_, _, e := newTestServer(t, testServerOpts{})

	body := e.GET("/authorize/deadbeefdeadbeef").
		Expect().
		Status(404).
		ContentType("text/html").
		Body().Raw()

	if !strings.Contains(body, "Link expired or invalid") {
		t.Errorf("error view missing message: %s", body)
	}
}

func TestAuthorize_ExpiredToken(t *testing.T) {
	s, _, e := newTestServer(t, testServerOpts{
		tokenCfg: store.TokenConfig{TTL: time.Millisecond, SweepInterval: time.Hour},
	})
	tok := issueTestToken(t, s, store.IssueParams{Subject: "Box A", Kind: store.KindStandard})

	time.Sleep(5 * time.Millisecond)

	e.GET("/authorize/" + tok.ID).Expect().Status(404)
}

func TestAuthorize_AdminNotifiedOnce(t *testing.T) {
	s, mailer, e := newTestServer(t, testServerOpts{adminTo: "ops@example.com"})
	tok := issueTestToken(t, s, store.IssueParams{Subject: "Box A", Kind: store.KindStandard})

	e.GET("/authorize/" + tok.ID).Expect().Status(200)
	e.GET("/authorize/" + tok.ID).Expect().Status(200)

	if n := mailer.plainCount(); n != 1 {
		t.Errorf("admin should be notified exactly once, got %d", n)
	}
}

func TestStatus_LiveToken(t *testing.T) {
	s, _, e := newTestServer(t, testServerOpts{})
	tok := issueTestToken(t, s, store.IssueParams{Subject: "Box A", Kind: store.KindStandard})

	resp := e.GET("/status/" + tok.ID).
		Expect().
		Status(200).
		JSON().Object()

	resp.HasValue("exists", true)
	resp.HasValue("authorized", false)
	resp.HasValue("expired", false)
	resp.HasValue("subject_name", "Box A")
	resp.Value("time_remaining_secs").Number().Gt(0)
}

func TestStatus_AfterAuthorize(t *testing.T) {
	s, _, e := newTestServer(t, testServerOpts{})
	tok := issueTestToken(t, s, store.IssueParams{Subject: "Box A", Kind: store.KindStandard})

	e.GET("/authorize/" + tok.ID).Expect().Status(200)

	e.GET("/status/" + tok.ID).
		Expect().
		Status(200).
		JSON().Object().
		HasValue("authorized", true)
}

func TestStatus_UnknownToken(t *testing.T) {
	_, _, e := newTestServer(t, testServerOpts{})

	resp := e.GET("/status/no-such-token").
		Expect().
		Status(200).
		JSON().Object()

	resp.HasValue("exists", false)
	resp.HasValue("authorized", false)
	resp.HasValue("time_remaining_secs", 0)
}

func TestStatus_ExpiredToken(t *testing.T) {
	s, _, e := newTestServer(t, testServerOpts{
		tokenCfg: store.TokenConfig{TTL: time.Millisecond, SweepInterval: time.Hour},
	})
	tok := issueTestToken(t, s, store.IssueParams{Subject: "Box A", Kind: store.KindStandard})

	time.Sleep(5 * time.Millisecond)

	resp := e.GET("/status/" + tok.ID).
		Expect().
		Status(200).
		JSON().Object()

	resp.HasValue("expired", true)
	resp.HasValue("time_remaining_secs", 0)
}

func TestHealthz(t *testing.T) {
	_, _, e := newTestServer(t, testServerOpts{})

	e.GET("/healthz").
		Expect().
		Status(200).
		JSON().Object().HasValue("status", "ok")
}
