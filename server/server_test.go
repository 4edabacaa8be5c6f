package server

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"

	"github.com/nwafor-princewill/fedex-task-system/email"
	"github.com/nwafor-princewill/fedex-task-system/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingMailer captures sent emails for assertions; FailSends makes
// every send fail to exercise the hard-fail path.
type recordingMailer struct {
	mu            sync.Mutex
	FailSends     bool
	Notifications []email.AuthorizationEmailData
	Plain         []email.EmailData
}

func (m *recordingMailer) SendAuthorizationRequest(ctx context.Context, data email.AuthorizationEmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSends {
		return fmt.Errorf("simulated mailer outage")
	}
	m.Notifications = append(m.Notifications, data)
	return nil
}

func (m *recordingMailer) SendEmail(ctx context.Context, data email.EmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSends {
		return fmt.Errorf("simulated mailer outage")
	}
	m.Plain = append(m.Plain, data)
	return nil
}

func (m *recordingMailer) Health(ctx context.Context) error { return nil }

func (m *recordingMailer) ProviderType() email.ProviderType { return email.ProviderTypeConsole }

func (m *recordingMailer) lastNotification(t *testing.T) email.AuthorizationEmailData {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Notifications) == 0 {
		t.Fatal("no notification was sent")
	}
	return m.Notifications[len(m.Notifications)-1]
}

func (m *recordingMailer) plainCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Plain)
}

type testServerOpts struct {
	tokenCfg store.TokenConfig
	deps     Deps
	adminTo  string
}

func newTestServer(t *testing.T, opts testServerOpts) (*Server, *recordingMailer, *httpexpect.Expect) {
	t.Helper()

	cfg := LoadConfig()
	cfg.App.Name = "Package Desk"
	cfg.App.BaseURL = "http://pkg.test"
	cfg.Email.AdminEmail = opts.adminTo

	mailer := &recordingMailer{}
	deps := opts.deps
	if deps.Tokens == nil {
		tc := opts.tokenCfg
		if tc.TTL == 0 {
			tc.TTL = 20 * time.Minute
		}
		ms := store.NewMemoryTokenStore(tc)
		t.Cleanup(func() { ms.Close() })
		deps.Tokens = ms
	}
	deps.Mailer = mailer

	s := New(cfg, deps)

	ts := httptest.NewServer(NewGinEngine(s))
	t.Cleanup(ts.Close)

	e := httpexpect.Default(t, ts.URL)
	return s, mailer, e
}
