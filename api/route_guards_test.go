package api

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/auth"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/incidents"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/notify"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/store"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "api.db"),
		Pepper:   "test-pepper",
		Notify:   config.NotifyConfig{Recipient: "admin@example.com"},
	}
	logger := utils.NewLogger("error")
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, "sqlite", logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	users := store.NewUsersStore(db)
	sessions := store.NewSessionsStore(db)
	audits := store.NewAuditStore(db)
	sm := auth.NewSessionManager(sessions, cfg, logger)
	gate := auth.NewGate(cfg, users, sm, audits, logger)
	svc := incidents.NewService(cfg, store.NewIncidentsStore(db), &notify.LogMailer{Logger: logger}, audits, logger)

	server := NewServer(ServerDeps{
		Cfg:            cfg,
		Logger:         logger,
		Users:          users,
		Sessions:       sessions,
		Audits:         audits,
		Gate:           gate,
		SessionManager: sm,
		IncidentsSvc:   svc,
	})
	handler, err := server.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func noRedirects(c *http.Client) *http.Client {
	cp := *c
	cp.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &cp
}

func postForm(t *testing.T, c *http.Client, rawURL string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(rawURL, form)
	if err != nil {
		t.Fatalf("post %s: %v", rawURL, err)
	}
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

var csrfRe = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func register(t *testing.T, c *http.Client, base, username, password string) {
	t.Helper()
	resp := postForm(t, c, base+"/register", url.Values{"username": {username}, "password": {password}})
	if got := body(t, resp); !strings.Contains(got, "Log in") {
		t.Fatalf("register did not land on login page: %s", got)
	}
}

func login(t *testing.T, c *http.Client, base, username, password string) string {
	t.Helper()
	resp := postForm(t, c, base+"/login", url.Values{"username": {username}, "password": {password}})
	got := body(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.Contains(got, "Incident Dashboard") {
		t.Fatalf("login did not land on dashboard (status %d): %s", resp.StatusCode, got)
	}
	m := csrfRe.FindStringSubmatch(got)
	if m == nil {
		t.Fatalf("no csrf token on dashboard")
	}
	return m[1]
}

func TestUnauthenticatedDashboardRedirectsToLogin(t *testing.T) {
	ts := setupServer(t)
	c := noRedirects(newClient(t))
	resp, err := c.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestRegisterLoginReportFlow(t *testing.T) {
	ts := setupServer(t)
	c := newClient(t)

	register(t, c, ts.URL, "carol", "a strong password")
	csrf := login(t, c, ts.URL, "carol", "a strong password")

	resp := postForm(t, c, ts.URL+"/report", url.Values{
		"csrf_token":  {csrf},
		"title":       {"Fire"},
		"description": {"Kitchen fire"},
		"location":    {"Bldg A"},
		"severity":    {"High"},
	})
	got := body(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report flow status %d: %s", resp.StatusCode, got)
	}
	for _, want := range []string{"Fire", "Kitchen fire", "Bldg A", "High", "Incident reported."} {
		if !strings.Contains(got, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, got)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := setupServer(t)
	c := newClient(t)
	register(t, c, ts.URL, "dave", "correct password 1")

	resp := postForm(t, c, ts.URL+"/login", url.Values{"username": {"dave"}, "password": {"wrong password 2"}})
	got := body(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if !strings.Contains(got, "Invalid username or password.") {
		t.Fatalf("missing generic auth failure message: %s", got)
	}
}

func TestLoginUnknownUserSameMessage(t *testing.T) {
	ts := setupServer(t)
	c := newClient(t)
	resp := postForm(t, c, ts.URL+"/login", url.Values{"username": {"ghost"}, "password": {"whatever123"}})
	got := body(t, resp)
	if resp.StatusCode != http.StatusUnauthorized || !strings.Contains(got, "Invalid username or password.") {
		t.Fatalf("unknown user leaks different response (status %d): %s", resp.StatusCode, got)
	}
}

func TestDuplicateRegistrationSurfacesFormError(t *testing.T) {
	ts := setupServer(t)
	c := newClient(t)
	register(t, c, ts.URL, "erin", "password12345")

	resp := postForm(t, c, ts.URL+"/register", url.Values{"username": {"erin"}, "password": {"password12345"}})
	got := body(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(got, "already taken") {
		t.Fatalf("missing duplicate username message: %s", got)
	}
}

func TestRegisterMissingFieldRejected(t *testing.T) {
	ts := setupServer(t)
	c := newClient(t)
	resp := postForm(t, c, ts.URL+"/register", url.Values{"username": {"frank"}})
	got := body(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(got, "password is required") {
		t.Fatalf("missing field-specific message: %s", got)
	}
}

func TestReportMissingFieldRejected(t *testing.T) {
	ts := setupServer(t)
	c := newClient(t)
	register(t, c, ts.URL, "grace", "password12345")
	csrf := login(t, c, ts.URL, "grace", "password12345")

	resp := postForm(t, c, ts.URL+"/report", url.Values{
		"csrf_token":  {csrf},
		"title":       {"Fire"},
		"description": {"Kitchen fire"},
		"severity":    {"High"},
	})
	got := body(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(got, "location is required") {
		t.Fatalf("missing field-specific message: %s", got)
	}
}

func TestReportRejectsBadCSRF(t *testing.T) {
	ts := setupServer(t)
	c := newClient(t)
	register(t, c, ts.URL, "heidi", "password12345")
	login(t, c, ts.URL, "heidi", "password12345")

	resp := postForm(t, c, ts.URL+"/report", url.Values{
		"csrf_token":  {"forged"},
		"title":       {"Fire"},
		"description": {"d"},
		"location":    {"l"},
		"severity":    {"High"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := setupServer(t)
	c := newClient(t)
	register(t, c, ts.URL, "ivan", "password12345")
	login(t, c, ts.URL, "ivan", "password12345")

	resp, err := c.Get(ts.URL + "/logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	got := body(t, resp)
	if !strings.Contains(got, "You have been logged out.") {
		t.Fatalf("logout flash missing: %s", got)
	}

	nr := noRedirects(c)
	after, err := nr.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get after logout: %v", err)
	}
	defer after.Body.Close()
	if after.StatusCode != http.StatusFound {
		t.Fatalf("dashboard reachable after logout: %d", after.StatusCode)
	}
}

func TestLoginRateLimited(t *testing.T) {
	ts := setupServer(t)
	for i := 0; i < loginLimiterCapacity; i++ {
		c := newClient(t)
		resp := postForm(t, noRedirects(c), ts.URL+"/login", url.Values{"username": {"rate-target"}, "password": {"nope"}})
		resp.Body.Close()
	}
	c := newClient(t)
	resp := postForm(t, noRedirects(c), ts.URL+"/login", url.Values{"username": {"rate-target"}, "password": {"nope"}})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}
