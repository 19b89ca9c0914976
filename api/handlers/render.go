package handlers

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/store"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/gui"
)

const (
	SessionCookieName = "incmon_session"
	flashCookieName   = "incmon_flash"
)

// FormValues echoes submitted fields back into a re-rendered form.
type FormValues struct {
	Username    string
	Title       string
	Description string
	Location    string
	Severity    string
}

type ViewData struct {
	Title     string
	Username  string
	Flash     string
	Error     string
	CSRFToken string
	Form      FormValues
	Incidents []store.Incident
}

type Renderer struct {
	cfg       *config.AppConfig
	templates *template.Template
}

func NewRenderer(cfg *config.AppConfig) (*Renderer, error) {
	tpl, err := template.ParseFS(gui.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg, templates: tpl}, nil
}

// Render writes a page, draining any pending flash cookie into the view.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data *ViewData) {
	if data == nil {
		data = &ViewData{}
	}
	if data.Flash == "" {
		data.Flash = v.popFlash(w, r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	// The status line is already on the wire; a template failure here can
	// only truncate the page.
	_ = v.templates.ExecuteTemplate(w, page, data)
}

// SetFlash stores a one-shot notice shown on the next rendered page.
func (v *Renderer) SetFlash(w http.ResponseWriter, r *http.Request, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		Secure:   v.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})
}

func (v *Renderer) popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   v.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

func (v *Renderer) secureCookies(r *http.Request) bool {
	if r != nil && r.TLS != nil {
		return true
	}
	return v.cfg != nil && v.cfg.TLSEnabled
}
