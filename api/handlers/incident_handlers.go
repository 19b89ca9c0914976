package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/auth"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/incidents"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/store"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

type IncidentsHandler struct {
	cfg    *config.AppConfig
	svc    *incidents.Service
	views  *Renderer
	logger *utils.Logger
}

func NewIncidentsHandler(cfg *config.AppConfig, svc *incidents.Service, views *Renderer, logger *utils.Logger) *IncidentsHandler {
	return &IncidentsHandler{cfg: cfg, svc: svc, views: views, logger: logger}
}

func (h *IncidentsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sr := r.Context().Value(auth.SessionContextKey).(*store.SessionRecord)
	list, err := h.svc.ListIncidents(r.Context())
	if err != nil {
		h.logger.Errorf("list incidents: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.views.Render(w, r, http.StatusOK, "dashboard.html", &ViewData{
		Title:     "Dashboard",
		Username:  sr.Username,
		CSRFToken: sr.CSRFToken,
		Incidents: list,
	})
}

func (h *IncidentsHandler) Report(w http.ResponseWriter, r *http.Request) {
	sr := r.Context().Value(auth.SessionContextKey).(*store.SessionRecord)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	token := r.PostFormValue("csrf_token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(sr.CSRFToken)) != 1 {
		h.logger.Printf("AUTH fail (csrf) %s %s user=%s", r.Method, r.URL.Path, sr.Username)
		http.Error(w, "csrf invalid", http.StatusForbidden)
		return
	}
	form := reportForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Location:    strings.TrimSpace(r.PostFormValue("location")),
		Severity:    strings.TrimSpace(r.PostFormValue("severity")),
	}
	if err := validate.Struct(form); err != nil {
		h.renderDashboard(w, r, sr, http.StatusBadRequest, validationMessage(err), form)
		return
	}
	id, err := h.svc.ReportIncident(r.Context(), incidents.Report{
		Title:       form.Title,
		Description: form.Description,
		Location:    form.Location,
		Severity:    form.Severity,
	})
	if err != nil {
		h.logger.Errorf("report incident: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.logger.Printf("INCIDENT reported id=%d by=%s", id, sr.Username)
	h.views.SetFlash(w, r, "Incident reported.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *IncidentsHandler) renderDashboard(w http.ResponseWriter, r *http.Request, sr *store.SessionRecord, status int, errMsg string, form reportForm) {
	list, err := h.svc.ListIncidents(r.Context())
	if err != nil {
		h.logger.Errorf("list incidents: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.views.Render(w, r, status, "dashboard.html", &ViewData{
		Title:     "Dashboard",
		Username:  sr.Username,
		CSRFToken: sr.CSRFToken,
		Error:     errMsg,
		Incidents: list,
		Form: FormValues{
			Title:       form.Title,
			Description: form.Description,
			Location:    form.Location,
			Severity:    form.Severity,
		},
	})
}
