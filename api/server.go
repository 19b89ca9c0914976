package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/api/handlers"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/auth"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/incidents"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/store"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

// BackgroundWorker is anything started alongside the HTTP server and stopped
// on shutdown.
type BackgroundWorker interface {
	Start() error
	Stop()
}

type ServerDeps struct {
	Cfg            *config.AppConfig
	Logger         *utils.Logger
	Users          store.UsersStore
	Sessions       store.SessionStore
	Audits         store.AuditStore
	Gate           *auth.Gate
	SessionManager *auth.SessionManager
	IncidentsSvc   *incidents.Service
}

type Server struct {
	cfg             *config.AppConfig
	logger          *utils.Logger
	users           store.UsersStore
	sessions        store.SessionStore
	audits          store.AuditStore
	gate            *auth.Gate
	sessionManager  *auth.SessionManager
	incidentsSvc    *incidents.Service
	activityTracker *sessionActivity
	loginLimiter    *requestLimiter
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		cfg:             deps.Cfg,
		logger:          deps.Logger,
		users:           deps.Users,
		sessions:        deps.Sessions,
		audits:          deps.Audits,
		gate:            deps.Gate,
		sessionManager:  deps.SessionManager,
		incidentsSvc:    deps.IncidentsSvc,
		activityTracker: newSessionActivity(),
		loginLimiter:    newLimiter(loginLimiterCapacity, time.Minute),
	}
}

func (s *Server) Handler() (http.Handler, error) {
	views, err := handlers.NewRenderer(s.cfg)
	if err != nil {
		return nil, err
	}
	authHandler := handlers.NewAuthHandler(s.cfg, s.gate, s.sessions, views, s.logger)
	incidentsHandler := handlers.NewIncidentsHandler(s.cfg, s.incidentsSvc, views, s.logger)

	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.securityHeadersMiddleware)
	r.Use(s.loggingMiddleware)

	r.MethodFunc(http.MethodGet, "/", s.withSession(incidentsHandler.Dashboard))
	r.MethodFunc(http.MethodPost, "/report", s.withSession(incidentsHandler.Report))
	r.MethodFunc(http.MethodGet, "/login", authHandler.LoginPage)
	r.MethodFunc(http.MethodPost, "/login", s.rateLimitMiddleware(authHandler.Login))
	r.MethodFunc(http.MethodGet, "/register", authHandler.RegisterPage)
	r.MethodFunc(http.MethodPost, "/register", s.rateLimitMiddleware(authHandler.Register))
	r.MethodFunc(http.MethodGet, "/logout", s.withSession(authHandler.Logout))
	return r, nil
}
