package appbootstrap

import (
	"database/sql"
	"strings"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/api"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/auth"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/incidents"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/notify"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/scraper"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/store"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

type runtimeComposition struct {
	serverDeps api.ServerDeps
	workers    []api.BackgroundWorker
}

func composeRuntime(cfg *config.AppConfig, db *sql.DB, logger *utils.Logger) *runtimeComposition {
	users := store.NewUsersStore(db)
	sessions := store.NewSessionsStore(db)
	incidentsStore := store.NewIncidentsStore(db)
	audits := store.NewAuditStore(db)

	sessionManager := auth.NewSessionManager(sessions, cfg, logger)
	gate := auth.NewGate(cfg, users, sessionManager, audits, logger)

	var mailer notify.Mailer
	if cfg.Notify.Enabled {
		mailer = notify.NewSMTPMailer(cfg.Notify)
	} else {
		mailer = &notify.LogMailer{Logger: logger}
	}
	incidentsSvc := incidents.NewService(cfg, incidentsStore, mailer, audits, logger)

	var workers []api.BackgroundWorker
	if strings.TrimSpace(cfg.Scraper.URL) != "" {
		workers = append(workers, scraper.NewWorker(cfg.Scraper, logger))
	}

	return &runtimeComposition{
		serverDeps: api.ServerDeps{
			Cfg:            cfg,
			Logger:         logger,
			Users:          users,
			Sessions:       sessions,
			Audits:         audits,
			Gate:           gate,
			SessionManager: sessionManager,
			IncidentsSvc:   incidentsSvc,
		},
		workers: workers,
	}
}
