package incidents

import (
	"context"
	"fmt"
	"time"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/notify"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/store"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

type Report struct {
	Title       string
	Description string
	Location    string
	Severity    string
}

type Service struct {
	cfg    *config.AppConfig
	store  store.IncidentsStore
	mailer notify.Mailer
	audits store.AuditStore
	logger *utils.Logger
}

func NewService(cfg *config.AppConfig, incidents store.IncidentsStore, mailer notify.Mailer, audits store.AuditStore, logger *utils.Logger) *Service {
	return &Service{cfg: cfg, store: incidents, mailer: mailer, audits: audits, logger: logger}
}

// ReportIncident persists the report and then notifies the configured
// recipient. Persistence is the primary effect: a delivery failure is logged
// and swallowed, never rolled back.
func (s *Service) ReportIncident(ctx context.Context, report Report) (int64, error) {
	inc := &store.Incident{
		Title:       report.Title,
		Description: report.Description,
		Location:    report.Location,
		Severity:    report.Severity,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.store.CreateIncident(ctx, inc)
	if err != nil {
		return 0, fmt.Errorf("persist incident: %w", err)
	}
	s.audits.Log(ctx, "", "incident.reported", fmt.Sprintf("id=%d title=%s", id, inc.Title))
	subject := "New Incident Reported"
	body := fmt.Sprintf("Incident %s reported.", inc.Title)
	if err := s.mailer.Send(ctx, s.cfg.Notify.Recipient, subject, body); err != nil {
		s.logger.Errorf("incident %d notification: %v", id, err)
	}
	return id, nil
}

func (s *Service) ListIncidents(ctx context.Context) ([]store.Incident, error) {
	return s.store.ListIncidents(ctx)
}
