package incidents

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/store"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, recipient, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, recipient+"|"+subject+"|"+body)
	return nil
}

func setupService(t *testing.T, mailer *recordingMailer) (*Service, store.IncidentsStore) {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "svc.db"),
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
	incidentsStore := store.NewIncidentsStore(db)
	svc := NewService(cfg, incidentsStore, mailer, store.NewAuditStore(db), logger)
	return svc, incidentsStore
}

func TestReportIncidentNotifies(t *testing.T) {
	mailer := &recordingMailer{}
	svc, _ := setupService(t, mailer)

	id, err := svc.ReportIncident(context.Background(), Report{
		Title: "Fire", Description: "Kitchen fire", Location: "Bldg A", Severity: "High",
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if id <= 0 {
		t.Fatalf("bad id %d", id)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
	}
	want := "admin@example.com|New Incident Reported|Incident Fire reported."
	if mailer.sent[0] != want {
		t.Fatalf("mail mismatch:\n got %s\nwant %s", mailer.sent[0], want)
	}
}

func TestReportIncidentSurvivesDeliveryFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp: connection refused")}
	svc, incidentsStore := setupService(t, mailer)

	id, err := svc.ReportIncident(context.Background(), Report{
		Title: "Outage", Description: "Power loss", Location: "Bldg B", Severity: "Medium",
	})
	if err != nil {
		t.Fatalf("report must not fail on delivery error: %v", err)
	}
	list, err := incidentsStore.ListIncidents(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("incident not persisted despite delivery failure: %+v", list)
	}
}

func TestListIncidentsDelegates(t *testing.T) {
	svc, _ := setupService(t, &recordingMailer{})
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		if _, err := svc.ReportIncident(ctx, Report{Title: title, Description: "d", Location: "l", Severity: "Low"}); err != nil {
			t.Fatalf("report %s: %v", title, err)
		}
	}
	list, err := svc.ListIncidents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Title != "a" || list[2].Title != "c" {
		t.Fatalf("unexpected listing: %+v", list)
	}
}
