package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}
	logger := utils.NewLogger("error")
	db, err := NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := ApplyMigrations(context.Background(), db, "sqlite", logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db
}

func TestUsersStoreDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	users := NewUsersStore(db)
	ctx := context.Background()

	id, err := users.Create(ctx, &User{Username: "alice", PasswordHash: "h", Salt: "s"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id <= 0 {
		t.Fatalf("bad id %d", id)
	}
	_, err = users.Create(ctx, &User{Username: "Alice", PasswordHash: "h2", Salt: "s2"})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	// Second attempt must not have created a row.
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user row, got %d", count)
	}
}

func TestUsersStoreFindByUsername(t *testing.T) {
	db := newTestDB(t)
	users := NewUsersStore(db)
	ctx := context.Background()

	if _, err := users.Create(ctx, &User{Username: "bob", PasswordHash: "h", Salt: "s"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	u, err := users.FindByUsername(ctx, "  BOB ")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u == nil || u.Username != "bob" {
		t.Fatalf("user not found by normalized name: %+v", u)
	}
	missing, err := users.FindByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown user")
	}
}

func TestIncidentsStoreRoundTripAndOrder(t *testing.T) {
	db := newTestDB(t)
	incidents := NewIncidentsStore(db)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	first := &Incident{Title: "Fire", Description: "Kitchen fire", Location: "Bldg A", Severity: "High"}
	if _, err := incidents.CreateIncident(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	titles := []string{"Flood", "Outage", "Leak"}
	for _, title := range titles {
		if _, err := incidents.CreateIncident(ctx, &Incident{Title: title, Description: "d", Location: "l", Severity: "Low"}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	list, err := incidents.ListIncidents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 incidents, got %d", len(list))
	}
	got := list[0]
	if got.Title != "Fire" || got.Description != "Kitchen fire" || got.Location != "Bldg A" || got.Severity != "High" {
		t.Fatalf("fields not preserved: %+v", got)
	}
	if got.CreatedAt.Before(before) {
		t.Fatalf("timestamp %v before submission time %v", got.CreatedAt, before)
	}
	for i, want := range titles {
		if list[i+1].Title != want {
			t.Fatalf("insertion order broken at %d: got %s want %s", i+1, list[i+1].Title, want)
		}
	}
	for i := 1; i < len(list); i++ {
		if list[i].ID <= list[i-1].ID {
			t.Fatalf("ids not monotonic: %d then %d", list[i-1].ID, list[i].ID)
		}
	}
}

func TestSessionsStoreExpiry(t *testing.T) {
	db := newTestDB(t)
	sessions := NewSessionsStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	live := &SessionRecord{ID: "live", UserID: 1, Username: "alice", CSRFToken: "c", CreatedAt: now, LastSeenAt: now, ExpiresAt: now.Add(time.Hour)}
	dead := &SessionRecord{ID: "dead", UserID: 1, Username: "alice", CSRFToken: "c", CreatedAt: now.Add(-2 * time.Hour), LastSeenAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	for _, rec := range []*SessionRecord{live, dead} {
		if err := sessions.SaveSession(ctx, rec); err != nil {
			t.Fatalf("save %s: %v", rec.ID, err)
		}
	}

	got, err := sessions.GetSession(ctx, "live")
	if err != nil || got == nil {
		t.Fatalf("live session missing: %v", err)
	}
	expired, err := sessions.GetSession(ctx, "dead")
	if err != nil {
		t.Fatalf("get dead: %v", err)
	}
	if expired != nil {
		t.Fatalf("expired session returned")
	}
	if err := sessions.DeleteSession(ctx, "live"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = sessions.GetSession(ctx, "live")
	if got != nil {
		t.Fatalf("session survives delete")
	}
}

func TestAuditStoreList(t *testing.T) {
	db := newTestDB(t)
	audits := NewAuditStore(db)
	ctx := context.Background()

	audits.Log(ctx, "alice", "auth.login_success", "")
	audits.Log(ctx, "bob", "incident.reported", "id=1")
	entries, err := audits.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != "incident.reported" {
		t.Fatalf("expected newest first, got %s", entries[0].Action)
	}
}
