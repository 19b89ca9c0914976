package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/store"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

// ErrAuthFailure is deliberately generic: callers cannot tell an unknown
// username from a wrong password.
var ErrAuthFailure = errors.New("invalid username or password")

// Gate owns registration and credential verification.
type Gate struct {
	cfg      *config.AppConfig
	users    store.UsersStore
	sessions *SessionManager
	audits   store.AuditStore
	logger   *utils.Logger
}

func NewGate(cfg *config.AppConfig, users store.UsersStore, sessions *SessionManager, audits store.AuditStore, logger *utils.Logger) *Gate {
	return &Gate{cfg: cfg, users: users, sessions: sessions, audits: audits, logger: logger}
}

func (g *Gate) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	ph, err := HashPassword(password, g.cfg.Pepper)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	id, err := g.users.Create(ctx, &store.User{Username: username, PasswordHash: ph.Hash, Salt: ph.Salt})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			g.audits.Log(ctx, username, "auth.register_failed", "duplicate username")
			return 0, err
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	g.audits.Log(ctx, username, "auth.registered", "")
	return id, nil
}

// Login verifies credentials and establishes a session. When the user does
// not exist a decoy verification runs so both failure paths cost the same.
func (g *Gate) Login(ctx context.Context, cred Credentials, ip, userAgent string) (*store.SessionRecord, error) {
	username := strings.ToLower(strings.TrimSpace(cred.Username))
	user, err := g.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		VerifyDecoy(cred.Password, g.cfg.Pepper)
		g.audits.Log(ctx, username, "auth.login_failed", "unknown user")
		return nil, ErrAuthFailure
	}
	ph, err := ParsePasswordHash(user.PasswordHash, user.Salt)
	if err != nil {
		g.logger.Errorf("parse stored hash for %s: %v", username, err)
		return nil, ErrAuthFailure
	}
	ok, err := VerifyPassword(cred.Password, g.cfg.Pepper, ph)
	if err != nil || !ok {
		g.audits.Log(ctx, username, "auth.login_failed", "invalid password")
		return nil, ErrAuthFailure
	}
	sess, err := g.sessions.Create(ctx, user, ip, userAgent)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	g.audits.Log(ctx, username, "auth.login_success", "")
	return sess, nil
}

func (g *Gate) Logout(ctx context.Context, sessID, username string) error {
	g.audits.Log(ctx, username, "auth.logout", "")
	return g.sessions.Delete(ctx, sessID)
}
