package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/auth"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/store"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

type AuthHandler struct {
	cfg      *config.AppConfig
	gate     *auth.Gate
	sessions store.SessionStore
	views    *Renderer
	logger   *utils.Logger
}

func NewAuthHandler(cfg *config.AppConfig, gate *auth.Gate, sessions store.SessionStore, views *Renderer, logger *utils.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, gate: gate, sessions: sessions, views: views, logger: logger}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.hasValidSession(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.views.Render(w, r, http.StatusOK, "login.html", &ViewData{Title: "Log in"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		h.views.Render(w, r, http.StatusBadRequest, "login.html", &ViewData{
			Title: "Log in",
			Error: validationMessage(err),
			Form:  FormValues{Username: form.Username},
		})
		return
	}
	sess, err := h.gate.Login(r.Context(), auth.Credentials{Username: form.Username, Password: form.Password}, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrAuthFailure) {
			h.views.Render(w, r, http.StatusUnauthorized, "login.html", &ViewData{
				Title: "Log in",
				Error: "Invalid username or password.",
				Form:  FormValues{Username: form.Username},
			})
			return
		}
		h.logger.Errorf("login %s: %v", form.Username, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.views.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "register.html", &ViewData{Title: "Register"})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := registerForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		h.views.Render(w, r, http.StatusBadRequest, "register.html", &ViewData{
			Title: "Register",
			Error: validationMessage(err),
			Form:  FormValues{Username: form.Username},
		})
		return
	}
	if _, err := h.gate.Register(r.Context(), form.Username, form.Password); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			h.views.Render(w, r, http.StatusBadRequest, "register.html", &ViewData{
				Title: "Register",
				Error: "That username is already taken.",
				Form:  FormValues{Username: form.Username},
			})
			return
		}
		h.logger.Errorf("register %s: %v", form.Username, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.views.SetFlash(w, r, "Registration successful. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sr := r.Context().Value(auth.SessionContextKey).(*store.SessionRecord)
	if err := h.gate.Logout(r.Context(), sr.ID, sr.Username); err != nil {
		h.logger.Errorf("logout %s: %v", sr.Username, err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.views.secureCookies(r),
		SameSite: http.SameSiteLaxMode,
	})
	h.views.SetFlash(w, r, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) hasValidSession(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	rec, err := h.sessions.GetSession(r.Context(), cookie.Value)
	return err == nil && rec != nil
}
