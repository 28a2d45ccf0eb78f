package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"heritageportal/webfront/internal/audit"
	"heritageportal/webfront/internal/session"
)

// viewFunc is a page handler with the caller's session injected.
type viewFunc func(w http.ResponseWriter, r *http.Request, store *session.Store)

type site struct {
	api         PortalAPI
	storage     session.Storage
	audit       AuditLogger
	log         *slog.Logger
	ident       *identity
	secure      bool
	pages       pageSet
	submissions *submissions
}

func newSite(deps Deps) (*site, error) {
	if deps.API == nil {
		return nil, errors.New("portal api is required")
	}
	if deps.Storage == nil {
		return nil, errors.New("session storage is required")
	}
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	ident, err := newIdentity(deps.Cookies.Secret, deps.Cookies.ClientMaxAge, deps.Cookies.Secure)
	if err != nil {
		return nil, err
	}
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &site{
		api:         deps.API,
		storage:     deps.Storage,
		audit:       deps.Audit,
		log:         log,
		ident:       ident,
		secure:      deps.Cookies.Secure,
		pages:       pages,
		submissions: newSubmissions(10 * time.Minute),
	}, nil
}

// view resolves the client, opens its session store and hands it to fn.
// Each request gets its own store.
func (s *site) view(fn viewFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := s.ident.clientID(w, r)
		if err != nil {
			s.fail(w, r, "resolve client", err)
			return
		}
		marker := newCookieMarker(w, r, s.secure)
		store, err := session.Open(r.Context(), s.storage, clientID, marker)
		if err != nil {
			s.fail(w, r, "open session", err)
			return
		}
		if store.StaleWiped() {
			s.log.Info("stale login discarded", "client", clientID)
			auditReq(s.audit, r, store, audit.ActionStaleWipe, "", audit.OutcomeSuccess, "")
		}
		fn(w, r, store)
	}
}

// fail logs an unexpected error and renders a bare 500.
func (s *site) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	s.log.Error(what+" failed",
		"request_id", requestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// logout ends the session. The in-memory reset has already happened when
// Logout returns an error, so the caller still redirects.
func (s *site) logout(w http.ResponseWriter, r *http.Request, store *session.Store, action string) {
	before := store.State()
	err := store.Logout(r.Context())
	outcome := audit.OutcomeSuccess
	detail := ""
	if err != nil {
		outcome = audit.OutcomeFailed
		detail = err.Error()
		s.log.Error("logout failed", "client", store.ClientID(), "error", err)
	}
	if s.audit != nil {
		_ = s.audit.Record(audit.Event{
			RequestID: requestIDFromContext(r.Context()),
			Client:    store.ClientID(),
			Actor:     before.Username,
			Role:      before.Role.String(),
			Action:    action,
			Outcome:   outcome,
			Detail:    detail,
		})
	}
}
