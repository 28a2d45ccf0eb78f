package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"heritageportal/webfront/internal/audit"
	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/config"
	"heritageportal/webfront/internal/guard"
	"heritageportal/webfront/internal/routes"
	"heritageportal/webfront/internal/session"
)

// PortalAPI is the remote content API as seen by the views.
type PortalAPI interface {
	Login(ctx context.Context, username, password string) (backend.LoginResult, error)
	CreateUser(ctx context.Context, token string, u backend.NewUser) error
	RequestOTP(ctx context.Context, username string) error
	ResetPassword(ctx context.Context, username, otp, newPassword string) error
	ChangePassword(ctx context.Context, token, username, newPassword string) error
	UpdateRole(ctx context.Context, token, username, role string) error
	GetUser(ctx context.Context, token, username string) (backend.UserProfile, error)
	UpdateUser(ctx context.Context, token string, p backend.UserProfile) error
	ListUsers(ctx context.Context, token string) ([]backend.UserProfile, error)

	SubmitContact(ctx context.Context, m backend.ContactRequest) error
	ListMessages(ctx context.Context, token, action string) ([]backend.ContactMessage, error)
	UpdateMessageAction(ctx context.Context, token string, id int64, action string) error

	CreatePlace(ctx context.Context, token, heading, district string) error
	ListPlaces(ctx context.Context) ([]backend.Place, error)
	DeletePlace(ctx context.Context, token string, id int64) error
	UploadPlaceImage(ctx context.Context, token string, placeID int64, imageBase64 string) error
	ListPlaceImages(ctx context.Context, placeID int64) ([]backend.PlaceImage, error)
	DeletePlaceImage(ctx context.Context, token string, imageID int64) error

	CreateTouristPlace(ctx context.Context, token string, in backend.TouristInput) error
	ListTouristPlaces(ctx context.Context) ([]backend.TouristPlace, error)
	GetTouristPlace(ctx context.Context, token string, id int64) (backend.TouristPlace, error)
	UpdateTouristPlace(ctx context.Context, token string, id int64, in backend.TouristInput) error
	DeleteTouristPlace(ctx context.Context, token string, id int64) error

	ListOverviews(ctx context.Context) ([]backend.Overview, error)
	CreateOverview(ctx context.Context, token, details string) error
	UpdateOverview(ctx context.Context, token string, id int64, details string) error
	ListOverviewImages(ctx context.Context) ([]backend.OverviewImage, error)
	CreateOverviewImage(ctx context.Context, token, imageBase64 string) error
	UpdateOverviewImage(ctx context.Context, token string, id int64, imageBase64 string) error
	DeleteOverviewImage(ctx context.Context, token string, id int64) error

	CreateLink(ctx context.Context, token string, in backend.LinkInput) error
	ListLinks(ctx context.Context) ([]backend.Link, error)
	DeleteLink(ctx context.Context, token string, id int64) error
	UpdateLink(ctx context.Context, token string, id int64, in backend.LinkInput) error
	GetLink(ctx context.Context, token string, id int64) (backend.Link, error)
}

type AuditLogger interface {
	Record(e audit.Event) error
}

type Deps struct {
	API       PortalAPI
	Storage   session.Storage
	Audit     AuditLogger
	Log       *slog.Logger
	Cookies   config.CookieConfig
	StaticDir string
	// Ready reports storage health for /readyz; nil means always ready.
	Ready func(ctx context.Context) error
}

type Server struct {
	httpServer *http.Server
}

func New(cfg config.HTTPConfig, deps Deps) (*Server, error) {
	handler, err := NewHandler(deps)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      loggingMiddleware(deps.Log, handler),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}, nil
}

func NewHandler(deps Deps) (http.Handler, error) {
	s, err := newSite(deps)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			if err := deps.Ready(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/v1/info", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "heritage-portal-web",
			"version": "0.1.0",
		})
	}).Methods(http.MethodGet)

	registerStatic(r, deps.StaticDir)
	s.registerSessionHandlers(r)
	s.registerPublicHandlers(r)
	s.registerUserHandlers(r)
	s.registerDashboardHandlers(r)
	s.registerLinkHandlers(r)
	s.registerGalleryHandlers(r)
	s.registerTouristHandlers(r)

	r.NotFoundHandler = s.view(func(w http.ResponseWriter, r *http.Request, store *session.Store) {
		s.renderStatus(w, r, store, http.StatusNotFound, "notfound", page{Title: "Not found"})
	})
	return r, nil
}

// registerStatic serves the static asset directory when it exists.
func registerStatic(r *mux.Router, dir string) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
}

// protect wraps a view with the route guard and role dispatcher.
func (s *site) protect(req guard.Requirement, fn viewFunc) http.HandlerFunc {
	return s.view(func(w http.ResponseWriter, r *http.Request, store *session.Store) {
		if d := guard.Evaluate(store.State(), req); !d.Allowed {
			http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
			return
		}
		fn(w, r, store)
	})
}

// manage is protect for state-changing admin forms. A session that passes
// the guard without a full identity gets the page back with no API call.
func (s *site) manage(req guard.Requirement, fn viewFunc) http.HandlerFunc {
	return s.protect(req, func(w http.ResponseWriter, r *http.Request, store *session.Store) {
		if !store.State().CanManage() {
			s.log.Warn("action refused for partial session", "path", r.URL.Path, "client", store.ClientID())
			http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
			return
		}
		fn(w, r, store)
	})
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, reqID))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("http request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

func requestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey{}).(string); ok {
		return s
	}
	return ""
}

func clientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// auditReq records a session transition with request context attached.
func auditReq(a AuditLogger, r *http.Request, store *session.Store, action, target, outcome, detail string) {
	if a == nil {
		return
	}
	st := store.State()
	parts := []string{"ip=" + clientIP(r)}
	if ua := strings.TrimSpace(r.UserAgent()); ua != "" {
		parts = append(parts, "ua="+ua)
	}
	if d := strings.TrimSpace(detail); d != "" {
		parts = append(parts, "detail="+d)
	}
	_ = a.Record(audit.Event{
		RequestID: requestIDFromContext(r.Context()),
		Client:    store.ClientID(),
		Actor:     st.Username,
		Role:      st.Role.String(),
		Action:    action,
		Target:    target,
		Outcome:   outcome,
		Detail:    strings.Join(parts, " | "),
	})
}

// chromeHidden reports whether the matched route renders without header
// and footer.
func chromeHidden(r *http.Request) bool {
	route := mux.CurrentRoute(r)
	if route == nil {
		return false
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return false
	}
	return routes.HidesChrome(tpl)
}
