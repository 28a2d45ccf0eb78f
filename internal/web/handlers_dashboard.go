package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/guard"
	"heritageportal/webfront/internal/routes"
	"heritageportal/webfront/internal/session"
)

// messageActions are the contact message states; "" lists all of them.
var messageActions = []string{"pending", "replied", "ignored"}

func validAction(a string) bool {
	for _, v := range messageActions {
		if a == v {
			return true
		}
	}
	return false
}

func (s *site) registerDashboardHandlers(r *mux.Router) {
	super := s.dashboard(routes.SuperDashboard)
	admin := s.dashboard(routes.AdminDashboard)
	r.HandleFunc(routes.SuperDashboard, s.protect(guard.RequireSuperAdmin, super.show)).Methods(http.MethodGet)
	r.HandleFunc(routes.SuperDashboard, s.manage(guard.RequireSuperAdmin, super.update)).Methods(http.MethodPost)
	r.HandleFunc(routes.AdminDashboard, s.protect(guard.RequireAdmin, admin.show)).Methods(http.MethodGet)
	r.HandleFunc(routes.AdminDashboard, s.manage(guard.RequireAdmin, admin.update)).Methods(http.MethodPost)
}

type dashboardView struct {
	s    *site
	path string
}

func (s *site) dashboard(path string) dashboardView {
	return dashboardView{s: s, path: path}
}

type dashboardData struct {
	Path     string
	Filter   string
	Actions  []string
	Messages []backend.ContactMessage
	Pager    pager
	Empty    string
}

func (d dashboardData) PageURL(n int) string {
	q := "?page=" + strconv.Itoa(n)
	if d.Filter != "" {
		q += "&action=" + d.Filter
	}
	return d.Path + q
}

func (v dashboardView) load(r *http.Request, store *session.Store, filter string, pageNo int) dashboardData {
	d := dashboardData{Path: v.path, Filter: filter, Actions: messageActions}
	msgs, err := v.s.api.ListMessages(r.Context(), store.Token(), filter)
	if err != nil {
		v.s.log.Warn("list messages failed", "filter", filter, "error", err)
		d.Empty = "Error fetching messages. Please try again."
		d.Messages, d.Pager = paginate([]backend.ContactMessage{}, 1, messagesPerPage)
		return d
	}
	if len(msgs) == 0 {
		status := filter
		if status == "" {
			status = "all"
		}
		d.Empty = "There is no message to show of status = " + status
	}
	d.Messages, d.Pager = paginate(msgs, pageNo, messagesPerPage)
	return d
}

func (v dashboardView) filter(r *http.Request) string {
	f := strings.TrimSpace(r.FormValue("action_filter"))
	if f == "" {
		f = strings.TrimSpace(r.URL.Query().Get("action"))
	}
	if !validAction(f) {
		return ""
	}
	return f
}

func (v dashboardView) show(w http.ResponseWriter, r *http.Request, store *session.Store) {
	data := v.load(r, store, v.filter(r), atoiDefault(r.URL.Query().Get("page"), 1))
	v.s.render(w, r, store, "dashboard", page{Title: "Dashboard", Data: data})
}

// update sets the action of one message and re-lists from the first page.
func (v dashboardView) update(w http.ResponseWriter, r *http.Request, store *session.Store) {
	p := page{Title: "Dashboard"}
	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	action := strings.TrimSpace(r.FormValue("action"))
	switch {
	case err != nil || !validAction(action):
		p.Flash = failure("Failed to update action.", dashboardMessageDelay)
	default:
		if err := v.s.api.UpdateMessageAction(r.Context(), store.Token(), id, action); err != nil {
			v.s.log.Warn("update message action failed", "id", id, "error", err)
			p.Flash = failure("Failed to update action.", dashboardMessageDelay)
		} else {
			p.Flash = success("Action updated successfully!", dashboardMessageDelay)
		}
	}
	p.Data = v.load(r, store, v.filter(r), 1)
	v.s.render(w, r, store, "dashboard", p)
}
