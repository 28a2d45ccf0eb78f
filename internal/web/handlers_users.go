package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"heritageportal/webfront/internal/audit"
	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/forms"
	"heritageportal/webfront/internal/guard"
	"heritageportal/webfront/internal/routes"
	"heritageportal/webfront/internal/session"
)

const registerWeakMessage = "Password must be at least 6 characters, contain one capital letter, one number, and one special character."

// assignableRoles are the choices offered when creating a user or
// changing a role.
var assignableRoles = []string{
	session.RoleSuperAdmin.String(),
	session.RoleAdmin.String(),
	session.RoleNone.String(),
}

func (s *site) registerUserHandlers(r *mux.Router) {
	r.HandleFunc(routes.CreateUser, s.protect(guard.RequireSuperAdmin, s.createUserPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.CreateUser, s.manage(guard.RequireSuperAdmin, s.createUser)).Methods(http.MethodPost)
	r.HandleFunc(routes.UpdateUser, s.protect(guard.RequireSuperAdmin, s.updateUserPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.UpdateUser, s.manage(guard.RequireSuperAdmin, s.updateRole)).Methods(http.MethodPost)
	r.HandleFunc(routes.UpdateProfile, s.protect(guard.RequirePrivileged, s.updateProfilePage)).Methods(http.MethodGet)
	r.HandleFunc(routes.UpdateProfile, s.manage(guard.RequirePrivileged, s.updateProfile)).Methods(http.MethodPost)
}

var newUserFields = []string{"username", "first_name", "last_name", "email", "role"}

func (s *site) createUserPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "createuser", page{
		Title:      "Create User",
		Submission: newSubmissionID(),
		Form:       map[string]string{"role": session.RoleNone.String()},
		Data:       assignableRoles,
	})
}

func (s *site) createUser(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id := r.FormValue("submission_id")
	if !s.submissions.claim(id) {
		http.Redirect(w, r, routes.CreateUser, http.StatusSeeOther)
		return
	}
	p := page{Title: "Create User", Submission: id, Form: formValues(r, newUserFields...), Data: assignableRoles}
	for k, v := range p.Form {
		p.Form[k] = strings.TrimSpace(v)
	}
	reject := func(status int, f *flash) {
		s.submissions.release(id)
		p.Flash = f
		s.renderStatus(w, r, store, status, "createuser", p)
	}

	password := r.FormValue("password")
	if password != r.FormValue("repassword") {
		reject(http.StatusBadRequest, failure("Passwords do not match!", registerMismatchDelay))
		return
	}
	if err := forms.ValidatePassword(password); err != nil {
		reject(http.StatusBadRequest, failure(registerWeakMessage, registerWeakDelay))
		return
	}
	if _, ok := session.ParseRole(p.Form["role"]); !ok || p.Form["role"] == "" {
		p.Form["role"] = session.RoleNone.String()
	}

	err := s.api.CreateUser(r.Context(), store.Token(), backend.NewUser{
		Username:  p.Form["username"],
		FirstName: p.Form["first_name"],
		LastName:  p.Form["last_name"],
		Email:     p.Form["email"],
		Password:  password,
		Role:      p.Form["role"],
	})
	if err != nil {
		auditReq(s.audit, r, store, audit.ActionUserCreate, p.Form["username"], audit.OutcomeFailed, err.Error())
		reject(http.StatusOK, failure(registrationError(err), registerFailureDelay))
		return
	}
	auditReq(s.audit, r, store, audit.ActionUserCreate, p.Form["username"], audit.OutcomeSuccess, "role="+p.Form["role"])

	p.Form = map[string]string{"role": session.RoleNone.String()}
	p.Submission = ""
	p.Flash = success("User registered successfully!", registerSuccessDelay)
	p.Next = after(routes.SuperDashboard, registerSuccessDelay)
	s.render(w, r, store, "createuser", p)
}

// registrationError maps a create failure to the message shown, checking
// field errors before a bare string body.
func registrationError(err error) string {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return "User registration failed!"
	}
	switch {
	case apiErr.Field("email"):
		return "Email already exists."
	case apiErr.Field("username"):
		return "Username already exists."
	case apiErr.Text() != "":
		return apiErr.Text()
	default:
		return "User registration failed!"
	}
}

type updateUserData struct {
	Users []backend.UserProfile
	Roles []string
}

func (s *site) listUsers(r *http.Request, store *session.Store) updateUserData {
	users, err := s.api.ListUsers(r.Context(), store.Token())
	if err != nil {
		s.log.Warn("list users failed", "error", err)
		users = []backend.UserProfile{}
	}
	return updateUserData{Users: users, Roles: assignableRoles}
}

func (s *site) updateUserPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "updateuser", page{Title: "Update User", Data: s.listUsers(r, store)})
}

func (s *site) updateRole(w http.ResponseWriter, r *http.Request, store *session.Store) {
	username := strings.TrimSpace(r.FormValue("username"))
	role := strings.TrimSpace(r.FormValue("role"))
	p := page{Title: "Update User"}

	if _, ok := session.ParseRole(role); !ok || role == "" || username == "" {
		p.Flash = failure("Please select a role.", updateUserDelay)
		p.Data = s.listUsers(r, store)
		s.renderStatus(w, r, store, http.StatusBadRequest, "updateuser", p)
		return
	}

	if err := s.api.UpdateRole(r.Context(), store.Token(), username, role); err != nil {
		auditReq(s.audit, r, store, audit.ActionRoleUpdate, username, audit.OutcomeFailed, err.Error())
		p.Flash = failure("Failed to update role.", updateUserDelay)
	} else {
		auditReq(s.audit, r, store, audit.ActionRoleUpdate, username, audit.OutcomeSuccess, "role="+role)
		p.Flash = success("Role updated successfully!", updateUserDelay)
	}
	p.Data = s.listUsers(r, store)
	s.render(w, r, store, "updateuser", p)
}

var profileFields = []string{"username", "first_name", "last_name", "email", "role"}

func (s *site) updateProfilePage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	p := page{Title: "Update Profile"}
	u, err := s.api.GetUser(r.Context(), store.Token(), store.State().Username)
	if err != nil {
		s.log.Warn("get user failed", "username", store.State().Username, "error", err)
		p.Flash = failure("Failed to fetch user data", updateProfileDelay)
	} else {
		p.Form = map[string]string{
			"username":   u.Username,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"email":      u.Email,
			"role":       u.Role,
		}
	}
	s.render(w, r, store, "updateprofile", p)
}

// updateProfile always edits the signed-in user; a username posted in the
// form is ignored.
func (s *site) updateProfile(w http.ResponseWriter, r *http.Request, store *session.Store) {
	back := guard.Back(store.State().Role)
	p := page{Title: "Update Profile", Form: formValues(r, profileFields...)}
	p.Form["username"] = store.State().Username

	err := s.api.UpdateUser(r.Context(), store.Token(), backend.UserProfile{
		Username:  store.State().Username,
		FirstName: strings.TrimSpace(p.Form["first_name"]),
		LastName:  strings.TrimSpace(p.Form["last_name"]),
		Email:     strings.TrimSpace(p.Form["email"]),
	})
	if err != nil {
		p.Flash = failure(profileError(err), updateProfileDelay)
		s.render(w, r, store, "updateprofile", p)
		return
	}
	p.Flash = success("User details updated successfully!", updateProfileDelay)
	p.Next = after(back.Path, updateProfileDelay)
	s.render(w, r, store, "updateprofile", p)
}

func profileError(err error) string {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return "Update failed."
	}
	if apiErr.Field("email") {
		return "Email already exists."
	}
	if msg := apiErr.Value("error"); msg != "" {
		return msg
	}
	return "Update failed."
}
