package web

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"heritageportal/webfront/internal/audit"
	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/forms"
	"heritageportal/webfront/internal/guard"
	"heritageportal/webfront/internal/routes"
	"heritageportal/webfront/internal/session"
)

func (s *site) registerSessionHandlers(r *mux.Router) {
	r.HandleFunc(routes.SignIn, s.view(s.signInPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.SignIn, s.view(s.signIn)).Methods(http.MethodPost)
	r.HandleFunc(routes.Logout, s.view(s.signOut)).Methods(http.MethodPost)
	r.HandleFunc(routes.Forbidden, s.view(s.forbiddenPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.Forbidden, s.view(s.leaveForbidden)).Methods(http.MethodPost)
	r.HandleFunc(routes.ForgetPass, s.view(s.forgetPasswordPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.ForgetPass, s.view(s.forgetPassword)).Methods(http.MethodPost)
	r.HandleFunc(routes.ChangePassword, s.protect(guard.RequirePrivileged, s.changePasswordPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.ChangePassword, s.manage(guard.RequirePrivileged, s.changePassword)).Methods(http.MethodPost)
}

func (s *site) signInPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "signin", page{Title: "Sign in"})
}

func (s *site) signIn(w http.ResponseWriter, r *http.Request, store *session.Store) {
	username := forms.Username(r.FormValue("username"))
	password := r.FormValue("password")
	p := page{Title: "Sign in", Form: map[string]string{"username": username}}

	if username == "" || password == "" {
		p.Flash = failure("Username and password are required", loginErrorDelay)
		s.renderStatus(w, r, store, http.StatusBadRequest, "signin", p)
		return
	}

	res, err := s.api.Login(r.Context(), username, password)
	if err != nil {
		auditReq(s.audit, r, store, audit.ActionLogin, username, audit.OutcomeFailed, err.Error())
		p.Flash = failure(backend.MessageOf(err, "Login failed!"), loginErrorDelay)
		s.renderStatus(w, r, store, http.StatusUnauthorized, "signin", p)
		return
	}

	role, ok := s.establish(w, r, store, res)
	if !ok {
		return
	}
	auditReq(s.audit, r, store, audit.ActionLogin, "", audit.OutcomeSuccess, "")
	http.Redirect(w, r, guard.Landing(role, false).Path, http.StatusSeeOther)
}

// establish writes a successful credential exchange into the session.
// It renders the 500 page itself and reports false on failure.
func (s *site) establish(w http.ResponseWriter, r *http.Request, store *session.Store, res backend.LoginResult) (session.Role, bool) {
	role, known := session.ParseRole(res.Role)
	if !known {
		s.log.Warn("login returned unknown role", "role", res.Role, "client", store.ClientID())
	}
	u := session.User{Username: res.Username, Role: role, Token: res.AccessToken}
	if id, ok := res.UserID(); ok {
		u.AuthUserID = &id
	} else {
		s.log.Warn("login returned no user id", "client", store.ClientID())
	}
	if err := store.SetUser(r.Context(), u); err != nil {
		s.fail(w, r, "store session", err)
		return role, false
	}
	return role, true
}

func (s *site) signOut(w http.ResponseWriter, r *http.Request, store *session.Store) {
	expireCookie(w, "access_token")
	expireCookie(w, "refresh_token")
	s.logout(w, r, store, audit.ActionLogout)
	http.Redirect(w, r, routes.Home, http.StatusSeeOther)
}

func (s *site) forbiddenPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	if d := guard.ForbiddenView(store.State()); !d.Allowed {
		http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
		return
	}
	s.renderStatus(w, r, store, http.StatusForbidden, "forbidden", page{Title: "Forbidden"})
}

// leaveForbidden is the "go back home" action: it drops the API's
// credential cookies and ends the session before redirecting.
func (s *site) leaveForbidden(w http.ResponseWriter, r *http.Request, store *session.Store) {
	expireCookie(w, "access_token")
	expireCookie(w, "refresh_token")
	s.logout(w, r, store, audit.ActionForbiddenExit)
	http.Redirect(w, r, routes.Home, http.StatusSeeOther)
}

type forgetPasswordData struct {
	OTPSent bool
}

func (s *site) forgetPasswordPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "forgetpassword", page{Title: "Forget Password", Data: forgetPasswordData{}})
}

func (s *site) forgetPassword(w http.ResponseWriter, r *http.Request, store *session.Store) {
	ctx := r.Context()
	username := forms.Username(r.FormValue("username"))
	p := page{Title: "Forget Password", Form: map[string]string{"username": username, "otp": r.FormValue("otp")}}
	data := forgetPasswordData{OTPSent: r.FormValue("step") == "reset"}

	if username == "" {
		p.Flash = failure("Username is required", resetMessageDelay)
		p.Data = data
		s.renderStatus(w, r, store, http.StatusBadRequest, "forgetpassword", p)
		return
	}

	if !data.OTPSent {
		if err := s.api.RequestOTP(ctx, username); err != nil {
			p.Flash = failure(backend.MessageOf(err, "Failed to send OTP"), resetMessageDelay)
		} else {
			p.Flash = success("OTP sent to registered email", resetMessageDelay)
			data.OTPSent = true
		}
		p.Data = data
		s.render(w, r, store, "forgetpassword", p)
		return
	}

	p.Data = data
	password := r.FormValue("password")
	if err := forms.ConfirmPassword(password, r.FormValue("rePassword")); err != nil {
		msg := forms.PasswordPolicyMessage
		if errors.Is(err, forms.ErrPasswordMismatch) {
			msg = forms.PasswordMismatchMessage
		}
		p.Flash = failure(msg, resetMessageDelay)
		s.renderStatus(w, r, store, http.StatusBadRequest, "forgetpassword", p)
		return
	}

	if err := s.api.ResetPassword(ctx, username, r.FormValue("otp"), password); err != nil {
		auditReq(s.audit, r, store, audit.ActionPasswordReset, username, audit.OutcomeFailed, err.Error())
		p.Flash = failure(backend.MessageOf(err, "Failed to reset password"), resetMessageDelay)
		s.render(w, r, store, "forgetpassword", p)
		return
	}
	auditReq(s.audit, r, store, audit.ActionPasswordReset, username, audit.OutcomeSuccess, "")

	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Warn("auto login after reset failed", "username", username, "error", err)
		p.Flash = failure(backend.MessageOf(err, "Auto login failed"), resetMessageDelay)
		s.render(w, r, store, "forgetpassword", p)
		return
	}
	role, ok := s.establish(w, r, store, res)
	if !ok {
		return
	}
	auditReq(s.audit, r, store, audit.ActionLogin, "", audit.OutcomeSuccess, "after password reset")

	dest := guard.Landing(role, true)
	p.Flash = success("Password changed successfully", resetMessageDelay)
	if !dest.Immediate() {
		p.Notice = notice(dest.Notice, 0)
	}
	p.Next = after(dest.Path, resetAutoLoginDelay+dest.Delay)
	s.render(w, r, store, "forgetpassword", p)
}

func (s *site) changePasswordPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "changepassword", page{Title: "Change Password"})
}

// changePassword re-authenticates with the current password, which also
// refreshes the stored token, and then sets the new one.
func (s *site) changePassword(w http.ResponseWriter, r *http.Request, store *session.Store) {
	ctx := r.Context()
	st := store.State()
	back := guard.Back(st.Role)
	p := page{Title: "Change Password"}

	newPassword := r.FormValue("new_password")
	if err := forms.ValidatePassword(newPassword); err != nil {
		p.Flash = failure(forms.PasswordPolicyMessage, changePasswordDelay)
		s.renderStatus(w, r, store, http.StatusBadRequest, "changepassword", p)
		return
	}
	if newPassword != r.FormValue("confirm_new_password") {
		p.Flash = failure("New passwords do not match.", changePasswordDelay)
		s.renderStatus(w, r, store, http.StatusBadRequest, "changepassword", p)
		return
	}

	username := forms.Username(st.Username)
	failed := func(err error) {
		auditReq(s.audit, r, store, audit.ActionPasswordChange, username, audit.OutcomeFailed, err.Error())
		p.Flash = failure("Current password is incorrect or an error occurred. Please try again.", changePasswordDelay)
		s.render(w, r, store, "changepassword", p)
	}

	res, err := s.api.Login(ctx, username, r.FormValue("current_password"))
	if err != nil {
		failed(err)
		return
	}
	if err := store.SetToken(ctx, res.AccessToken); err != nil {
		s.fail(w, r, "store token", err)
		return
	}
	if err := s.api.ChangePassword(ctx, store.Token(), username, newPassword); err != nil {
		failed(err)
		return
	}
	auditReq(s.audit, r, store, audit.ActionPasswordChange, username, audit.OutcomeSuccess, "")

	p.Flash = success("Password updated successfully!", changePasswordDelay)
	p.Next = after(back.Path, changePasswordNextDelay)
	s.render(w, r, store, "changepassword", p)
}
