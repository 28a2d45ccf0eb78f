package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/routes"
)

func TestContactSubmitsOnce(t *testing.T) {
	var calls atomic.Int32
	ts := newTestSite(t, &fakePortal{
		submitContactFunc: func(_ context.Context, m backend.ContactRequest) error {
			calls.Add(1)
			if m.PhoneNumber != "9876543210" {
				t.Errorf("unexpected phone number %q", m.PhoneNumber)
			}
			return nil
		},
	})
	b := newBrowser(t, ts.handler)
	sub := submissionID(t, b.get(routes.ContactUs).Body.String())
	form := url.Values{
		"submission_id": {sub},
		"name":          {"Asha"},
		"email":         {"asha@example.com"},
		"phone_number":  {"9876543210"},
		"message":       {"Opening hours?"},
	}

	rec := b.post(routes.ContactUs, form)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Message submitted successfully!") {
		t.Fatalf("expected success banner")
	}

	expectRedirect(t, b.post(routes.ContactUs, form), routes.ContactUs)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one api call, got %d", got)
	}
}

func TestContactReleasesSubmissionOnFailure(t *testing.T) {
	var calls atomic.Int32
	ts := newTestSite(t, &fakePortal{
		submitContactFunc: func(context.Context, backend.ContactRequest) error {
			if calls.Add(1) == 1 {
				return errors.New("boom")
			}
			return nil
		},
	})
	b := newBrowser(t, ts.handler)
	sub := submissionID(t, b.get(routes.ContactUs).Body.String())
	form := url.Values{
		"submission_id": {sub},
		"name":          {"Asha"},
		"email":         {"asha@example.com"},
		"phone_number":  {"9876543210"},
		"message":       {"hello"},
	}

	rec := b.post(routes.ContactUs, form)
	body := rec.Body.String()
	if !strings.Contains(body, "Failed to submit message.") {
		t.Fatalf("expected failure banner")
	}
	if !strings.Contains(body, `value="Asha"`) {
		t.Fatalf("expected form values kept after failure")
	}
	if submissionID(t, body) != sub {
		t.Fatalf("expected the same submission id to be offered again")
	}

	rec = b.post(routes.ContactUs, form)
	if !strings.Contains(rec.Body.String(), "Message submitted successfully!") {
		t.Fatalf("expected retry to succeed")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected two api calls, got %d", got)
	}
}

func TestContactRequiresFields(t *testing.T) {
	ts := newTestSite(t, &fakePortal{})
	b := newBrowser(t, ts.handler)
	sub := submissionID(t, b.get(routes.ContactUs).Body.String())
	rec := b.post(routes.ContactUs, url.Values{"submission_id": {sub}, "name": {"Asha"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func superAdminBrowser(t *testing.T, api *fakePortal) (*browser, testSite) {
	t.Helper()
	api.loginFunc = func(_ context.Context, username, _ string) (backend.LoginResult, error) {
		return backend.LoginResult{Username: username, ID: int64p(1), Role: "super admin", AccessToken: "tok-super"}, nil
	}
	ts := newTestSite(t, api)
	b := newBrowser(t, ts.handler)
	expectRedirect(t, b.signIn("root", "pw"), routes.SuperDashboard)
	return b, ts
}

func TestCreateUserValidatesBeforeCalling(t *testing.T) {
	var calls atomic.Int32
	b, _ := superAdminBrowser(t, &fakePortal{
		createUserFunc: func(context.Context, string, backend.NewUser) error {
			calls.Add(1)
			return nil
		},
	})

	cases := []struct {
		name      string
		password  string
		again     string
		wantText  string
		wantDelay string
	}{
		{name: "mismatch", password: "Secret1!", again: "Secret2!", wantText: "Passwords do not match!", wantDelay: "3000"},
		{name: "weak", password: "secret", again: "secret", wantText: "Password must be at least 6 characters", wantDelay: "2000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := submissionID(t, b.get(routes.CreateUser).Body.String())
			rec := b.post(routes.CreateUser, url.Values{
				"submission_id": {sub},
				"username":      {"newbie"},
				"email":         {"n@example.com"},
				"password":      {tc.password},
				"repassword":    {tc.again},
				"role":          {"admin"},
			})
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tc.wantText) {
				t.Fatalf("expected %q in page", tc.wantText)
			}
			if !strings.Contains(body, `data-clear-after="`+tc.wantDelay+`"`) {
				t.Fatalf("expected banner lifetime %s ms", tc.wantDelay)
			}
		})
	}
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected no api calls, got %d", got)
	}
}

func TestCreateUserSendsToken(t *testing.T) {
	var got backend.NewUser
	var token string
	b, _ := superAdminBrowser(t, &fakePortal{
		createUserFunc: func(_ context.Context, tok string, u backend.NewUser) error {
			token = tok
			got = u
			return nil
		},
	})
	sub := submissionID(t, b.get(routes.CreateUser).Body.String())
	rec := b.post(routes.CreateUser, url.Values{
		"submission_id": {sub},
		"username":      {" newbie "},
		"first_name":    {"New"},
		"email":         {"n@example.com"},
		"password":      {"Secret1!"},
		"repassword":    {"Secret1!"},
		"role":          {"bogus"},
	})
	if !strings.Contains(rec.Body.String(), "User registered successfully!") {
		t.Fatalf("expected success banner")
	}
	if token != "tok-super" {
		t.Fatalf("expected stored token, got %q", token)
	}
	if got.Username != "newbie" || got.Role != "none" {
		t.Fatalf("unexpected user payload: %+v", got)
	}
}

func TestRegistrationError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "email", err: backend.NewAPIError(400, []byte(`{"email":["exists"],"username":["exists"]}`)), want: "Email already exists."},
		{name: "username", err: backend.NewAPIError(400, []byte(`{"username":["exists"]}`)), want: "Username already exists."},
		{name: "text", err: backend.NewAPIError(400, []byte(`"Role not allowed"`)), want: "Role not allowed"},
		{name: "empty", err: backend.NewAPIError(500, nil), want: "User registration failed!"},
		{name: "transport", err: errors.New("dial tcp: refused"), want: "User registration failed!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := registrationError(tc.err); got != tc.want {
				t.Fatalf("registrationError() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProfileError(t *testing.T) {
	if got := profileError(backend.NewAPIError(400, []byte(`{"email":["taken"]}`))); got != "Email already exists." {
		t.Fatalf("unexpected message %q", got)
	}
	if got := profileError(backend.NewAPIError(400, []byte(`{"error":"Not allowed"}`))); got != "Not allowed" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := profileError(errors.New("x")); got != "Update failed." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUpdateProfileUsesSessionUsername(t *testing.T) {
	var got backend.UserProfile
	api := portalWithLogin("admin", "tok")
	api.updateUserFunc = func(_ context.Context, _ string, p backend.UserProfile) error {
		got = p
		return nil
	}
	ts := newTestSite(t, api)
	b := newBrowser(t, ts.handler)
	b.signIn("alice", "pw")

	rec := b.post(routes.UpdateProfile, url.Values{"username": {"MALLORY"}, "first_name": {"Alice"}, "email": {"a@example.com"}})
	if got.Username != "ALICE" {
		t.Fatalf("expected session username, got %q", got.Username)
	}
	if !strings.Contains(rec.Body.String(), "User details updated successfully!") {
		t.Fatalf("expected success banner")
	}
}

func TestDashboardPagination(t *testing.T) {
	msgs := make([]backend.ContactMessage, 12)
	for i := range msgs {
		msgs[i] = backend.ContactMessage{ID: int64(i + 1), Name: fmt.Sprintf("visitor-%02d", i+1), Action: "pending"}
	}
	var filter string
	api := portalWithLogin("admin", "tok")
	api.listMessagesFunc = func(_ context.Context, _ string, action string) ([]backend.ContactMessage, error) {
		filter = action
		return msgs, nil
	}
	ts := newTestSite(t, api)
	b := newBrowser(t, ts.handler)
	b.signIn("alice", "pw")

	body := b.get(routes.AdminDashboard + "?page=3&action=pending").Body.String()
	if filter != "pending" {
		t.Fatalf("expected pending filter, got %q", filter)
	}
	if !strings.Contains(body, "Page 3 of 3") {
		t.Fatalf("expected last page marker")
	}
	if !strings.Contains(body, "visitor-11") || strings.Contains(body, "visitor-10") {
		t.Fatalf("expected only the last two messages")
	}

	body = b.get(routes.AdminDashboard + "?action=unknown").Body.String()
	if filter != "" {
		t.Fatalf("expected unknown filter to list all, got %q", filter)
	}
	if !strings.Contains(body, "Page 1 of 3") {
		t.Fatalf("expected first page")
	}
}

func TestDashboardEmptyAndErrorStates(t *testing.T) {
	api := portalWithLogin("admin", "tok")
	fail := false
	api.listMessagesFunc = func(context.Context, string, string) ([]backend.ContactMessage, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return nil, nil
	}
	ts := newTestSite(t, api)
	b := newBrowser(t, ts.handler)
	b.signIn("alice", "pw")

	if body := b.get(routes.AdminDashboard + "?action=replied").Body.String(); !strings.Contains(body, "There is no message to show of status = replied") {
		t.Fatalf("expected empty-state text")
	}
	fail = true
	if body := b.get(routes.AdminDashboard).Body.String(); !strings.Contains(body, "Error fetching messages. Please try again.") {
		t.Fatalf("expected fetch error text")
	}
}

func TestDashboardUpdateAction(t *testing.T) {
	var gotID int64
	var gotAction string
	api := portalWithLogin("admin", "tok")
	api.updateMessageActionFunc = func(_ context.Context, _ string, id int64, action string) error {
		gotID, gotAction = id, action
		return nil
	}
	ts := newTestSite(t, api)
	b := newBrowser(t, ts.handler)
	b.signIn("alice", "pw")

	rec := b.post(routes.AdminDashboard, url.Values{"id": {"9"}, "action": {"replied"}})
	if gotID != 9 || gotAction != "replied" {
		t.Fatalf("unexpected update: %d %q", gotID, gotAction)
	}
	if !strings.Contains(rec.Body.String(), "Action updated successfully!") {
		t.Fatalf("expected success banner")
	}

	gotID = 0
	b.post(routes.AdminDashboard, url.Values{"id": {"9"}, "action": {"deleted"}})
	if gotID != 0 {
		t.Fatalf("invalid action must not reach the api")
	}
}

func TestGalleryIsolatesImageFailures(t *testing.T) {
	ts := newTestSite(t, &fakePortal{
		listPlacesFunc: func(context.Context) ([]backend.Place, error) {
			return []backend.Place{{ID: 1, Heading: "BODH GAYA", District: "GAYA"}, {ID: 2, Heading: "NALANDA", District: "NALANDA"}}, nil
		},
		listPlaceImagesFunc: func(_ context.Context, id int64) ([]backend.PlaceImage, error) {
			if id == 1 {
				return nil, errors.New("timeout")
			}
			return []backend.PlaceImage{{ID: 5, Image: "aGVsbG8="}}, nil
		},
	})
	rec := newBrowser(t, ts.handler).get(routes.Gallery)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Bodh Gaya, Gaya") || !strings.Contains(body, "Nalanda, Nalanda") {
		t.Fatalf("expected both places listed")
	}
	if !strings.Contains(body, "data:image/jpeg;base64,aGVsbG8=") {
		t.Fatalf("expected the second place image")
	}
	if !strings.Contains(body, "No images yet.") {
		t.Fatalf("expected the failed place to show no images")
	}
}

func TestHomeCarouselWraps(t *testing.T) {
	ts := newTestSite(t, &fakePortal{
		listOverviewImagesFunc: func(context.Context) ([]backend.OverviewImage, error) {
			return []backend.OverviewImage{{ID: 1, ImageBase64: "AAAA"}, {ID: 2, ImageBase64: "BBBB"}, {ID: 3, ImageBase64: "CCCC"}}, nil
		},
		listOverviewsFunc: func(context.Context) ([]backend.Overview, error) {
			return nil, errors.New("down")
		},
	})
	b := newBrowser(t, ts.handler)
	body := b.get(routes.Home + "?slide=-1").Body.String()
	if !strings.Contains(body, "Overview image 2") {
		t.Fatalf("expected slide index 2 for -1")
	}
	if !strings.Contains(body, "base64,CCCC") {
		t.Fatalf("expected the last image to be shown")
	}
}

func TestForgetPasswordAutoLogin(t *testing.T) {
	var resetOTP string
	ts := newTestSite(t, &fakePortal{
		resetPasswordFunc: func(_ context.Context, _, otp, _ string) error {
			resetOTP = otp
			return nil
		},
		loginFunc: func(_ context.Context, username, _ string) (backend.LoginResult, error) {
			return backend.LoginResult{Username: username, ID: int64p(4), Role: "none", AccessToken: "fresh"}, nil
		},
	})
	b := newBrowser(t, ts.handler)
	rec := b.post(routes.ForgetPass, url.Values{
		"step":       {"reset"},
		"username":   {"asha"},
		"otp":        {"123456"},
		"password":   {"Secret1!"},
		"rePassword": {"Secret1!"},
	})
	body := rec.Body.String()
	if resetOTP != "123456" {
		t.Fatalf("expected otp to reach the api, got %q", resetOTP)
	}
	if !strings.Contains(body, "Password changed successfully") || !strings.Contains(body, "Redirecting to Home Page") {
		t.Fatalf("expected success and redirect notice")
	}
	if !strings.Contains(body, "4500") {
		t.Fatalf("expected a 4500 ms delayed navigation")
	}
	if _, ok := b.cookies[markerCookieName]; !ok {
		t.Fatalf("expected the marker to be set after auto login")
	}
	// the auto-login role cannot manage, so the forbidden page is shown
	expectRedirect(t, b.get(routes.AddLinks), routes.Forbidden)
}

func TestForgetPasswordMismatch(t *testing.T) {
	ts := newTestSite(t, &fakePortal{})
	rec := newBrowser(t, ts.handler).post(routes.ForgetPass, url.Values{
		"step":       {"reset"},
		"username":   {"asha"},
		"password":   {"Secret1!"},
		"rePassword": {"Other1!"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChangePasswordReauthenticates(t *testing.T) {
	var logins atomic.Int32
	var changeToken, changeUser string
	ts := newTestSite(t, &fakePortal{
		loginFunc: func(_ context.Context, username, _ string) (backend.LoginResult, error) {
			n := logins.Add(1)
			return backend.LoginResult{Username: username, ID: int64p(2), Role: "admin", AccessToken: fmt.Sprintf("tok-%d", n)}, nil
		},
		changePasswordFunc: func(_ context.Context, token, username, _ string) error {
			changeToken, changeUser = token, username
			return nil
		},
	})
	b := newBrowser(t, ts.handler)
	b.signIn("alice", "pw")

	rec := b.post(routes.ChangePassword, url.Values{
		"current_password":     {"pw"},
		"new_password":         {"Newpass1!"},
		"confirm_new_password": {"Newpass1!"},
	})
	if changeToken != "tok-2" || changeUser != "ALICE" {
		t.Fatalf("expected refreshed token and username, got %q %q", changeToken, changeUser)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Password updated successfully!") || !strings.Contains(body, "1500") {
		t.Fatalf("expected success and delayed navigation")
	}

	values, err := ts.storage.Load(context.Background(), b.clientID())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	found := false
	for _, v := range values {
		if v == "tok-2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the refreshed token to be stored, got %v", values)
	}
}

func TestChangePasswordRejectsWeakPassword(t *testing.T) {
	var calls atomic.Int32
	api := portalWithLogin("admin", "tok")
	api.changePasswordFunc = func(context.Context, string, string, string) error {
		calls.Add(1)
		return nil
	}
	ts := newTestSite(t, api)
	b := newBrowser(t, ts.handler)
	b.signIn("alice", "pw")

	rec := b.post(routes.ChangePassword, url.Values{"new_password": {"short"}, "confirm_new_password": {"short"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no api call")
	}
}

func TestDeleteLinkNavigatesBack(t *testing.T) {
	var deleted int64
	api := portalWithLogin("admin", "tok")
	api.deleteLinkFunc = func(_ context.Context, _ string, id int64) error {
		deleted = id
		return nil
	}
	api.listLinksFunc = func(context.Context) ([]backend.Link, error) { return []backend.Link{}, nil }
	ts := newTestSite(t, api)
	b := newBrowser(t, ts.handler)
	b.signIn("alice", "pw")

	rec := b.post(routes.AddLinks, url.Values{"id": {"12"}})
	if deleted != 12 {
		t.Fatalf("expected link 12 deleted, got %d", deleted)
	}
	if !strings.Contains(rec.Body.String(), "Link deleted successfully.") {
		t.Fatalf("expected success banner")
	}
}

func TestGalleryAddPlaceRequiresFields(t *testing.T) {
	var calls atomic.Int32
	api := portalWithLogin("admin", "tok")
	api.createPlaceFunc = func(context.Context, string, string, string) error {
		calls.Add(1)
		return nil
	}
	api.listPlacesFunc = func(context.Context) ([]backend.Place, error) { return nil, nil }
	ts := newTestSite(t, api)
	b := newBrowser(t, ts.handler)
	b.signIn("alice", "pw")

	sub := submissionID(t, b.get(routes.AddImage).Body.String())
	rec := b.post(routes.AddImage, url.Values{"op": {"add-place"}, "submission_id": {sub}, "heading": {"sarnath"}})
	if !strings.Contains(rec.Body.String(), "Both fields are required") {
		t.Fatalf("expected validation banner")
	}
	rec = b.post(routes.AddImage, url.Values{"op": {"add-place"}, "submission_id": {sub}, "heading": {"sarnath"}, "district": {"varanasi"}})
	if !strings.Contains(rec.Body.String(), "Place added successfully!") {
		t.Fatalf("expected success after fixing the form")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one api call, got %d", calls.Load())
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	got, p := paginate(items, 2, 5)
	if len(got) != 2 || got[0] != 6 || p.Pages != 2 || !p.HasPrev() || p.HasNext() {
		t.Fatalf("unexpected page: %v %+v", got, p)
	}
	got, p = paginate(items, 9, 5)
	if p.Page != 2 || len(got) != 2 {
		t.Fatalf("expected clamp to last page, got %+v", p)
	}
	got, p = paginate([]int{}, 0, 5)
	if len(got) != 0 || p.Page != 1 || p.Pages != 1 {
		t.Fatalf("unexpected empty page: %+v", p)
	}
}

func TestNewCarousel(t *testing.T) {
	cases := []struct {
		raw   string
		count int
		want  int
	}{
		{"", 3, 0},
		{"4", 3, 1},
		{"-1", 3, 2},
		{"-7", 3, 2},
		{"x", 3, 0},
		{"5", 0, 0},
	}
	for _, tc := range cases {
		if got := newCarousel(tc.raw, tc.count).Index; got != tc.want {
			t.Fatalf("newCarousel(%q, %d) = %d, want %d", tc.raw, tc.count, got, tc.want)
		}
	}
	c := newCarousel("0", 3)
	if c.Prev() != 2 || c.Next() != 1 {
		t.Fatalf("unexpected neighbours: %d %d", c.Prev(), c.Next())
	}
}

func TestSubmissionsExpire(t *testing.T) {
	s := newSubmissions(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if !s.claim("a") {
		t.Fatalf("expected first claim to succeed")
	}
	if s.claim("a") {
		t.Fatalf("expected duplicate claim to fail")
	}
	if s.claim("  ") {
		t.Fatalf("expected blank id to be rejected")
	}
	now = now.Add(2 * time.Minute)
	if !s.claim("a") {
		t.Fatalf("expected claim after ttl to succeed")
	}
	s.release("a")
	if !s.claim("a") {
		t.Fatalf("expected claim after release to succeed")
	}
}

func TestNavigationSeconds(t *testing.T) {
	if got := after("/", 1500*time.Millisecond).AfterSeconds(); got != 2 {
		t.Fatalf("AfterSeconds() = %d, want 2", got)
	}
	if got := capitalizeWords("bodh  GAYA"); got != "Bodh Gaya" {
		t.Fatalf("capitalizeWords() = %q", got)
	}
}

func TestOverviewCreatedWhenMissing(t *testing.T) {
	var created, updated string
	api := portalWithLogin("admin", "tok")
	api.createOverviewFunc = func(_ context.Context, _, details string) error {
		created = details
		return nil
	}
	api.updateOverviewFunc = func(_ context.Context, _ string, _ int64, details string) error {
		updated = details
		return nil
	}
	ts := newTestSite(t, api)
	b := newBrowser(t, ts.handler)
	b.signIn("alice", "pw")

	rec := b.post(routes.AddTourist, url.Values{"op": {"update-overview"}, "details": {"A land of monasteries."}})
	if created != "A land of monasteries." || updated != "" {
		t.Fatalf("expected create, got created=%q updated=%q", created, updated)
	}
	if !strings.Contains(rec.Body.String(), "Overview updated successfully!") {
		t.Fatalf("expected success banner")
	}

	b.post(routes.AddTourist, url.Values{"op": {"update-overview"}, "id": {"3"}, "details": {"Revised."}})
	if updated != "Revised." {
		t.Fatalf("expected update, got %q", updated)
	}
}

func TestForgetPasswordAutoLoginAdminSkipsHomeNotice(t *testing.T) {
	ts := newTestSite(t, &fakePortal{
		resetPasswordFunc: func(context.Context, string, string, string) error { return nil },
		loginFunc: func(_ context.Context, username, _ string) (backend.LoginResult, error) {
			return backend.LoginResult{Username: username, ID: int64p(4), Role: "admin", AccessToken: "fresh"}, nil
		},
	})
	b := newBrowser(t, ts.handler)
	body := b.post(routes.ForgetPass, url.Values{
		"step":       {"reset"},
		"username":   {"asha"},
		"otp":        {"123456"},
		"password":   {"Secret1!"},
		"rePassword": {"Secret1!"},
	}).Body.String()
	if !strings.Contains(body, "Password changed successfully") {
		t.Fatalf("expected success banner")
	}
	if strings.Contains(body, "Redirecting to Home Page") {
		t.Fatalf("admin landing is immediate and must not announce the home page")
	}
}
