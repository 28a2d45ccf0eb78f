package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode"

	"heritageportal/webfront/internal/forms"
	"heritageportal/webfront/internal/guard"
	"heritageportal/webfront/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Banner lifetimes and delayed navigations, per screen.
const (
	loginErrorDelay         = 3000 * time.Millisecond
	registerMismatchDelay   = 3000 * time.Millisecond
	registerWeakDelay       = 2000 * time.Millisecond
	registerSuccessDelay    = 3000 * time.Millisecond
	registerFailureDelay    = 4000 * time.Millisecond
	changePasswordDelay     = 1000 * time.Millisecond
	changePasswordNextDelay = 1500 * time.Millisecond
	resetMessageDelay       = 3000 * time.Millisecond
	resetAutoLoginDelay     = 3000 * time.Millisecond
	updateUserDelay         = 1000 * time.Millisecond
	updateProfileDelay      = 1000 * time.Millisecond
	linkMessageDelay        = 3000 * time.Millisecond
	linkValidationDelay     = 2000 * time.Millisecond
	linkDeleteDelay         = 1000 * time.Millisecond
	galleryMessageDelay     = 3000 * time.Millisecond
	touristMessageDelay     = 3000 * time.Millisecond
	touristDeleteDelay      = 1000 * time.Millisecond
	contactSuccessDelay     = 1000 * time.Millisecond
	dashboardMessageDelay   = 3000 * time.Millisecond
	overviewMessageDelay    = 1000 * time.Millisecond
	modifyImageDelay        = 2000 * time.Millisecond
)

type flash struct {
	Kind       string
	Text       string
	ClearAfter time.Duration
}

func (f *flash) ClearAfterMS() int64 { return f.ClearAfter.Milliseconds() }

func success(text string, d time.Duration) *flash {
	return &flash{Kind: "success", Text: text, ClearAfter: d}
}

func failure(text string, d time.Duration) *flash {
	return &flash{Kind: "error", Text: text, ClearAfter: d}
}

func notice(text string, d time.Duration) *flash {
	return &flash{Kind: "info", Text: text, ClearAfter: d}
}

// navigation moves the browser to URL once After has elapsed.
type navigation struct {
	URL   string
	After time.Duration
}

func (n *navigation) AfterMS() int64 { return n.After.Milliseconds() }

// AfterSeconds rounds up for the meta refresh fallback.
func (n *navigation) AfterSeconds() int64 {
	return int64((n.After + time.Second - 1) / time.Second)
}

func after(url string, d time.Duration) *navigation {
	return &navigation{URL: url, After: d}
}

type page struct {
	Title      string
	Chrome     bool
	Session    session.State
	CanManage  bool
	SuperAdmin bool
	Back       string
	Flash      *flash
	Notice     *flash
	Next       *navigation
	Submission string
	Form       map[string]string
	Data       any
}

type pageSet map[string]*template.Template

var templateFuncs = template.FuncMap{
	"jpeg":       jpegSrc,
	"capitalize": capitalizeWords,
	"seq":        seq,
	"odd":        func(i int) bool { return i%2 == 1 },
	"submission": newSubmissionID,
}

func parsePages() (pageSet, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	out := make(pageSet, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == "layout" {
			continue
		}
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func (s *site) render(w http.ResponseWriter, r *http.Request, store *session.Store, name string, p page) {
	s.renderStatus(w, r, store, http.StatusOK, name, p)
}

func (s *site) renderStatus(w http.ResponseWriter, r *http.Request, store *session.Store, status int, name string, p page) {
	t, ok := s.pages[name]
	if !ok {
		s.fail(w, r, "render", fmt.Errorf("unknown page %q", name))
		return
	}
	st := store.State()
	p.Session = st
	p.CanManage = st.CanManage()
	p.SuperAdmin = st.Identified() && st.Role == session.RoleSuperAdmin
	p.Chrome = !chromeHidden(r)
	p.Back = guard.Back(st.Role).Path

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		s.fail(w, r, "render "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// formValues keeps submitted text fields so a re-rendered form is not
// emptied by a validation error. Passwords are never echoed.
func formValues(r *http.Request, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = r.FormValue(f)
	}
	return out
}

func jpegSrc(b64 string) template.URL {
	if b64 == "" {
		return ""
	}
	return template.URL("data:image/jpeg;base64," + forms.StripDataURL(b64))
}

func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}

// seq yields 1..n for page links.
func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
