package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/forms"
	"heritageportal/webfront/internal/guard"
	"heritageportal/webfront/internal/routes"
	"heritageportal/webfront/internal/session"
)

func (s *site) registerLinkHandlers(r *mux.Router) {
	r.HandleFunc(routes.AddLinks, s.protect(guard.RequirePrivileged, s.adminLinks)).Methods(http.MethodGet)
	r.HandleFunc(routes.AddLinks, s.manage(guard.RequirePrivileged, s.deleteLink)).Methods(http.MethodPost)
	r.HandleFunc(routes.AddNewLinks, s.protect(guard.RequirePrivileged, s.newLinkPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.AddNewLinks, s.manage(guard.RequirePrivileged, s.createLink)).Methods(http.MethodPost)
	r.HandleFunc(routes.UpdateLink, s.protect(guard.RequirePrivileged, s.editLinkPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.UpdateLink, s.manage(guard.RequirePrivileged, s.updateLink)).Methods(http.MethodPost)
}

// pathID reads the {id} route variable.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func formID(r *http.Request, field string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(field)), 10, 64)
	return id, err == nil && id > 0
}

func (s *site) adminLinks(w http.ResponseWriter, r *http.Request, store *session.Store) {
	links, err := s.api.ListLinks(r.Context())
	p := page{Title: "Official Links", Data: links}
	if err != nil {
		s.log.Warn("list links failed", "error", err)
		p.Flash = failure("Failed to load links.", linkMessageDelay)
	}
	s.render(w, r, store, "adminlinks", p)
}

func (s *site) deleteLink(w http.ResponseWriter, r *http.Request, store *session.Store) {
	p := page{Title: "Official Links"}
	id, ok := formID(r, "id")
	var err error
	if !ok {
		err = errors.New("invalid link id")
	} else {
		err = s.api.DeleteLink(r.Context(), store.Token(), id)
	}
	if err != nil {
		s.log.Warn("delete link failed", "id", id, "error", err)
		p.Flash = failure(backend.MessageOf(err, "Failed to delete link."), linkValidationDelay)
	} else {
		p.Flash = success("Link deleted successfully.", linkDeleteDelay)
		p.Next = after(routes.AddLinks, linkDeleteDelay)
	}
	links, lerr := s.api.ListLinks(r.Context())
	if lerr != nil {
		s.log.Warn("list links failed", "error", lerr)
	}
	p.Data = links
	s.render(w, r, store, "adminlinks", p)
}

var linkFields = []string{"title", "details", "link"}

type linkFormData struct {
	Action  string
	Heading string
	Image   string
}

func (s *site) newLinkPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "linkform", page{
		Title:      "Add Link",
		Submission: newSubmissionID(),
		Data:       linkFormData{Action: routes.AddNewLinks, Heading: "Add New Link"},
	})
}

// linkInput reads the shared link form. A missing file leaves ImageUpload
// empty so an update keeps the current image.
func linkInput(r *http.Request) (backend.LinkInput, error) {
	img, err := forms.EncodeUpload(r, "image")
	if err != nil {
		return backend.LinkInput{}, err
	}
	return backend.LinkInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Details:     strings.TrimSpace(r.FormValue("details")),
		Links:       strings.TrimSpace(r.FormValue("link")),
		ImageUpload: img,
	}, nil
}

func (s *site) createLink(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id := r.FormValue("submission_id")
	if !s.submissions.claim(id) {
		http.Redirect(w, r, routes.AddLinks, http.StatusSeeOther)
		return
	}
	p := page{
		Title:      "Add Link",
		Submission: id,
		Form:       formValues(r, linkFields...),
		Data:       linkFormData{Action: routes.AddNewLinks, Heading: "Add New Link"},
	}

	in, err := linkInput(r)
	if err == nil {
		err = s.api.CreateLink(r.Context(), store.Token(), in)
	}
	if err != nil {
		s.submissions.release(id)
		s.log.Warn("create link failed", "error", err)
		p.Flash = failure(uploadMessage(err, "Failed to add link."), linkMessageDelay)
		s.render(w, r, store, "linkform", p)
		return
	}
	p.Submission = ""
	p.Flash = success("Link added successfully!", linkMessageDelay)
	p.Next = after(routes.AddLinks, linkMessageDelay)
	s.render(w, r, store, "linkform", p)
}

func (s *site) editLinkPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id, ok := pathID(r)
	if !ok {
		http.Redirect(w, r, routes.AddLinks, http.StatusSeeOther)
		return
	}
	data := linkFormData{Action: routes.UpdateLinkPath(id), Heading: "Update Link"}
	p := page{Title: "Update Link"}
	l, err := s.api.GetLink(r.Context(), store.Token(), id)
	if err != nil {
		s.log.Warn("get link failed", "id", id, "error", err)
		p.Flash = failure("Failed to fetch link data.", linkMessageDelay)
	} else {
		p.Form = map[string]string{"title": l.Title, "details": l.Details, "link": l.Links}
		data.Image = l.BgImage
	}
	p.Data = data
	s.render(w, r, store, "linkform", p)
}

func (s *site) updateLink(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id, ok := pathID(r)
	if !ok {
		http.Redirect(w, r, routes.AddLinks, http.StatusSeeOther)
		return
	}
	p := page{
		Title: "Update Link",
		Form:  formValues(r, linkFields...),
		Data:  linkFormData{Action: routes.UpdateLinkPath(id), Heading: "Update Link"},
	}
	in, err := linkInput(r)
	if err == nil {
		err = s.api.UpdateLink(r.Context(), store.Token(), id, in)
	}
	if err != nil {
		s.log.Warn("update link failed", "id", id, "error", err)
		p.Flash = failure(uploadMessage(err, "Failed to update link."), linkMessageDelay)
		s.render(w, r, store, "linkform", p)
		return
	}
	p.Flash = success("Link updated successfully!", linkMessageDelay)
	p.Next = after(routes.AddLinks, linkMessageDelay)
	s.render(w, r, store, "linkform", p)
}

// uploadMessage names an oversized upload, otherwise defers to the API
// detail or fallback.
func uploadMessage(err error, fallback string) string {
	if errors.Is(err, forms.ErrUploadTooLarge) {
		return "Image is too large."
	}
	return backend.MessageOf(err, fallback)
}
