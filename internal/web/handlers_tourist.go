package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/forms"
	"heritageportal/webfront/internal/guard"
	"heritageportal/webfront/internal/routes"
	"heritageportal/webfront/internal/session"
)

func (s *site) registerTouristHandlers(r *mux.Router) {
	r.HandleFunc(routes.AddTourist, s.protect(guard.RequirePrivileged, s.touristAdmin)).Methods(http.MethodGet)
	r.HandleFunc(routes.AddTourist, s.manage(guard.RequirePrivileged, s.touristAction)).Methods(http.MethodPost)
	r.HandleFunc(routes.AddTouristSite, s.protect(guard.RequirePrivileged, s.newTouristPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.AddTouristSite, s.manage(guard.RequirePrivileged, s.createTourist)).Methods(http.MethodPost)
	r.HandleFunc(routes.UpdateTourist, s.protect(guard.RequirePrivileged, s.editTouristPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.UpdateTourist, s.manage(guard.RequirePrivileged, s.updateTourist)).Methods(http.MethodPost)
	r.HandleFunc(routes.ModifyImage, s.protect(guard.RequirePrivileged, s.modifyImagePage)).Methods(http.MethodGet)
	r.HandleFunc(routes.ModifyImage, s.manage(guard.RequirePrivileged, s.modifyImage)).Methods(http.MethodPost)
}

// renderTouristAdmin reuses the home page data: carousel, overview text and the
// place list, with edit controls.
func (s *site) renderTouristAdmin(w http.ResponseWriter, r *http.Request, store *session.Store, p page) {
	p.Title = "Pilgrim Places"
	p.Data = s.loadHome(r)
	s.render(w, r, store, "addtourist", p)
}

func (s *site) touristAdmin(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.renderTouristAdmin(w, r, store, page{})
}

func (s *site) touristAction(w http.ResponseWriter, r *http.Request, store *session.Store) {
	switch r.FormValue("op") {
	case "update-overview":
		s.updateOverview(w, r, store)
	case "upload-overview-image":
		s.uploadOverviewImage(w, r, store)
	case "delete-place":
		s.deleteTourist(w, r, store)
	default:
		http.Redirect(w, r, routes.AddTourist, http.StatusSeeOther)
	}
}

// updateOverview edits the overview text, or creates it when the API has
// none yet and the form carries no id.
func (s *site) updateOverview(w http.ResponseWriter, r *http.Request, store *session.Store) {
	var p page
	details := strings.TrimSpace(r.FormValue("details"))
	var err error
	id, ok := formID(r, "id")
	switch {
	case details == "":
		err = errors.New("overview details are empty")
	case ok:
		err = s.api.UpdateOverview(r.Context(), store.Token(), id, details)
	default:
		err = s.api.CreateOverview(r.Context(), store.Token(), details)
	}
	if err != nil {
		s.log.Warn("save overview failed", "id", id, "error", err)
		p.Form = map[string]string{"details": details}
		p.Flash = failure("Failed to update overview.", overviewMessageDelay)
	} else {
		p.Flash = success("Overview updated successfully!", overviewMessageDelay)
	}
	s.renderTouristAdmin(w, r, store, p)
}

func (s *site) uploadOverviewImage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id := r.FormValue("submission_id")
	if !s.submissions.claim(id) {
		http.Redirect(w, r, routes.AddTourist, http.StatusSeeOther)
		return
	}
	var p page
	img, err := forms.EncodeUpload(r, "image")
	switch {
	case err != nil:
		p.Flash = failure(uploadMessage(err, "Failed to upload image."), overviewMessageDelay)
	case img == "":
		p.Flash = failure("Please select an image.", overviewMessageDelay)
	default:
		if err := s.api.CreateOverviewImage(r.Context(), store.Token(), img); err != nil {
			s.log.Warn("create overview image failed", "error", err)
			p.Flash = failure(backend.MessageOf(err, "Failed to upload image."), overviewMessageDelay)
		}
	}
	if p.Flash != nil {
		s.submissions.release(id)
		s.renderTouristAdmin(w, r, store, p)
		return
	}
	p.Flash = success("Image uploaded successfully!", overviewMessageDelay)
	s.renderTouristAdmin(w, r, store, p)
}

func (s *site) deleteTourist(w http.ResponseWriter, r *http.Request, store *session.Store) {
	var p page
	id, ok := formID(r, "id")
	var err error
	if ok {
		err = s.api.DeleteTouristPlace(r.Context(), store.Token(), id)
	}
	if !ok || err != nil {
		s.log.Warn("delete tourist place failed", "id", id, "error", err)
		p.Flash = failure("Failed to delete the place.", touristDeleteDelay)
	} else {
		p.Flash = success("Place deleted successfully.", touristDeleteDelay)
	}
	p.Next = after(routes.AddTourist, touristDeleteDelay)
	s.renderTouristAdmin(w, r, store, p)
}

var touristFields = []string{"place_name", "place_address", "place_description"}

type touristFormData struct {
	Action  string
	Heading string
	Image   string
}

func touristInput(r *http.Request) (backend.TouristInput, error) {
	img, err := forms.EncodeUpload(r, "image")
	if err != nil {
		return backend.TouristInput{}, err
	}
	return backend.TouristInput{
		PlaceName:        strings.TrimSpace(r.FormValue("place_name")),
		PlaceAddress:     strings.TrimSpace(r.FormValue("place_address")),
		PlaceDescription: strings.TrimSpace(r.FormValue("place_description")),
		ImageUpload:      img,
	}, nil
}

func (s *site) newTouristPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "touristform", page{
		Title:      "Add Pilgrim Place",
		Submission: newSubmissionID(),
		Data:       touristFormData{Action: routes.AddTouristSite, Heading: "Add New Pilgrim Place"},
	})
}

func (s *site) createTourist(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id := r.FormValue("submission_id")
	if !s.submissions.claim(id) {
		http.Redirect(w, r, routes.AddTourist, http.StatusSeeOther)
		return
	}
	p := page{
		Title:      "Add Pilgrim Place",
		Submission: id,
		Form:       formValues(r, touristFields...),
		Data:       touristFormData{Action: routes.AddTouristSite, Heading: "Add New Pilgrim Place"},
	}
	in, err := touristInput(r)
	if err == nil {
		err = s.api.CreateTouristPlace(r.Context(), store.Token(), in)
	}
	if err != nil {
		s.submissions.release(id)
		s.log.Warn("create tourist place failed", "error", err)
		p.Flash = failure(uploadMessage(err, "Failed to add site."), touristMessageDelay)
		s.render(w, r, store, "touristform", p)
		return
	}
	p.Submission = ""
	p.Flash = success("Site added successfully!", touristMessageDelay)
	p.Next = after(routes.AddTourist, touristMessageDelay)
	s.render(w, r, store, "touristform", p)
}

func (s *site) editTouristPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id, ok := pathID(r)
	if !ok {
		http.Redirect(w, r, routes.AddTourist, http.StatusSeeOther)
		return
	}
	data := touristFormData{Action: routes.UpdateTouristPath(id), Heading: "Update Pilgrim Place"}
	p := page{Title: "Update Pilgrim Place"}
	t, err := s.api.GetTouristPlace(r.Context(), store.Token(), id)
	if err != nil {
		s.log.Warn("get tourist place failed", "id", id, "error", err)
		p.Flash = failure("Something went wrong.", touristMessageDelay)
	} else {
		p.Form = map[string]string{
			"place_name":        t.PlaceName,
			"place_address":     t.PlaceAddress,
			"place_description": t.PlaceDescription,
		}
		data.Image = t.PlaceImage
	}
	p.Data = data
	s.render(w, r, store, "touristform", p)
}

func (s *site) updateTourist(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id, ok := pathID(r)
	if !ok {
		http.Redirect(w, r, routes.AddTourist, http.StatusSeeOther)
		return
	}
	p := page{
		Title: "Update Pilgrim Place",
		Form:  formValues(r, touristFields...),
		Data:  touristFormData{Action: routes.UpdateTouristPath(id), Heading: "Update Pilgrim Place"},
	}
	in, err := touristInput(r)
	if err == nil {
		err = s.api.UpdateTouristPlace(r.Context(), store.Token(), id, in)
	}
	if err != nil {
		s.log.Warn("update tourist place failed", "id", id, "error", err)
		p.Flash = failure(uploadMessage(err, "Update failed."), touristMessageDelay)
		s.render(w, r, store, "touristform", p)
		return
	}
	p.Flash = success("Site updated successfully!", touristMessageDelay)
	p.Next = after(routes.AddTourist, touristMessageDelay)
	s.render(w, r, store, "touristform", p)
}

func (s *site) renderModifyImage(w http.ResponseWriter, r *http.Request, store *session.Store, p page) {
	imgs, err := s.api.ListOverviewImages(r.Context())
	if err != nil {
		s.log.Warn("list overview images failed", "error", err)
		if p.Flash == nil {
			p.Flash = failure("Failed to load images.", modifyImageDelay)
		}
	}
	p.Title = "Modify Overview Images"
	p.Data = imgs
	s.render(w, r, store, "modifyimage", p)
}

func (s *site) modifyImagePage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.renderModifyImage(w, r, store, page{})
}

// modifyImage deletes an overview image, or replaces it when a file is
// attached with op=replace.
func (s *site) modifyImage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	var p page
	id, ok := formID(r, "id")
	if !ok {
		http.Redirect(w, r, routes.ModifyImage, http.StatusSeeOther)
		return
	}

	if r.FormValue("op") == "replace" {
		img, err := forms.EncodeUpload(r, "image")
		switch {
		case err != nil:
			p.Flash = failure(uploadMessage(err, "Failed to update image."), modifyImageDelay)
		case img == "":
			p.Flash = failure("Please select an image.", modifyImageDelay)
		default:
			if err := s.api.UpdateOverviewImage(r.Context(), store.Token(), id, img); err != nil {
				s.log.Warn("update overview image failed", "id", id, "error", err)
				p.Flash = failure("Failed to update image.", modifyImageDelay)
			} else {
				p.Flash = success("Image updated successfully!", modifyImageDelay)
			}
		}
		s.renderModifyImage(w, r, store, p)
		return
	}

	if err := s.api.DeleteOverviewImage(r.Context(), store.Token(), id); err != nil {
		s.log.Warn("delete overview image failed", "id", id, "error", err)
		p.Flash = failure("Failed to delete image.", modifyImageDelay)
	} else {
		p.Flash = success("Image deleted successfully!", modifyImageDelay)
	}
	s.renderModifyImage(w, r, store, p)
}
