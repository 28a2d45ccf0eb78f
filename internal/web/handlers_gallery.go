package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/forms"
	"heritageportal/webfront/internal/guard"
	"heritageportal/webfront/internal/routes"
	"heritageportal/webfront/internal/session"
)

func (s *site) registerGalleryHandlers(r *mux.Router) {
	r.HandleFunc(routes.AddImage, s.protect(guard.RequirePrivileged, s.galleryAdmin)).Methods(http.MethodGet)
	r.HandleFunc(routes.AddImage, s.manage(guard.RequirePrivileged, s.galleryAction)).Methods(http.MethodPost)
}

func (s *site) renderGalleryAdmin(w http.ResponseWriter, r *http.Request, store *session.Store, p page) {
	places, err := s.loadGallery(r)
	if err != nil {
		s.log.Warn("list places failed", "error", err)
		if p.Flash == nil {
			p.Flash = failure("Failed to load gallery.", galleryMessageDelay)
		}
	}
	p.Title = "Gallery"
	p.Data = places
	s.render(w, r, store, "addimage", p)
}

func (s *site) galleryAdmin(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.renderGalleryAdmin(w, r, store, page{})
}

// galleryAction dispatches the forms of the gallery admin page on "op".
func (s *site) galleryAction(w http.ResponseWriter, r *http.Request, store *session.Store) {
	switch r.FormValue("op") {
	case "add-place":
		s.addPlace(w, r, store)
	case "upload-image":
		s.uploadImage(w, r, store)
	case "delete-image":
		s.deleteImage(w, r, store)
	case "delete-place":
		s.deletePlace(w, r, store)
	default:
		http.Redirect(w, r, routes.AddImage, http.StatusSeeOther)
	}
}

func (s *site) addPlace(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id := r.FormValue("submission_id")
	if !s.submissions.claim(id) {
		http.Redirect(w, r, routes.AddImage, http.StatusSeeOther)
		return
	}
	heading := forms.Upper(r.FormValue("heading"))
	district := forms.Upper(r.FormValue("district"))
	p := page{Form: map[string]string{"heading": heading, "district": district}}

	if heading == "" || district == "" {
		s.submissions.release(id)
		p.Submission = id
		p.Flash = failure("Both fields are required", galleryMessageDelay)
		s.renderGalleryAdmin(w, r, store, p)
		return
	}
	if err := s.api.CreatePlace(r.Context(), store.Token(), heading, district); err != nil {
		s.submissions.release(id)
		s.log.Warn("create place failed", "heading", heading, "error", err)
		p.Submission = id
		p.Flash = failure(backend.MessageOf(err, "Failed to add place. Try again."), galleryMessageDelay)
		s.renderGalleryAdmin(w, r, store, p)
		return
	}
	p.Form = nil
	p.Flash = success("Place added successfully!", galleryMessageDelay)
	p.Next = after(routes.AddImage, galleryMessageDelay)
	s.renderGalleryAdmin(w, r, store, p)
}

func (s *site) uploadImage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id := r.FormValue("submission_id")
	if !s.submissions.claim(id) {
		http.Redirect(w, r, routes.AddImage, http.StatusSeeOther)
		return
	}
	var p page
	placeID, ok := formID(r, "place_id")
	img, err := forms.EncodeUpload(r, "image")
	switch {
	case err != nil:
		p.Flash = failure(uploadMessage(err, "Failed to upload image. Try again."), galleryMessageDelay)
	case !ok || img == "":
		p.Flash = failure("Image or place ID missing.", galleryMessageDelay)
	default:
		err = s.api.UploadPlaceImage(r.Context(), store.Token(), placeID, img)
		if err != nil {
			s.log.Warn("upload place image failed", "place_id", placeID, "error", err)
			p.Flash = failure(backend.MessageOf(err, "Failed to upload image. Try again."), galleryMessageDelay)
		}
	}
	if p.Flash != nil {
		s.submissions.release(id)
		s.renderGalleryAdmin(w, r, store, p)
		return
	}
	p.Flash = success("Image uploaded successfully!", galleryMessageDelay)
	p.Next = after(routes.AddImage, galleryMessageDelay)
	s.renderGalleryAdmin(w, r, store, p)
}

func (s *site) deleteImage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	var p page
	imageID, ok := formID(r, "image_id")
	if !ok {
		p.Flash = failure("Failed to delete image. Try again.", galleryMessageDelay)
		s.renderGalleryAdmin(w, r, store, p)
		return
	}
	if err := s.api.DeletePlaceImage(r.Context(), store.Token(), imageID); err != nil {
		s.log.Warn("delete place image failed", "image_id", imageID, "error", err)
		p.Flash = failure("Failed to delete image. Try again.", galleryMessageDelay)
	} else {
		p.Flash = success("Image deleted successfully!", galleryMessageDelay)
		p.Next = after(routes.AddImage, galleryMessageDelay)
	}
	s.renderGalleryAdmin(w, r, store, p)
}

func (s *site) deletePlace(w http.ResponseWriter, r *http.Request, store *session.Store) {
	var p page
	placeID, ok := formID(r, "place_id")
	if !ok {
		p.Flash = failure("Failed to delete place. Try again.", galleryMessageDelay)
		s.renderGalleryAdmin(w, r, store, p)
		return
	}
	if err := s.api.DeletePlace(r.Context(), store.Token(), placeID); err != nil {
		s.log.Warn("delete place failed", "place_id", placeID, "error", err)
		p.Flash = failure("Failed to delete place. Try again.", galleryMessageDelay)
	} else {
		p.Flash = success("Place deleted successfully.", galleryMessageDelay)
	}
	s.renderGalleryAdmin(w, r, store, p)
}
