package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"heritageportal/webfront/internal/backend"
	"heritageportal/webfront/internal/forms"
	"heritageportal/webfront/internal/routes"
	"heritageportal/webfront/internal/session"
)

// galleryFetchLimit bounds concurrent per-place image requests.
const galleryFetchLimit = 4

func (s *site) registerPublicHandlers(r *mux.Router) {
	r.HandleFunc(routes.Home, s.view(s.home)).Methods(http.MethodGet)
	r.HandleFunc(routes.HowToReach, s.view(s.howToReach)).Methods(http.MethodGet)
	r.HandleFunc(routes.ContactUs, s.view(s.contactPage)).Methods(http.MethodGet)
	r.HandleFunc(routes.ContactUs, s.view(s.contact)).Methods(http.MethodPost)
	r.HandleFunc(routes.Gallery, s.view(s.gallery)).Methods(http.MethodGet)
	r.HandleFunc(routes.OfficialLinks, s.view(s.officialLinks)).Methods(http.MethodGet)
}

type homeData struct {
	Slides   []backend.OverviewImage
	Slide    carousel
	Overview *backend.Overview
	Places   []backend.TouristPlace
}

func (d homeData) Current() backend.OverviewImage {
	if len(d.Slides) == 0 {
		return backend.OverviewImage{}
	}
	return d.Slides[d.Slide.Index]
}

// loadHome fetches the carousel, the overview text and the tourist places
// together. A failed fetch leaves its section empty.
func (s *site) loadHome(r *http.Request) homeData {
	var (
		data      homeData
		overviews []backend.Overview
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		imgs, err := s.api.ListOverviewImages(ctx)
		if err != nil {
			s.log.Warn("list overview images failed", "error", err)
			return nil
		}
		data.Slides = imgs
		return nil
	})
	g.Go(func() error {
		list, err := s.api.ListOverviews(ctx)
		if err != nil {
			s.log.Warn("list overviews failed", "error", err)
			return nil
		}
		overviews = list
		return nil
	})
	g.Go(func() error {
		places, err := s.api.ListTouristPlaces(ctx)
		if err != nil {
			s.log.Warn("list tourist places failed", "error", err)
			return nil
		}
		data.Places = places
		return nil
	})
	_ = g.Wait()

	if len(overviews) > 0 {
		data.Overview = &overviews[0]
	}
	data.Slide = newCarousel(r.URL.Query().Get("slide"), len(data.Slides))
	return data
}

func (s *site) home(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "home", page{Title: "Home", Data: s.loadHome(r)})
}

func (s *site) howToReach(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "howtoreach", page{Title: "How to Reach"})
}

var contactFields = []string{"name", "email", "phone_number", "message"}

func (s *site) contactPage(w http.ResponseWriter, r *http.Request, store *session.Store) {
	s.render(w, r, store, "contact", page{Title: "Contact Us", Submission: newSubmissionID()})
}

func (s *site) contact(w http.ResponseWriter, r *http.Request, store *session.Store) {
	id := r.FormValue("submission_id")
	if !s.submissions.claim(id) {
		http.Redirect(w, r, routes.ContactUs, http.StatusSeeOther)
		return
	}

	p := page{Title: "Contact Us", Submission: id, Form: formValues(r, contactFields...)}
	if err := r.ParseForm(); err != nil {
		s.submissions.release(id)
		p.Flash = failure("Failed to submit message.", contactSuccessDelay)
		s.renderStatus(w, r, store, http.StatusBadRequest, "contact", p)
		return
	}
	if err := forms.Required(r.PostForm, contactFields...); err != nil {
		s.submissions.release(id)
		p.Flash = failure(err.Error(), contactSuccessDelay)
		s.renderStatus(w, r, store, http.StatusBadRequest, "contact", p)
		return
	}

	err := s.api.SubmitContact(r.Context(), backend.ContactRequest{
		Name:        p.Form["name"],
		Email:       p.Form["email"],
		PhoneNumber: p.Form["phone_number"],
		Message:     p.Form["message"],
	})
	if err != nil {
		s.submissions.release(id)
		s.log.Warn("submit contact failed", "error", err)
		p.Flash = failure("Failed to submit message.", contactSuccessDelay)
		s.render(w, r, store, "contact", p)
		return
	}

	p.Form = nil
	p.Submission = ""
	p.Flash = success("Message submitted successfully!", contactSuccessDelay)
	p.Next = after(routes.Home, contactSuccessDelay)
	s.render(w, r, store, "contact", p)
}

type galleryPlace struct {
	backend.Place
	Images []backend.PlaceImage
}

// loadGallery lists places and then fetches their images concurrently. A
// failed image fetch yields an empty list for that place only.
func (s *site) loadGallery(r *http.Request) ([]galleryPlace, error) {
	places, err := s.api.ListPlaces(r.Context())
	if err != nil {
		return nil, err
	}
	out := make([]galleryPlace, len(places))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(galleryFetchLimit)
	for i, p := range places {
		i, p := i, p
		out[i] = galleryPlace{Place: p}
		g.Go(func() error {
			imgs, err := s.api.ListPlaceImages(ctx, p.ID)
			if err != nil {
				s.log.Warn("list place images failed", "place_id", p.ID, "error", err)
				out[i].Images = []backend.PlaceImage{}
				return nil
			}
			out[i].Images = imgs
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

func (s *site) gallery(w http.ResponseWriter, r *http.Request, store *session.Store) {
	places, err := s.loadGallery(r)
	p := page{Title: "Gallery", Data: places}
	if err != nil {
		s.log.Warn("list places failed", "error", err)
		p.Flash = failure("Failed to load gallery.", galleryMessageDelay)
	}
	s.render(w, r, store, "gallery", p)
}

func (s *site) officialLinks(w http.ResponseWriter, r *http.Request, store *session.Store) {
	links, err := s.api.ListLinks(r.Context())
	p := page{Title: "Official Links", Data: links}
	if err != nil {
		s.log.Warn("list links failed", "error", err)
		p.Flash = failure("Failed to load links.", linkMessageDelay)
	}
	s.render(w, r, store, "links", p)
}
