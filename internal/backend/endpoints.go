package backend

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Endpoint is one route of the remote API. Path placeholders use {name}.
type Endpoint struct {
	Name   string
	Method string
	Path   string
}

var (
	UserLogin          = Endpoint{"user.login", http.MethodPost, "/api/user/login/"}
	UserCreate         = Endpoint{"user.create", http.MethodPost, "/api/user/create/"}
	UserForgetPassword = Endpoint{"user.forget_password", http.MethodPost, "/api/user/forget-password/"}
	UserChangePassword = Endpoint{"user.change_password", http.MethodPut, "/api/user/change-password/"}
	UserUpdateRole     = Endpoint{"user.update_role", http.MethodPost, "/api/user/update-role/"}
	UserGetByUsername  = Endpoint{"user.get", http.MethodGet, "/api/user/get/{username}/"}
	UserUpdate         = Endpoint{"user.update", http.MethodPut, "/api/user/update/"}
	UserDetails        = Endpoint{"user.details", http.MethodGet, "/api/user/details/"}
	UserOTP            = Endpoint{"user.otp", http.MethodPost, "/api/user/otp/"}

	ContactCreate   = Endpoint{"contact.create", http.MethodPost, "/user/contact/"}
	ContactMessages = Endpoint{"contact.messages", http.MethodGet, "/user/contact/messages/{action}"}
	ContactUpdate   = Endpoint{"contact.update", http.MethodPatch, "/user/contact/messages/update/{id}/"}

	GalleryCreate      = Endpoint{"gallery.create", http.MethodPost, "/gallery/places/create/"}
	GalleryList        = Endpoint{"gallery.list", http.MethodGet, "/gallery/places/list/"}
	GalleryDelete      = Endpoint{"gallery.delete", http.MethodDelete, "/gallery/places/delete/{id}/"}
	GalleryUploadImage = Endpoint{"gallery.upload_image", http.MethodPost, "/gallery/places/image/upload/"}
	GalleryImages      = Endpoint{"gallery.images", http.MethodGet, "/gallery/places/{placeId}/images/"}
	GalleryDeleteImage = Endpoint{"gallery.delete_image", http.MethodDelete, "/gallery/places/image/delete/{imageId}/"}

	TourismCreate = Endpoint{"tourism.create", http.MethodPost, "/tourist/places/create/"}
	TourismList   = Endpoint{"tourism.list", http.MethodGet, "/tourist/places/"}
	TourismGet    = Endpoint{"tourism.get", http.MethodGet, "/tourist/places/{id}/"}
	TourismUpdate = Endpoint{"tourism.update", http.MethodPut, "/tourist/places/{id}/update/"}
	TourismDelete = Endpoint{"tourism.delete", http.MethodDelete, "/tourist/places/{id}/delete/"}

	OverviewList        = Endpoint{"overview.list", http.MethodGet, "/overview/list/"}
	OverviewCreate      = Endpoint{"overview.create", http.MethodPost, "/overview/create/"}
	OverviewUpdate      = Endpoint{"overview.update", http.MethodPut, "/overview/update/{id}/"}
	OverviewImageList   = Endpoint{"overview.images.list", http.MethodGet, "/overview/images/list/"}
	OverviewImageCreate = Endpoint{"overview.images.create", http.MethodPost, "/overview/images/create/"}
	OverviewImageUpdate = Endpoint{"overview.images.update", http.MethodPut, "/overview/images/update/{id}/"}
	OverviewImageDelete = Endpoint{"overview.images.delete", http.MethodDelete, "/overview/images/delete/{id}/"}

	LinkCreate = Endpoint{"links.create", http.MethodPost, "/link/create/"}
	LinkList   = Endpoint{"links.list", http.MethodGet, "/link/list/"}
	LinkDelete = Endpoint{"links.delete", http.MethodDelete, "/link/delete/{id}/"}
	LinkUpdate = Endpoint{"links.update", http.MethodPut, "/link/update/{id}/"}
	LinkGet    = Endpoint{"links.get", http.MethodGet, "/link/get/{id}/"}
)

// Endpoints is the static gateway map keyed by endpoint name.
var Endpoints = index(
	UserLogin, UserCreate, UserForgetPassword, UserChangePassword, UserUpdateRole,
	UserGetByUsername, UserUpdate, UserDetails, UserOTP,
	ContactCreate, ContactMessages, ContactUpdate,
	GalleryCreate, GalleryList, GalleryDelete, GalleryUploadImage, GalleryImages, GalleryDeleteImage,
	TourismCreate, TourismList, TourismGet, TourismUpdate, TourismDelete,
	OverviewList, OverviewCreate, OverviewUpdate,
	OverviewImageList, OverviewImageCreate, OverviewImageUpdate, OverviewImageDelete,
	LinkCreate, LinkList, LinkDelete, LinkUpdate, LinkGet,
)

func index(eps ...Endpoint) map[string]Endpoint {
	out := make(map[string]Endpoint, len(eps))
	for _, ep := range eps {
		out[ep.Name] = ep
	}
	return out
}

// Names returns the endpoint names in sorted order.
func Names() []string {
	out := make([]string, 0, len(Endpoints))
	for name := range Endpoints {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Expand fills the path placeholders. Values are path-escaped; an empty
// value is allowed (the contact message filter uses it for "all").
func (e Endpoint) Expand(params map[string]string) (string, error) {
	p := e.Path
	for k, v := range params {
		p = strings.ReplaceAll(p, "{"+k+"}", url.PathEscape(v))
	}
	if i := strings.IndexByte(p, '{'); i >= 0 {
		return "", fmt.Errorf("endpoint %s: missing path parameter in %q", e.Name, e.Path)
	}
	return p, nil
}
