package routes

import (
	"strconv"
	"strings"
)

// Public pages.
const (
	Home          = "/"
	SignIn        = "/signin"
	Gallery       = "/gallery"
	OfficialLinks = "/official-links"
	HowToReach    = "/how-to-reach"
	ContactUs     = "/contact-us"
	ForgetPass    = "/forgetpassword"
	Forbidden     = "/forbidden"
	Logout        = "/logout"
)

// Protected pages. Templates with {id} are gorilla/mux patterns.
const (
	SuperDashboard = "/superUserDashboard"
	AdminDashboard = "/adminDashboard"
	CreateUser     = "/create-user"
	UpdateUser     = "/update-user"
	ChangePassword = "/change-password"
	UpdateProfile  = "/update-profile"
	AddLinks       = "/add-links"
	AddNewLinks    = "/addNewLinks"
	UpdateLink     = "/update-link/{id}"
	AddImage       = "/add-image"
	AddTourist     = "/add-tourist"
	AddTouristSite = "/add-touristSites"
	UpdateTourist  = "/update-tourist/{id}"
	ModifyImage    = "/modify-image"
)

var chromeHidden = map[string]struct{}{
	SuperDashboard: {},
	CreateUser:     {},
	ChangePassword: {},
	UpdateUser:     {},
	AddLinks:       {},
	AddNewLinks:    {},
	UpdateProfile:  {},
	UpdateLink:     {},
	AdminDashboard: {},
	AddImage:       {},
	AddTourist:     {},
	AddTouristSite: {},
	UpdateTourist:  {},
	ModifyImage:    {},
}

// ChromeHidden lists the route templates rendered without header and footer.
func ChromeHidden() []string {
	out := make([]string, 0, len(chromeHidden))
	for tpl := range chromeHidden {
		out = append(out, tpl)
	}
	return out
}

// HidesChrome matches a route template, not a concrete path, so
// /update-link/7 is covered by /update-link/{id}.
func HidesChrome(template string) bool {
	_, ok := chromeHidden[template]
	return ok
}

func UpdateLinkPath(id int64) string {
	return expand(UpdateLink, id)
}

func UpdateTouristPath(id int64) string {
	return expand(UpdateTourist, id)
}

func expand(template string, id int64) string {
	return strings.Replace(template, "{id}", strconv.FormatInt(id, 10), 1)
}
