package backend

import "encoding/json"

type LoginResult struct {
	Username    string `json:"username"`
	ID          *int64 `json:"id,omitempty"`
	AuthUserID  *int64 `json:"auth_user_id,omitempty"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}

// UserID returns id, falling back to auth_user_id which some login
// responses use instead.
func (r LoginResult) UserID() (int64, bool) {
	if r.ID != nil {
		return *r.ID, true
	}
	if r.AuthUserID != nil {
		return *r.AuthUserID, true
	}
	return 0, false
}

type UserProfile struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
}

type NewUser struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type ContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

type ContactMessage struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
	Action      string `json:"action"`
}

type Place struct {
	ID       int64  `json:"id"`
	Heading  string `json:"heading"`
	District string `json:"district"`
}

type PlaceImage struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

type Link struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Details string `json:"details"`
	Links   string `json:"links"`
	BgImage string `json:"bg_image"`
}

type LinkInput struct {
	Title       string `json:"title"`
	Details     string `json:"details"`
	Links       string `json:"links"`
	ImageUpload string `json:"image_upload,omitempty"`
}

type TouristPlace struct {
	ID               int64  `json:"id"`
	PlaceName        string `json:"place_name"`
	PlaceAddress     string `json:"place_address"`
	PlaceDescription string `json:"place_description"`
	PlaceImage       string `json:"place_image"`
}

type TouristInput struct {
	PlaceName        string `json:"place_name"`
	PlaceAddress     string `json:"place_address"`
	PlaceDescription string `json:"place_description"`
	ImageUpload      string `json:"image_upload,omitempty"`
}

type Overview struct {
	ID      int64  `json:"id"`
	Details string `json:"details"`
}

type OverviewImage struct {
	ID          int64  `json:"id"`
	ImageBase64 string `json:"image_base64"`
}

type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// decodeList accepts only a JSON array; anything else (0, null, an object)
// is an empty list.
func decodeList[T any](raw []byte) []T {
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

func decodeEnvelopeList[T any](raw []byte) []T {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return []T{}
	}
	if env.Success != nil && !*env.Success {
		return []T{}
	}
	return decodeList[T](env.Data)
}
