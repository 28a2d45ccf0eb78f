package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the remote content API. Privileged calls take the bearer
// token of the current session; public calls pass "".
type Client struct {
	rc *resty.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}, nil
}

func (c *Client) do(ctx context.Context, ep Endpoint, token string, params map[string]string, body any) ([]byte, error) {
	path, err := ep.Expand(params)
	if err != nil {
		return nil, err
	}
	req := c.rc.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(ep.Method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %v", ep.Method, ep.Name, ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, NewAPIError(resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

func (c *Client) doJSON(ctx context.Context, ep Endpoint, token string, params map[string]string, body, out any) error {
	raw, err := c.do(ctx, ep, token, params, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", ep.Name, err)
	}
	return nil
}

func idParam(id int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(id, 10)}
}

// Users.

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, UserLogin, "", nil, body, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, u NewUser) error {
	return c.doJSON(ctx, UserCreate, token, nil, u, nil)
}

func (c *Client) RequestOTP(ctx context.Context, username string) error {
	return c.doJSON(ctx, UserOTP, "", nil, map[string]string{"username": username}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, username, otp, newPassword string) error {
	body := map[string]string{"username": username, "otp": otp, "new_password": newPassword}
	return c.doJSON(ctx, UserForgetPassword, "", nil, body, nil)
}

func (c *Client) ChangePassword(ctx context.Context, token, username, newPassword string) error {
	body := map[string]string{"username": username, "new_password": newPassword}
	return c.doJSON(ctx, UserChangePassword, token, nil, body, nil)
}

func (c *Client) UpdateRole(ctx context.Context, token, username, role string) error {
	body := map[string]string{"username": username, "role": role}
	return c.doJSON(ctx, UserUpdateRole, token, nil, body, nil)
}

func (c *Client) GetUser(ctx context.Context, token, username string) (UserProfile, error) {
	var out UserProfile
	err := c.doJSON(ctx, UserGetByUsername, token, map[string]string{"username": username}, nil, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, token string, p UserProfile) error {
	body := map[string]string{
		"username":   p.Username,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"email":      p.Email,
	}
	return c.doJSON(ctx, UserUpdate, token, nil, body, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]UserProfile, error) {
	raw, err := c.do(ctx, UserDetails, token, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[UserProfile](raw), nil
}

// Contact messages.

func (c *Client) SubmitContact(ctx context.Context, m ContactRequest) error {
	return c.doJSON(ctx, ContactCreate, "", nil, m, nil)
}

// ListMessages filters by action; "" lists every message.
func (c *Client) ListMessages(ctx context.Context, token, action string) ([]ContactMessage, error) {
	raw, err := c.do(ctx, ContactMessages, token, map[string]string{"action": action}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[ContactMessage](raw), nil
}

func (c *Client) UpdateMessageAction(ctx context.Context, token string, id int64, action string) error {
	return c.doJSON(ctx, ContactUpdate, token, idParam(id), map[string]string{"action": action}, nil)
}

// Gallery.

func (c *Client) CreatePlace(ctx context.Context, token, heading, district string) error {
	body := map[string]string{"heading": heading, "district": district}
	return c.doJSON(ctx, GalleryCreate, token, nil, body, nil)
}

func (c *Client) ListPlaces(ctx context.Context) ([]Place, error) {
	raw, err := c.do(ctx, GalleryList, "", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeEnvelopeList[Place](raw), nil
}

func (c *Client) DeletePlace(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, GalleryDelete, token, idParam(id), nil, nil)
}

func (c *Client) UploadPlaceImage(ctx context.Context, token string, placeID int64, imageBase64 string) error {
	body := map[string]any{"place_id": placeID, "image_upload": imageBase64}
	return c.doJSON(ctx, GalleryUploadImage, token, nil, body, nil)
}

func (c *Client) ListPlaceImages(ctx context.Context, placeID int64) ([]PlaceImage, error) {
	raw, err := c.do(ctx, GalleryImages, "", map[string]string{"placeId": strconv.FormatInt(placeID, 10)}, nil)
	if err != nil {
		return nil, err
	}
	return decodeEnvelopeList[PlaceImage](raw), nil
}

func (c *Client) DeletePlaceImage(ctx context.Context, token string, imageID int64) error {
	return c.doJSON(ctx, GalleryDeleteImage, token, map[string]string{"imageId": strconv.FormatInt(imageID, 10)}, nil, nil)
}

// Tourist places.

func (c *Client) CreateTouristPlace(ctx context.Context, token string, in TouristInput) error {
	return c.doJSON(ctx, TourismCreate, token, nil, in, nil)
}

func (c *Client) ListTouristPlaces(ctx context.Context) ([]TouristPlace, error) {
	raw, err := c.do(ctx, TourismList, "", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[TouristPlace](raw), nil
}

func (c *Client) GetTouristPlace(ctx context.Context, token string, id int64) (TouristPlace, error) {
	var out TouristPlace
	err := c.doJSON(ctx, TourismGet, token, idParam(id), nil, &out)
	return out, err
}

func (c *Client) UpdateTouristPlace(ctx context.Context, token string, id int64, in TouristInput) error {
	return c.doJSON(ctx, TourismUpdate, token, idParam(id), in, nil)
}

func (c *Client) DeleteTouristPlace(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, TourismDelete, token, idParam(id), nil, nil)
}

// Overview.

func (c *Client) ListOverviews(ctx context.Context) ([]Overview, error) {
	raw, err := c.do(ctx, OverviewList, "", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Overview](raw), nil
}

func (c *Client) CreateOverview(ctx context.Context, token, details string) error {
	return c.doJSON(ctx, OverviewCreate, token, nil, map[string]string{"details": details}, nil)
}

func (c *Client) UpdateOverview(ctx context.Context, token string, id int64, details string) error {
	return c.doJSON(ctx, OverviewUpdate, token, idParam(id), map[string]string{"details": details}, nil)
}

func (c *Client) ListOverviewImages(ctx context.Context) ([]OverviewImage, error) {
	raw, err := c.do(ctx, OverviewImageList, "", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeEnvelopeList[OverviewImage](raw), nil
}

func (c *Client) CreateOverviewImage(ctx context.Context, token, imageBase64 string) error {
	return c.doJSON(ctx, OverviewImageCreate, token, nil, map[string]string{"image_upload": imageBase64}, nil)
}

func (c *Client) UpdateOverviewImage(ctx context.Context, token string, id int64, imageBase64 string) error {
	return c.doJSON(ctx, OverviewImageUpdate, token, idParam(id), map[string]string{"image_upload": imageBase64}, nil)
}

func (c *Client) DeleteOverviewImage(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, OverviewImageDelete, token, idParam(id), nil, nil)
}

// Official links.

func (c *Client) CreateLink(ctx context.Context, token string, in LinkInput) error {
	return c.doJSON(ctx, LinkCreate, token, nil, in, nil)
}

func (c *Client) ListLinks(ctx context.Context) ([]Link, error) {
	raw, err := c.do(ctx, LinkList, "", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Link](raw), nil
}

func (c *Client) DeleteLink(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, LinkDelete, token, idParam(id), nil, nil)
}

func (c *Client) UpdateLink(ctx context.Context, token string, id int64, in LinkInput) error {
	return c.doJSON(ctx, LinkUpdate, token, idParam(id), in, nil)
}

func (c *Client) GetLink(ctx context.Context, token string, id int64) (Link, error) {
	var out Link
	err := c.doJSON(ctx, LinkGet, token, idParam(id), nil, &out)
	return out, err
}
