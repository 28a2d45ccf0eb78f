package web

import (
	"context"
	"errors"

	"heritageportal/webfront/internal/backend"
)

var errNotImplemented = errors.New("not implemented")

type fakePortal struct {
	loginFunc               func(ctx context.Context, username, password string) (backend.LoginResult, error)
	createUserFunc          func(ctx context.Context, token string, u backend.NewUser) error
	requestOTPFunc          func(ctx context.Context, username string) error
	resetPasswordFunc       func(ctx context.Context, username, otp, newPassword string) error
	changePasswordFunc      func(ctx context.Context, token, username, newPassword string) error
	updateRoleFunc          func(ctx context.Context, token, username, role string) error
	getUserFunc             func(ctx context.Context, token, username string) (backend.UserProfile, error)
	updateUserFunc          func(ctx context.Context, token string, p backend.UserProfile) error
	listUsersFunc           func(ctx context.Context, token string) ([]backend.UserProfile, error)
	submitContactFunc       func(ctx context.Context, m backend.ContactRequest) error
	listMessagesFunc        func(ctx context.Context, token, action string) ([]backend.ContactMessage, error)
	updateMessageActionFunc func(ctx context.Context, token string, id int64, action string) error
	createPlaceFunc         func(ctx context.Context, token, heading, district string) error
	listPlacesFunc          func(ctx context.Context) ([]backend.Place, error)
	deletePlaceFunc         func(ctx context.Context, token string, id int64) error
	uploadPlaceImageFunc    func(ctx context.Context, token string, placeID int64, imageBase64 string) error
	listPlaceImagesFunc     func(ctx context.Context, placeID int64) ([]backend.PlaceImage, error)
	deletePlaceImageFunc    func(ctx context.Context, token string, imageID int64) error
	createTouristPlaceFunc  func(ctx context.Context, token string, in backend.TouristInput) error
	listTouristPlacesFunc   func(ctx context.Context) ([]backend.TouristPlace, error)
	getTouristPlaceFunc     func(ctx context.Context, token string, id int64) (backend.TouristPlace, error)
	updateTouristPlaceFunc  func(ctx context.Context, token string, id int64, in backend.TouristInput) error
	deleteTouristPlaceFunc  func(ctx context.Context, token string, id int64) error
	listOverviewsFunc       func(ctx context.Context) ([]backend.Overview, error)
	createOverviewFunc      func(ctx context.Context, token, details string) error
	updateOverviewFunc      func(ctx context.Context, token string, id int64, details string) error
	listOverviewImagesFunc  func(ctx context.Context) ([]backend.OverviewImage, error)
	createOverviewImageFunc func(ctx context.Context, token, imageBase64 string) error
	updateOverviewImageFunc func(ctx context.Context, token string, id int64, imageBase64 string) error
	deleteOverviewImageFunc func(ctx context.Context, token string, id int64) error
	createLinkFunc          func(ctx context.Context, token string, in backend.LinkInput) error
	listLinksFunc           func(ctx context.Context) ([]backend.Link, error)
	deleteLinkFunc          func(ctx context.Context, token string, id int64) error
	updateLinkFunc          func(ctx context.Context, token string, id int64, in backend.LinkInput) error
	getLinkFunc             func(ctx context.Context, token string, id int64) (backend.Link, error)
}

func (f *fakePortal) Login(ctx context.Context, username, password string) (backend.LoginResult, error) {
	if f.loginFunc == nil {
		return backend.LoginResult{}, errNotImplemented
	}
	return f.loginFunc(ctx, username, password)
}

func (f *fakePortal) CreateUser(ctx context.Context, token string, u backend.NewUser) error {
	if f.createUserFunc == nil {
		return errNotImplemented
	}
	return f.createUserFunc(ctx, token, u)
}

func (f *fakePortal) RequestOTP(ctx context.Context, username string) error {
	if f.requestOTPFunc == nil {
		return errNotImplemented
	}
	return f.requestOTPFunc(ctx, username)
}

func (f *fakePortal) ResetPassword(ctx context.Context, username, otp, newPassword string) error {
	if f.resetPasswordFunc == nil {
		return errNotImplemented
	}
	return f.resetPasswordFunc(ctx, username, otp, newPassword)
}

func (f *fakePortal) ChangePassword(ctx context.Context, token, username, newPassword string) error {
	if f.changePasswordFunc == nil {
		return errNotImplemented
	}
	return f.changePasswordFunc(ctx, token, username, newPassword)
}

func (f *fakePortal) UpdateRole(ctx context.Context, token, username, role string) error {
	if f.updateRoleFunc == nil {
		return errNotImplemented
	}
	return f.updateRoleFunc(ctx, token, username, role)
}

func (f *fakePortal) GetUser(ctx context.Context, token, username string) (backend.UserProfile, error) {
	if f.getUserFunc == nil {
		return backend.UserProfile{}, errNotImplemented
	}
	return f.getUserFunc(ctx, token, username)
}

func (f *fakePortal) UpdateUser(ctx context.Context, token string, p backend.UserProfile) error {
	if f.updateUserFunc == nil {
		return errNotImplemented
	}
	return f.updateUserFunc(ctx, token, p)
}

func (f *fakePortal) ListUsers(ctx context.Context, token string) ([]backend.UserProfile, error) {
	if f.listUsersFunc == nil {
		return nil, errNotImplemented
	}
	return f.listUsersFunc(ctx, token)
}

func (f *fakePortal) SubmitContact(ctx context.Context, m backend.ContactRequest) error {
	if f.submitContactFunc == nil {
		return errNotImplemented
	}
	return f.submitContactFunc(ctx, m)
}

func (f *fakePortal) ListMessages(ctx context.Context, token, action string) ([]backend.ContactMessage, error) {
	if f.listMessagesFunc == nil {
		return nil, errNotImplemented
	}
	return f.listMessagesFunc(ctx, token, action)
}

func (f *fakePortal) UpdateMessageAction(ctx context.Context, token string, id int64, action string) error {
	if f.updateMessageActionFunc == nil {
		return errNotImplemented
	}
	return f.updateMessageActionFunc(ctx, token, id, action)
}

func (f *fakePortal) CreatePlace(ctx context.Context, token, heading, district string) error {
	if f.createPlaceFunc == nil {
		return errNotImplemented
	}
	return f.createPlaceFunc(ctx, token, heading, district)
}

func (f *fakePortal) ListPlaces(ctx context.Context) ([]backend.Place, error) {
	if f.listPlacesFunc == nil {
		return nil, errNotImplemented
	}
	return f.listPlacesFunc(ctx)
}

func (f *fakePortal) DeletePlace(ctx context.Context, token string, id int64) error {
	if f.deletePlaceFunc == nil {
		return errNotImplemented
	}
	return f.deletePlaceFunc(ctx, token, id)
}

func (f *fakePortal) UploadPlaceImage(ctx context.Context, token string, placeID int64, imageBase64 string) error {
	if f.uploadPlaceImageFunc == nil {
		return errNotImplemented
	}
	return f.uploadPlaceImageFunc(ctx, token, placeID, imageBase64)
}

func (f *fakePortal) ListPlaceImages(ctx context.Context, placeID int64) ([]backend.PlaceImage, error) {
	if f.listPlaceImagesFunc == nil {
		return nil, errNotImplemented
	}
	return f.listPlaceImagesFunc(ctx, placeID)
}

func (f *fakePortal) DeletePlaceImage(ctx context.Context, token string, imageID int64) error {
	if f.deletePlaceImageFunc == nil {
		return errNotImplemented
	}
	return f.deletePlaceImageFunc(ctx, token, imageID)
}

func (f *fakePortal) CreateTouristPlace(ctx context.Context, token string, in backend.TouristInput) error {
	if f.createTouristPlaceFunc == nil {
		return errNotImplemented
	}
	return f.createTouristPlaceFunc(ctx, token, in)
}

func (f *fakePortal) ListTouristPlaces(ctx context.Context) ([]backend.TouristPlace, error) {
	if f.listTouristPlacesFunc == nil {
		return nil, errNotImplemented
	}
	return f.listTouristPlacesFunc(ctx)
}

func (f *fakePortal) GetTouristPlace(ctx context.Context, token string, id int64) (backend.TouristPlace, error) {
	if f.getTouristPlaceFunc == nil {
		return backend.TouristPlace{}, errNotImplemented
	}
	return f.getTouristPlaceFunc(ctx, token, id)
}

func (f *fakePortal) UpdateTouristPlace(ctx context.Context, token string, id int64, in backend.TouristInput) error {
	if f.updateTouristPlaceFunc == nil {
		return errNotImplemented
	}
	return f.updateTouristPlaceFunc(ctx, token, id, in)
}

func (f *fakePortal) DeleteTouristPlace(ctx context.Context, token string, id int64) error {
	if f.deleteTouristPlaceFunc == nil {
		return errNotImplemented
	}
	return f.deleteTouristPlaceFunc(ctx, token, id)
}

func (f *fakePortal) ListOverviews(ctx context.Context) ([]backend.Overview, error) {
	if f.listOverviewsFunc == nil {
		return nil, errNotImplemented
	}
	return f.listOverviewsFunc(ctx)
}

func (f *fakePortal) CreateOverview(ctx context.Context, token, details string) error {
	if f.createOverviewFunc == nil {
		return errNotImplemented
	}
	return f.createOverviewFunc(ctx, token, details)
}

func (f *fakePortal) UpdateOverview(ctx context.Context, token string, id int64, details string) error {
	if f.updateOverviewFunc == nil {
		return errNotImplemented
	}
	return f.updateOverviewFunc(ctx, token, id, details)
}

func (f *fakePortal) ListOverviewImages(ctx context.Context) ([]backend.OverviewImage, error) {
	if f.listOverviewImagesFunc == nil {
		return nil, errNotImplemented
	}
	return f.listOverviewImagesFunc(ctx)
}

func (f *fakePortal) CreateOverviewImage(ctx context.Context, token, imageBase64 string) error {
	if f.createOverviewImageFunc == nil {
		return errNotImplemented
	}
	return f.createOverviewImageFunc(ctx, token, imageBase64)
}

func (f *fakePortal) UpdateOverviewImage(ctx context.Context, token string, id int64, imageBase64 string) error {
	if f.updateOverviewImageFunc == nil {
		return errNotImplemented
	}
	return f.updateOverviewImageFunc(ctx, token, id, imageBase64)
}

func (f *fakePortal) DeleteOverviewImage(ctx context.Context, token string, id int64) error {
	if f.deleteOverviewImageFunc == nil {
		return errNotImplemented
	}
	return f.deleteOverviewImageFunc(ctx, token, id)
}

func (f *fakePortal) CreateLink(ctx context.Context, token string, in backend.LinkInput) error {
	if f.createLinkFunc == nil {
		return errNotImplemented
	}
	return f.createLinkFunc(ctx, token, in)
}

func (f *fakePortal) ListLinks(ctx context.Context) ([]backend.Link, error) {
	if f.listLinksFunc == nil {
		return nil, errNotImplemented
	}
	return f.listLinksFunc(ctx)
}

func (f *fakePortal) DeleteLink(ctx context.Context, token string, id int64) error {
	if f.deleteLinkFunc == nil {
		return errNotImplemented
	}
	return f.deleteLinkFunc(ctx, token, id)
}

func (f *fakePortal) UpdateLink(ctx context.Context, token string, id int64, in backend.LinkInput) error {
	if f.updateLinkFunc == nil {
		return errNotImplemented
	}
	return f.updateLinkFunc(ctx, token, id, in)
}

func (f *fakePortal) GetLink(ctx context.Context, token string, id int64) (backend.Link, error) {
	if f.getLinkFunc == nil {
		return backend.Link{}, errNotImplemented
	}
	return f.getLinkFunc(ctx, token, id)
}
