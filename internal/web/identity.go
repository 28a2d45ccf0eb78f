package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	clientCookieName = "pp_client"
	markerCookieName = "pp_session_active"
	clientIssuer     = "heritage-portal"
)

var errInvalidClientToken = errors.New("invalid client token")

// identity names the browser's durable storage namespace with a signed,
// long-lived cookie whose subject is a random client id.
type identity struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

func newIdentity(secret string, maxAge time.Duration, secure bool) (*identity, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("cookie secret is required")
	}
	if maxAge <= 0 {
		maxAge = 365 * 24 * time.Hour
	}
	return &identity{secret: []byte(secret), maxAge: maxAge, secure: secure, now: time.Now}, nil
}

func (id *identity) issue(clientID string) (string, error) {
	now := id.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    clientIssuer,
		Subject:   clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(id.maxAge)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(id.secret)
}

func (id *identity) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return id.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(clientIssuer),
		jwt.WithTimeFunc(id.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidClientToken, err)
	}
	if !parsed.Valid {
		return "", errInvalidClientToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errInvalidClientToken
	}
	return claims.Subject, nil
}

// clientID returns the id from a valid cookie, or mints a new one and sets
// the cookie. A tampered or expired cookie is replaced, which starts an
// empty namespace.
func (id *identity) clientID(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(clientCookieName); err == nil {
		if cid, err := id.parse(c.Value); err == nil {
			return cid, nil
		}
	}
	cid := uuid.NewString()
	token, err := id.issue(cid)
	if err != nil {
		return "", fmt.Errorf("sign client token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(id.maxAge / time.Second),
		HttpOnly: true,
		Secure:   id.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return cid, nil
}

// cookieMarker is the per-browsing-session flag carried in a cookie
// without Max-Age, so the browser drops it when it exits.
type cookieMarker struct {
	w      http.ResponseWriter
	active bool
	secure bool
}

func newCookieMarker(w http.ResponseWriter, r *http.Request, secure bool) *cookieMarker {
	m := &cookieMarker{w: w, secure: secure}
	if c, err := r.Cookie(markerCookieName); err == nil && c.Value == "true" {
		m.active = true
	}
	return m
}

func (m *cookieMarker) Active() bool { return m.active }

func (m *cookieMarker) Activate() {
	if m.active {
		return
	}
	m.active = true
	http.SetCookie(m.w, &http.Cookie{
		Name:     markerCookieName,
		Value:    "true",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *cookieMarker) Clear() {
	m.active = false
	http.SetCookie(m.w, &http.Cookie{
		Name:     markerCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// expireCookie removes a cookie set by the remote API on our origin.
func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
}
