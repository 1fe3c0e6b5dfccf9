// Package models defines client-side data models used by the gophprofile CLI.
package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials are collected per login attempt and discarded afterwards.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// Session is the persisted result of a successful login. The token is opaque.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Valid reports whether both the token and the username are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.Username != ""
}

// ExpiresAt returns the exp claim when the token happens to be a JWT.
// The signature is not verified; the value is informational only.
func (s Session) ExpiresAt() (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// RegistrationForm mirrors the registration screen fields.
type RegistrationForm struct {
	Username        string `json:"username" validate:"required,min=3"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName"`
	Country         string `json:"country" validate:"required"`
	CallingCode     string `json:"iddCode" validate:"required"`
	NationalNumber  string `json:"nationalNumber" validate:"required,min=9,max=10,digits"`
	Email           string `json:"email" validate:"required,emailshape"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// Normalized returns a copy with surrounding whitespace removed from every
// text field except the passwords.
func (f RegistrationForm) Normalized() RegistrationForm {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Country = strings.TrimSpace(f.Country)
	f.CallingCode = strings.TrimSpace(f.CallingCode)
	f.NationalNumber = strings.TrimSpace(f.NationalNumber)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

// CachedUser is the locally cached user record used when the remote profile
// cannot be fetched. ProfileImage holds a data URL when an image was stored
// locally.
type CachedUser struct {
	Username       string `json:"username"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email,omitempty"`
	Country        string `json:"country,omitempty"`
	CallingCode    string `json:"iddCode,omitempty"`
	NationalNumber string `json:"nationalNumber,omitempty"`
	ProfileImage   string `json:"profileImage,omitempty"`
}

// CountryEntry is one item of the country selector.
type CountryEntry struct {
	Country string `json:"country"`
}
