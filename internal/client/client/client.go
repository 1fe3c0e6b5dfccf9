package client

import (
	"context"
)

// Encoding selects how request fields are sent.
type Encoding int

const (
	// EncodingMultipart sends fields as multipart/form-data.
	EncodingMultipart Encoding = iota
	// EncodingJSON sends a JSON object with explicit JSON and
	// X-Requested-With headers.
	EncodingJSON
)

func (e Encoding) String() string {
	if e == EncodingJSON {
		return "json"
	}
	return "multipart"
}

// ImageAction is the marker sent when the profile endpoint is asked to store
// an image.
const ImageAction = "updateProfileImage"

type LoginRequest struct {
	Username string
	Password string
}

type ProfileRequest struct {
	Username string
	Token    string
}

type ImageRequest struct {
	Username string
	Token    string
	// Image is the base64 payload without the data URL prefix.
	Image string
}

type MobileRequest struct {
	CallingCode    string
	NationalNumber string
	Username       string
}

type RegisterRequest struct {
	Username        string
	FirstName       string
	LastName        string
	Country         string
	CallingCode     string
	NationalNumber  string
	Email           string
	Password        string
	ConfirmPassword string
}

// Response is a decoded 2xx reply. Decoded is false when the body was not a
// JSON object.
type Response struct {
	StatusCode int
	Envelope   Envelope
	Decoded    bool
}

// Client is the remote account API. Every method performs exactly one HTTP
// call and honours ctx.
type Client interface {
	Login(ctx context.Context, req LoginRequest, enc Encoding) (*Response, error)
	GetProfile(ctx context.Context, req ProfileRequest) (*Response, error)
	UpdateProfileImage(ctx context.Context, req ImageRequest) (*Response, error)
	UpdateProfileViaProfile(ctx context.Context, req ImageRequest) (*Response, error)
	CountryList(ctx context.Context) (*Response, error)
	CountryCode(ctx context.Context, country string) (*Response, error)
	ValidateMobileNumber(ctx context.Context, req MobileRequest) (*Response, error)
	ValidateEmail(ctx context.Context, email string) (*Response, error)
	Register(ctx context.Context, req RegisterRequest) (*Response, error)
}
