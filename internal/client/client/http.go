package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/google/uuid"
)

// DefaultTimeout bounds every remote call.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of a reply is read.
const maxBodyBytes = 8 << 20

const (
	pathLogin         = "/Login"
	pathRegister      = "/Register"
	pathGetProfile    = "/GetProfile"
	pathUpdateImage   = "/UpdateProfileImage"
	pathCountryList   = "/GetCountryList"
	pathCountryCode   = "/GetCountryIDDCode"
	pathValidateMob   = "/ValidateMobileNumber"
	pathValidateEmail = "/ValidateEmail"
)

const RequestIDHeader = "X-Request-ID"

type field struct {
	name, value string
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	accountURL string
	commonURL  string
	timeout    time.Duration
	http       *http.Client
	log        logging.Logger
	requestID  func() string
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithRequestID replaces the X-Request-ID generator.
func WithRequestID(fn func() string) Option {
	return func(c *HTTPClient) { c.requestID = fn }
}

// NewHTTPClient builds a client for the account endpoints under accountURL
// and the shared lookup endpoints under commonURL. A non-positive timeout
// means DefaultTimeout.
func NewHTTPClient(accountURL, commonURL string, timeout time.Duration, log logging.Logger, opts ...Option) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &HTTPClient{
		accountURL: strings.TrimRight(accountURL, "/"),
		commonURL:  strings.TrimRight(commonURL, "/"),
		timeout:    timeout,
		http:       &http.Client{Timeout: timeout},
		log:        log,
		requestID:  uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *HTTPClient) Login(ctx context.Context, req LoginRequest, enc Encoding) (*Response, error) {
	return c.post(ctx, c.accountURL+pathLogin, enc, []field{
		{"username", req.Username},
		{"password", req.Password},
	})
}

func (c *HTTPClient) GetProfile(ctx context.Context, req ProfileRequest) (*Response, error) {
	return c.post(ctx, c.accountURL+pathGetProfile, EncodingMultipart, []field{
		{"username", req.Username},
		{"token", req.Token},
	})
}

func (c *HTTPClient) UpdateProfileImage(ctx context.Context, req ImageRequest) (*Response, error) {
	return c.post(ctx, c.accountURL+pathUpdateImage, EncodingMultipart, []field{
		{"username", req.Username},
		{"token", req.Token},
		{"profileImage", req.Image},
	})
}

func (c *HTTPClient) UpdateProfileViaProfile(ctx context.Context, req ImageRequest) (*Response, error) {
	return c.post(ctx, c.accountURL+pathGetProfile, EncodingMultipart, []field{
		{"username", req.Username},
		{"token", req.Token},
		{"profileImage", req.Image},
		{"action", ImageAction},
	})
}

func (c *HTTPClient) CountryList(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.commonURL+pathCountryList, EncodingMultipart, nil)
}

func (c *HTTPClient) CountryCode(ctx context.Context, country string) (*Response, error) {
	return c.post(ctx, c.commonURL+pathCountryCode, EncodingMultipart, []field{
		{"country", country},
	})
}

func (c *HTTPClient) ValidateMobileNumber(ctx context.Context, req MobileRequest) (*Response, error) {
	return c.post(ctx, c.commonURL+pathValidateMob, EncodingMultipart, []field{
		{"iddCode", req.CallingCode},
		{"nationalNumber", req.NationalNumber},
		{"userName", req.Username},
	})
}

func (c *HTTPClient) ValidateEmail(ctx context.Context, email string) (*Response, error) {
	return c.post(ctx, c.commonURL+pathValidateEmail, EncodingMultipart, []field{
		{"email", email},
	})
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*Response, error) {
	return c.post(ctx, c.accountURL+pathRegister, EncodingMultipart, []field{
		{"username", req.Username},
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"country", req.Country},
		{"iddCode", req.CallingCode},
		{"nationalNumber", req.NationalNumber},
		{"email", req.Email},
		{"password", req.Password},
		{"confirmPassword", req.ConfirmPassword},
	})
}

func (c *HTTPClient) post(ctx context.Context, url string, enc Encoding, fields []field) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, enc, fields)
}

func (c *HTTPClient) do(ctx context.Context, method, url string, enc Encoding, fields []field) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, method, url, enc, fields)
	if err != nil {
		return nil, err
	}

	reqID := req.Header.Get(RequestIDHeader)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "remote call failed", "url", url, "request_id", reqID, "error", err)
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.log.Warn(ctx, "reading reply failed", "url", url, "request_id", reqID, "error", err)
		return nil, mapError(err)
	}

	env, decoded := decodeEnvelope(body)
	c.log.Debug(ctx, "remote call", "url", url, "method", method, "encoding", enc.String(),
		"status", resp.StatusCode, "decoded", decoded, "request_id", reqID, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Envelope: env}
	}
	return &Response{StatusCode: resp.StatusCode, Envelope: env, Decoded: decoded}, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, url string, enc Encoding, fields []field) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)

	if fields != nil {
		switch enc {
		case EncodingJSON:
			obj := make(map[string]string, len(fields))
			for _, f := range fields {
				obj[f.name] = f.value
			}
			raw, err := json.Marshal(obj)
			if err != nil {
				return nil, fmt.Errorf("encode json body: %w", err)
			}
			body, contentType = bytes.NewReader(raw), "application/json"

		default:
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			for _, f := range fields {
				if err := mw.WriteField(f.name, f.value); err != nil {
					return nil, fmt.Errorf("encode form field %s: %w", f.name, err)
				}
			}
			if err := mw.Close(); err != nil {
				return nil, fmt.Errorf("encode form: %w", err)
			}
			body, contentType = &buf, mw.FormDataContentType()
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if enc == EncodingJSON {
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	req.Header.Set(RequestIDHeader, c.requestID())
	return req, nil
}

// mapError converts transport failures, timeouts included, into ErrUnavailable.
func mapError(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
