package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/fallback"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/records"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

// Profile load and image upload tiers, in the order they are tried.
const (
	TierRemote = "remote"
	TierCache  = "cache"

	TierUpdateEndpoint  = "update-endpoint"
	TierProfileEndpoint = "profile-endpoint"
	TierLocalCache      = "local-cache"
)

// DefaultCallingCode is shown by the cached profile when none is stored.
const DefaultCallingCode = "+94"

// UploadResult tells which tier stored the image and what to display.
type UploadResult struct {
	Tier string
	// Image is the remote image reference or the data URL kept locally.
	Image string
}

// ProfileService backs the profile screen.
//
// Contract:
//   - Load: ErrNoSession without a session, ErrSessionExpired on 401 (local
//     records are cleared), otherwise a view from the API or the cache.
//   - StageImage: keep one image for upload, rejecting oversized or non-image
//     files.
//   - UploadImage: send the staged image, falling back to the local cache.
type ProfileService interface {
	Load(ctx context.Context) (models.ProfileView, error)
	StageImage(img ImageFile) error
	Staged() (ImageFile, bool)
	UploadImage(ctx context.Context) (UploadResult, error)
}

type profileService struct {
	client  client.Client
	store   records.Store
	log     logging.Logger
	metrics *fallback.Metrics
	now     func() time.Time

	mu     sync.Mutex
	staged *ImageFile
}

// NewProfileService constructs a ProfileService. metrics may be nil.
func NewProfileService(c client.Client, store records.Store, log logging.Logger, metrics *fallback.Metrics) ProfileService {
	return &profileService{
		client:  c,
		store:   store,
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
}

func (p *profileService) session(ctx context.Context) (models.Session, error) {
	s, err := p.store.LoadSession(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	if !s.Valid() {
		return models.Session{}, ErrNoSession
	}
	return s, nil
}

// cachedUser returns the cached record only when it belongs to username.
func (p *profileService) cachedUser(ctx context.Context, username string) (models.CachedUser, bool) {
	u, ok, err := p.store.LoadUser(ctx)
	if err != nil {
		p.log.Warn(ctx, "load cached user", "error", err)
		return models.CachedUser{}, false
	}
	if !ok || u.Username != username {
		return models.CachedUser{}, false
	}
	return u, true
}

func (p *profileService) Load(ctx context.Context) (models.ProfileView, error) {
	s, err := p.session(ctx)
	if err != nil {
		return models.ProfileView{}, err
	}

	chain := fallback.New("profile", p.log, []fallback.Strategy[models.ProfileView]{
		{
			Name: TierRemote,
			Do: func(ctx context.Context) (models.ProfileView, error) {
				resp, err := p.client.GetProfile(ctx, client.ProfileRequest{Username: s.Username, Token: s.Token})
				if err != nil {
					return models.ProfileView{}, err
				}
				if !resp.Envelope.Succeeded() {
					return models.ProfileView{}, fmt.Errorf("profile rejected: %s", client.MessageFrom(resp.Envelope, "no success flag"))
				}
				return p.remoteView(ctx, s, resp.Envelope.ProfileDocument()), nil
			},
		},
		{
			Name: TierCache,
			Do: func(ctx context.Context) (models.ProfileView, error) {
				return p.cacheView(ctx, s), nil
			},
		},
	},
		fallback.WithHalt[models.ProfileView](func(err error) bool { return errors.Is(err, client.ErrUnauthorized) }),
		fallback.WithMetrics[models.ProfileView](p.metrics),
	)

	res := chain.Run(ctx)
	if errors.Is(res.Err, client.ErrUnauthorized) {
		if err := p.store.Logout(ctx); err != nil {
			p.log.Error(ctx, "clear local records after 401", "error", err)
		}
		return models.ProfileView{}, ErrSessionExpired
	}
	if res.Err != nil {
		return models.ProfileView{}, res.Err
	}
	return res.Value.Display(), nil
}

func (p *profileService) remoteView(ctx context.Context, s models.Session, doc client.ProfilePayload) models.ProfileView {
	code, number := splitMobile(doc.MobileNumber)
	v := models.ProfileView{
		Username:       firstNonEmpty(doc.Username, s.Username),
		FirstName:      doc.FirstName,
		LastName:       doc.LastName,
		Email:          doc.Email,
		Country:        doc.Country,
		CallingCode:    code,
		NationalNumber: number,
		ProfileImage:   doc.ProfileImage,
		CreatedAt:      parseTimestamp(doc.CreatedAt, p.now),
		UpdatedAt:      parseTimestamp(doc.UpdatedAt, p.now),
		Source:         models.SourceRemote,
	}
	if v.ProfileImage == "" {
		if u, ok := p.cachedUser(ctx, s.Username); ok {
			v.ProfileImage = u.ProfileImage
		}
	}
	return v
}

func (p *profileService) cacheView(ctx context.Context, s models.Session) models.ProfileView {
	u, _ := p.cachedUser(ctx, s.Username)
	now := p.now()
	return models.ProfileView{
		Username:       s.Username,
		FirstName:      firstNonEmpty(u.FirstName, s.Username),
		LastName:       u.LastName,
		Email:          u.Email,
		Country:        u.Country,
		CallingCode:    firstNonEmpty(u.CallingCode, DefaultCallingCode),
		NationalNumber: u.NationalNumber,
		ProfileImage:   u.ProfileImage,
		CreatedAt:      now,
		UpdatedAt:      now,
		Source:         models.SourceCache,
	}
}

// splitMobile splits "+94765433567" into "+94" and "765433567". The prefix is
// always three characters, so calling codes of other lengths are mis-split.
func splitMobile(s string) (code, number string) {
	if len(s) <= 3 {
		return s, ""
	}
	return s[:3], s[3:]
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseTimestamp(s string, now func() time.Time) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (p *profileService) StageImage(img ImageFile) error {
	if err := img.Check(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.staged = &img
	return nil
}

func (p *profileService) Staged() (ImageFile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.staged == nil {
		return ImageFile{}, false
	}
	return *p.staged, true
}

func imageAccepted(r *client.Response) bool { return r.Envelope.Succeeded() }

// UploadImage tries the dedicated image endpoint, then the profile endpoint
// with the image action marker, then keeps the image in the cached user
// record. The staged file is cleared when any tier succeeds.
func (p *profileService) UploadImage(ctx context.Context) (UploadResult, error) {
	img, ok := p.Staged()
	if !ok {
		return UploadResult{}, ErrNothingStaged
	}
	s, err := p.session(ctx)
	if err != nil {
		return UploadResult{}, err
	}

	dataURL := img.DataURL()
	req := client.ImageRequest{Username: s.Username, Token: s.Token, Image: img.Base64()}

	remote := func(call func(context.Context, client.ImageRequest) (*client.Response, error)) func(context.Context) (string, error) {
		return func(ctx context.Context) (string, error) {
			resp, err := call(ctx, req)
			if err != nil {
				return "", err
			}
			if !imageAccepted(resp) {
				return "", fmt.Errorf("upload rejected: %s", client.MessageFrom(resp.Envelope, "no success flag"))
			}
			return firstNonEmpty(resp.Envelope.ImagePath, resp.Envelope.ProfileImage, dataURL), nil
		}
	}

	chain := fallback.New("upload", p.log, []fallback.Strategy[string]{
		{Name: TierUpdateEndpoint, Do: remote(p.client.UpdateProfileImage)},
		{Name: TierProfileEndpoint, Do: remote(p.client.UpdateProfileViaProfile)},
		{
			Name: TierLocalCache,
			Do: func(ctx context.Context) (string, error) {
				u, ok := p.cachedUser(ctx, s.Username)
				if !ok {
					u = models.CachedUser{Username: s.Username}
				}
				u.ProfileImage = dataURL
				if err := p.store.SaveUser(ctx, u); err != nil {
					return "", fmt.Errorf("cache image: %w", err)
				}
				return dataURL, nil
			},
		},
	}, fallback.WithMetrics[string](p.metrics))

	res := chain.Run(ctx)
	if res.Err != nil {
		return UploadResult{}, res.Err
	}

	p.mu.Lock()
	p.staged = nil
	p.mu.Unlock()

	p.log.Info(ctx, "profile image stored", "tier", res.Strategy, "bytes", img.Size)
	return UploadResult{Tier: res.Strategy, Image: res.Value}, nil
}
