package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/records"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newProfileService(t *testing.T, fc *fakeClient, store records.Store) *profileService {
	t.Helper()
	svc := NewProfileService(fc, store, logging.NewNop(), nil).(*profileService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func loggedIn(t *testing.T, user *models.CachedUser) *records.KVStore {
	t.Helper()
	ctx := context.Background()
	store := records.NewMemoryStore()
	require.NoError(t, store.SaveSession(ctx, models.Session{Token: "tok", Username: "alice"}))
	if user != nil {
		require.NoError(t, store.SaveUser(ctx, *user))
	}
	return store
}

func TestProfile_Load_NoSession(t *testing.T) {
	fc := &fakeClient{}
	svc := newProfileService(t, fc, records.NewMemoryStore())

	_, err := svc.Load(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, fc.Calls)
}

func TestProfile_Load_Remote(t *testing.T) {
	fc := &fakeClient{Profile: ptr(ok(client.Envelope{
		IsSuccess: client.Bool(true),
		Profile: &client.ProfilePayload{
			Username:     "alice",
			FirstName:    "Alice",
			Email:        "alice@example.com",
			Country:      "Sri Lanka",
			MobileNumber: "+94771234567",
			ProfileImage: "https://img/alice.png",
			CreatedAt:    "2024-01-02T03:04:05Z",
		},
	}))}
	svc := newProfileService(t, fc, loggedIn(t, nil))

	v, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SourceRemote, v.Source)
	assert.Equal(t, "Alice", v.FirstName)
	assert.Equal(t, models.NotAvailable, v.LastName)
	assert.Equal(t, "+94", v.CallingCode)
	assert.Equal(t, "771234567", v.NationalNumber)
	assert.Equal(t, "https://img/alice.png", v.ProfileImage)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), v.CreatedAt)
	assert.Equal(t, fixedNow, v.UpdatedAt)
}

func TestProfile_Load_RemoteInlineUsesCachedImage(t *testing.T) {
	store := loggedIn(t, &models.CachedUser{Username: "alice", ProfileImage: "data:image/png;base64,AAAA"})
	fc := &fakeClient{Profile: ptr(ok(client.Envelope{
		Success:        client.Bool(true),
		ProfilePayload: client.ProfilePayload{FirstName: "Alice"},
	}))}
	svc := newProfileService(t, fc, store)

	v, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", v.Username)
	assert.Equal(t, "data:image/png;base64,AAAA", v.ProfileImage)
}

func TestProfile_Load_UnauthorizedClearsRecords(t *testing.T) {
	ctx := context.Background()
	store := loggedIn(t, &models.CachedUser{Username: "alice", FirstName: "Alice"})
	fc := &fakeClient{Profile: ptr(status(http.StatusUnauthorized, client.Envelope{}))}
	svc := newProfileService(t, fc, store)

	v, err := svc.Load(ctx)
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, models.ProfileView{}, v)

	s, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.False(t, s.Valid())
	_, found, err := store.LoadUser(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProfile_Load_FallsBackToCache(t *testing.T) {
	tests := []struct {
		name  string
		reply *reply
	}{
		{"network error", ptr(failed(client.ErrUnavailable))},
		{"malformed body", ptr(reply{resp: &client.Response{StatusCode: http.StatusOK}})},
		{"server error", ptr(status(http.StatusInternalServerError, client.Envelope{}))},
		{"explicit failure", ptr(ok(client.Envelope{IsSuccess: client.Bool(false)}))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := loggedIn(t, &models.CachedUser{Username: "alice", LastName: "Perera", NationalNumber: "0771234567"})
			svc := newProfileService(t, &fakeClient{Profile: tt.reply}, store)

			v, err := svc.Load(context.Background())
			require.NoError(t, err)

			assert.Equal(t, models.ProfileView{
				Username:       "alice",
				FirstName:      "alice",
				LastName:       "Perera",
				Email:          models.NotAvailable,
				Country:        models.NotAvailable,
				CallingCode:    DefaultCallingCode,
				NationalNumber: "0771234567",
				CreatedAt:      fixedNow,
				UpdatedAt:      fixedNow,
				Source:         models.SourceCache,
			}, v)
		})
	}
}

func TestProfile_Load_IgnoresOtherUsersCache(t *testing.T) {
	store := loggedIn(t, &models.CachedUser{Username: "bob", FirstName: "Bob", Email: "bob@example.com"})
	svc := newProfileService(t, &fakeClient{}, store)

	v, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", v.FirstName)
	assert.Equal(t, models.NotAvailable, v.Email)
}

func TestSplitMobile(t *testing.T) {
	tests := []struct{ in, code, number string }{
		{"+94771234567", "+94", "771234567"},
		{"+4420", "+44", "20"},
		{"+1", "+1", ""},
		{"", "", ""},
		// codes of other lengths are mis-split
		{"+15551234567", "+15", "551234567"},
	}
	for _, tt := range tests {
		code, number := splitMobile(tt.in)
		assert.Equal(t, tt.code, code, tt.in)
		assert.Equal(t, tt.number, number, tt.in)
	}
}

func TestParseTimestamp(t *testing.T) {
	now := func() time.Time { return fixedNow }
	assert.Equal(t, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), parseTimestamp("2024-05-06 07:08:09", now))
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), parseTimestamp("2024-05-06", now))
	assert.Equal(t, fixedNow, parseTimestamp("", now))
	assert.Equal(t, fixedNow, parseTimestamp("yesterday", now))
}

func pngFile(size int64) ImageFile {
	return ImageFile{Name: "a.png", ContentType: "image/png", Size: size, Data: []byte{1, 2, 3}}
}

func TestProfile_StageImage(t *testing.T) {
	svc := newProfileService(t, &fakeClient{}, records.NewMemoryStore())

	require.ErrorIs(t, svc.StageImage(pngFile(MaxImageBytes+1)), ErrImageTooLarge)
	require.ErrorIs(t, svc.StageImage(ImageFile{Name: "a.pdf", ContentType: "application/pdf", Size: 10}), ErrNotAnImage)
	_, staged := svc.Staged()
	assert.False(t, staged)

	require.NoError(t, svc.StageImage(pngFile(MaxImageBytes)))
	img, staged := svc.Staged()
	assert.True(t, staged)
	assert.Equal(t, "a.png", img.Name)
}

func TestProfile_UploadImage_NothingStaged(t *testing.T) {
	fc := &fakeClient{}
	svc := newProfileService(t, fc, loggedIn(t, nil))

	_, err := svc.UploadImage(context.Background())
	require.ErrorIs(t, err, ErrNothingStaged)
	assert.Empty(t, fc.Calls)
}

func TestProfile_UploadImage_Tiers(t *testing.T) {
	const dataURL = "data:image/png;base64,AQID"

	tests := []struct {
		name      string
		update    *reply
		viaProf   *reply
		wantTier  string
		wantImage string
		wantCalls []string
	}{
		{
			name:      "update endpoint",
			update:    ptr(ok(client.Envelope{IsSuccess: client.Bool(true), ImagePath: "/img/a.png"})),
			wantTier:  TierUpdateEndpoint,
			wantImage: "/img/a.png",
			wantCalls: []string{"UpdateProfileImage"},
		},
		{
			name:      "profile endpoint",
			update:    ptr(status(http.StatusNotFound, client.Envelope{})),
			viaProf:   ptr(ok(client.Envelope{Success: client.Bool(true), ProfilePayload: client.ProfilePayload{ProfileImage: "/img/b.png"}})),
			wantTier:  TierProfileEndpoint,
			wantImage: "/img/b.png",
			wantCalls: []string{"UpdateProfileImage", "UpdateProfileViaProfile"},
		},
		{
			name:      "accepted without reference",
			update:    ptr(ok(client.Envelope{IsSuccess: client.Bool(true)})),
			wantTier:  TierUpdateEndpoint,
			wantImage: dataURL,
			wantCalls: []string{"UpdateProfileImage"},
		},
		{
			name:      "local cache",
			update:    ptr(ok(client.Envelope{IsSuccess: client.Bool(false)})),
			wantTier:  TierLocalCache,
			wantImage: dataURL,
			wantCalls: []string{"UpdateProfileImage", "UpdateProfileViaProfile"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{UpdateImage: tt.update, ProfileImage: tt.viaProf}
			svc := newProfileService(t, fc, loggedIn(t, nil))
			require.NoError(t, svc.StageImage(pngFile(3)))

			res, err := svc.UploadImage(context.Background())
			require.NoError(t, err)
			assert.Equal(t, UploadResult{Tier: tt.wantTier, Image: tt.wantImage}, res)
			assert.Equal(t, tt.wantCalls, fc.Calls)
			assert.Equal(t, client.ImageRequest{Username: "alice", Token: "tok", Image: "AQID"}, fc.LastImage)

			_, staged := svc.Staged()
			assert.False(t, staged)
		})
	}
}

func TestProfile_LocalImageSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := loggedIn(t, &models.CachedUser{Username: "alice", FirstName: "Alice"})

	first := newProfileService(t, &fakeClient{}, store)
	require.NoError(t, first.StageImage(pngFile(3)))
	res, err := first.UploadImage(ctx)
	require.NoError(t, err)
	require.Equal(t, TierLocalCache, res.Tier)

	// a fresh screen with the same storage and an unreachable API
	fc := &fakeClient{}
	second := newProfileService(t, fc, store)
	v, err := second.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.SourceCache, v.Source)
	assert.Equal(t, res.Image, v.ProfileImage)
	assert.Equal(t, "Alice", v.FirstName)
	assert.Equal(t, []string{"GetProfile"}, fc.Calls)
}
