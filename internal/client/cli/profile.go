package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/services"
)

// readImageFile is a test seam for services.ReadImageFile.
var readImageFile = services.ReadImageFile

// Profile reloads and prints the profile screen.
func (a *App) Profile(ctx context.Context) error {
	return a.guard(func() error {
		return a.navigate(ctx, ScreenProfile)
	})
}

func (a *App) showProfile(ctx context.Context) (Screen, error) {
	a.println("Loading profile...")
	v, err := a.svc.Profile.Load(ctx)
	switch {
	case errors.Is(err, services.ErrSessionExpired):
		a.println("Your session has expired. Please log in again.")
		a.userName, a.Mode = "", ""
		return ScreenLogin, nil
	case errors.Is(err, services.ErrNoSession):
		a.userName, a.Mode = "", ""
		return ScreenLogin, nil
	case err != nil:
		a.report(err)
		return "", err
	}

	a.userName = v.Username
	if v.Source == models.SourceRemote {
		a.setMode(ModeOnline)
	} else {
		a.setMode(ModeOffline)
		a.println("The server could not be reached; showing locally saved details.")
	}
	renderProfile(a.out, v)
	return "", nil
}

// Select reads the image at path and keeps it for the next upload.
func (a *App) Select(ctx context.Context, path string) error {
	return a.guard(func() error {
		return a.selectImage(path)
	})
}

func (a *App) selectImage(path string) error {
	img, err := readImageFile(path)
	if err == nil {
		err = a.svc.Profile.StageImage(img)
	}
	switch {
	case errors.Is(err, services.ErrImageTooLarge):
		a.println("File size must be less than 5MB")
		return err
	case errors.Is(err, services.ErrNotAnImage):
		a.println("Please select an image file")
		return err
	case err != nil:
		a.report(err)
		return err
	}
	a.println(fmt.Sprintf("Selected %s (%s, %s)", img.Name, img.ContentType, humanSize(img.Size)))
	return nil
}

// Upload sends the selected image. With a non-empty path the file is
// selected first.
func (a *App) Upload(ctx context.Context, path string) error {
	return a.guard(func() error {
		if path != "" {
			if err := a.selectImage(path); err != nil {
				return err
			}
		}

		a.println("Uploading...")
		res, err := a.svc.Profile.UploadImage(ctx)
		switch {
		case errors.Is(err, services.ErrNothingStaged):
			a.println("Please select a file first")
			return err
		case errors.Is(err, services.ErrNoSession):
			a.println("Please log in first")
			return err
		case err != nil:
			a.println("Failed to upload image. Please try again.")
			return err
		}

		if res.Tier == services.TierLocalCache {
			a.println("Profile image saved locally; the server did not accept it.")
		} else {
			a.println("Profile image updated successfully!")
		}
		a.println("Image:", describeImage(res.Image))
		return nil
	})
}

// renderProfile prints v in a fixed layout.
func renderProfile(w io.Writer, v models.ProfileView) {
	v = v.Display()
	name := strings.TrimSpace(strings.Join(nonPlaceholder(v.FirstName, v.LastName), " "))
	if name == "" {
		name = models.NotAvailable
	}
	mobile := v.NationalNumber
	if mobile != models.NotAvailable && v.CallingCode != models.NotAvailable {
		mobile = v.CallingCode + " " + mobile
	}

	rows := []struct{ label, value string }{
		{"Username", v.Username},
		{"Name", name},
		{"Email", v.Email},
		{"Country", v.Country},
		{"Mobile", mobile},
		{"Image", describeImage(v.ProfileImage)},
		{"Member since", formatDate(v.CreatedAt)},
		{"Last updated", formatDate(v.UpdatedAt)},
		{"Source", string(v.Source)},
	}

	fmt.Fprintln(w, "My Profile")
	for _, r := range rows {
		fmt.Fprintf(w, "  %-13s %s\n", r.label+":", r.value)
	}
}

func nonPlaceholder(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != models.NotAvailable {
			out = append(out, v)
		}
	}
	return out
}

func describeImage(ref string) string {
	switch {
	case ref == "":
		return "none"
	case strings.HasPrefix(ref, "data:"):
		mediaType, _, _ := strings.Cut(strings.TrimPrefix(ref, "data:"), ";")
		return fmt.Sprintf("embedded %s (%d characters)", mediaType, len(ref))
	default:
		return ref
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return models.NotAvailable
	}
	return t.Local().Format("January 2, 2006")
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
