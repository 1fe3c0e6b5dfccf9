package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/services"
)

// Login prompts for credentials and signs in. On success the profile screen
// is opened. Validation and remote failures are printed and returned.
func (a *App) Login(ctx context.Context) error {
	return a.guard(func() error {
		a.screen = ScreenLogin

		userName, err := getSimpleText(a.reader, "Enter username", a.out)
		if err != nil {
			return err
		}

		password, err := getPassword(a.reader, a.ttyFd, "Enter password", a.out)
		if err != nil {
			return err
		}
		defer wipe(password)

		a.println("Logging in...")
		s, err := a.svc.Auth.Login(ctx, models.Credentials{Username: userName, Password: string(password)})
		if err != nil {
			a.report(err)
			return err
		}

		a.userName = s.Username
		a.println("Login successful")
		return a.navigate(ctx, ScreenProfile)
	})
}

// Logout removes the stored session and cached user and shows the login
// screen.
func (a *App) Logout(ctx context.Context) error {
	return a.guard(func() error {
		if err := a.svc.Auth.Logout(ctx); err != nil {
			a.report(err)
			return err
		}
		a.userName = ""
		a.Mode = ""
		a.println("Logged out")
		return a.navigate(ctx, ScreenLogin)
	})
}

// Status prints the stored records and session. The token expiry is shown
// only when the token is a JWT carrying an exp claim.
func (a *App) Status(ctx context.Context) error {
	a.println("Screen:", string(a.screen))

	keys, err := a.svc.Auth.StoredRecords(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	if len(keys) == 0 {
		a.println("Stored records: none")
	} else {
		a.println("Stored records:", strings.Join(keys, ", "))
	}

	s, err := a.svc.Auth.Session(ctx)
	if errors.Is(err, services.ErrNoSession) {
		a.println("Not logged in")
		return nil
	}
	if err != nil {
		a.report(err)
		return err
	}

	a.println("User:", s.Username)
	if a.Mode != "" {
		a.println("Mode:", string(a.Mode))
	}
	if exp, ok := s.ExpiresAt(); ok {
		a.println("Token expires:", exp.Local().Format(time.DateTime))
	}
	if img, ok := a.svc.Profile.Staged(); ok {
		a.println("Selected image:", img.Name)
	}
	return nil
}
