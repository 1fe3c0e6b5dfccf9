package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

// Register walks through the registration form. The calling code is looked
// up from the chosen country and is never typed in: when the lookup has no
// answer it stays blank and validation rejects the form. On success the
// login screen is shown; no session is created.
func (a *App) Register(ctx context.Context) error {
	return a.guard(func() error {
		a.screen = ScreenRegister

		var f models.RegistrationForm
		var err error

		prompts := []struct {
			prompt string
			dst    *string
		}{
			{"Username", &f.Username},
			{"First name", &f.FirstName},
			{"Last name", &f.LastName},
		}
		for _, p := range prompts {
			if *p.dst, err = getSimpleText(a.reader, p.prompt, a.out); err != nil {
				return err
			}
		}

		if f.Country, err = a.chooseCountry(ctx); err != nil {
			return err
		}

		f.CallingCode = a.svc.Directory.CallingCode(ctx, f.Country)
		if f.CallingCode == "" {
			a.println("Calling code: not available for", f.Country)
		} else {
			a.println("Calling code:", f.CallingCode)
		}

		if f.NationalNumber, err = getSimpleText(a.reader, "Mobile number (without calling code)", a.out); err != nil {
			return err
		}
		if f.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}

		password, err := getPassword(a.reader, a.ttyFd, "Password", a.out)
		if err != nil {
			return err
		}
		defer wipe(password)
		confirm, err := getPassword(a.reader, a.ttyFd, "Confirm password", a.out)
		if err != nil {
			return err
		}
		defer wipe(confirm)
		f.Password, f.ConfirmPassword = string(password), string(confirm)

		a.println("Registering...")
		if err := a.svc.Registration.Register(ctx, f); err != nil {
			a.report(err)
			return err
		}

		a.println("Registration successful. Please log in.")
		return a.navigate(ctx, ScreenLogin)
	})
}

// chooseCountry prints the country list and accepts either its number or a
// listed country name, asking again until the answer matches an entry.
func (a *App) chooseCountry(ctx context.Context) (string, error) {
	list := a.svc.Directory.Countries(ctx)
	printCountries(a, list)

	for {
		answer, err := getSimpleText(a.reader, "Country (number or name)", a.out)
		if err != nil {
			return "", err
		}
		if country, ok := matchCountry(list, answer); ok {
			return country, nil
		}
		a.println("Please select a country from the list.")
	}
}

func matchCountry(list []models.CountryEntry, answer string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(list) {
		return list[n-1].Country, true
	}
	for _, c := range list {
		if strings.EqualFold(c.Country, answer) {
			return c.Country, true
		}
	}
	return "", false
}

// Countries prints the selectable countries.
func (a *App) Countries(ctx context.Context) error {
	return a.guard(func() error {
		printCountries(a, a.svc.Directory.Countries(ctx))
		return nil
	})
}

func printCountries(a *App, list []models.CountryEntry) {
	for i, c := range list {
		a.println(fmt.Sprintf("%3d. %s", i+1, c.Country))
	}
}
