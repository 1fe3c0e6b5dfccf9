package models

import "time"

// NotAvailable is rendered for profile fields that have no known value.
const NotAvailable = "Not available"

// ProfileSource tells where a ProfileView was built from.
type ProfileSource string

const (
	SourceRemote ProfileSource = "remote"
	SourceCache  ProfileSource = "cache"
)

// ProfileView is built fresh on every profile load.
type ProfileView struct {
	Username       string
	FirstName      string
	LastName       string
	Email          string
	Country        string
	CallingCode    string
	NationalNumber string

	// ProfileImage is either a remote URL/path or a data URL.
	ProfileImage string

	CreatedAt time.Time
	UpdatedAt time.Time

	Source ProfileSource
}

// Display returns v with empty fields replaced by NotAvailable.
func (v ProfileView) Display() ProfileView {
	for _, f := range []*string{&v.FirstName, &v.LastName, &v.Email, &v.Country, &v.CallingCode, &v.NationalNumber} {
		if *f == "" {
			*f = NotAvailable
		}
	}
	return v
}
