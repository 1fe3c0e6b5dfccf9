package services

import "errors"

var (
	// ErrNoSession means no token/username pair is stored; the caller must
	// go to the login screen without calling the API.
	ErrNoSession = errors.New("not logged in")
	// ErrSessionExpired means the API answered 401. Local records have
	// already been cleared.
	ErrSessionExpired = errors.New("session expired, please log in again")

	ErrImageTooLarge = errors.New("file size must be less than 5MB")
	ErrNotAnImage    = errors.New("please select an image file")
	ErrNothingStaged = errors.New("please select a file first")
)
