package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dmitrijs2005/gophprofile/internal/client/services"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

// Mode tells whether the profile on screen came from the API or the cache.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Screen is one of the three views of the client.
type Screen string

const (
	ScreenLogin    Screen = "login"
	ScreenRegister Screen = "register"
	ScreenProfile  Screen = "profile"
)

// Services bundles the application services used by the App.
type Services struct {
	Auth         services.AuthService
	Registration services.RegistrationService
	Directory    services.DirectoryService
	Profile      services.ProfileService
}

type App struct {
	svc    Services
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
	ttyFd  int

	userName string
	Mode     Mode
	screen   Screen

	busy atomic.Bool
}

// NewApp reads commands and prompts from in and writes to out.
func NewApp(svc Services, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		svc:    svc,
		log:    log,
		reader: bufio.NewReader(in),
		out:    out,
		ttyFd:  terminalFd(in),
		screen: ScreenLogin,
	}
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	s := string(a.screen)
	if a.userName != "" {
		s = a.userName + " " + s
	}
	if a.Mode != "" {
		s = s + " " + string(a.Mode)
	}
	return fmt.Sprintf("(%s)", s)
}

// errBusy is returned when a command starts while another is running.
var errBusy = errors.New("another command is still running")

// guard runs fn unless another guarded command is in flight.
func (a *App) guard(fn func() error) error {
	if !a.busy.CompareAndSwap(false, true) {
		a.println("Please wait: " + errBusy.Error())
		return errBusy
	}
	defer a.busy.Store(false)
	return fn()
}

// navigate enters screen s and follows every hand-over it triggers.
func (a *App) navigate(ctx context.Context, s Screen) error {
	var err error
	for s != "" {
		s, err = a.enter(ctx, s)
	}
	return err
}

func (a *App) enter(ctx context.Context, s Screen) (Screen, error) {
	a.screen = s
	switch s {
	case ScreenProfile:
		return a.showProfile(ctx)
	case ScreenRegister:
		a.println("Type 'register' to create an account or 'login' to sign in.")
	default:
		a.println("Type 'login' to sign in or 'register' to create an account.")
	}
	return "", nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
