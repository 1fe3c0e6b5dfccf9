// Package cli provides the interactive gpcli command-line client.
//
// The client has three screens: login, register and profile. Commands run
// one at a time; a command that finishes on another screen hands over to it
// (login success opens the profile, registration success returns to login,
// an expired session on the profile returns to login).
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
