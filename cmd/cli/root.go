package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophprofile/internal/client/cli"
	"github.com/dmitrijs2005/gophprofile/internal/client/config"
	"github.com/spf13/cobra"
)

// newRootCmd builds the gpcli command tree. Without a subcommand the
// interactive client is started; every subcommand runs one screen action
// and exits.
func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "gpcli",
		Short: "Sign in, register and manage your profile",
		Long: `gpcli is a terminal client for the account API. Usage:

	gpcli                 start the interactive client
	gpcli login           sign in and show the profile
	gpcli upload me.png   upload a profile image
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(in, out, func(ctx context.Context, app *cli.App, _ []string) error {
			return app.Root(ctx)
		}),
	}
	config.RegisterFlags(root.PersistentFlags())

	sub := []struct {
		use, short string
		args       cobra.PositionalArgs
		run        func(ctx context.Context, app *cli.App, args []string) error
	}{
		{"login", "Sign in and show the profile", cobra.NoArgs, func(ctx context.Context, app *cli.App, _ []string) error {
			return app.Login(ctx)
		}},
		{"register", "Create an account", cobra.NoArgs, func(ctx context.Context, app *cli.App, _ []string) error {
			return app.Register(ctx)
		}},
		{"profile", "Show the profile of the signed-in user", cobra.NoArgs, func(ctx context.Context, app *cli.App, _ []string) error {
			return app.Profile(ctx)
		}},
		{"upload <file>", "Upload a profile image (max 5MB)", cobra.ExactArgs(1), func(ctx context.Context, app *cli.App, args []string) error {
			return app.Upload(ctx, args[0])
		}},
		{"countries", "List the selectable countries", cobra.NoArgs, func(ctx context.Context, app *cli.App, _ []string) error {
			return app.Countries(ctx)
		}},
		{"logout", "Remove the stored session", cobra.NoArgs, func(ctx context.Context, app *cli.App, _ []string) error {
			return app.Logout(ctx)
		}},
	}
	for _, s := range sub {
		root.AddCommand(&cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  s.args,
			RunE:  withApp(in, out, s.run),
		})
	}
	return root
}

// withApp wires the client for a single command and tears it down afterwards.
func withApp(in io.Reader, out io.Writer, fn func(ctx context.Context, app *cli.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := setup(ctx, cmd.Flags(), in, out)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			return err
		}
		defer func() {
			if err := rt.Close(ctx); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			}
		}()

		return fn(ctx, rt.app, args)
	}
}
