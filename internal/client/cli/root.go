// Package cli is the navigator terminal client: one-shot cobra commands and
// an interactive shell over the same App.
package cli

import (
	"context"

	"booknav/internal/client/config"
	"booknav/internal/logging"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Server     string
	CachePath  string
	LogLevel   string
	Verbose    bool
}

// NewRootCommand creates the navigator command tree. Without a subcommand
// it starts the shell.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "navigator",
		Short:         "Search Google Books and keep a personal library",
		Long:          "navigator searches the Google Books catalog and saves books to your library on the booknav server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *App) error {
				a.Shell(ctx)
				return nil
			})
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath(), "path to the YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "", "GraphQL endpoint of the booknav server")
	cmd.PersistentFlags().StringVar(&opts.CachePath, "cache", "", "path to the local cache database")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newShellCommand(opts))
	cmd.AddCommand(newRegisterCommand(opts))
	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newLogoutCommand(opts))
	cmd.AddCommand(newSavedCommand(opts))
	cmd.AddCommand(newRemoveCommand(opts))

	return cmd
}

// load reads the config file and env, then applies the flags the user set.
func (o *RootOptions) load(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	cfg, err := config.Load(o.ConfigPath, flags.Changed("config"))
	if err != nil {
		return config.Config{}, err
	}
	if flags.Changed("server") {
		cfg.Server = o.Server
	}
	if flags.Changed("cache") {
		cfg.CachePath = o.CachePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

func (o *RootOptions) withApp(cmd *cobra.Command, fn func(context.Context, *App) error) error {
	cfg, err := o.load(cmd)
	if err != nil {
		return err
	}
	log := logging.New(logging.Options{Level: cfg.LogLevel, Pretty: true, Writer: cmd.ErrOrStderr()})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := NewApp(ctx, cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn().Err(err).Msg("close cache")
		}
	}()
	return fn(ctx, app)
}

func newShellCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *App) error {
				a.Shell(ctx)
				return nil
			})
		},
	}
}

func newRegisterCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *App) error { return a.Register(ctx) })
		},
	}
}

func newLoginCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and refresh the saved-book cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *App) error { return a.Login(ctx) })
		},
	}
}

func newLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the token and the cached saved books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *App) error { return a.Logout(ctx) })
		},
	}
}

func newSavedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List your saved books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *App) error { return a.Saved(ctx) })
		},
	}
}

func newRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <bookId>",
		Short: "Remove a book from your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *App) error { return a.Remove(ctx, args[0]) })
		},
	}
}
