package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/client/api"
	"github.com/dmitrijs2005/projecthub/internal/client/config"
	"github.com/spf13/cobra"
)

// APIClient is the server surface the commands use.
type APIClient interface {
	Register(ctx context.Context, email, password, fullName string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Profile(ctx context.Context, token string) (*api.User, error)
	Logout(ctx context.Context, token string) error
	Users(ctx context.Context, token string) ([]api.User, error)
}

type App struct {
	api    APIClient
	tokens *api.TokenStore

	reader *bufio.Reader
	out    io.Writer

	configFile string
	serverURL  string
	tokenFile  string
	timeout    time.Duration
}

func NewApp() *App {
	return &App{}
}

// Command builds the root command with all subcommands attached.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "projecthub",
		Short: "projecthub account client",
		Long: `projecthub talks to the projecthub auth server.

Example usage:
  projecthub register --email me@example.com --name "Me"
  projecthub login --email me@example.com
  projecthub profile
  projecthub logout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "JSON config file")
	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "auth server URL")
	root.PersistentFlags().StringVar(&a.tokenFile, "token-file", "", "where the session token is stored")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "request timeout")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.profileCommand(),
		a.logoutCommand(),
		a.usersCommand(),
	)
	return root
}

// init resolves configuration and builds the API client unless one was
// injected.
func (a *App) init(cmd *cobra.Command) error {
	a.reader = bufio.NewReader(cmd.InOrStdin())
	a.out = cmd.OutOrStdout()

	if a.api != nil && a.tokens != nil {
		return nil
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.serverURL != "" {
		cfg.ServerURL = a.serverURL
	}
	if a.tokenFile != "" {
		cfg.TokenFile = a.tokenFile
	}
	if a.timeout > 0 {
		cfg.RequestTimeout = a.timeout
	}

	if a.api == nil {
		a.api = api.NewClient(cfg.ServerURL, cfg.RequestTimeout)
	}
	if a.tokens == nil {
		a.tokens = api.NewTokenStore(cfg.TokenFile)
	}
	return nil
}

func (a *App) token() (string, error) {
	token, err := a.tokens.Load()
	if errors.Is(err, api.ErrNoToken) {
		return "", fmt.Errorf("%w, run 'projecthub login' first", err)
	}
	return token, err
}

// prompt returns value or asks for it when empty.
func (a *App) prompt(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return GetSimpleText(a.reader, label, a.out)
}

func (a *App) password() (string, error) {
	pw, err := GetPassword(a.reader, a.out)
	if err != nil {
		return "", err
	}
	defer clear(pw)
	return string(pw), nil
}
