package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storefront/internal/apiclient"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/service"
)

type app struct {
	cfg    *config.Config
	logger logger.Logger
	client *apiclient.Client
	user   *service.AuthUser
}

func (a *app) backendFor(token string) service.Backend {
	return a.client.WithToken(apiclient.StaticToken(token))
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var token, backendURL, logLevel string

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Track orders, check out and follow notifications from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if backendURL == "" {
				backendURL = a.cfg.BackendURL
			}
			if logLevel == "" {
				logLevel = a.cfg.LogLevel
			}
			if token == "" {
				token = os.Getenv("STOREFRONT_TOKEN")
			}
			a.logger = logger.New(cmd.ErrOrStderr(), logLevel)
			a.client = apiclient.NewClient(backendURL, apiclient.StaticToken(token), a.cfg.RequestTimeout, a.logger)
			a.user = &service.AuthUser{ID: "cli", Token: token}
			return nil
		},
	}
	root.SetErr(os.Stderr)

	root.PersistentFlags().StringVar(&token, "token", "", "session token (default $STOREFRONT_TOKEN)")
	root.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (default $BACKEND_URL)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newTrackCmd(a),
		newOrdersCmd(a),
		newCheckoutCmd(a),
		newNotificationsCmd(a),
		newOwnerCmd(a),
	)

	return root
}

// errReported marca un error que ya se mostró al usuario.
var errReported = errors.New("reported")

// report muestra las fallas del backend con el mensaje genérico; el detalle va al log.
func (a *app) report(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	a.logger.Debug("backend request failed", "error", err)
	fmt.Fprintln(cmd.ErrOrStderr(), apiclient.UserMessage(err))
	return errReported
}
