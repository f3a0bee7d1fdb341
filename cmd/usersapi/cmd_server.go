package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/app"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/event"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/logger"
)

var servePort string

// usersapi serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), servePort)
	},
}

// usersapi route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootConfig(); err != nil {
			return err
		}
		a := app.New(app.ConfigFromEnv(), app.WithLogger(logger.L))
		a.Register(usersModule(newUsersStore().memory(), event.New()))
		return a.PrintRoutes(os.Stdout)
	},
}

func runServe(ctx context.Context, port string) error {
	closeLogs, err := bootLogging(ctx)
	if err != nil {
		return err
	}
	defer closeLogs()

	store, err := openUsersStore(ctx, true)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := app.ConfigFromEnv()
	if port != "" {
		cfg.Port = port
	}

	a := app.New(cfg, app.WithLogger(logger.L))
	a.Register(usersModule(store.repo, auditEvents(logger.L)))
	return a.ListenAndServe(ctx)
}
