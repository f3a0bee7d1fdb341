// Command usersapi runs the users REST API and its maintenance tasks.
//
//	usersapi                 # same as serve
//	usersapi serve --port 8080
//	usersapi route:list
//	usersapi migrate
//	usersapi migrate:rollback
//	usersapi migrate:status
//	usersapi seed
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	// Migrations and seeders register themselves from init().
	_ "github.com/ChrisJohDev/pub-toptal-tsrestapi/database/migrations"
	_ "github.com/ChrisJohDev/pub-toptal-tsrestapi/database/seeders"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "usersapi",
	Short:         "Users REST API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), servePort)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&servePort, "port", "", "port to listen on (overrides APP_PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
