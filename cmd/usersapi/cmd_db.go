package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/services"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/config"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/database/seeders"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/database"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/migration"
)

// withDB loads config, opens the SQL database and hands it to fn.
func withDB(fn func(db *gorm.DB) error) error {
	if err := bootConfig(); err != nil {
		return err
	}
	driver := config.DatabaseDriver()
	if driver == "memory" {
		return fmt.Errorf("DB_DRIVER is %q; migrations need sqlite, postgres, mysql or sqlserver", driver)
	}

	db, err := database.Open(driver, config.DatabaseDSN())
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

// usersapi migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			_, err := migration.New(db, os.Stdout).Run()
			return err
		})
	},
}

// usersapi migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return migration.New(db, os.Stdout).Rollback()
		})
	},
}

// usersapi migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return migration.New(db, os.Stdout).Status()
		})
	},
}

// usersapi seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample users",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
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

		return seeders.RunAll(ctx, services.NewUsersService(store.repo), os.Stdout)
	},
}
