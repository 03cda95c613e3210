package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/yelrambob/supply-QR/pkg/envconfig"
)

const versionTimeFormat = "20060102150405"

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the orders_log schema",
	}
	rootCmd.AddCommand(
		createMigrationCommand(),
		migrateUpCommand(),
		migrateDownCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrationDir() string {
	return envconfig.GetEnv("MIGRATION_DIR", "migrations")
}

func databaseURL() string {
	_ = envconfig.LoadEnvFile(".env")
	return envconfig.LoadDatabaseConfig().BuildURL()
}

func createMigrationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "create a pair of empty SQL migration files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := time.Now().Format(versionTimeFormat)
			name := args[0]
			up := fmt.Sprintf("%s/%s_%s.up.sql", migrationDir(), version, name)
			down := fmt.Sprintf("%s/%s_%s.down.sql", migrationDir(), version, name)

			if err := os.WriteFile(up, []byte{}, 0o644); err != nil {
				return err
			}
			if err := os.WriteFile(down, []byte{}, 0o644); err != nil {
				return err
			}

			fmt.Println("Created SQL up script:", up)
			fmt.Println("Created SQL down script:", down)
			return nil
		},
	}
}

func migrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "migrate all the way up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrate.New(fmt.Sprintf("file://%s", migrationDir()), databaseURL())
			if err != nil {
				return err
			}

			err = m.Up()
			if err == migrate.ErrNoChange {
				fmt.Println("No change in migration")
				return nil
			}
			return err
		},
	}
}

func migrateDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "roll back one migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrate.New(fmt.Sprintf("file://%s", migrationDir()), databaseURL())
			if err != nil {
				return err
			}

			err = m.Steps(-1)
			if err == migrate.ErrNoChange {
				fmt.Println("No change in migration")
				return nil
			}
			return err
		},
	}
}
