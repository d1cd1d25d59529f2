package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/banshee-data/inky2048/internal/db"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openDB()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.MigrateUp(); err != nil {
				return err
			}
			return printVersion(cmd, store)
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openDB()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.MigrateDown(); err != nil {
				return err
			}
			return printVersion(cmd, store)
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openDB()
			if err != nil {
				return err
			}
			defer store.Close()
			return printVersion(cmd, store)
		},
	}

	force := &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			store, err := openDB()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.MigrateForce(v)
		},
	}

	cmd.AddCommand(up, down, version, force)
	return cmd
}

func printVersion(cmd *cobra.Command, store *db.DB) error {
	v, dirty, err := store.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty=%t\n", v, dirty)
	return nil
}
