package main

import (
	"github.com/spf13/cobra"

	platformdb "tender_backend/internal/platform/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(platformdb.LoadConfigFromEnv(), true)
		if err != nil {
			return err
		}
		closeDB(db)
		return nil
	},
}
