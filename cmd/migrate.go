package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

const migrationTable = "schema_migrations"

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "Apply the sql migrations under db/migrations",
		Long: `Apply pending migrations. --rollback reverts the latest version, --to moves
the schema up or down to an exact version and --status lists every migration.`,
	}
	migrateRollback bool
	migrateStatus   bool
	migrateTo       int64
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "rollback the latest applied version")
	migrateCmd.Flags().BoolVarP(&migrateStatus, "status", "s", false, "print the status of every migration")
	migrateCmd.Flags().Int64Var(&migrateTo, "to", 0, "migrate up or down to this version")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

// migrationCommand maps the flags to a goose command and its arguments.
// current is the applied version, used to pick the direction for --to.
func migrationCommand(current int64) (string, []string) {
	switch {
	case migrateStatus:
		return "status", nil
	case migrateRollback:
		return "down", nil
	case migrateTo > 0 && migrateTo < current:
		return "down-to", []string{strconv.FormatInt(migrateTo, 10)}
	case migrateTo > 0:
		return "up-to", []string{strconv.FormatInt(migrateTo, 10)}
	default:
		return "up", nil
	}
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()
	goose.SetTableName(migrationTable)

	var current int64
	if migrateTo > 0 {
		if current, err = goose.GetDBVersionContext(ctx, db); err != nil {
			return fmt.Errorf("goose: failed to read version: %w", err)
		}
	}

	command, args := migrationCommand(current)
	if err := goose.RunContext(ctx, command, db, migrateDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
