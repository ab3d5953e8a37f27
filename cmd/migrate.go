package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/hr-assistant/db"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory on disk; the embedded migrations are used when empty")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Database.Driver == store.DriverSQLite {
		// The SQL files target Postgres; SQLite gets its schema from the models.
		gdb, err := store.Open(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("sqlite: %v", err)
		}
		defer store.Close(gdb)
		if migrateRollback {
			log.Fatal("rollback is not supported for sqlite")
		}
		if err := store.AutoMigrate(gdb); err != nil {
			log.Fatalf("sqlite automigrate: %v", err)
		}
		log.Println("sqlite schema is up to date")
		return nil
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.Database.GetDSN())
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer sqlDB.Close()
	goose.SetTableName("schema_migrations")

	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = db.MigrationsDir
	}

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, sqlDB, dir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
