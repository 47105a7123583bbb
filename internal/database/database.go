package database

import (
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"recycleways/internal/config"
)

type DB struct {
	*sqlx.DB
}

func ConnectDB(cfg *config.Config) (*DB, error) {
	log.Info().Str("host", cfg.DB.Host).Str("dbname", cfg.DB.Name).Msg("connecting to database")

	db, err := sqlx.Connect("postgres", cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbStruct := &DB{db}

	if cfg.DB.Migrations != "" {
		if err := dbStruct.RunMigrations(cfg.DB.Migrations); err != nil {
			log.Warn().Err(err).Msg("migrations were not applied")
		}
	}

	if err := dbStruct.HealthCheck(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	log.Info().Msg("connected to PostgreSQL")
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) RunMigrations(migrationFilePath string) error {
	migrationSQL, err := os.ReadFile(migrationFilePath)
	if err != nil {
		return fmt.Errorf("could not read migrations file %s: %w", migrationFilePath, err)
	}

	log.Info().Str("file", migrationFilePath).Msg("applying migrations")

	if _, err = db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	return nil
}

func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return db.Ping()
}
