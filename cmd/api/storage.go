package main

import (
	"context"
	"fmt"

	"station-ops-bot/config"
	"station-ops-bot/internal/entry/repository"
	airtableRepo "station-ops-bot/internal/entry/repository/airtable"
	"station-ops-bot/internal/entry/repository/sqlstore"
	pkgAirtable "station-ops-bot/pkg/airtable"
	"station-ops-bot/pkg/log"
)

// storage is the repository chosen by storage.driver plus its lifecycle hooks.
type storage struct {
	repo  repository.Repository
	ping  func(ctx context.Context) error
	close func() error
}

func newStorage(ctx context.Context, logger log.Logger, cfg config.StorageConfig) (*storage, error) {
	switch cfg.Driver {
	case config.StorageAirtable:
		client, err := pkgAirtable.New(pkgAirtable.Config{
			APIKey: cfg.Airtable.APIKey,
			BaseID: cfg.Airtable.BaseID,
			APIURL: cfg.Airtable.APIURL,
		})
		if err != nil {
			return nil, err
		}
		return &storage{
			repo:  airtableRepo.New(logger, client),
			close: func() error { return nil },
		}, nil

	case config.StoragePostgres, config.StorageSQLite:
		dialect, dsn := sqlstore.DialectPostgres, cfg.Postgres.DSN
		if cfg.Driver == config.StorageSQLite {
			dialect, dsn = sqlstore.DialectSQLite, cfg.SQLite.Path
		}

		db, err := sqlstore.Open(dialect, dsn, sqlstore.Options{
			MaxConnections: cfg.Postgres.MaxConnections,
			MaxIdle:        cfg.Postgres.MaxIdle,
		})
		if err != nil {
			return nil, err
		}

		store := sqlstore.New(logger, db, dialect)
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return &storage{repo: store, ping: store.Ping, close: store.Close}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
