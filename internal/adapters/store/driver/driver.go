// Package driver opens the quote store backend named in the configuration.
package driver

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/quotebook/internal/adapters/store"
	"github.com/jsamuelsen/quotebook/internal/adapters/store/mongo"
	"github.com/jsamuelsen/quotebook/internal/adapters/store/sqlite"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
)

// CloseFunc releases a backend. It is safe to call once.
type CloseFunc func(ctx context.Context) error

// Open connects the backend selected by cfg.Store.Driver. appName is reported
// to MongoDB as the client application name.
func Open(ctx context.Context, cfg *config.StoreConfig, appName string) (store.Backend, CloseFunc, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		db, err := mongo.Connect(ctx, mongo.Config{
			URL:            cfg.Mongo.URL,
			Database:       cfg.Mongo.Database,
			User:           cfg.Mongo.User,
			Password:       cfg.Mongo.Password,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
			AppName:        appName,
		})
		if err != nil {
			return nil, nil, err
		}

		return db, db.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLite.Path})
		if err != nil {
			return nil, nil, err
		}

		return db, func(context.Context) error { return db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
