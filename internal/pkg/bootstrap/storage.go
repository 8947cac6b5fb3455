package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore/mongo"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore/sqlite"
)

// Storage is the opened document database of one service.
type Storage struct {
	sql   *sql.DB
	mongo *mongodrv.Database
	close func(context.Context) error
}

// OpenStorage opens the backend selected by cfg.Driver ("sqlite" or "mongo").
func OpenStorage(ctx context.Context, cfg config.StorageConfig, name discovery.ServiceName) (*Storage, error) {
	switch cfg.Driver {
	case "", "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath(name))
		if err != nil {
			return nil, err
		}
		return &Storage{sql: db, close: func(context.Context) error { return db.Close() }}, nil
	case "mongo", "mongodb":
		db, disconnect, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &Storage{mongo: db, close: disconnect}, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// NewSQLiteStorage wraps an already opened database, mostly for tests.
func NewSQLiteStorage(db *sql.DB) *Storage {
	return &Storage{sql: db, close: func(context.Context) error { return db.Close() }}
}

func (s *Storage) Close(ctx context.Context) error { return s.close(ctx) }

// Collection returns the named collection of s.
func Collection[T any](s *Storage, name string) docstore.Collection[T] {
	if s.mongo != nil {
		return mongo.NewCollection[T](s.mongo, name)
	}
	return sqlite.NewCollection[T](s.sql, name)
}
