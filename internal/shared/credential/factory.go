package credential

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongodb"
	DriverSQLite   = "sqlite"
)

// Config is the connection config read from database.*.
type Config struct {
	Driver string
	// URL is a postgres DSN, a mongodb URI or a sqlite file path.
	URL string
	// Database names the MongoDB database. Defaults to "safemeet".
	Database string
	// MaxConns bounds the postgres pool; 0 keeps the pgx default.
	MaxConns int32
}

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config, deps Deps) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverPostgres:
		pcfg, err := pgxpool.ParseConfig(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("credential: parse postgres url: %w", err)
		}
		if cfg.MaxConns > 0 {
			pcfg.MaxConns = cfg.MaxConns
		}

		pool, err := pgxpool.NewWithConfig(ctx, pcfg)
		if err != nil {
			return nil, fmt.Errorf("credential: connect postgres: %w", err)
		}

		store, err := NewPostgres(ctx, pool, deps)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("credential: postgres schema: %w", err)
		}
		return store, nil

	case DriverMongo:
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.URL))
		if err != nil {
			return nil, fmt.Errorf("credential: connect mongodb: %w", err)
		}

		db := cfg.Database
		if db == "" {
			db = "safemeet"
		}

		store, err := NewMongo(ctx, client, db, deps)
		if err != nil {
			//nolint:errcheck // already failing
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return store, nil

	case DriverSQLite:
		return OpenSQLite(ctx, cfg.URL, deps)

	default:
		return nil, fmt.Errorf("credential: unknown database driver %q", cfg.Driver)
	}
}
