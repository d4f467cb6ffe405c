package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"shoemart/internal/config"
	"shoemart/internal/models"
	"shoemart/internal/repositories"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Stores bundles the storage engines selected by configuration.
type Stores struct {
	Products repositories.ProductStore
	Messages repositories.MessageStore

	closer func(context.Context) error
}

// Close releases the underlying database connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}

// Open connects to the database named by cfg.DBDriver and prepares it for
// use: tables are migrated for SQL engines, indexes are created for MongoDB.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Println("[database] Using in-memory stores")
		return &Stores{
			Products: repositories.NewMockProductStore(),
			Messages: repositories.NewMockMessageStore(),
		}, nil
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverSQLite:
		return openGORM(ctx, sqlite.Open(cfg.DatabaseDSN), cfg)
	case config.DriverPostgres:
		return openGORM(ctx, postgres.Open(cfg.DatabaseDSN), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func openGORM(ctx context.Context, dialector gorm.Dialector, cfg *config.Config) (*Stores, error) {
	logLevel := logger.Silent
	if cfg.DBDebug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DBDriver, err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.Message{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.DBDriver == config.DriverSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	products := repositories.NewGORMProductStore(db)
	refreshed, err := products.RefreshFolded(ctx)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	if refreshed > 0 {
		log.Printf("[database] Refreshed search keys of %d products", refreshed)
	}

	log.Printf("[database] Connected to %s", cfg.DBDriver)
	return &Stores{
		Products: products,
		Messages: repositories.NewGORMMessageStore(db),
		closer:   func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Stores, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	products := repositories.NewMongoProductStore(db)
	messages := repositories.NewMongoMessageStore(db)
	if err := products.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if err := messages.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Printf("[database] Connected to MongoDB database %s", cfg.MongoDatabase)
	return &Stores{
		Products: products,
		Messages: messages,
		closer:   client.Disconnect,
	}, nil
}
