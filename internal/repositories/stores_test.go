package repositories

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"shoemart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	// Every connection to ":memory:" is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Message{}), "failed to migrate test database")
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// setupTestMongo connects to MONGODB_URI and returns a throwaway database.
// Tests using it are skipped when the variable is unset.
func setupTestMongo(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err, "failed to connect to MongoDB")
	require.NoError(t, client.Ping(ctx, nil), "failed to ping MongoDB")

	db := client.Database("shoemart_test_" + uuid.New().String()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

type productEngine struct {
	name  string
	store ProductStore
}

type messageEngine struct {
	name  string
	store MessageStore
}

func productEngines(t *testing.T) []productEngine {
	t.Helper()
	engines := []productEngine{
		{name: "memory", store: NewMockProductStore()},
		{name: "gorm", store: NewGORMProductStore(setupTestDB(t))},
	}
	if db := setupTestMongo(t); db != nil {
		engines = append(engines, productEngine{name: "mongo", store: NewMongoProductStore(db)})
	}
	return engines
}

func messageEngines(t *testing.T) []messageEngine {
	t.Helper()
	engines := []messageEngine{
		{name: "memory", store: NewMockMessageStore()},
		{name: "gorm", store: NewGORMMessageStore(setupTestDB(t))},
	}
	if db := setupTestMongo(t); db != nil {
		engines = append(engines, messageEngine{name: "mongo", store: NewMongoMessageStore(db)})
	}
	return engines
}

// steppingClock returns a clock that advances one second per call, so
// records created in a loop have distinct, increasing timestamps.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}
