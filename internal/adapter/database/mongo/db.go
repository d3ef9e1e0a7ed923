package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"

	"taskapp/pkg/config"
	"taskapp/pkg/tracing"
)

const (
	TitleStatusIndex = "title_status"
	UpdatedAtIndex   = "updated_at_desc"
)

var ErrMissingURI = errors.New("mongo connection string is empty")

type DB struct {
	Client  *mongo.Client
	Tasks   *mongo.Collection
	Timeout time.Duration
}

// NewDB connects, pings the primary and creates the task indexes.
func NewDB(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*DB, error) {
	if cfg.URI == "" {
		return nil, ErrMissingURI
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout).
		SetMonitor(otelmongo.NewMonitor()).
		SetLoggerOptions(options.Logger().
			SetSink(NewLogSink(logger)).
			SetComponentLevel(options.LogComponentConnection, options.LogLevelInfo).
			SetComponentLevel(options.LogComponentServerSelection, options.LogLevelInfo))

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)

	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := &DB{
		Client:  client,
		Tasks:   client.Database(cfg.Database).Collection(cfg.Collection),
		Timeout: cfg.Timeout,
	}

	if err := db.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("Connected to MongoDB",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection))

	return db, nil
}

// EnsureIndexes is idempotent. The (title, status) index serves duplicate
// lookups only; status transitions may legitimately produce duplicates.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	err := tracing.DatabaseSpanWrapper(ctx, db.Tasks.Name(), "create_indexes", func(ctx context.Context) error {
		_, err := db.Tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "title", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName(TitleStatusIndex),
			},
			{
				Keys:    bson.D{{Key: "updatedAt", Value: -1}},
				Options: options.Index().SetName(UpdatedAtIndex),
			},
		})

		return err
	})

	if err != nil {
		return fmt.Errorf("creating task indexes: %w", err)
	}

	return nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
