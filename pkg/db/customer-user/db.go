package customeruser

import (
	"context"
	"log/slog"
	"time"

	"github.com/zacki-div/resto-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	COLLECTION_NAME_CUSTOMER_USERS = "users"
)

type CustomerUserDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
}

func NewCustomerUserDBService(configs db.DBConfig) (*CustomerUserDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	cuDBSc := &CustomerUserDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		cuDBSc.CreateDefaultIndexes()
	}
	return cuDBSc, nil
}

func (dbService *CustomerUserDBService) getDBName() string {
	return dbService.DBNamePrefix + "resto"
}

func (dbService *CustomerUserDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *CustomerUserDBService) collectionCustomerUsers() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_CUSTOMER_USERS)
}

func (dbService *CustomerUserDBService) CreateDefaultIndexes() {
	if err := dbService.CreateIndexForCustomerUsers(); err != nil {
		slog.Error("failed to create indexes for customer users", slog.String("error", err.Error()))
		return
	}

	indexes, err := dbService.ListIndexes()
	if err != nil {
		slog.Error("failed to list indexes for customer users", slog.String("error", err.Error()))
		return
	}
	slog.Debug("indexes for customer users", slog.Int("count", len(indexes)))
}

func (dbService *CustomerUserDBService) CreateIndexForCustomerUsers() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	// the unique index on email is the authoritative guard against two
	// concurrent registrations with the same address
	_, err := dbService.collectionCustomerUsers().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "email", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "createdAt", Value: -1},
				},
			},
			{
				Keys: bson.D{
					{Key: "role", Value: 1},
					{Key: "isActive", Value: 1},
				},
			},
		},
	)
	return err
}

func (dbService *CustomerUserDBService) ListIndexes() ([]bson.M, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return db.ListCollectionIndexes(ctx, dbService.collectionCustomerUsers())
}
