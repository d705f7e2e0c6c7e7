package database

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JennyYuanZW/JianshanPortal/internal/global"
	"github.com/JennyYuanZW/JianshanPortal/internal/logger"
)

// EnsureDatabaseAndCollections makes sure the configured database and every
// collection named in global.MongoDB_ColNames exists, creating missing ones.
func EnsureDatabaseAndCollections(client *mongo.Client) error {
	dbName := global.ServerConfig.MongoDB_DBName

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbList, err := client.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list databases: %w", err)
	}

	dbExists := false
	for _, name := range dbList {
		if name == dbName {
			dbExists = true
			break
		}
	}
	if !dbExists {
		logger.GetAppLogger().Infof("Database %s does not exist, will be created along with its collections", dbName)
	}

	db := client.Database(dbName)
	collections := []string{}
	v := reflect.ValueOf(global.MongoDB_ColNames)
	for i := 0; i < v.NumField(); i++ {
		collections = append(collections, v.Field(i).String())
	}

	collList, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, collectionName := range collections {
		exists := false
		for _, existing := range collList {
			if existing == collectionName {
				exists = true
				break
			}
		}
		if !exists {
			logger.GetAppLogger().Infof("Collection %s does not exist, creating it", collectionName)
			if err := db.CreateCollection(ctx, collectionName); err != nil {
				return fmt.Errorf("failed to create collection %s: %w", collectionName, err)
			}
		}
	}

	logger.GetAppLogger().Infof("Database and collections are ensured in database: %s", dbName)
	return nil
}

// EnsureApplicationIndexes creates the indexes the applications collection
// relies on: a unique index on userId and a descending index on
// lastUpdatedAt for the admin listing.
func EnsureApplicationIndexes(client *mongo.Client) error {
	dbName := global.ServerConfig.MongoDB_DBName
	col := client.Database(dbName).Collection(global.MongoDB_ColNames.Applications)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_userId_unique"),
		},
		{
			Keys:    bson.D{{Key: "lastUpdatedAt", Value: -1}},
			Options: options.Index().SetName("idx_lastUpdatedAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_status"),
		},
	}

	names, err := col.Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", col.Name(), err)
	}

	logger.GetAppLogger().Infof("Ensured indexes on %s: %v", col.Name(), names)
	return nil
}
