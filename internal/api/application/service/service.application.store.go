// Package services - Application domain services: storage, lifecycle,
// review handling and derived views.
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
	basesvc "github.com/JennyYuanZW/JianshanPortal/internal/api/base/service"
	"github.com/JennyYuanZW/JianshanPortal/internal/common"
	"github.com/JennyYuanZW/JianshanPortal/internal/global"
)

// defaultListLimit is the cap on the admin listing query.
const defaultListLimit int64 = 1000

// MongoApplicationRepository implements models.ApplicationRepository on the
// applications collection.
type MongoApplicationRepository struct {
	*basesvc.BaseServiceMongoImpl[models.Application]
}

// NewMongoApplicationRepository looks up the applications collection in the
// global registry and wraps it in a repository.
func NewMongoApplicationRepository() (*MongoApplicationRepository, error) {
	col, exists := global.RegistryCollections.Get(global.MongoDB_ColNames.Applications)
	if !exists {
		return nil, common.NewError(common.ErrCodeInternalServer, "Applications collection not found in registry", common.StatusInternalServerError, nil)
	}
	return NewMongoApplicationRepositoryWithCollection(col), nil
}

// NewMongoApplicationRepositoryWithCollection builds a repository on an
// explicit collection.
func NewMongoApplicationRepositoryWithCollection(col *mongo.Collection) *MongoApplicationRepository {
	return &MongoApplicationRepository{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Application](col),
	}
}

// Get returns the application keyed by userId.
func (r *MongoApplicationRepository) Get(ctx context.Context, userID string) (*models.Application, error) {
	app, err := r.FindOne(ctx, bson.M{"userId": userID}, nil)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts the application document.
func (r *MongoApplicationRepository) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	created, err := r.InsertOne(ctx, *app)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a $set/$unset partial update on the single document.
func (r *MongoApplicationRepository) Update(ctx context.Context, userID string, set map[string]interface{}, unset []string) (*models.Application, error) {
	update := &basesvc.UpdateData{Set: set}
	if len(unset) > 0 {
		update.Unset = map[string]interface{}{}
		for _, field := range unset {
			update.Unset[field] = ""
		}
	}

	updated, err := r.UpdateOne(ctx, bson.M{"userId": userID}, update, nil)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Append atomically pushes value onto the named array field, optionally
// setting scalar fields in the same update.
func (r *MongoApplicationRepository) Append(ctx context.Context, userID string, field string, value interface{}, set map[string]interface{}) (*models.Application, error) {
	update := &basesvc.UpdateData{
		Set:  set,
		Push: map[string]interface{}{field: value},
	}

	updated, err := r.UpdateOne(ctx, bson.M{"userId": userID}, update, nil)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListAll returns applications ordered by lastUpdatedAt descending, capped
// at the default limit when none is given.
func (r *MongoApplicationRepository) ListAll(ctx context.Context, opts models.ListOptions) ([]models.Application, error) {
	limit := opts.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "lastUpdatedAt", Value: -1}}).
		SetLimit(limit)
	if opts.Offset > 0 {
		findOpts.SetSkip(opts.Offset)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.Find(ctx, bson.M{}, findOpts)
}
