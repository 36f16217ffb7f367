package maintenanceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dencare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaintenanceRepository exposes the single maintenance-window document.
type MaintenanceRepository interface {
	// Get returns the current window, or (nil, nil) when none declared.
	Get() (*models.Maintenance, error)
	Set(m *models.Maintenance) error
}

// MongoMaintenanceRepo implements MaintenanceRepository using MongoDB.
type MongoMaintenanceRepo struct {
	coll *mongo.Collection
}

// NewMongoMaintenanceRepo creates a MaintenanceRepository backed by the
// given client.
func NewMongoMaintenanceRepo(client *mongo.Client, dbName string) MaintenanceRepository {
	return &MongoMaintenanceRepo{coll: client.Database(dbName).Collection("maintenance")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Get fetches the maintenance window document.
func (r *MongoMaintenanceRepo) Get() (*models.Maintenance, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var m models.Maintenance
	err := r.coll.FindOne(ctx, bson.M{}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch maintenance window: %w", err)
	}
	return &m, nil
}

// Set upserts the maintenance window document.
func (r *MongoMaintenanceRepo) Set(m *models.Maintenance) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{}, m, opts); err != nil {
		return fmt.Errorf("failed to set maintenance window: %w", err)
	}
	return nil
}
