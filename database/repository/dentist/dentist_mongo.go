package dentistRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dencare/models"
	"dencare/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoDentistRepo implements DentistRepository using MongoDB.
type MongoDentistRepo struct {
	coll *mongo.Collection
}

// NewMongoDentistRepo creates a DentistRepository backed by the given client.
func NewMongoDentistRepo(client *mongo.Client, dbName string) DentistRepository {
	coll := client.Database(dbName).Collection("dentists")
	repo := &MongoDentistRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("dentist repo: failed to create indexes", zap.Error(err))
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoDentistRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new dentist document.
func (r *MongoDentistRepo) Create(d *models.Dentist) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Calendar == nil {
		d.Calendar = []models.DateSlots{}
	}

	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to create dentist: %w", err)
	}
	return nil
}

// GetByID retrieves a dentist by id. Returns (nil, nil) when absent.
func (r *MongoDentistRepo) GetByID(id string) (*models.Dentist, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var dentist models.Dentist
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&dentist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dentist with id %s: %w", id, err)
	}
	return &dentist, nil
}

// GetAll retrieves all dentists sorted by name.
func (r *MongoDentistRepo) GetAll() ([]models.Dentist, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list dentists: %w", err)
	}
	defer cursor.Close(ctx)

	var dentists []models.Dentist
	if err := cursor.All(ctx, &dentists); err != nil {
		return nil, fmt.Errorf("failed to decode dentists: %w", err)
	}
	return dentists, nil
}

// Update modifies an existing dentist document.
func (r *MongoDentistRepo) Update(d *models.Dentist) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	d.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": d.ID}, bson.M{"$set": d})
	if err != nil {
		return fmt.Errorf("failed to update dentist with id %s: %w", d.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("dentist with id %s not found", d.ID)
	}
	return nil
}

// Delete removes a dentist document by its ID.
func (r *MongoDentistRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete dentist with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("dentist with id %s not found", id)
	}
	return nil
}

// SetCalendar replaces the dentist's slot calendar.
func (r *MongoDentistRepo) SetCalendar(id string, calendar []models.DateSlots) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"calendar": calendar, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set calendar for dentist %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("dentist with id %s not found", id)
	}
	return nil
}
