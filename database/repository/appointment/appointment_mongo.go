package appointmentRepo

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

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo creates an AppointmentRepository backed by the
// given client. The unique index on userId is the durable safety net
// behind the one-appointment-per-user rule; the coordinator's pre-check
// only exists to produce a cleaner error.
func NewMongoAppointmentRepo(client *mongo.Client, dbName string) AppointmentRepository {
	coll := client.Database(dbName).Collection("appointments")
	repo := &MongoAppointmentRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("appointment repo: failed to create indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "dentistId", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new appointment document. Returns ErrDuplicateUser
// when the user already holds a confirmed appointment.
func (r *MongoAppointmentRepo) Create(a *models.Appointment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by id. Returns (nil, nil) when absent.
func (r *MongoAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment with id %s: %w", id, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) list(filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

// ListAll retrieves all appointments.
func (r *MongoAppointmentRepo) ListAll() ([]models.Appointment, error) {
	return r.list(bson.M{})
}

// ListByUser retrieves the appointments held by a user.
func (r *MongoAppointmentRepo) ListByUser(userID string) ([]models.Appointment, error) {
	return r.list(bson.M{"userId": userID})
}

// ListByDentist retrieves the appointments booked with a dentist.
func (r *MongoAppointmentRepo) ListByDentist(dentistID string) ([]models.Appointment, error) {
	return r.list(bson.M{"dentistId": dentistID})
}

// CountByUser counts the confirmed appointments held by a user.
func (r *MongoAppointmentRepo) CountByUser(userID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments for user %s: %w", userID, err)
	}
	return count, nil
}

// Update modifies an existing appointment document.
func (r *MongoAppointmentRepo) Update(a *models.Appointment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": a.ID}, bson.M{"$set": a})
	if err != nil {
		return fmt.Errorf("failed to update appointment with id %s: %w", a.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment with id %s not found", a.ID)
	}
	return nil
}

// Delete removes an appointment document by its ID.
func (r *MongoAppointmentRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("appointment with id %s not found", id)
	}
	return nil
}
