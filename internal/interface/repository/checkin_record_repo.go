package repository

import (
	"context"
	"time"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
	"github.com/chriseckman/auto-southwest-check-in/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCheckInRecordRepository implements CheckInRecordRepository
type MongoCheckInRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInRecordRepository creates a new check-in record repository
func NewMongoCheckInRecordRepository(db *mongo.Database) repository.CheckInRecordRepository {
	collection := db.Collection("checkin_records")

	// Create unique index on flightKey
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"flightKey": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	// Create index on confirmationNumber for queries
	confirmationIndex := mongo.IndexModel{
		Keys: bson.M{"confirmationNumber": 1},
	}
	collection.Indexes().CreateOne(ctx, confirmationIndex)

	return &MongoCheckInRecordRepository{
		collection: collection,
	}
}

// Upsert creates or updates the record for a scheduled check-in
func (r *MongoCheckInRecordRepository) Upsert(ctx context.Context, record *entity.CheckInRecord) error {
	record.UpdatedAt = time.Now()

	// For new records
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
		record.CreatedAt = time.Now()
	}

	updateDoc := bson.M{
		"flightKey":          record.FlightKey,
		"confirmationNumber": record.ConfirmationNumber,
		"flightNumber":       record.FlightNumber,
		"departureAirport":   record.DepartureAirport,
		"arrivalAirport":     record.ArrivalAirport,
		"departureUtc":       record.DepartureUTC,
		"checkinUtc":         record.CheckInUTC,
		"isSameDay":          record.IsSameDay,
		"createdAt":          record.CreatedAt,
		"updatedAt":          record.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"flightKey": record.FlightKey}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{"$set": updateDoc},
		opts,
	)
	if err != nil {
		return err
	}

	// If it was an insert, we need to get the new ID
	if result.UpsertedCount > 0 && result.UpsertedID != nil {
		if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
			record.ID = oid.Hex()
		}
	}

	return nil
}

// DeleteByFlightKey removes the record for a flight that left the reservation
// set
func (r *MongoCheckInRecordRepository) DeleteByFlightKey(ctx context.Context, flightKey string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"flightKey": flightKey})
	return err
}
