package bookingsRepo

import (
	"context"
	"time"

	"voicebook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new booking record and returns its ID.
func (r *mongoBookingRepo) Create(ctx context.Context, booking models.Booking) (string, error) {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return "", err
	}
	return booking.ID, nil
}

// Update overwrites the mutable fields of an existing record, creating it
// if the stub write never landed.
func (r *mongoBookingRepo) Update(ctx context.Context, booking models.Booking) error {
	update := bson.M{"$set": bson.M{
		"contact":     booking.Contact,
		"appointment": booking.Appointment,
		"transcript":  booking.Transcript,
		"updatedAt":   time.Now(),
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": booking.ID}, update, options.Update().SetUpsert(true))
	return err
}

// SetSummary attaches the post-call summary to a record.
func (r *mongoBookingRepo) SetSummary(ctx context.Context, id, summary string) error {
	update := bson.M{"$set": bson.M{
		"summary":   summary,
		"updatedAt": time.Now(),
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	return err
}

// GetByID returns a booking record by its ID.
func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}
