package bookingsRepo

import (
	"context"

	"voicebook/database"
	"voicebook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repository is the persistence sink for booking records. Writes are
// append-style: a stub at session start, updates as the call progresses.
// There is no dedup key beyond the record ID the session holds.
type Repository interface {
	Create(ctx context.Context, booking models.Booking) (string, error)
	Update(ctx context.Context, booking models.Booking) error
	SetSummary(ctx context.Context, id, summary string) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a Repository backed by MongoDB.
func NewMongoBookingRepo() Repository {
	db := database.MongoClient.Database("voicebook")
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
