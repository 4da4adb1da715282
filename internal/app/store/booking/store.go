// Package booking persists booking requests submitted through the public
// contact form. Requests land in the same collection the admin content
// engine manages, so the dashboard can favorite, edit, and delete them
// like any other portfolio document.
package booking

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/larabeck/atelier/internal/app/store/storeutil"
)

// StatusPending is the status every new request starts in. Status moves
// forward only through admin edits via the content engine.
const StatusPending = "pending"

// Booking is a booking request. Interest names the service the visitor
// is asking about (a performance, a commission, a lesson).
type Booking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Interest   string             `bson:"interest,omitempty" json:"interest,omitempty"`
	EventDate  string             `bson:"event_date,omitempty" json:"event_date,omitempty"`
	EventType  string             `bson:"event_type,omitempty" json:"event_type,omitempty"`
	Message    string             `bson:"message" json:"message"`
	Status     string             `bson:"status" json:"status"`
	IsFavorite bool               `bson:"is_favorite" json:"is_favorite"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// CreateInput holds the public form fields.
type CreateInput struct {
	Name      string
	Email     string
	Phone     string
	Interest  string
	EventDate string
	EventType string
	Message   string
}

// Store provides booking persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a booking Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookings")}
}

// Create inserts a new pending request.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Booking, error) {
	b := &Booking{
		ID:         primitive.NewObjectID(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Interest:   in.Interest,
		EventDate:  in.EventDate,
		EventType:  in.EventType,
		Message:    in.Message,
		Status:     StatusPending,
		IsFavorite: false,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID returns a single request, or nil when no request has that id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	var b Booking
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns every request, newest first.
func (s *Store) List(ctx context.Context) ([]Booking, error) {
	cur, err := s.c.Find(ctx, bson.M{}, storeutil.NewestFirst())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bookings := []Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
