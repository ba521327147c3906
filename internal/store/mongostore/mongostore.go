// Package mongostore implements the persistence contract on MongoDB. The
// capacity invariant rides on filtered $inc updates and the duplicate rule on
// a partial unique index, so both hold under concurrent requests without any
// application-side locking.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushub/eventreg/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	client *mongo.Client
}

func New(client *mongo.Client) *MongoStore {
	return &MongoStore{client: client}
}

func (ms *MongoStore) events() *mongo.Collection {
	return ms.client.Database(models.EventDbName).Collection(models.EventColName)
}

func (ms *MongoStore) bookings() *mongo.Collection {
	return ms.client.Database(models.EventDbName).Collection(models.BookingColName)
}

// EnsureIndexes creates the indexes the adapter relies on. The partial unique
// index closes the duplicate-registration race for simultaneous identical
// inserts; cancelled bookings are excluded so a participant can re-register
// after cancelling. Uses $in in the partial filter, which needs MongoDB 6.0+.
func (ms *MongoStore) EnsureIndexes(ctx context.Context) error {
	bookingIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "email", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("event_email_unique").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{models.BookingStatusConfirmed, models.BookingStatusWaiting}},
				}),
		},
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetName("event_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("booking_status_idx"),
		},
	}
	if _, err := ms.bookings().Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("error creating booking indexes: %v", err)
	}

	eventIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("event_status_idx"),
		},
	}
	if _, err := ms.events().Indexes().CreateMany(ctx, eventIndexes); err != nil {
		return fmt.Errorf("error creating event indexes: %v", err)
	}
	return nil
}

func (ms *MongoStore) InsertEvent(ctx context.Context, event *models.Event) error {
	if _, err := ms.events().InsertOne(ctx, event); err != nil {
		return fmt.Errorf("error inserting event: %v", err)
	}
	return nil
}

func (ms *MongoStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := ms.events().FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("error finding event: %v", err)
	}
	return &event, nil
}

func (ms *MongoStore) UpdateEvent(ctx context.Context, id string, fields map[string]interface{}) (*models.Event, error) {
	set := bson.M{"updated_at": time.Now()}
	for key, value := range fields {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Event
	err := ms.events().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("error updating event: %v", err)
	}
	return &updated, nil
}

func (ms *MongoStore) ListEventsByStatus(ctx context.Context, status string) ([]*models.Event, error) {
	cursor, err := ms.events().Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, fmt.Errorf("error listing events: %v", err)
	}
	defer cursor.Close(ctx)

	var events []*models.Event
	for cursor.Next(ctx) {
		var event models.Event
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("error decoding event: %v", err)
		}
		events = append(events, &event)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return events, nil
}

// ReserveSeat increments current_participants only while the event is active
// and below capacity. The filter and the $inc execute as one document update,
// so two requests racing for the last seat cannot both match.
func (ms *MongoStore) ReserveSeat(ctx context.Context, eventID string) error {
	filter := bson.M{
		"_id":    eventID,
		"status": models.EventStatusActive,
		"$expr":  bson.M{"$lt": bson.A{"$current_participants", "$max_participants"}},
	}
	update := bson.M{
		"$inc": bson.M{"current_participants": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	res, err := ms.events().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error reserving seat: %v", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// The conditional update matched nothing; re-read to say why.
	event, err := ms.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsActive() {
		return models.ErrEventNotActive
	}
	return models.ErrEventFull
}

// ReleaseSeat decrements current_participants, floored at zero.
func (ms *MongoStore) ReleaseSeat(ctx context.Context, eventID string) error {
	filter := bson.M{
		"_id":                  eventID,
		"current_participants": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"current_participants": -1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	res, err := ms.events().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error releasing seat: %v", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// Counter already at zero is a no-op; an unknown event is an error.
	if _, err := ms.GetEvent(ctx, eventID); err != nil {
		return err
	}
	return nil
}

func (ms *MongoStore) InsertBooking(ctx context.Context, booking *models.Booking) error {
	if _, err := ms.bookings().InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateBooking
		}
		return fmt.Errorf("error inserting booking: %v", err)
	}
	return nil
}

// eventProjectionStages join a booking with the read-only fields of its event.
func eventProjectionStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         models.EventColName,
			"localField":   "event_id",
			"foreignField": "_id",
			"as":           "event",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$event",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$addFields", Value: bson.M{
			"event_name":  "$event.name",
			"event_date":  "$event.date",
			"event_time":  "$event.time",
			"event_venue": "$event.venue",
		}}},
		{{Key: "$project", Value: bson.M{"event": 0}}},
	}
}

func (ms *MongoStore) GetBookingDetail(ctx context.Context, id string) (*models.BookingDetail, error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{"_id": id}}}}
	pipeline = append(pipeline, eventProjectionStages()...)

	details, err := ms.aggregateBookingDetails(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, models.ErrBookingNotFound
	}
	return details[0], nil
}

func (ms *MongoStore) ListBookingDetailsByStatus(ctx context.Context, status string) ([]*models.BookingDetail, error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{"status": status}}}}
	pipeline = append(pipeline, eventProjectionStages()...)
	return ms.aggregateBookingDetails(ctx, pipeline)
}

func (ms *MongoStore) aggregateBookingDetails(ctx context.Context, pipeline mongo.Pipeline) ([]*models.BookingDetail, error) {
	cursor, err := ms.bookings().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var details []*models.BookingDetail
	for cursor.Next(ctx) {
		var detail models.BookingDetail
		if err := cursor.Decode(&detail); err != nil {
			return nil, fmt.Errorf("error decoding booking: %v", err)
		}
		details = append(details, &detail)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return details, nil
}

func (ms *MongoStore) UpdateBooking(ctx context.Context, id string, fields map[string]interface{}) (*models.Booking, error) {
	set := bson.M{"updated_at": time.Now()}
	for key, value := range fields {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := ms.bookings().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("error updating booking: %v", err)
	}
	return &updated, nil
}

// CancelBooking flips confirmed to cancelled as a conditional update so a
// repeat cancel cannot decrement the event counter twice.
func (ms *MongoStore) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	filter := bson.M{"_id": id, "status": models.BookingStatusConfirmed}
	update := bson.M{"$set": bson.M{
		"status":     models.BookingStatusCancelled,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cancelled models.Booking
	err := ms.bookings().FindOneAndUpdate(ctx, filter, update, opts).Decode(&cancelled)
	if err == nil {
		return &cancelled, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error cancelling booking: %v", err)
	}

	// Either the id is unknown or the booking is no longer confirmed.
	var existing models.Booking
	err = ms.bookings().FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("error finding booking: %v", err)
	}
	return nil, models.ErrBookingNotActive
}

func (ms *MongoStore) DeleteBookingsByEvent(ctx context.Context, eventID string) (int64, error) {
	res, err := ms.bookings().DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("error deleting bookings: %v", err)
	}
	return res.DeletedCount, nil
}
