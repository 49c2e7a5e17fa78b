// File: database/repository/calendar/mongo.go
package calendarRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicflow/database"
	"clinicflow/models"
)

type mongoCalendarRepo struct {
	windowColl  *mongo.Collection
	bookingColl *mongo.Collection
}

// NewMongoCalendarRepo constructs a MongoDB-backed CalendarRepository.
func NewMongoCalendarRepo() CalendarRepository {
	db := database.MongoClient.Database("clinicflow")
	return &mongoCalendarRepo{
		windowColl:  db.Collection("working_windows"),
		bookingColl: db.Collection("bookings"),
	}
}

func (r *mongoCalendarRepo) ReplaceWorkingWindows(ctx context.Context, doctorID string, windows []models.WorkingWindow) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.windowColl.DeleteMany(ctx, bson.M{"doctorId": doctorID}); err != nil {
		return fmt.Errorf("failed to clear working windows: %w", err)
	}

	if len(windows) == 0 {
		return nil
	}
	docs := make([]interface{}, len(windows))
	for i, w := range windows {
		w.DoctorID = doctorID
		docs[i] = w
	}
	if _, err := r.windowColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert working windows: %w", err)
	}
	return nil
}

func (r *mongoCalendarRepo) WorkingWindows(ctx context.Context, doctorID, fromDate, toDate string) ([]models.WorkingWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctorId": doctorID,
		"date":     bson.M{"$gte": fromDate, "$lte": toDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.windowColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var windows []models.WorkingWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *mongoCalendarRepo) ActiveBookings(ctx context.Context, doctorID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctorId": doctorID,
		"date":     date,
		"status":   bson.M{"$ne": models.BookingStatusCancelled},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *mongoCalendarRepo) InsertBooking(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *mongoCalendarRepo) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *mongoCalendarRepo) UpdateBookingStatus(ctx context.Context, bookingID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.bookingColl.UpdateOne(ctx,
		bson.M{"id": bookingID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *mongoCalendarRepo) BookingsByStatus(ctx context.Context, statuses []string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"status": bson.M{"$in": statuses}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
