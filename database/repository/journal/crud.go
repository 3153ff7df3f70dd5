// File: database/repository/journal/crud.go
package journal

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"astraguru/models"
)

type mongoJournalRepo struct {
	transactions *mongo.Collection
	bookings     *mongo.Collection
}

// NewMongoJournalRepo builds the journal repository on the given client.
func NewMongoJournalRepo(client *mongo.Client) JournalRepository {
	db := client.Database("astraguru")
	return &mongoJournalRepo{
		transactions: db.Collection("credit_transactions"),
		bookings:     db.Collection("bookings"),
	}
}

func (r *mongoJournalRepo) RecordTransaction(ctx context.Context, tx models.CreditTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.transactions.InsertOne(ctx, tx)
	return err
}

func (r *mongoJournalRepo) SetTransactionStatus(ctx context.Context, transactionID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"transactionId": transactionID}
	update := bson.M{"$set": bson.M{"status": status}}
	res, err := r.transactions.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoJournalRepo) ListTransactions(ctx context.Context, userID string) ([]models.CreditTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.transactions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []models.CreditTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *mongoJournalRepo) RecordBooking(ctx context.Context, booking models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.bookings.InsertOne(ctx, booking)
	return err
}

func (r *mongoJournalRepo) SetBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{"status": status}}
	res, err := r.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoJournalRepo) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.bookings.Find(ctx, filter, opts)
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
