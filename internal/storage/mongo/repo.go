package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel_booking/internal/domain"
)

const CollectionName = "hotels"

type Repo struct {
	collection   *mongo.Collection
	writeTimeout time.Duration
	readTimeout  time.Duration
}

func New(db *mongo.Database) *Repo {
	return &Repo{
		collection:   db.Collection(CollectionName),
		writeTimeout: 10 * time.Second,
		readTimeout:  5 * time.Second,
	}
}

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the owner listing index; safe to call on every start.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "lastUpdated", Value: -1}},
		Options: options.Index().SetName("owner_last_updated"),
	})
	return err
}

// withTimeout keeps the shorter of the caller's deadline and d.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < d {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (r *Repo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	doc := *h
	doc.ID = ""
	if doc.Facilities == nil {
		doc.Facilities = []string{}
	}
	if doc.ImageURLs == nil {
		doc.ImageURLs = []string{}
	}
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create hotel: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	h.ID = oid.Hex()
	return nil
}

func (r *Repo) ListHotelsByOwner(ctx context.Context, owner domain.UserID) ([]domain.Hotel, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lastUpdated", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": string(owner)}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	defer cursor.Close(ctx)

	out := []domain.Hotel{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}
	for i := range out {
		out[i].LastUpdated = out[i].LastUpdated.UTC()
	}
	return out, nil
}

func (r *Repo) GetHotelByOwner(ctx context.Context, owner domain.UserID, id string) (domain.Hotel, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// not a valid id, so nothing can match
		return domain.Hotel{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	var h domain.Hotel
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "userId": string(owner)}).Decode(&h)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Hotel{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("failed to find hotel: %w", err)
	}
	h.LastUpdated = h.LastUpdated.UTC()
	return h, nil
}
