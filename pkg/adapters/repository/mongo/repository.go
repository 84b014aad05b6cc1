package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	placesCollection      = "places"
	eventsCollection      = "analytics_events"
	subscribersCollection = "subscribers"
)

// MongoRepository implements ports.PlaceRepository on MongoDB. Click counters
// use $inc on the matched array element, so they never race with each other.
type MongoRepository struct {
	client      *mongo.Client
	places      *mongo.Collection
	events      *mongo.Collection
	subscribers *mongo.Collection
}

var _ ports.PlaceRepository = (*MongoRepository)(nil)

// NewMongoRepository connects, pings the primary and makes sure the indexes exist.
func NewMongoRepository(ctx context.Context, uri, database string) (*MongoRepository, error) {
	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(database)
	r := &MongoRepository{
		client:      client,
		places:      db.Collection(placesCollection),
		events:      db.Collection(eventsCollection),
		subscribers: db.Collection(subscribersCollection),
	}
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return r, nil
}

func (r *MongoRepository) ensureIndexes(ctx context.Context) error {
	if _, err := r.places.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_place_user_created"),
	}); err != nil {
		return err
	}
	if _, err := r.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "placeId", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("idx_event_place_timestamp"),
	}); err != nil {
		return err
	}
	_, err := r.subscribers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "placeId", Value: 1}, {Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_subscriber_place_email").SetUnique(true),
	})
	return err
}

func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoRepository) CreatePlace(ctx context.Context, place *domain.Place) error {
	if place.ID == "" {
		place.ID = uuid.NewString()
	}
	_, err := r.places.InsertOne(ctx, toPlaceDocument(*place))
	return err
}

func (r *MongoRepository) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	var doc PlaceDocument
	err := r.places.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := mapPlaceDocument(doc)
	return &p, nil
}

// SavePlace replaces the whole document. Unlike the sqlite store there is no
// transaction around it, so a click landing between load and save is lost from
// the counter (the event itself is kept).
func (r *MongoRepository) SavePlace(ctx context.Context, place *domain.Place) error {
	res, err := r.places.ReplaceOne(ctx, bson.M{"_id": place.ID}, toPlaceDocument(*place))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("place %s: %w", place.ID, domain.ErrPlaceNotFound)
	}
	return nil
}

func (r *MongoRepository) DeletePlace(ctx context.Context, id string) error {
	if _, err := r.places.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	if _, err := r.events.DeleteMany(ctx, bson.M{"placeId": id}); err != nil {
		return err
	}
	_, err := r.subscribers.DeleteMany(ctx, bson.M{"placeId": id})
	return err
}

func (r *MongoRepository) ListPlacesByOwner(ctx context.Context, userID string) ([]domain.Place, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findPlaces(ctx, bson.M{"userId": userID}, opts)
}

func (r *MongoRepository) Dump(ctx context.Context) ([]domain.Place, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.findPlaces(ctx, bson.M{}, opts)
}

func (r *MongoRepository) findPlaces(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Place, error) {
	cursor, err := r.places.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	places := make([]domain.Place, 0)
	for cursor.Next(ctx) {
		var doc PlaceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		places = append(places, mapPlaceDocument(doc))
	}
	return places, cursor.Err()
}

func (r *MongoRepository) RecordEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	_, err := r.events.InsertOne(ctx, toEventDocument(*event))
	return err
}

// RecordLinkClick bumps the counter with the server's clock, then appends the event.
func (r *MongoRepository) RecordLinkClick(ctx context.Context, event *domain.AnalyticsEvent) error {
	field := linkArrayField(event.LinkType)
	filter := bson.M{"_id": event.PlaceID, field + ".id": event.LinkID}
	update := bson.M{
		"$inc":         bson.M{field + ".$.clicks": 1},
		"$currentDate": bson.M{field + ".$.lastClicked": true},
	}
	res, err := r.places.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.places.CountDocuments(ctx, bson.M{"_id": event.PlaceID})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("place %s: %w", event.PlaceID, domain.ErrPlaceNotFound)
		}
	}
	return r.RecordEvent(ctx, event)
}

// ListEvents returns events newest first. A limit of zero or less means no limit.
// A zero since disables the time filter, so events without a timestamp are included.
func (r *MongoRepository) ListEvents(ctx context.Context, placeID string, since time.Time, limit int) ([]domain.AnalyticsEvent, error) {
	filter := bson.M{"placeId": placeID}
	if !since.IsZero() {
		filter["timestamp"] = bson.M{"$gte": since.UTC()}
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]domain.AnalyticsEvent, 0)
	for cursor.Next(ctx) {
		var doc EventDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		events = append(events, mapEventDocument(doc))
	}
	return events, cursor.Err()
}

// AddSubscriber upserts on place and email. A repeat fills sub with the stored record.
func (r *MongoRepository) AddSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	filter := bson.M{"placeId": sub.PlaceID, "email": sub.Email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          sub.ID,
			"source":       sub.Source,
			"subscribedAt": sub.SubscribedAt.UTC(),
		},
	}
	res, err := r.subscribers.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	if res.UpsertedCount > 0 {
		return nil
	}

	var doc SubscriberDocument
	if err := r.subscribers.FindOne(ctx, filter).Decode(&doc); err != nil {
		return err
	}
	*sub = mapSubscriberDocument(doc)
	return nil
}

func (r *MongoRepository) ListSubscribers(ctx context.Context, placeID string) ([]domain.Subscriber, error) {
	opts := options.Find().SetSort(bson.D{{Key: "subscribedAt", Value: -1}})
	cursor, err := r.subscribers.Find(ctx, bson.M{"placeId": placeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := make([]domain.Subscriber, 0)
	for cursor.Next(ctx) {
		var doc SubscriberDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		subs = append(subs, mapSubscriberDocument(doc))
	}
	return subs, cursor.Err()
}
