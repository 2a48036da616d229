package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tastechain/reviewscore/internal/domain"
)

const scoreCollection = "review_scores"

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// scoreDocument is the stored shape of a ScoreRecord. IDs are kept as strings.
type scoreDocument struct {
	ID              string           `bson:"_id"`
	RestaurantName  string           `bson:"restaurantName"`
	Cuisine         string           `bson:"cuisine"`
	ConfidenceScore int              `bson:"confidenceScore"`
	Source          string           `bson:"source"`
	Breakdown       domain.Breakdown `bson:"breakdown"`
	CreatedAt       time.Time        `bson:"createdAt"`
}

func toScoreDocument(r *domain.ScoreRecord) scoreDocument {
	return scoreDocument{
		ID:              r.ID.String(),
		RestaurantName:  r.RestaurantName,
		Cuisine:         r.Cuisine,
		ConfidenceScore: r.ConfidenceScore,
		Source:          string(r.Source),
		Breakdown:       r.Breakdown,
		CreatedAt:       r.CreatedAt,
	}
}

func (d scoreDocument) record() (*domain.ScoreRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse score id %q: %w", d.ID, err)
	}
	return &domain.ScoreRecord{
		ID:              id,
		RestaurantName:  d.RestaurantName,
		Cuisine:         d.Cuisine,
		ConfidenceScore: d.ConfidenceScore,
		Source:          domain.ScoreSource(d.Source),
		Breakdown:       d.Breakdown,
		CreatedAt:       d.CreatedAt,
	}, nil
}

func restaurantFilter(name string) bson.M {
	if name == "" {
		return bson.M{}
	}
	return bson.M{"restaurantName": name}
}

type MongoScoreStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoScoreStore(client *mongo.Client, database string) *MongoScoreStore {
	return &MongoScoreStore{
		client: client,
		coll:   client.Database(database).Collection(scoreCollection),
	}
}

func (s *MongoScoreStore) Create(ctx context.Context, r *domain.ScoreRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.coll.InsertOne(ctx, toScoreDocument(r))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *MongoScoreStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScoreRecord, error) {
	var doc scoreDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.record()
}

func (s *MongoScoreStore) ListRecent(ctx context.Context, opts domain.ScoreListOpts) ([]domain.ScoreRecord, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(clampLimit(opts.Limit)))

	cursor, err := s.coll.Find(ctx, restaurantFilter(opts.RestaurantName), findOpts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []scoreDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]domain.ScoreRecord, 0, len(docs))
	for _, d := range docs {
		r, err := d.record()
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, nil
}

func (s *MongoScoreStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, olderThanFilter(cutoff))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func olderThanFilter(cutoff time.Time) bson.M {
	return bson.M{"createdAt": bson.M{"$lt": cutoff.UTC()}}
}

func (s *MongoScoreStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
