// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package reviews

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/perfectpitch/internal/config"
	"github.com/tomtom215/perfectpitch/internal/logging"
)

// MongoStore keeps reviews in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// OpenMongoStore connects, verifies the connection and ensures the
// (movie_id, created_at desc) index exists.
func OpenMongoStore(ctx context.Context, cfg *config.MongoConfig) (*MongoStore, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "movie_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("movie_created"),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create review index: %w", err)
	}

	logging.Info().Str("database", cfg.Database).Str("collection", cfg.Collection).Msg("Review store connected to MongoDB")
	return &MongoStore{client: client, coll: coll}, nil
}

func (m *MongoStore) Put(ctx context.Context, r *Review) error {
	if _, err := m.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert review %s: %w", r.ID, err)
	}
	return nil
}

func (m *MongoStore) List(ctx context.Context, movieID int64, limit int) ([]Review, error) {
	out := make([]Review, 0, max(limit, 0))
	if limit <= 0 {
		return out, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := m.coll.Find(ctx, bson.M{"movie_id": movieID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews for movie %d: %w", movieID, err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reviews for movie %d: %w", movieID, err)
	}
	return out, nil
}

// summaryRow is the $group output of Summary.
type summaryRow struct {
	Count     int     `bson:"count"`
	Positive  int     `bson:"positive"`
	MeanScore float64 `bson:"mean_score"`
}

func (m *MongoStore) Summary(ctx context.Context, movieID int64) (Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"movie_id": movieID}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.M{"$sum": 1}},
			{Key: "positive", Value: bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$overall.label", "positive"}}, 1, 0},
			}}},
			{Key: "mean_score", Value: bson.M{"$avg": "$overall.score"}},
		}}},
	}

	cur, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregate reviews for movie %d: %w", movieID, err)
	}
	var rows []summaryRow
	if err := cur.All(ctx, &rows); err != nil {
		return Summary{}, fmt.Errorf("decode summary for movie %d: %w", movieID, err)
	}

	s := Summary{MovieID: movieID}
	if len(rows) == 1 {
		s.Count = rows[0].Count
		s.Positive = rows[0].Positive
		s.Negative = rows[0].Count - rows[0].Positive
		s.MeanScore = rows[0].MeanScore
	}
	return s, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoStore) Name() string { return "mongo" }

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
