// Package document stores loosely structured user documents in MongoDB and
// runs the aggregation reports over them.
package document

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	seedCities   = []string{"Moscow", "SPb", "Kazan"}
	seedStatuses = []string{StatusActive, StatusInactive}
	seedSkills   = []string{"Python", "Java", "JS"}
)

type Profile struct {
	Skill string `bson:"skill" json:"skill"`
	Level int    `bson:"level" json:"level"`
}

// User is schemaless on the server side; only the fields below are known to
// the application.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Age       int                `bson:"age" json:"age"`
	City      string             `bson:"city,omitempty" json:"city,omitempty"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"`
	Profile   *Profile           `bson:"profile,omitempty" json:"profile,omitempty"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"createdAt,omitempty"`
}

type CityStats struct {
	City   string  `bson:"_id" json:"city"`
	Count  int64   `bson:"count" json:"count"`
	AvgAge float64 `bson:"avg_age" json:"avgAge"`
}

type CityActive struct {
	City        string `bson:"_id" json:"city"`
	ActiveUsers int64  `bson:"active_users" json:"activeUsers"`
}

type Store struct {
	coll   *mongo.Collection
	logger *zerolog.Logger
}

func NewStore(coll *mongo.Collection, logger *zerolog.Logger) *Store {
	return &Store{coll: coll, logger: logger}
}

// EnsureIndexes creates the city index and the compound (status, age) index
// used by the active-users queries. Returns the index names.
func (s *Store) EnsureIndexes(ctx context.Context) ([]string, error) {
	names, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "age", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("creating indexes: %w", err)
	}
	return names, nil
}

// Reset drops the collection with its indexes and recreates the indexes.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.coll.Drop(ctx); err != nil {
		return fmt.Errorf("dropping %s: %w", s.coll.Name(), err)
	}
	names, err := s.EnsureIndexes(ctx)
	if err != nil {
		return err
	}
	s.logger.Info().Strs("indexes", names).Str("collection", s.coll.Name()).Msg("collection reset")
	return nil
}

// Clear deletes every document and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("clearing %s: %w", s.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

func (s *Store) InsertMany(ctx context.Context, users []User) ([]primitive.ObjectID, error) {
	if len(users) == 0 {
		return []primitive.ObjectID{}, nil
	}

	docs := make([]any, len(users))
	for i := range users {
		if users[i].ID.IsZero() {
			users[i].ID = primitive.NewObjectID()
		}
		docs[i] = users[i]
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("inserting users: %w", err)
	}

	ids := make([]primitive.ObjectID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	return ids, nil
}

// RandomUsers builds n users named User0..User<n-1> with random age, city,
// status and profile.
func RandomUsers(n int, rng *rand.Rand) []User {
	users := make([]User, n)
	for i := range users {
		users[i] = User{
			Name:   fmt.Sprintf("User%d", i),
			Age:    20 + rng.IntN(31),
			City:   seedCities[rng.IntN(len(seedCities))],
			Status: seedStatuses[rng.IntN(len(seedStatuses))],
			Profile: &Profile{
				Skill: seedSkills[rng.IntN(len(seedSkills))],
				Level: 1 + rng.IntN(5),
			},
		}
	}
	return users
}

// Seed inserts n random users.
func (s *Store) Seed(ctx context.Context, n int, rng *rand.Rand) ([]primitive.ObjectID, error) {
	ids, err := s.InsertMany(ctx, RandomUsers(n, rng))
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("count", len(ids)).Msg("seeded users")
	return ids, nil
}

func (s *Store) FindAll(ctx context.Context) ([]User, error) {
	return s.find(ctx, bson.D{})
}

func (s *Store) find(ctx context.Context, filter bson.D) ([]User, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("finding users: %w", err)
	}

	users := []User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	return users, nil
}

// UpdateByName applies $set to the first user with name and returns the
// modified count.
func (s *Store) UpdateByName(ctx context.Context, name string, set bson.M) (int64, error) {
	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "name", Value: name}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return 0, fmt.Errorf("updating %q: %w", name, err)
	}
	return res.ModifiedCount, nil
}

func (s *Store) DeleteByName(ctx context.Context, name string) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return 0, fmt.Errorf("deleting %q: %w", name, err)
	}
	return res.DeletedCount, nil
}

func (s *Store) ActiveByCity(ctx context.Context, city string) ([]User, error) {
	return s.find(ctx, bson.D{{Key: "city", Value: city}, {Key: "status", Value: StatusActive}})
}

func (s *Store) UpdateStatus(ctx context.Context, name, status string) (int64, error) {
	return s.UpdateByName(ctx, name, bson.M{"status": status})
}

// CityStats counts users per city along with their average age.
func (s *Store) CityStats(ctx context.Context) ([]CityStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$city"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg_age", Value: bson.D{{Key: "$avg", Value: "$age"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	stats := []CityStats{}
	if err := s.aggregate(ctx, pipeline, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ActiveUsersByCity counts active users per city. The $match stage runs
// first so the (status, age) index can serve it.
func (s *Store) ActiveUsersByCity(ctx context.Context) ([]CityActive, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: StatusActive}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$city"},
			{Key: "active_users", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	active := []CityActive{}
	if err := s.aggregate(ctx, pipeline, &active); err != nil {
		return nil, err
	}
	return active, nil
}

func (s *Store) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregating %s: %w", s.coll.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decoding aggregation: %w", err)
	}
	return nil
}
