package document

import (
	"context"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newStore(mt *mtest.T) *Store {
	logger := zerolog.Nop()
	return NewStore(mt.Coll, &logger)
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		names, err := newStore(mt).EnsureIndexes(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []string{"city_1", "status_1_age_1"}, names)
	})

	mt.Run("reset drops then indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		require.NoError(mt, newStore(mt).Reset(context.Background()))
	})

	mt.Run("insert many assigns ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		ids, err := newStore(mt).InsertMany(context.Background(), []User{
			{Name: "Alice", Age: 25, City: "Moscow"},
			{Name: "Bob", Age: 30, City: "SPb"},
		})
		require.NoError(mt, err)
		require.Len(mt, ids, 2)
		assert.False(mt, ids[0].IsZero())
		assert.NotEqual(mt, ids[0], ids[1])
	})

	mt.Run("insert many surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := newStore(mt).InsertMany(context.Background(), []User{{Name: "Alice"}})
		assert.ErrorContains(mt, err, "duplicate key")
	})

	mt.Run("seed", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		ids, err := newStore(mt).Seed(context.Background(), 30, rand.New(rand.NewPCG(1, 2)))
		require.NoError(mt, err)
		assert.Len(mt, ids, 30)
	})

	mt.Run("find all", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Alice"},
			{Key: "age", Value: int32(25)},
			{Key: "city", Value: "Moscow"},
			{Key: "status", Value: "active"},
			{Key: "profile", Value: bson.D{{Key: "skill", Value: "Go"}, {Key: "level", Value: int32(3)}}},
		}))

		users, err := newStore(mt).FindAll(context.Background())
		require.NoError(mt, err)
		require.Len(mt, users, 1)
		assert.Equal(mt, id, users[0].ID)
		assert.Equal(mt, 25, users[0].Age)
		require.NotNil(mt, users[0].Profile)
		assert.Equal(mt, 3, users[0].Profile.Level)
	})

	mt.Run("active by city empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		users, err := newStore(mt).ActiveByCity(context.Background(), "Kazan")
		require.NoError(mt, err)
		assert.NotNil(mt, users)
		assert.Empty(mt, users)
	})

	mt.Run("update status", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: int32(1)},
			bson.E{Key: "nModified", Value: int32(1)},
		))

		modified, err := newStore(mt).UpdateStatus(context.Background(), "User1", StatusInactive)
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), modified)
	})

	mt.Run("update missing name", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: int32(0)},
			bson.E{Key: "nModified", Value: int32(0)},
		))

		modified, err := newStore(mt).UpdateByName(context.Background(), "Nobody", bson.M{"age": 26})
		require.NoError(mt, err)
		assert.Zero(mt, modified)
	})

	mt.Run("delete by name", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))

		deleted, err := newStore(mt).DeleteByName(context.Background(), "Bob")
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), deleted)
	})

	mt.Run("clear", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(3)}))

		deleted, err := newStore(mt).Clear(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), deleted)
	})

	mt.Run("city stats", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "Kazan"}, {Key: "count", Value: int32(4)}, {Key: "avg_age", Value: 31.5}},
			bson.D{{Key: "_id", Value: "Moscow"}, {Key: "count", Value: int32(10)}, {Key: "avg_age", Value: 35.0}},
		))

		stats, err := newStore(mt).CityStats(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []CityStats{
			{City: "Kazan", Count: 4, AvgAge: 31.5},
			{City: "Moscow", Count: 10, AvgAge: 35},
		}, stats)
	})

	mt.Run("active users by city", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "SPb"}, {Key: "active_users", Value: int32(6)}},
		))

		active, err := newStore(mt).ActiveUsersByCity(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []CityActive{{City: "SPb", ActiveUsers: 6}}, active)
	})

	mt.Run("aggregate error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad pipeline",
			Name:    "BadValue",
		}))

		_, err := newStore(mt).CityStats(context.Background())
		assert.ErrorContains(mt, err, "bad pipeline")
	})
}

func TestRandomUsers(t *testing.T) {
	users := RandomUsers(30, rand.New(rand.NewPCG(7, 7)))
	require.Len(t, users, 30)

	for i, u := range users {
		assert.Equal(t, "User"+strconv.Itoa(i), u.Name)
		assert.GreaterOrEqual(t, u.Age, 20)
		assert.LessOrEqual(t, u.Age, 50)
		assert.Contains(t, seedCities, u.City)
		assert.Contains(t, seedStatuses, u.Status)
		require.NotNil(t, u.Profile)
		assert.Contains(t, seedSkills, u.Profile.Skill)
		assert.GreaterOrEqual(t, u.Profile.Level, 1)
		assert.LessOrEqual(t, u.Profile.Level, 5)
	}

	again := RandomUsers(30, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, users, again)
}
