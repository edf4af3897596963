package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stud0000299683/bd-special/internal/cache"
	"github.com/stud0000299683/bd-special/internal/config"
	"github.com/stud0000299683/bd-special/internal/pubsub"
	"github.com/stud0000299683/bd-special/internal/repository"
)

type stubUsers map[int64]*repository.User

func (s stubUsers) GetByID(_ context.Context, id int64) (*repository.User, error) {
	if id < 0 {
		return nil, errors.New("db down")
	}
	return s[id], nil
}

func newTestService(t *testing.T, users stubUsers) (*JobService, *cache.UserCache, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zerolog.Nop()
	userCache := cache.NewUserCache(cache.NewMemoryStore(time.Minute), time.Minute)

	j := &JobService{logger: &logger}
	j.InitHandlers(HandlerDeps{Users: users, Cache: userCache, Redis: client})
	return j, userCache, client
}

func TestNewUserCreatedTask(t *testing.T) {
	task, err := NewUserCreatedTask(UserCreatedPayload{UserID: 3, Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)

	assert.Equal(t, TaskUserCreated, task.Type())

	var p UserCreatedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, int64(3), p.UserID)
	assert.Equal(t, "ann@example.com", p.Email)
}

func TestHandleUserCreated_CachesAndPublishes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user := &repository.User{ID: 3, Name: "Ann", Email: "ann@example.com", Age: 30}
	j, userCache, client := newTestService(t, stubUsers{3: user})

	sub, err := pubsub.Subscribe(ctx, client, UsersCreatedChannel)
	require.NoError(t, err)
	defer sub.Close()

	task, err := NewUserCreatedTask(UserCreatedPayload{UserID: 3})
	require.NoError(t, err)
	require.NoError(t, j.handleUserCreatedTask(ctx, task))

	cached, err := userCache.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Ann", cached.Name)

	msg, err := sub.Receive(ctx)
	require.NoError(t, err)
	var announced repository.User
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &announced))
	assert.Equal(t, int64(3), announced.ID)
}

func TestHandleUserCreated_MissingUserIsSkipped(t *testing.T) {
	j, userCache, _ := newTestService(t, stubUsers{})

	task, err := NewUserCreatedTask(UserCreatedPayload{UserID: 99})
	require.NoError(t, err)
	require.NoError(t, j.handleUserCreatedTask(context.Background(), task))

	_, err = userCache.Get(context.Background(), 99)
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestHandleUserCreated_LoadErrorIsRetried(t *testing.T) {
	j, _, _ := newTestService(t, stubUsers{})

	task, err := NewUserCreatedTask(UserCreatedPayload{UserID: -1})
	require.NoError(t, err)

	err = j.handleUserCreatedTask(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleUserCreated_BadPayloadSkipsRetry(t *testing.T) {
	j, _, _ := newTestService(t, stubUsers{})

	err := j.handleUserCreatedTask(context.Background(), asynq.NewTask(TaskUserCreated, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRedisOpt(t *testing.T) {
	opt := RedisOpt(&config.RedisConfig{Address: "cache:6379", Password: "secret", DB: 2})
	assert.Equal(t, "cache:6379", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)
}
