package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/stud0000299683/bd-special/internal/cache"
	"github.com/stud0000299683/bd-special/internal/pubsub"
	"github.com/stud0000299683/bd-special/internal/repository"
)

// UserLoader is the part of the user repository the handlers need.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*repository.User, error)
}

type HandlerDeps struct {
	Users UserLoader
	Cache *cache.UserCache
	Redis redis.UniversalClient
}

// handleUserCreatedTask warms the user cache and announces the user on
// UsersCreatedChannel. A user deleted in the meantime is skipped without
// retry.
func (j *JobService) handleUserCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p UserCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal user created payload: %w: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().Str("type", TaskUserCreated).Int64("user_id", p.UserID).Logger()
	logger.Info().Msg("Processing user created task")

	user, err := j.deps.Users.GetByID(ctx, p.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load user")
		return err
	}
	if user == nil {
		logger.Warn().Msg("User no longer exists, skipping")
		return nil
	}

	if err := j.deps.Cache.Put(ctx, user); err != nil {
		logger.Error().Err(err).Msg("Failed to cache user")
		return err
	}

	event, err := json.Marshal(user)
	if err != nil {
		return err
	}
	receivers, err := pubsub.Publish(ctx, j.deps.Redis, UsersCreatedChannel, string(event))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to publish user created event")
		return err
	}

	logger.Info().Int64("receivers", receivers).Msg("Successfully processed user created task")
	return nil
}
