package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/stud0000299683/bd-special/internal/cache"
	"github.com/stud0000299683/bd-special/internal/lib/job"
	"github.com/stud0000299683/bd-special/internal/metrics"
	"github.com/stud0000299683/bd-special/internal/repository"
)

// UserStore is the subset of repository.UserRepository the service uses.
type UserStore interface {
	Create(ctx context.Context, name, email string, age int) (*repository.User, error)
	GetByID(ctx context.Context, id int64) (*repository.User, error)
	List(ctx context.Context) ([]repository.User, error)
	ListByAge(ctx context.Context, ageRange repository.AgeRange) ([]repository.User, error)
	SearchByName(ctx context.Context, pattern string) ([]repository.User, error)
	Update(ctx context.Context, id int64, upd repository.UserUpdate) (*repository.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Enqueuer schedules the user:created fan-out.
type Enqueuer interface {
	EnqueueUserCreated(ctx context.Context, payload job.UserCreatedPayload) error
}

// UserFilter narrows List. Name takes precedence over the age bounds.
type UserFilter struct {
	Name   string
	MinAge *int
	MaxAge *int
}

type UserService struct {
	users   UserStore
	cache   *cache.UserCache
	jobs    Enqueuer
	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

func NewUserService(users UserStore, userCache *cache.UserCache, jobs Enqueuer, m *metrics.Metrics, logger *zerolog.Logger) *UserService {
	return &UserService{
		users:   users,
		cache:   userCache,
		jobs:    jobs,
		metrics: m,
		logger:  logger,
	}
}

// Create inserts the user and enqueues user:created. The user is already
// committed when enqueueing fails, so that failure is only logged.
func (s *UserService) Create(ctx context.Context, name, email string, age int) (*repository.User, error) {
	user, err := s.users.Create(ctx, name, email, age)
	if err != nil {
		return nil, err
	}

	if s.jobs != nil {
		payload := job.UserCreatedPayload{UserID: user.ID, Name: user.Name, Email: user.Email}
		if err := s.jobs.EnqueueUserCreated(ctx, payload); err != nil {
			s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to enqueue user created task")
		}
	}

	return user, nil
}

// Get reads through the cache. Cache failures fall back to the database.
func (s *UserService) Get(ctx context.Context, id int64) (*repository.User, error) {
	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		s.metrics.CacheHits.Inc()
		return cached, nil
	}
	s.metrics.CacheMisses.Inc()
	if !errors.Is(err, cache.ErrNotFound) {
		s.logger.Warn().Err(err).Int64("user_id", id).Msg("user cache read failed")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, user); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", id).Msg("user cache write failed")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, filter UserFilter) ([]repository.User, error) {
	switch {
	case filter.Name != "":
		return s.users.SearchByName(ctx, filter.Name)
	case filter.MinAge != nil || filter.MaxAge != nil:
		return s.users.ListByAge(ctx, repository.AgeRange{Min: filter.MinAge, Max: filter.MaxAge})
	default:
		return s.users.List(ctx)
	}
}

func (s *UserService) Update(ctx context.Context, id int64, upd repository.UserUpdate) (*repository.User, error) {
	user, err := s.users.Update(ctx, id, upd)
	if err != nil || user == nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil || !deleted {
		return false, err
	}
	s.invalidate(ctx, id)
	return true, nil
}

// invalidate drops the snapshot. A failure leaves it to expire with the TTL.
func (s *UserService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", id).Msg("user cache invalidation failed")
	}
}
