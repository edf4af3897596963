package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/stud0000299683/bd-special/internal/cache"
	"github.com/stud0000299683/bd-special/internal/handler"
	"github.com/stud0000299683/bd-special/internal/lib/job"
	"github.com/stud0000299683/bd-special/internal/repository"
	"github.com/stud0000299683/bd-special/internal/router"
	"github.com/stud0000299683/bd-special/internal/server"
	"github.com/stud0000299683/bd-special/internal/service"
)

const shutdownTimeout = 30 * time.Second

func startJobs(s *server.Server, repos *repository.Repositories) error {
	s.Job.InitHandlers(job.HandlerDeps{
		Users: repos.Users,
		Cache: cache.NewUserCache(cache.NewRedisStore(s.Redis), cache.DefaultUserTTL),
		Redis: s.Redis,
	})
	return s.Job.Start()
}

func shutdown(a *app, s *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		a.log.Error().Err(err).Msg("shutdown finished with errors")
	}
}

func newServeCommand(a *app) *cobra.Command {
	var withJobs bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := server.New(a.cfg, a.log, a.loggerService)
			if err != nil {
				return err
			}
			defer shutdown(a, s)

			repos := repository.NewRepositories(s.DB.Pool)
			if withJobs {
				if err := startJobs(s, repos); err != nil {
					return err
				}
			}

			services := service.NewServices(s, repos)
			s.SetupHTTPServer(router.NewRouter(s, handler.NewHandlers(s, services)))

			errCh := make(chan error, 1)
			go func() {
				errCh <- s.Start()
			}()

			select {
			case <-ctx.Done():
				a.log.Info().Msg("shutting down")
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&withJobs, "jobs", true, "also process background jobs in this process")
	return cmd
}

func newWorkerCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process background jobs until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := server.New(a.cfg, a.log, a.loggerService)
			if err != nil {
				return err
			}
			defer shutdown(a, s)

			if err := startJobs(s, repository.NewRepositories(s.DB.Pool)); err != nil {
				return err
			}

			<-cmd.Context().Done()
			a.log.Info().Msg("shutting down")
			return nil
		},
	}
}
