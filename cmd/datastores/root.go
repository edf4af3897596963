package main

import (
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stud0000299683/bd-special/internal/config"
	"github.com/stud0000299683/bd-special/internal/lib/utils"
	"github.com/stud0000299683/bd-special/internal/logger"
	"github.com/stud0000299683/bd-special/internal/server"
)

// app is the per-invocation state shared by the subcommands. Each command
// opens the clients it needs and closes them before returning.
type app struct {
	cfg           *config.Config
	log           *zerolog.Logger
	loggerService *logger.LoggerService
	out           io.Writer
}

func (a *app) print(label string, v any) error {
	return utils.PrintJSON(a.out, label, v)
}

func (a *app) redisClient() *redis.Client {
	return server.NewRedisClient(a.cfg, a.log, a.loggerService)
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "datastores",
		Short:        "PostgreSQL, MongoDB and Redis exercises",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.loggerService = logger.NewLoggerService(cfg.Observability)
			log := logger.NewLoggerWithService(cfg.Observability, a.loggerService)
			a.log = &log
			a.out = cmd.OutOrStdout()
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.loggerService != nil {
				a.loggerService.Shutdown()
			}
		},
	}

	root.AddCommand(
		newMigrateCommand(a),
		newRelationalCommand(a),
		newPostsCommand(a),
		newInjectionCommand(a),
		newDocumentsCommand(a),
		newDocumentsCRUDCommand(a),
		newCacheCommand(a),
		newPubSubCommand(a),
		newPublishCommand(a),
		newSubscribeCommand(a),
		newQueueCommand(a),
		newQueueWorkerCommand(a),
		newServeCommand(a),
		newWorkerCommand(a),
	)

	return root
}
