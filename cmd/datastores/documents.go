package main

import (
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/stud0000299683/bd-special/internal/document"
)

func (a *app) openDocuments(cmd *cobra.Command) (*document.Store, func(), error) {
	client, err := document.Connect(cmd.Context(), a.cfg.Mongo)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(cmd.Context()); err != nil {
			a.log.Warn().Err(err).Msg("failed to disconnect MongoDB")
		}
	}
	return document.NewStore(client.Collection(), a.log), closeFn, nil
}

func newDocumentsCommand(a *app) *cobra.Command {
	var (
		count int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Seed random MongoDB users and run the aggregation pipelines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, closeFn, err := a.openDocuments(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := store.Reset(ctx); err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(seed, seed))
			ids, err := store.Seed(ctx, count, rng)
			if err != nil {
				return err
			}
			if err := a.print("inserted", len(ids)); err != nil {
				return err
			}

			stats, err := store.CityStats(ctx)
			if err != nil {
				return err
			}
			if err := a.print("users per city", stats); err != nil {
				return err
			}

			active, err := store.ActiveUsersByCity(ctx)
			if err != nil {
				return err
			}
			return a.print("active users per city", active)
		},
	}

	cmd.Flags().IntVar(&count, "count", 30, "number of random users to insert")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func newDocumentsCRUDCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "documents-crud",
		Short: "Insert, query, update and delete MongoDB users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, closeFn, err := a.openDocuments(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := store.Reset(ctx); err != nil {
				return err
			}

			users := []document.User{
				{Name: "Alice", Email: "alice@example.com", Age: 25, City: "Moscow", Status: document.StatusActive,
					Profile: &document.Profile{Skill: "Go", Level: 4}},
				{Name: "Bob", Email: "bob@example.com", Age: 31, City: "Kazan", Status: document.StatusActive},
				{Name: "Carol", Email: "carol@example.com", Age: 42, City: "Moscow", Status: document.StatusInactive},
			}
			if _, err := store.InsertMany(ctx, users); err != nil {
				return err
			}

			all, err := store.FindAll(ctx)
			if err != nil {
				return err
			}
			if err := a.print("all", all); err != nil {
				return err
			}

			modified, err := store.UpdateByName(ctx, "Bob", bson.M{"age": 32, "city": "Moscow"})
			if err != nil {
				return err
			}
			if err := a.print("updated Bob", modified); err != nil {
				return err
			}

			if _, err := store.UpdateStatus(ctx, "Carol", document.StatusActive); err != nil {
				return err
			}
			moscow, err := store.ActiveByCity(ctx, "Moscow")
			if err != nil {
				return err
			}
			if err := a.print("active in Moscow", moscow); err != nil {
				return err
			}

			deleted, err := store.DeleteByName(ctx, "Alice")
			if err != nil {
				return err
			}
			if err := a.print("deleted Alice", deleted); err != nil {
				return err
			}

			cleared, err := store.Clear(ctx)
			if err != nil {
				return err
			}
			return a.print("cleared", cleared)
		},
	}
}
