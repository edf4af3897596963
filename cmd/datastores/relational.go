package main

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/stud0000299683/bd-special/internal/database"
	"github.com/stud0000299683/bd-special/internal/repository"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database if missing and apply the schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			created, err := database.EnsureDatabase(ctx, a.log, a.cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(ctx, a.log, a.cfg); err != nil {
				return err
			}

			return a.print("migrate", map[string]any{
				"database": a.cfg.Database.Name,
				"created":  created,
			})
		},
	}
}

func (a *app) openDatabase() (*database.Database, error) {
	return database.New(a.cfg, a.log, a.loggerService)
}

func newRelationalCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "relational",
		Short: "Walk through user CRUD against PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			users := repository.NewUserRepository(db.Pool)
			faker := gofakeit.New(0)

			user, err := users.Create(ctx, faker.Name(), faker.Email(), faker.IntRange(18, 70))
			if err != nil {
				return err
			}
			if err := a.print("created", user); err != nil {
				return err
			}

			byEmail, err := users.GetByEmail(ctx, user.Email)
			if err != nil {
				return err
			}
			if err := a.print("found by email", byEmail); err != nil {
				return err
			}

			renamed, err := users.UpdateName(ctx, user.ID, faker.Name())
			if err != nil {
				return err
			}
			if err := a.print("renamed", renamed); err != nil {
				return err
			}

			changed, err := users.UpdateEmail(ctx, user.ID, faker.Email())
			if err != nil {
				return err
			}
			if err := a.print("email updated", changed); err != nil {
				return err
			}

			minAge, maxAge := 18, 40
			young, err := users.ListByAge(ctx, repository.AgeRange{Min: &minAge, Max: &maxAge})
			if err != nil {
				return err
			}
			if err := a.print(fmt.Sprintf("aged %d-%d", minAge, maxAge), young); err != nil {
				return err
			}

			all, err := users.ListWithPostCount(ctx)
			if err != nil {
				return err
			}
			if err := a.print("all users", all); err != nil {
				return err
			}

			deleted, err := users.Delete(ctx, user.ID)
			if err != nil {
				return err
			}
			again, err := users.Delete(ctx, user.ID)
			if err != nil {
				return err
			}
			return a.print("deleted", map[string]bool{"first": deleted, "second": again})
		},
	}
}

func newPostsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "Create a user with posts and show the cascade on delete",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			repos := repository.NewRepositories(db.Pool)
			faker := gofakeit.New(0)

			author, err := repos.Posts.CreateUserWithPosts(ctx, faker.Name(), faker.Email(), faker.IntRange(18, 70), []repository.NewPost{
				{Title: "First post", Content: faker.Sentence(8)},
				{Title: "Second post", Content: faker.Sentence(8)},
			})
			if err != nil {
				return err
			}
			if err := a.print("author", author); err != nil {
				return err
			}

			ids, err := repos.Posts.CreateMany(ctx, author.ID, []repository.NewPost{
				{Title: faker.BookTitle(), Content: faker.Sentence(8)},
				{Title: faker.BookTitle(), Content: faker.Sentence(8)},
			})
			if err != nil {
				return err
			}
			if err := a.print("more posts", ids); err != nil {
				return err
			}

			title := "First post (edited)"
			if _, err := repos.Posts.Update(ctx, author.Posts[0].ID, repository.PostUpdate{Title: &title}); err != nil {
				return err
			}

			withPosts, err := repos.Posts.GetUserWithPosts(ctx, author.ID)
			if err != nil {
				return err
			}
			if err := a.print("user with posts", withPosts); err != nil {
				return err
			}

			if _, err := repos.Users.Delete(ctx, author.ID); err != nil {
				return err
			}
			left, err := repos.Posts.ListByUser(ctx, author.ID)
			if err != nil {
				return err
			}
			return a.print("posts after deleting the user", len(left))
		},
	}
}
