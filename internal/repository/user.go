package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const userColumns = "id, name, email, age, created_at"

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.CreatedAt)
	return u, err
}

func collectUser(row pgx.CollectableRow) (User, error) {
	return scanUser(row)
}

// getUser runs a single-row query, mapping no rows to nil.
func getUser(ctx context.Context, db DBTX, query string, args ...any) (*User, error) {
	u, err := scanUser(db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func listUsers(ctx context.Context, db DBTX, query string, args ...any) ([]User, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, collectUser)
}

// Create inserts a user. A duplicate email fails with a unique violation.
func (r *UserRepository) Create(ctx context.Context, name, email string, age int) (*User, error) {
	u, err := createUser(ctx, r.db, name, email, age)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func createUser(ctx context.Context, db DBTX, name, email string, age int) (User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`INSERT INTO users (name, email, age) VALUES ($1, $2, $3) RETURNING `+userColumns,
		name, email, age,
	))
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return getUser(ctx, r.db, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return getUser(ctx, r.db, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) List(ctx context.Context) ([]User, error) {
	return listUsers(ctx, r.db, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

// ListWithPostCount returns every user with the number of posts they own.
func (r *UserRepository) ListWithPostCount(ctx context.Context) ([]UserWithPostCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.email, u.age, u.created_at, COUNT(p.id) AS post_count
		FROM users u
		LEFT JOIN posts p ON p.user_id = u.id
		GROUP BY u.id
		ORDER BY u.id`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (UserWithPostCount, error) {
		var u UserWithPostCount
		err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.CreatedAt, &u.PostCount)
		return u, err
	})
}

// ListByAge returns users whose age lies within the range, ordered by age.
func (r *UserRepository) ListByAge(ctx context.Context, ageRange AgeRange) ([]User, error) {
	var (
		where []string
		set   setClause
	)
	if ageRange.Min != nil {
		where = append(where, "age >= "+set.nextArg(*ageRange.Min))
	}
	if ageRange.Max != nil {
		where = append(where, "age <= "+set.nextArg(*ageRange.Max))
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY age, id"

	return listUsers(ctx, r.db, query, set.args...)
}

// SearchByName does a case-insensitive substring match. LIKE wildcards in
// the input match literally.
func (r *UserRepository) SearchByName(ctx context.Context, pattern string) ([]User, error) {
	return listUsers(ctx, r.db,
		`SELECT `+userColumns+` FROM users WHERE name ILIKE $1 ESCAPE '\' ORDER BY id`,
		containsPattern(pattern),
	)
}

// Update sets the non-nil fields of upd. It returns nil, nil when the user
// does not exist.
func (r *UserRepository) Update(ctx context.Context, id int64, upd UserUpdate) (*User, error) {
	var set setClause
	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.Email != nil {
		set.add("email", *upd.Email)
	}
	if upd.Age != nil {
		set.add("age", *upd.Age)
	}
	if set.empty() {
		return nil, ErrEmptyUpdate
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = %s RETURNING %s`, set.String(), set.nextArg(id), userColumns)
	return getUser(ctx, r.db, query, set.args...)
}

func (r *UserRepository) UpdateName(ctx context.Context, id int64, name string) (*User, error) {
	return r.Update(ctx, id, UserUpdate{Name: &name})
}

// UpdateEmail reports whether a row was changed.
func (r *UserRepository) UpdateEmail(ctx context.Context, id int64, email string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE users SET email = $1 WHERE id = $2`, email, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the user and, through the foreign key, their posts.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
