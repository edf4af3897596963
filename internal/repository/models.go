package repository

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserWithPostCount struct {
	User
	PostCount int64 `json:"postCount"`
}

type UserWithPosts struct {
	User
	Posts []Post `json:"posts"`
}

type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
	Age   *int
}

type PostUpdate struct {
	Title   *string
	Content *string
}

// AgeRange is inclusive on both ends. A nil bound is open.
type AgeRange struct {
	Min *int
	Max *int
}

type NewPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
