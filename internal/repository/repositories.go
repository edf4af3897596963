package repository

type Repositories struct {
	Users *UserRepository
	Posts *PostRepository
}

// NewRepositories builds the repositories over any DBTX, usually the
// server's pool.
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Users: NewUserRepository(db),
		Posts: NewPostRepository(db),
	}
}
