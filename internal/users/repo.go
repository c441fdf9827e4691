package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("username or email already exists")
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Create inserts a new user. Uniqueness of username and email is checked by
// the caller via Exists first; the database constraints are the backstop.
func (r *Repo) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	const q = `
insert into users (username, email, password_hash)
values ($1, $2, $3)
returning id, username, email, password_hash, created_at;
`
	var u User
	err := r.db.QueryRow(ctx, q, username, email, passwordHash).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		// unique violation → a concurrent registration won the race
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `
select id, username, email, password_hash, created_at
from users
where id = $1;
`
	return r.scanOne(r.db.QueryRow(ctx, q, id))
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	const q = `
select id, username, email, password_hash, created_at
from users
where username = $1;
`
	return r.scanOne(r.db.QueryRow(ctx, q, username))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
select id, username, email, password_hash, created_at
from users
where email = $1;
`
	return r.scanOne(r.db.QueryRow(ctx, q, email))
}

// Exists reports whether a user with the given username or email is already
// registered.
func (r *Repo) Exists(ctx context.Context, username, email string) (bool, error) {
	const q = `
select exists (
  select 1 from users where username = $1 or email = $2
);
`
	var exists bool
	if err := r.db.QueryRow(ctx, q, username, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repo) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
