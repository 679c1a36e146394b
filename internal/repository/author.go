package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Author struct {
	AuthorId     int64     `db:"author_id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (q *Queries) CreateAuthor(ctx context.Context, username string, passwordHash []byte) (*Author, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO author (username, password_hash)
		VALUES (@username, @password_hash)
		RETURNING author_id, username, password_hash, created_at;`,
		pgx.NamedArgs{
			"username":      username,
			"password_hash": passwordHash,
		},
	)
	author, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Author])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return nil, ErrUsernameTaken
	}
	return author, err
}

func (q *Queries) FetchAuthor(ctx context.Context, username string) (*Author, error) {
	rows, _ := q.db.Query(
		ctx,
		`SELECT author_id, username, password_hash, created_at
		FROM author
		WHERE username = $1;`,
		username,
	)
	author, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Author])
	return author, notFound(err)
}
