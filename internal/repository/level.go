package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/crystal-levels/internal/level"
)

type LevelRecord struct {
	LevelId          int64     `db:"level_id"`
	AuthorId         *int64    `db:"author_id"`
	Width            int32     `db:"width"`
	Height           int32     `db:"height"`
	RequiredCrystals int32     `db:"required_crystals"`
	Seed             int64     `db:"seed"`
	Attempts         int32     `db:"attempts"`
	State            []byte    `db:"state"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r LevelRecord) Level() (*level.Level, error) {
	lvl, err := level.DecodeLevel(r.State)
	if err != nil {
		return nil, fmt.Errorf("level %d has invalid state: %w", r.LevelId, err)
	}
	return lvl, nil
}

const levelColumns = `level_id, author_id, width, height, required_crystals,
	seed, attempts, state, created_at`

func (q *Queries) CreateLevel(ctx context.Context, authorId *int64, lvl *level.Level) (*LevelRecord, error) {
	state, err := lvl.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to encode level: %w", err)
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO level (
			author_id, width, height, required_crystals, seed, attempts, state
		)
		VALUES (
			@author_id, @width, @height, @required_crystals, @seed, @attempts, @state
		)
		RETURNING `+levelColumns+`;`,
		pgx.NamedArgs{
			"author_id":         authorId,
			"width":             lvl.Grid.Width(),
			"height":            lvl.Grid.Height(),
			"required_crystals": lvl.RequiredCrystals,
			"seed":              int64(lvl.Seed),
			"attempts":          lvl.Attempts,
			"state":             state,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[LevelRecord])
}

func (q *Queries) FetchLevel(ctx context.Context, levelId int64) (*LevelRecord, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT "+levelColumns+" FROM level WHERE level_id = $1;",
		levelId,
	)
	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[LevelRecord])
	return record, notFound(err)
}

const DefaultListLimit = 50

type LevelFilter struct {
	AuthorId *int64
	Width    *int
	Height   *int
	Limit    int
}

func (f LevelFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.AuthorId != nil {
		clauses = append(clauses, "author_id = @author_id")
		args["author_id"] = *f.AuthorId
	}
	if f.Width != nil {
		clauses = append(clauses, "width = @width")
		args["width"] = *f.Width
	}
	if f.Height != nil {
		clauses = append(clauses, "height = @height")
		args["height"] = *f.Height
	}
	return strings.Join(clauses, " AND "), args
}

func (f LevelFilter) limit() int {
	if f.Limit <= 0 || f.Limit > DefaultListLimit {
		return DefaultListLimit
	}
	return f.Limit
}

// Matches reports whether r passes the filter, ignoring the limit.
func (f LevelFilter) Matches(r *LevelRecord) bool {
	if f.AuthorId != nil && (r.AuthorId == nil || *r.AuthorId != *f.AuthorId) {
		return false
	}
	if f.Width != nil && int(r.Width) != *f.Width {
		return false
	}
	if f.Height != nil && int(r.Height) != *f.Height {
		return false
	}
	return true
}

// ListLevels returns the newest levels first.
func (q *Queries) ListLevels(ctx context.Context, filter LevelFilter) ([]LevelRecord, error) {
	query := "SELECT " + levelColumns + " FROM level"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY level_id DESC LIMIT @limit;"
	args["limit"] = filter.limit()

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[LevelRecord])
}
