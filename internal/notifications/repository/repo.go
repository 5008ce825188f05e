package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nepfy/nepfy-backend/internal/notifications/domain"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db DBTX
}

func NewRepo(db DBTX) *Repo {
	return &Repo{db: db}
}

const columns = `id, user_id, type, title, message, project_id, metadata, is_read, read_at, created_at`

func (r *Repo) Create(ctx context.Context, in domain.CreateInput) (*domain.Notification, error) {
	metadata := in.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	rows, err := r.db.Query(ctx, `
insert into notifications (id, user_id, type, title, message, project_id, metadata)
values ($1, $2, $3, $4, $5, $6, $7)
returning `+columns,
		uuid.New(), in.UserID, in.Type, in.Title, in.Message, in.ProjectID, metadata)
	if err != nil {
		return nil, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[domain.Notification])
}

func (r *Repo) List(ctx context.Context, userID string, f domain.ListFilter) ([]domain.Notification, error) {
	f.Normalize()

	rows, err := r.db.Query(ctx, `
select `+columns+`
from notifications
where user_id = $1
  and ($2::bool = false or is_read = false)
order by created_at desc, id
limit $3 offset $4
`, userID, f.UnreadOnly, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Notification])
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Notification{}
	}
	return out, nil
}

func (r *Repo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`select count(*) from notifications where user_id = $1 and is_read = false`, userID,
	).Scan(&n)
	return n, err
}

// MarkRead flags one notification as read. Marking an already read
// notification again is not an error.
func (r *Repo) MarkRead(ctx context.Context, userID string, id uuid.UUID) (*domain.Notification, error) {
	rows, err := r.db.Query(ctx, `
update notifications
set is_read = true, read_at = coalesce(read_at, now())
where id = $1 and user_id = $2
returning `+columns, id, userID)
	if err != nil {
		return nil, err
	}
	n, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[domain.Notification])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return n, err
}

func (r *Repo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
update notifications
set is_read = true, read_at = now()
where user_id = $1 and is_read = false
`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `delete from notifications where id = $1 and user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PurgeRead removes read notifications whose read_at is older than before.
func (r *Repo) PurgeRead(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `delete from notifications where is_read = true and read_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
