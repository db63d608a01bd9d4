package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todo_store/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// unique_violation
	pgUniqueViolation = "23505"
	// class 22, data exception: bad encoding, oversized values and the like
	pgDataExceptionClass = "22"
)

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type TodoRepository struct {
	db DB
}

func NewTodoRepository(db DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	rows, err := r.db.Query(ctx, `SELECT id, task, completed FROM todos ORDER BY id`)
	if err != nil {
		return nil, storageErr("list todos", err)
	}
	defer rows.Close()

	res := make([]domain.Todo, 0)
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.Task, &t.Completed); err != nil {
			return nil, storageErr("scan todo", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate todos", err)
	}
	return res, nil
}

func (r *TodoRepository) Get(ctx context.Context, id uuid.UUID) (domain.Todo, error) {
	return getTodo(ctx, r.db, id)
}

func (r *TodoRepository) Create(ctx context.Context, t domain.Todo) (domain.Todo, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO todos (id, task, completed)
		 VALUES ($1, $2, $3)
		 RETURNING id, task, completed`,
		t.ID, t.Task, t.Completed,
	).Scan(&t.ID, &t.Task, &t.Completed)
	if err != nil {
		return domain.Todo{}, writeErr("create todo "+t.ID.String(), err)
	}
	return t, nil
}

// Update mutates first and checks the affected row count afterwards, then
// re-reads the row inside the same transaction.
func (r *TodoRepository) Update(ctx context.Context, id uuid.UUID, patch domain.TodoPatch) (domain.Todo, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Todo{}, storageErr("begin update", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE todos
		 SET task = COALESCE($2, task),
		     completed = COALESCE($3, completed)
		 WHERE id = $1`,
		id, patch.Task, patch.Completed,
	)
	if err != nil {
		return domain.Todo{}, writeErr("update todo "+id.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Todo{}, fmt.Errorf("update todo %s: %w", id, domain.ErrNotFound)
	}

	t, err := getTodo(ctx, tx, id)
	if err != nil {
		return domain.Todo{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Todo{}, storageErr("commit update", err)
	}
	return t, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete todo", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete todo %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *TodoRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getTodo(ctx context.Context, q rowQuerier, id uuid.UUID) (domain.Todo, error) {
	var t domain.Todo
	err := q.QueryRow(ctx, `SELECT id, task, completed FROM todos WHERE id = $1`, id).
		Scan(&t.ID, &t.Task, &t.Completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Todo{}, fmt.Errorf("get todo %s: %w", id, domain.ErrNotFound)
		}
		return domain.Todo{}, storageErr("get todo", err)
	}
	return t, nil
}

// writeErr classifies an INSERT/UPDATE failure. Key collisions are
// conflicts and rejected values are the caller's fault; everything else is
// the store's.
func writeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case strings.HasPrefix(pgErr.Code, pgDataExceptionClass):
			return fmt.Errorf("%s: %w: %s", op, domain.ErrValidation, pgErr.Message)
		}
	}
	return storageErr(op, err)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}
