package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"todo_store/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRow scans a fixed todo or returns err.
type fakeRow struct {
	todo domain.Todo
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanTodo(r.todo, dest)
}

func scanTodo(t domain.Todo, dest []any) error {
	if len(dest) != 3 {
		return fmt.Errorf("scan: want 3 targets, got %d", len(dest))
	}
	*dest[0].(*uuid.UUID) = t.ID
	*dest[1].(*string) = t.Task
	*dest[2].(*bool) = t.Completed
	return nil
}

type fakeRows struct {
	pgx.Rows
	todos  []domain.Todo
	pos    int
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.todos) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return scanTodo(r.todos[r.pos-1], dest) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 { r.closed = true }

// fakeTx only implements what Update touches.
type fakeTx struct {
	pgx.Tx
	tag        pgconn.CommandTag
	execErr    error
	row        fakeRow
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return tx.tag, tx.execErr
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return tx.row
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

type fakeDB struct {
	rows     *fakeRows
	queryErr error
	row      fakeRow
	tag      pgconn.CommandTag
	execErr  error
	tx       *fakeTx
	pingErr  error
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	return db.rows, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.row
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return db.tag, db.execErr
}

func (db *fakeDB) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	return db.tx, nil
}

func (db *fakeDB) Ping(ctx context.Context) error { return db.pingErr }

func TestListScansRows(t *testing.T) {
	a := domain.Todo{ID: uuid.New(), Task: "A"}
	b := domain.Todo{ID: uuid.New(), Task: "B", Completed: true}
	rows := &fakeRows{todos: []domain.Todo{a, b}}
	repo := NewTodoRepository(&fakeDB{rows: rows})

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("list = %+v", got)
	}
	if !rows.closed {
		t.Fatalf("rows not closed")
	}

	empty, err := NewTodoRepository(&fakeDB{rows: &fakeRows{}}).List(context.Background())
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty list = %#v, %v", empty, err)
	}
}

func TestCreateErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate key", &pgconn.PgError{Code: "23505"}, domain.ErrConflict},
		{"invalid byte sequence", &pgconn.PgError{Code: "22021", Message: "invalid byte sequence for encoding \"UTF8\": 0x00"}, domain.ErrValidation},
		{"value too long", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "22001"}), domain.ErrValidation},
		{"other server error", &pgconn.PgError{Code: "53300"}, domain.ErrStorageUnavailable},
		{"connection error", errors.New("connection refused"), domain.ErrStorageUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewTodoRepository(&fakeDB{row: fakeRow{err: tc.err}})
			_, err := repo.Create(context.Background(), domain.Todo{ID: uuid.New(), Task: "x"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v; want %v", err, tc.want)
			}
		})
	}
}

func TestCreateReturnsStoredRow(t *testing.T) {
	stored := domain.Todo{ID: uuid.New(), Task: "stored"}
	repo := NewTodoRepository(&fakeDB{row: fakeRow{todo: stored}})

	got, err := repo.Create(context.Background(), domain.Todo{ID: stored.ID, Task: "stored"})
	if err != nil || got != stored {
		t.Fatalf("create = %+v, %v", got, err)
	}
}

func TestUpdateReturnsRereadRow(t *testing.T) {
	id := uuid.New()
	after := domain.Todo{ID: id, Task: "kept", Completed: true}
	tx := &fakeTx{tag: pgconn.NewCommandTag("UPDATE 1"), row: fakeRow{todo: after}}
	repo := NewTodoRepository(&fakeDB{tx: tx})

	done := true
	got, err := repo.Update(context.Background(), id, domain.TodoPatch{Completed: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != after {
		t.Fatalf("update = %+v; want %+v", got, after)
	}
	if !tx.committed {
		t.Fatalf("transaction not committed")
	}
}

func TestUpdateNoRowsIsNotFound(t *testing.T) {
	tx := &fakeTx{tag: pgconn.NewCommandTag("UPDATE 0")}
	repo := NewTodoRepository(&fakeDB{tx: tx})

	task := "x"
	_, err := repo.Update(context.Background(), uuid.New(), domain.TodoPatch{Task: &task})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v; want not found", err)
	}
	if tx.committed || !tx.rolledBack {
		t.Fatalf("committed=%v rolledBack=%v; want rollback only", tx.committed, tx.rolledBack)
	}
}

func TestUpdateErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"invalid byte sequence", &pgconn.PgError{Code: "22021"}, domain.ErrValidation},
		{"driver error", errors.New("conn closed"), domain.ErrStorageUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := &fakeTx{execErr: tc.err}
			repo := NewTodoRepository(&fakeDB{tx: tx})

			task := "x"
			_, err := repo.Update(context.Background(), uuid.New(), domain.TodoPatch{Task: &task})
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v; want %v", err, tc.want)
			}
			if tx.committed {
				t.Fatalf("failed update committed")
			}
		})
	}
}

func TestDeleteRowsAffected(t *testing.T) {
	repo := NewTodoRepository(&fakeDB{tag: pgconn.NewCommandTag("DELETE 0")})
	if err := repo.Delete(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("delete of missing row: got %v; want not found", err)
	}

	repo = NewTodoRepository(&fakeDB{tag: pgconn.NewCommandTag("DELETE 1")})
	if err := repo.Delete(context.Background(), uuid.New()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	repo = NewTodoRepository(&fakeDB{execErr: errors.New("timeout")})
	if err := repo.Delete(context.Background(), uuid.New()); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("delete with driver error: got %v", err)
	}
}

func TestGetNoRowsIsNotFound(t *testing.T) {
	repo := NewTodoRepository(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}})
	if _, err := repo.Get(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v; want not found", err)
	}
}

func TestPingWrapsStorageError(t *testing.T) {
	repo := NewTodoRepository(&fakeDB{pingErr: errors.New("down")})
	if err := repo.Ping(context.Background()); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("got %v", err)
	}
}
