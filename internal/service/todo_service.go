package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"todo_store/internal/domain"
	"todo_store/internal/logger"

	"github.com/google/uuid"
)

const deleteAck = "Todo deleted successfully"

// TodoStore is the durable store behind the service.
type TodoStore interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Todo, error)
	Create(ctx context.Context, t domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Publisher receives an event after every successful mutation.
type Publisher interface {
	Publish(event domain.TodoEvent)
}

type CreateTodoInput struct {
	ID        *uuid.UUID
	Task      string
	Completed bool
}

// TodoService validates input and forwards to the store. It keeps no copy of
// the records; every call goes to the store.
type TodoService struct {
	store  TodoStore
	events Publisher
	log    *slog.Logger
	newID  func() (uuid.UUID, error)
}

func NewTodoService(store TodoStore, events Publisher) *TodoService {
	return &TodoService{
		store:  store,
		events: events,
		log:    logger.Component("todo_service"),
		newID:  uuid.NewV7,
	}
}

func (s *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	todos, err := s.store.List(ctx)
	observe("list", err)
	if err != nil {
		s.log.Error("failed to list todos", "error", err)
		return nil, err
	}
	return todos, nil
}

func (s *TodoService) Get(ctx context.Context, id uuid.UUID) (domain.Todo, error) {
	t, err := s.store.Get(ctx, id)
	observe("get", err)
	return t, err
}

func (s *TodoService) Create(ctx context.Context, in CreateTodoInput) (domain.Todo, error) {
	task, err := normalizeTask(in.Task)
	if err != nil {
		observe("create", err)
		return domain.Todo{}, err
	}

	var id uuid.UUID
	if in.ID != nil && *in.ID != uuid.Nil {
		id = *in.ID
	} else {
		id, err = s.newID()
		if err != nil {
			observe("create", err)
			return domain.Todo{}, fmt.Errorf("generate todo id: %w", err)
		}
	}

	t, err := s.store.Create(ctx, domain.Todo{ID: id, Task: task, Completed: in.Completed})
	observe("create", err)
	if err != nil {
		s.log.Warn("failed to create todo", "todo_id", id, "error", err)
		return domain.Todo{}, err
	}

	s.log.Info("todo created", "todo_id", t.ID)
	s.publish(domain.EventTodoCreated, t.ID, &t)
	return t, nil
}

func (s *TodoService) Update(ctx context.Context, id uuid.UUID, patch domain.TodoPatch) (domain.Todo, error) {
	if patch.Empty() {
		observe("update", domain.ErrValidation)
		return domain.Todo{}, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if patch.Task != nil {
		task, err := normalizeTask(*patch.Task)
		if err != nil {
			observe("update", err)
			return domain.Todo{}, err
		}
		patch.Task = &task
	}

	t, err := s.store.Update(ctx, id, patch)
	observe("update", err)
	if err != nil {
		s.log.Warn("failed to update todo", "todo_id", id, "error", err)
		return domain.Todo{}, err
	}

	s.log.Info("todo updated", "todo_id", t.ID)
	s.publish(domain.EventTodoUpdated, t.ID, &t)
	return t, nil
}

// Delete removes the todo and returns the acknowledgement message.
func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	err := s.store.Delete(ctx, id)
	observe("delete", err)
	if err != nil {
		s.log.Warn("failed to delete todo", "todo_id", id, "error", err)
		return "", err
	}

	s.log.Info("todo deleted", "todo_id", id)
	s.publish(domain.EventTodoDeleted, id, nil)
	return deleteAck, nil
}

func (s *TodoService) publish(typ string, id uuid.UUID, t *domain.Todo) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.TodoEvent{Type: typ, ID: id, Todo: t})
}

func normalizeTask(task string) (string, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return "", fmt.Errorf("%w: task is required", domain.ErrValidation)
	}
	// Postgres TEXT cannot hold NUL
	if strings.ContainsRune(task, 0) {
		return "", fmt.Errorf("%w: task must not contain NUL bytes", domain.ErrValidation)
	}
	return task, nil
}
