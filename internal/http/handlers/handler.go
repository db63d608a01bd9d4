package handlers

import (
	"context"

	"todo_store/internal/domain"
	"todo_store/internal/service"

	"github.com/google/uuid"
)

// TodoService is what the HTTP layer needs from the todo service.
type TodoService interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Todo, error)
	Create(ctx context.Context, in service.CreateTodoInput) (domain.Todo, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
}

type Handler struct {
	Todos TodoService
}

func NewHandler(todos TodoService) *Handler {
	return &Handler{Todos: todos}
}
