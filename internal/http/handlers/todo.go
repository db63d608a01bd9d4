package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"todo_store/internal/domain"
	"todo_store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createTodoRequest struct {
	ID        *uuid.UUID `json:"id"`
	Task      *string    `json:"task"`
	Title     *string    `json:"title"` // accepted as an alias of task
	Completed bool       `json:"completed"`
}

type updateTodoRequest struct {
	Task      *string `json:"task"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func pickTask(task, title *string) *string {
	if task != nil {
		return task
	}
	return title
}

// ListTodos returns every todo
func (h *Handler) ListTodos(c *gin.Context) {
	todos, err := h.Todos.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

func (h *Handler) GetTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	todo, err := h.Todos.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// CreateTodo expects {task, completed?, id?}
func (h *Handler) CreateTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	in := service.CreateTodoInput{ID: req.ID, Completed: req.Completed}
	if task := pickTask(req.Task, req.Title); task != nil {
		in.Task = *task
	}

	todo, err := h.Todos.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo applies the supplied fields only. Fields come from a JSON body
// or, when the body is empty, from the task/completed query parameters.
// Content-Length is not trusted for that decision since chunked requests
// report -1.
func (h *Handler) UpdateTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	var req updateTodoRequest
	err := c.ShouldBindJSON(&req)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		if !queryPatch(c, &req) {
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	todo, err := h.Todos.Update(c.Request.Context(), id, domain.TodoPatch{
		Task:      pickTask(req.Task, req.Title),
		Completed: req.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	msg, err := h.Todos.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func queryPatch(c *gin.Context, req *updateTodoRequest) bool {
	if task, ok := c.GetQuery("task"); ok {
		req.Task = &task
	}
	if v, ok := c.GetQuery("completed"); ok {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completed value"})
			return false
		}
		req.Completed = &completed
	}
	return true
}

func todoID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo id"})
		return uuid.Nil, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "todo with this id already exists"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
