package service

import (
	"errors"

	"todo_store/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

var TodoOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "todo_operations_total",
		Help: "Todo store operations by outcome",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(TodoOperations)
}

func observe(op string, err error) {
	TodoOperations.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "error"
	}
}
