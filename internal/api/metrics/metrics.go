// Package metrics defines the custom Prometheus metrics of the task tracker
// API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered on an explicit prometheus.Registerer so tests can
// build independent routers.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

const namespace = "tasks"

type Metrics struct {
	// AuthAttemptsTotal counts register/login calls.
	// Labels:
	//   - operation: "register" or "login"
	//   - result: see Result
	AuthAttemptsTotal *prometheus.CounterVec

	// TaskOperationsTotal counts task use-case calls.
	// Labels:
	//   - operation: "list", "create", "update", "delete"
	//   - result: see Result
	TaskOperationsTotal *prometheus.CounterVec
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AuthAttemptsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Total number of registration and login attempts, by result.",
			},
			[]string{"operation", "result"},
		),
		TaskOperationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "task_operations_total",
				Help:      "Total number of task operations, by result.",
			},
			[]string{"operation", "result"},
		),
	}
}

// ObserveAuth records the outcome of an auth operation. Safe on a nil receiver.
func (m *Metrics) ObserveAuth(operation string, err error) {
	if m == nil {
		return
	}
	m.AuthAttemptsTotal.WithLabelValues(operation, Result(err)).Inc()
}

// ObserveTask records the outcome of a task operation. Safe on a nil receiver.
func (m *Metrics) ObserveTask(operation string, err error) {
	if m == nil {
		return
	}
	m.TaskOperationsTotal.WithLabelValues(operation, Result(err)).Inc()
}

// Result maps an error to a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrEmailTaken):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "bad_credentials"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "not_found"
	default:
		return "error"
	}
}
