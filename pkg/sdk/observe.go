package rex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels reported in logs and metrics.
const (
	opCreate      = "create"
	opGet         = "get"
	opList        = "list"
	opAll         = "all"
	opSearch      = "search"
	opSeed        = "seed"
	opLoadReviews = "load_reviews"
	opPing        = "ping"
)

// Status labels. Caller mistakes are kept apart from store failures.
const (
	statusOK       = "ok"
	statusInvalid  = "invalid"
	statusNotFound = "not_found"
	statusNoSource = "no_source_data"
	statusError    = "error"
)

// statusOf maps an operation error to its status label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrValidation):
		return statusInvalid
	case errors.Is(err, ErrNotFound):
		return statusNotFound
	case errors.Is(err, ErrNoSourceData):
		return statusNoSource
	default:
		return statusError
	}
}

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rex",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total rex SDK operations by operation and status (ok, invalid, not_found, no_source_data, error).",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rex",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("rex: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("rex: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(
	op string, start time.Time, err error,
) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, statusOf(err)).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(
			dur.Seconds(),
		)
	}

	if o.logger != nil {
		switch status := statusOf(err); status {
		case statusError:
			o.logger.Warn("operation failed",
				"op", op,
				"duration", dur,
				"error", err,
			)
		case statusOK:
			o.logger.Debug("operation completed",
				"op", op,
				"duration", dur,
			)
		default:
			o.logger.Debug("operation rejected",
				"op", op,
				"status", status,
				"error", err,
			)
		}
	}
}
