package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/ports"
)

type metricsMiddleware struct {
	next ports.ProgressStore

	saves       *prometheus.CounterVec
	loads       *prometheus.CounterVec
	saveSeconds prometheus.Histogram
}

// NewMetricsMiddleware creates a middleware that counts store operations
// and times saves. Register it on the same registry as the run collector;
// the metric names are disjoint.
func NewMetricsMiddleware(reg prometheus.Registerer) Middleware {
	factory := promauto.With(reg)
	saves := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ifexplore",
		Subsystem: "store",
		Name:      "saves_total",
		Help:      "Progress table saves, labelled by result.",
	}, []string{"result"})
	loads := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ifexplore",
		Subsystem: "store",
		Name:      "loads_total",
		Help:      "Progress table loads, labelled by result.",
	}, []string{"result"})
	saveSeconds := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ifexplore",
		Subsystem: "store",
		Name:      "save_duration_seconds",
		Help:      "Wall time spent persisting the progress table.",
		Buckets:   prometheus.DefBuckets,
	})

	return func(next ports.ProgressStore) ports.ProgressStore {
		return &metricsMiddleware{
			next:        next,
			saves:       saves,
			loads:       loads,
			saveSeconds: saveSeconds,
		}
	}
}

func (m *metricsMiddleware) Save(ctx context.Context, progress *domain.Progress) error {
	start := time.Now()
	err := m.next.Save(ctx, progress)
	m.saveSeconds.Observe(time.Since(start).Seconds())
	m.saves.WithLabelValues(result(err)).Inc()
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context) (*domain.Progress, error) {
	progress, err := m.next.Load(ctx)
	// A store that has never been saved is an ordinary first-run condition,
	// not a load failure.
	if errors.Is(err, domain.ErrNoProgress) {
		m.loads.WithLabelValues("empty").Inc()
	} else {
		m.loads.WithLabelValues(result(err)).Inc()
	}
	return progress, err
}

func (m *metricsMiddleware) Reset(ctx context.Context) error {
	return m.next.Reset(ctx)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
