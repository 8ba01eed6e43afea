package resilience

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/galib9690/camels-attrs/internal/provider/resilience"

// clientMetrics holds the shared instruments for upstream data service
// calls. Every resilient client records into the same instruments,
// distinguished by the provider attribute, so dashboards can compare the
// seven data services side by side.
type clientMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	retryTotal      metric.Int64Counter
}

var (
	metricsOnce   sync.Once
	sharedMetrics *clientMetrics
)

// getClientMetrics lazily creates the shared instruments. Instrument
// creation only fails on malformed names, so failures leave metrics nil
// and recording becomes a no-op rather than an error on the request path.
func getClientMetrics() *clientMetrics {
	metricsOnce.Do(func() {
		meter := otel.Meter(meterName)

		requestDuration, err := meter.Float64Histogram(
			"provider.request.duration",
			metric.WithDescription("Duration of upstream data service requests, including retries"),
			metric.WithUnit("s"),
		)
		if err != nil {
			return
		}

		requestTotal, err := meter.Int64Counter(
			"provider.request.total",
			metric.WithDescription("Total number of upstream data service requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			return
		}

		retryTotal, err := meter.Int64Counter(
			"provider.request.retries",
			metric.WithDescription("Number of retried attempts against upstream data services"),
			metric.WithUnit("{attempt}"),
		)
		if err != nil {
			return
		}

		sharedMetrics = &clientMetrics{
			requestDuration: requestDuration,
			requestTotal:    requestTotal,
			retryTotal:      retryTotal,
		}
	})
	return sharedMetrics
}

// record captures the outcome of one Do call. attempts counts the HTTP
// attempts actually made; anything beyond the first is a retry.
func (m *clientMetrics) record(provider string, duration time.Duration, attempts int, outcome string) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("provider.name", provider),
		attribute.String("outcome", outcome),
	)

	// Metrics outlive the request, so a cancelled request context must
	// not suppress recording.
	ctx := context.Background()
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
	m.requestTotal.Add(ctx, 1, attrs)
	if attempts > 1 {
		m.retryTotal.Add(ctx, int64(attempts-1), metric.WithAttributes(
			attribute.String("provider.name", provider),
		))
	}
}
