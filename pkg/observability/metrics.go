package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
)

const (
	metricRequestsTotal    = "algoviz.requests.total"
	metricRequestDuration  = "algoviz.request.duration.seconds"
	metricErrorsTotal      = "algoviz.errors.total"
	metricInflightRequests = "algoviz.inflight.requests"

	metricStepsExecuted     = "algoviz.steps.executed.total"
	metricStepsRolledBack   = "algoviz.steps.rolled_back.total"
	metricOperationsTotal   = "algoviz.operations.total"
	metricOperationDuration = "algoviz.operation.duration.seconds"
	metricStepsRecorded     = "algoviz.steps.recorded"

	attrOp     = "op"
	attrStatus = "status"
	attrKind   = "kind"
	attrModule = "module"

	// StatusOK marks a successful request or operation.
	StatusOK = "ok"
	// StatusError marks a failed request or operation.
	StatusError = "error"
)

// durationBucketBoundaries covers 100us to 10s: recording an operation is
// in-memory and fast, MCP requests include marshaling.
var durationBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

// stepCountBoundaries buckets the number of steps one operation records.
var stepCountBoundaries = []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000}

// REDMetrics holds the instruments for Rate, Error, Duration of MCP tool calls.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	b := newMetricBuilder(mt)

	red := &REDMetrics{
		requestsTotal:    b.counter(metricRequestsTotal, "Total number of requests", "{request}"),
		requestDuration:  b.histogram(metricRequestDuration, "Request duration in seconds", "s", durationBucketBoundaries...),
		errorsTotal:      b.counter(metricErrorsTotal, "Total number of errors", "{error}"),
		inflightRequests: b.upDownCounter(metricInflightRequests, "Number of in-flight requests", "{request}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return red, nil
}

// RecordRequest records a completed request.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to
// decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// EngineMetrics counts executed steps and recorded operations. It implements
// [anim.Observer] so a Sequencer reports into it directly.
type EngineMetrics struct {
	stepsExecuted     metric.Int64Counter
	stepsRolledBack   metric.Int64Counter
	operationsTotal   metric.Int64Counter
	operationDuration metric.Float64Histogram
	stepsRecorded     metric.Float64Histogram
}

var _ anim.Observer = (*EngineMetrics)(nil)

// NewEngineMetrics creates the engine instruments from the given meter.
func NewEngineMetrics(mt metric.Meter) (*EngineMetrics, error) {
	b := newMetricBuilder(mt)

	em := &EngineMetrics{
		stepsExecuted:   b.counter(metricStepsExecuted, "Steps executed by sequencers", "{step}"),
		stepsRolledBack: b.counter(metricStepsRolledBack, "Steps undone by reset", "{step}"),
		operationsTotal: b.counter(metricOperationsTotal, "Module operations recorded", "{operation}"),
		operationDuration: b.histogram(metricOperationDuration,
			"Time to record one module operation", "s", durationBucketBoundaries...),
		stepsRecorded: b.histogram(metricStepsRecorded,
			"Steps recorded per module operation", "{step}", stepCountBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return em, nil
}

// ObserveStep counts one executed step by kind.
func (em *EngineMetrics) ObserveStep(kind anim.Kind) {
	em.stepsExecuted.Add(context.Background(), 1, metric.WithAttributes(attribute.String(attrKind, kind.String())))
}

// ObserveReset counts the steps a reset rolled back.
func (em *EngineMetrics) ObserveReset(rolledBack int) {
	if rolledBack > 0 {
		em.stepsRolledBack.Add(context.Background(), int64(rolledBack))
	}
}

// RecordOperation records one module operation with the number of steps it
// produced.
func (em *EngineMetrics) RecordOperation(ctx context.Context, module, op string, steps int, d time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}

	attrs := metric.WithAttributes(
		attribute.String(attrModule, module),
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	em.operationsTotal.Add(ctx, 1, attrs)
	em.operationDuration.Record(ctx, d.Seconds(), attrs)

	if err == nil {
		em.stepsRecorded.Record(ctx, float64(steps), metric.WithAttributes(
			attribute.String(attrModule, module),
			attribute.String(attrOp, op),
		))
	}
}

// metricBuilder accumulates instrument creation errors so a set of
// instruments needs one error check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}

	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)

	return h
}

func (b *metricBuilder) upDownCounter(name, desc, unit string) metric.Int64UpDownCounter {
	c, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}
