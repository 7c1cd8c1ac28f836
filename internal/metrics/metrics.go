// Package metrics exposes counters for the marker lifecycle through the
// global OpenTelemetry meter provider. Without a configured provider the
// counters are no-ops, so the recorder can always be wired in.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/LimHyeonGyu/wayferecicd/internal/metrics"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// ActivityWriter receives one event per marker operation, keyed by room and
// schedule. *influx.Manager satisfies it.
type ActivityWriter interface {
	WriteActivity(op string, roomID string, scheduleID uint)
}

// Recorder counts marker operations. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	created   metric.Int64Counter
	confirmed metric.Int64Counter
	deleted   metric.Int64Counter
	rejected  metric.Int64Counter

	activity ActivityWriter
}

// NewRecorder creates a Recorder. activity may be nil.
func NewRecorder(activity ActivityWriter) (*Recorder, error) {
	m := meter()

	created, err := m.Int64Counter(
		"markers.created",
		metric.WithDescription("Total markers created"),
	)
	if err != nil {
		return nil, err
	}
	confirmed, err := m.Int64Counter(
		"markers.confirmed",
		metric.WithDescription("Total markers promoted to schedule items"),
	)
	if err != nil {
		return nil, err
	}
	deleted, err := m.Int64Counter(
		"markers.deleted",
		metric.WithDescription("Total markers deleted"),
	)
	if err != nil {
		return nil, err
	}
	rejected, err := m.Int64Counter(
		"markers.rejected",
		metric.WithDescription("Total marker operations rejected"),
	)
	if err != nil {
		return nil, err
	}

	return &Recorder{
		created:   created,
		confirmed: confirmed,
		deleted:   deleted,
		rejected:  rejected,
		activity:  activity,
	}, nil
}

func (r *Recorder) writeActivity(op, roomID string, scheduleID uint) {
	if r.activity != nil {
		r.activity.WriteActivity(op, roomID, scheduleID)
	}
}

// MarkerCreated counts a successful marker creation.
func (r *Recorder) MarkerCreated(ctx context.Context, roomID string, scheduleID uint) {
	if r == nil {
		return
	}
	r.created.Add(ctx, 1)
	r.writeActivity("create", roomID, scheduleID)
}

// MarkerConfirmed counts a successful confirmation.
func (r *Recorder) MarkerConfirmed(ctx context.Context, roomID string, scheduleID uint) {
	if r == nil {
		return
	}
	r.confirmed.Add(ctx, 1)
	r.writeActivity("confirm", roomID, scheduleID)
}

// MarkerDeleted counts a successful deletion.
func (r *Recorder) MarkerDeleted(ctx context.Context, roomID string, scheduleID uint) {
	if r == nil {
		return
	}
	r.deleted.Add(ctx, 1)
	r.writeActivity("delete", roomID, scheduleID)
}

// MarkerRejected counts an operation refused by a domain rule.
func (r *Recorder) MarkerRejected(ctx context.Context, operation, reason string) {
	if r == nil {
		return
	}
	r.rejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))
}
