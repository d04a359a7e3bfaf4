package pulseq

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/sequence"
)

type instruments struct {
	decodes  metric.Int64Counter
	blocks   metric.Int64Histogram
	duration metric.Float64Histogram
}

var (
	inst     instruments
	instOnce sync.Once
)

// metrics returns the decode instruments from the global meter provider.
// Instruments that fail to register fall back to no-op ones.
func metrics() *instruments {
	instOnce.Do(func() {
		meter := otel.Meter("github.com/wippyai/pulseq")
		var err error
		if inst.decodes, err = meter.Int64Counter("pulseq.decodes",
			metric.WithDescription("Decoded sequence files by outcome")); err != nil {
			otel.Handle(err)
		}
		if inst.blocks, err = meter.Int64Histogram("pulseq.blocks",
			metric.WithDescription("Blocks per decoded sequence")); err != nil {
			otel.Handle(err)
		}
		if inst.duration, err = meter.Float64Histogram("pulseq.decode.duration",
			metric.WithDescription("Time spent decoding one file"),
			metric.WithUnit("s")); err != nil {
			otel.Handle(err)
		}
	})
	return &inst
}

// outcome names the tier that failed, or "ok".
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		return string(e.Phase)
	}
	return "io"
}

func record(ctx context.Context, start time.Time, seq *sequence.Sequence, err error) {
	m := metrics()
	attrs := metric.WithAttributes(attribute.String("outcome", outcome(err)))
	if m.decodes != nil {
		m.decodes.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
	if seq != nil && m.blocks != nil {
		m.blocks.Record(ctx, int64(len(seq.Blocks)))
	}
}
