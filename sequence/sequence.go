package sequence

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/section"
)

var tracer = otel.Tracer("github.com/wippyai/pulseq/sequence")

// Supported reports whether a dialect can be converted.
func Supported(v section.Version) bool {
	return v.Major == 1 && v.Minor >= 2 && v.Minor <= 4
}

// FromSections resolves parsed sections into a Sequence without validating
// it. The sections slice is drained.
func FromSections(version section.Version, list []section.Section) (*Sequence, error) {
	return FromSectionsContext(context.Background(), version, list)
}

// New resolves and validates.
func New(version section.Version, list []section.Section) (*Sequence, error) {
	return NewContext(context.Background(), version, list)
}

// NewContext is New with a context carrying the trace span.
func NewContext(ctx context.Context, version section.Version, list []section.Section) (*Sequence, error) {
	seq, err := FromSectionsContext(ctx, version, list)
	if err != nil {
		return nil, err
	}

	err = stage(ctx, "sequence.validate", func(span trace.Span) error {
		span.SetAttributes(attribute.Int("pulseq.blocks", len(seq.Blocks)))
		return seq.Validate()
	})
	if err != nil {
		return nil, err
	}
	return seq, nil
}

// FromSectionsContext is FromSections with a context carrying the trace span.
func FromSectionsContext(ctx context.Context, version section.Version, list []section.Section) (*Sequence, error) {
	if !Supported(version) {
		return nil, errors.UnsupportedVersion(version.Major, version.Minor)
	}

	ctx, span := tracer.Start(ctx, "sequence.FromSections")
	defer span.End()
	span.SetAttributes(
		attribute.Int("pulseq.version.major", int(version.Major)),
		attribute.Int("pulseq.version.minor", int(version.Minor)),
	)

	seq, err := fromSections(ctx, version, list)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return seq, nil
}

func fromSections(ctx context.Context, version section.Version, list []section.Section) (*Sequence, error) {
	var (
		secs   *sections
		md     *metadata
		shapes *ShapeStore
		blocks []*Block
	)

	err := stage(ctx, "sequence.extract", func(span trace.Span) error {
		var err error
		secs, err = extractSections(list)
		if err != nil {
			return err
		}
		span.SetAttributes(
			attribute.Int("pulseq.blocks", len(secs.blocks)),
			attribute.Int("pulseq.shapes", len(secs.shapes)),
		)
		Logger().Debug("extracted sections",
			zap.Int("blocks", len(secs.blocks)),
			zap.Int("rfs", len(secs.rfs)),
			zap.Int("gradients", len(secs.gradients)),
			zap.Int("traps", len(secs.traps)),
			zap.Int("adcs", len(secs.adcs)),
			zap.Int("delays", len(secs.delays)),
			zap.Int("shapes", len(secs.shapes)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage(ctx, "sequence.normalize", func(trace.Span) error {
		var err error
		md, err = normalizeDefinitions(version, secs.definitions)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = stage(ctx, "sequence.resolve", func(span trace.Span) error {
		var err error
		shapes, err = NewShapeStore(secs.shapes, version.Minor < 4)
		if err != nil {
			return err
		}
		defer shapes.logStats()

		r := newResolver(shapes, md.raster)
		if err := r.events(secs); err != nil {
			return err
		}
		blocks = make([]*Block, 0, len(secs.blocks))
		for _, raw := range secs.blocks {
			b, err := r.block(raw)
			if err != nil {
				return err
			}
			blocks = append(blocks, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Sequence{
		Name:        md.name,
		FOV:         md.fov,
		Definitions: md.rest,
		Signature:   secs.signature,
		Extensions:  secs.extensions,
		Blocks:      blocks,
		Version:     *secs.version,
		TimeRaster:  md.raster,
	}, nil
}

// stage runs fn inside a child span and logs how long it took.
func stage(ctx context.Context, name string, fn func(span trace.Span) error) error {
	_, span := tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn(span)
	if err != nil {
		span.RecordError(err)
		return err
	}
	Logger().Debug("stage done", zap.String("stage", name), zap.Duration("took", time.Since(start)))
	return nil
}
