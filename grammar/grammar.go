package grammar

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/grammar/internal/parser"
	"github.com/wippyai/pulseq/grammar/internal/token"
	"github.com/wippyai/pulseq/section"
)

var tracer = otel.Tracer("github.com/wippyai/pulseq/grammar")

// Supported reports whether a dialect has a grammar.
func Supported(v section.Version) bool {
	return v.Major == 1 && v.Minor >= 2 && v.Minor <= 4
}

// Parse tokenizes a sequence file into raw sections.
func Parse(source string) (section.Version, []section.Section, error) {
	return ParseContext(context.Background(), source)
}

// ParseContext is Parse with a context carrying the trace span.
func ParseContext(ctx context.Context, source string) (section.Version, []section.Section, error) {
	_, span := tracer.Start(ctx, "grammar.Parse")
	defer span.End()

	tokens := token.Tokenize(source)

	version, err := parser.DetectVersion(tokens)
	if err != nil {
		span.RecordError(err)
		return section.Version{}, nil, err
	}
	span.SetAttributes(
		attribute.Int("pulseq.version.major", int(version.Major)),
		attribute.Int("pulseq.version.minor", int(version.Minor)),
	)
	if !Supported(version) {
		err := errors.UnsupportedVersion(version.Major, version.Minor)
		span.RecordError(err)
		return version, nil, err
	}

	sections, err := parser.New(tokens, version).Parse()
	if err != nil {
		span.RecordError(err)
		return version, nil, err
	}

	Logger().Debug("parsed sequence file",
		zap.Uint32("major", version.Major),
		zap.Uint32("minor", version.Minor),
		zap.Uint32("revision", version.Revision),
		zap.Int("tokens", len(tokens)),
		zap.Int("sections", len(sections)))

	return version, sections, nil
}
