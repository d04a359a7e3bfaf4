package pulseq

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wippyai/pulseq/grammar"
	"github.com/wippyai/pulseq/sequence"
)

// Decode reads r to the end and decodes it as a sequence file.
func Decode(r io.Reader) (*sequence.Sequence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sequence: %w", err)
	}
	return DecodeContext(context.Background(), string(data))
}

// DecodeString decodes the text of a sequence file.
func DecodeString(source string) (*sequence.Sequence, error) {
	return DecodeContext(context.Background(), source)
}

// DecodeFile reads and decodes the file at path.
func DecodeFile(ctx context.Context, path string) (*sequence.Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sequence: %w", err)
	}
	return DecodeContext(ctx, string(data))
}

// DecodeContext parses, resolves and validates source. Decoding errors are
// returned unwrapped as *errors.Error.
func DecodeContext(ctx context.Context, source string) (seq *sequence.Sequence, err error) {
	defer func(start time.Time) { record(ctx, start, seq, err) }(time.Now())

	version, sections, err := grammar.ParseContext(ctx, source)
	if err != nil {
		return nil, err
	}
	return sequence.NewContext(ctx, version, sections)
}
