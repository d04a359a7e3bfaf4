package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates which decoding tier produced the error
type Phase string

const (
	PhaseParse    Phase = "parse"    // grammar and literal parsing
	PhaseConvert  Phase = "convert"  // section extraction and reference resolution
	PhaseValidate Phase = "validate" // semantic checks on the resolved sequence
)

// Kind categorizes the error
type Kind string

const (
	KindSyntax             Kind = "syntax"
	KindParseFloat         Kind = "parse_float"
	KindUnsupportedVersion Kind = "unsupported_version"

	KindVersionSectionCount     Kind = "version_section_count"
	KindDefinitionsSectionCount Kind = "definitions_section_count"
	KindSignatureSectionCount   Kind = "signature_section_count"
	KindNonUniqueDefinition     Kind = "non_unique_definition"
	KindMissingDefinition       Kind = "missing_definition"
	KindWrongValueCount         Kind = "wrong_value_count"
	KindEventIDReuse            Kind = "event_id_reuse"
	KindGradTrapIDReuse         Kind = "grad_trap_id_reuse"
	KindBrokenRef               Kind = "broken_ref"
	KindShapeIndexZero          Kind = "shape_index_zero"
	KindShapeNotFound           Kind = "shape_not_found"
	KindRleCountIsNotInteger    Kind = "rle_count_is_not_integer"
	KindWrongDecompressedCount  Kind = "wrong_decompressed_count"
	KindTimeShapeMismatch       Kind = "time_shape_mismatch"
	KindTimeShapeNonInteger     Kind = "time_shape_non_integer"
	KindTimeShapeNonIncreasing  Kind = "time_shape_non_increasing"

	KindEventTooLong   Kind = "event_too_long"
	KindShapeMismatch  Kind = "shape_mismatch"
	KindNegativeTiming Kind = "negative_timing"
)

// EventType names the kind of event (or block slot) an error refers to
type EventType string

const (
	EventRF    EventType = "rf"
	EventGX    EventType = "gx"
	EventGY    EventType = "gy"
	EventGZ    EventType = "gz"
	EventADC   EventType = "adc"
	EventDelay EventType = "delay"
	EventShape EventType = "shape"
)

// Raster definition keys that are mandatory in 1.4 files.
const (
	DefGradientRaster = "GradientRasterTime"
	DefRFRaster       = "RadiofrequencyRasterTime"
	DefADCRaster      = "AdcRasterTime"
	DefBlockRaster    = "BlockDurationRaster"
)

// Targets for errors.Is, one per missing raster definition.
var (
	ErrMissingGradientRaster = &Error{Phase: PhaseConvert, Kind: KindMissingDefinition, Key: DefGradientRaster}
	ErrMissingRFRaster       = &Error{Phase: PhaseConvert, Kind: KindMissingDefinition, Key: DefRFRaster}
	ErrMissingADCRaster      = &Error{Phase: PhaseConvert, Kind: KindMissingDefinition, Key: DefADCRaster}
	ErrMissingBlockRaster    = &Error{Phase: PhaseConvert, Kind: KindMissingDefinition, Key: DefBlockRaster}
)

// Error is the structured error type used throughout the decoder.
// Only the fields relevant to a Kind are populated.
type Error struct {
	Value   any
	Got     any
	Want    any
	Cause   error
	Phase   Phase
	Kind    Kind
	Event   EventType
	Section string // section kind, e.g. "adcs"
	Key     string // definition key
	Field   string // timing field, e.g. "delay"
	Detail  string
	ID      uint32
	BlockID uint32
	Index   int
	Line    int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	var loc []string
	if e.Line > 0 {
		loc = append(loc, "line "+strconv.Itoa(e.Line))
	}
	if e.BlockID != 0 {
		loc = append(loc, "block "+strconv.FormatUint(uint64(e.BlockID), 10))
	}
	if e.Section != "" {
		loc = append(loc, "section "+e.Section)
	}
	if e.Event != "" {
		loc = append(loc, "event "+string(e.Event))
	}
	if e.Key != "" {
		loc = append(loc, "key "+e.Key)
	}
	if len(loc) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(loc, ", "))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Phase and Kind must be
// equal; Key, Event and Section are compared only when set on the target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Phase != t.Phase || e.Kind != t.Kind {
		return false
	}
	if t.Key != "" && e.Key != t.Key {
		return false
	}
	if t.Event != "" && e.Event != t.Event {
		return false
	}
	if t.Section != "" && e.Section != t.Section {
		return false
	}
	return true
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Line sets the 1-based source line
func (b *Builder) Line(line int) *Builder {
	b.err.Line = line
	return b
}

// Event sets the event type
func (b *Builder) Event(ev EventType) *Builder {
	b.err.Event = ev
	return b
}

// Block sets the id of the block being processed
func (b *Builder) Block(id uint32) *Builder {
	b.err.BlockID = id
	return b
}

// ID sets the offending entity id
func (b *Builder) ID(id uint32) *Builder {
	b.err.ID = id
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Parse tier

// Syntax creates a grammar error at the given line
func Syntax(line int, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		Line:   line,
		Detail: fmt.Sprintf(format, args...),
	}
}

// ParseFloat creates a float literal error. what names the literal source
// (a definition key or a column name).
func ParseFloat(line int, what, literal string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindParseFloat,
		Line:   line,
		Key:    what,
		Value:  literal,
		Detail: fmt.Sprintf("cannot parse %q as float", literal),
		Cause:  cause,
	}
}

// UnsupportedVersion creates an error for a dialect without a conversion path
func UnsupportedVersion(major, minor uint32) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnsupportedVersion,
		Value:  fmt.Sprintf("%d.%d", major, minor),
		Detail: fmt.Sprintf("found unsupported version %d.%d", major, minor),
	}
}

// Convert tier

// VersionSectionCount reports a file with zero or several [VERSION] sections
func VersionSectionCount(n int) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindVersionSectionCount,
		Got:    n,
		Want:   1,
		Detail: fmt.Sprintf("expected exactly one version section, found %d", n),
	}
}

// DefinitionsSectionCount reports more than one [DEFINITIONS] section
func DefinitionsSectionCount(n int) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindDefinitionsSectionCount,
		Got:    n,
		Want:   1,
		Detail: fmt.Sprintf("expected at most one definitions section, found %d", n),
	}
}

// SignatureSectionCount reports more than one [SIGNATURE] section
func SignatureSectionCount(n int) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindSignatureSectionCount,
		Got:    n,
		Want:   1,
		Detail: fmt.Sprintf("expected at most one signature section, found %d", n),
	}
}

// NonUniqueDefinition reports a key defined twice
func NonUniqueDefinition(key string) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindNonUniqueDefinition,
		Key:    key,
		Detail: fmt.Sprintf("definition %q appears more than once", key),
	}
}

// MissingDefinition reports a mandatory definition that is absent
func MissingDefinition(key string) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindMissingDefinition,
		Key:    key,
		Detail: fmt.Sprintf("required definition %q not found", key),
	}
}

// WrongValueCount reports a definition with the wrong number of values
func WrongValueCount(key string, got, want int) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindWrongValueCount,
		Key:    key,
		Got:    got,
		Want:   want,
		Detail: fmt.Sprintf("expected %d values, got %d", want, got),
	}
}

// EventIDReuse reports an id declared twice within one section kind
func EventIDReuse(section string, id uint32) *Error {
	return &Error{
		Phase:   PhaseConvert,
		Kind:    KindEventIDReuse,
		Section: section,
		ID:      id,
		Detail:  fmt.Sprintf("id %d is declared more than once", id),
	}
}

// GradTrapIDReuse reports an id used by both a gradient and a trap
func GradTrapIDReuse(id uint32) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindGradTrapIDReuse,
		ID:     id,
		Detail: fmt.Sprintf("id %d is used by both a gradient and a trap", id),
	}
}

// BrokenRef reports a reference to an id missing from its target table
func BrokenRef(ev EventType, id uint32) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindBrokenRef,
		Event:  ev,
		ID:     id,
		Detail: fmt.Sprintf("%s %d is referenced but not defined", ev, id),
	}
}

// ShapeIndexZero reports a shape declared with the reserved id 0
func ShapeIndexZero() *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindShapeIndexZero,
		Event:  EventShape,
		Detail: "shape id 0 is reserved",
	}
}

// ShapeNotFound reports a reference to an undefined shape
func ShapeNotFound(id uint32) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindShapeNotFound,
		Event:  EventShape,
		ID:     id,
		Detail: fmt.Sprintf("shape %d is referenced but not defined", id),
	}
}

// RleCountIsNotInteger reports a run-length count that is not a whole number
func RleCountIsNotInteger(index int, value float64) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindRleCountIsNotInteger,
		Event:  EventShape,
		Index:  index,
		Value:  value,
		Detail: fmt.Sprintf("sample %d: run-length count %v is not a non-negative integer", index, value),
	}
}

// WrongDecompressedCount reports a decompressed shape of unexpected length
func WrongDecompressedCount(count, expected int) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindWrongDecompressedCount,
		Event:  EventShape,
		Got:    count,
		Want:   expected,
		Detail: fmt.Sprintf("decompressed %d samples, expected %d", count, expected),
	}
}

// TimeShapeMismatch reports a shape and time shape of different lengths
func TimeShapeMismatch(shapeLen, timeLen int) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindTimeShapeMismatch,
		Event:  EventShape,
		Got:    timeLen,
		Want:   shapeLen,
		Detail: fmt.Sprintf("shape has %d samples, time shape has %d", shapeLen, timeLen),
	}
}

// TimeShapeNonInteger reports a fractional time shape boundary
func TimeShapeNonInteger(index int, value float64) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindTimeShapeNonInteger,
		Event:  EventShape,
		Index:  index,
		Value:  value,
		Detail: fmt.Sprintf("time sample %d (%v) is not an integer", index, value),
	}
}

// TimeShapeNonIncreasing reports a boundary that does not move forward
func TimeShapeNonIncreasing(index int, value float64) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindTimeShapeNonIncreasing,
		Event:  EventShape,
		Index:  index,
		Value:  value,
		Detail: fmt.Sprintf("time sample %d (%v) is not increasing", index, value),
	}
}

// Validate tier

// EventTooLong reports an event that outlasts its block
func EventTooLong(ev EventType, blockID uint32, dur, blockDur float64) *Error {
	return &Error{
		Phase:   PhaseValidate,
		Kind:    KindEventTooLong,
		Event:   ev,
		BlockID: blockID,
		Got:     dur,
		Want:    blockDur,
		Detail:  fmt.Sprintf("event lasts %gs but block lasts %gs", dur, blockDur),
	}
}

// ShapeMismatch reports two shapes of one event with different lengths
func ShapeMismatch(ev EventType, blockID uint32, len1, len2 int) *Error {
	return &Error{
		Phase:   PhaseValidate,
		Kind:    KindShapeMismatch,
		Event:   ev,
		BlockID: blockID,
		Got:     len2,
		Want:    len1,
		Detail:  fmt.Sprintf("shape lengths differ: %d vs %d", len1, len2),
	}
}

// NegativeTiming reports a negative delay, ramp, flat top or dwell time
func NegativeTiming(ev EventType, blockID uint32, field string, value float64) *Error {
	return &Error{
		Phase:   PhaseValidate,
		Kind:    KindNegativeTiming,
		Event:   ev,
		BlockID: blockID,
		Field:   field,
		Value:   value,
		Detail:  fmt.Sprintf("%s is negative (%gs)", field, value),
	}
}
