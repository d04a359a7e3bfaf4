package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseValidate,
				Kind:    KindEventTooLong,
				BlockID: 12,
				Event:   EventRF,
				Detail:  "event lasts 0.0051s but block lasts 0.005s",
			},
			contains: []string{"[validate]", "event_too_long", "block 12", "event rf", "0.0051s"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseConvert,
				Kind:  KindShapeIndexZero,
			},
			contains: []string{"[convert]", "shape_index_zero"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindParseFloat,
				Line:   7,
				Detail: "cannot parse",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[parse]", "parse_float", "line 7", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseParse,
		Kind:  KindParseFloat,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestError_Is(t *testing.T) {
	err := MissingDefinition(DefADCRaster)

	if !err.Is(&Error{Phase: PhaseConvert, Kind: KindMissingDefinition}) {
		t.Error("Is should match same phase and kind")
	}
	if !errors.Is(err, ErrMissingADCRaster) {
		t.Error("errors.Is should match the key-specific target")
	}
	if errors.Is(err, ErrMissingRFRaster) {
		t.Error("errors.Is should not match a different key")
	}
	if err.Is(&Error{Phase: PhaseValidate, Kind: KindMissingDefinition}) {
		t.Error("Is should not match different phase")
	}

	reuse := EventIDReuse("adcs", 7)
	if !errors.Is(reuse, &Error{Phase: PhaseConvert, Kind: KindEventIDReuse, Section: "adcs"}) {
		t.Error("Is should match same section")
	}
	if errors.Is(reuse, &Error{Phase: PhaseConvert, Kind: KindEventIDReuse, Section: "rfs"}) {
		t.Error("Is should not match different section")
	}

	var target *Error
	if !errors.As(error(reuse), &target) || target.ID != 7 {
		t.Errorf("errors.As = %v", target)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseConvert, KindBrokenRef).
		Line(3).
		Event(EventADC).
		Block(4).
		ID(9).
		Value(42).
		Cause(cause).
		Detail("%s %d missing", "adc", 9).
		Build()

	if err.Phase != PhaseConvert {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseConvert)
	}
	if err.Kind != KindBrokenRef {
		t.Errorf("Kind = %v, want %v", err.Kind, KindBrokenRef)
	}
	if err.Line != 3 || err.BlockID != 4 || err.ID != 9 {
		t.Errorf("Line=%d BlockID=%d ID=%d", err.Line, err.BlockID, err.ID)
	}
	if err.Event != EventADC {
		t.Errorf("Event = %v, want adc", err.Event)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "adc 9 missing" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"Syntax", Syntax(1, "unexpected %q", "x"), PhaseParse, KindSyntax},
		{"ParseFloat", ParseFloat(2, "FOV", "abc", nil), PhaseParse, KindParseFloat},
		{"UnsupportedVersion", UnsupportedVersion(1, 5), PhaseParse, KindUnsupportedVersion},
		{"VersionSectionCount", VersionSectionCount(2), PhaseConvert, KindVersionSectionCount},
		{"DefinitionsSectionCount", DefinitionsSectionCount(2), PhaseConvert, KindDefinitionsSectionCount},
		{"SignatureSectionCount", SignatureSectionCount(2), PhaseConvert, KindSignatureSectionCount},
		{"NonUniqueDefinition", NonUniqueDefinition("Name"), PhaseConvert, KindNonUniqueDefinition},
		{"WrongValueCount", WrongValueCount("FOV", 2, 3), PhaseConvert, KindWrongValueCount},
		{"GradTrapIDReuse", GradTrapIDReuse(3), PhaseConvert, KindGradTrapIDReuse},
		{"BrokenRef", BrokenRef(EventRF, 3), PhaseConvert, KindBrokenRef},
		{"ShapeIndexZero", ShapeIndexZero(), PhaseConvert, KindShapeIndexZero},
		{"ShapeNotFound", ShapeNotFound(4), PhaseConvert, KindShapeNotFound},
		{"RleCountIsNotInteger", RleCountIsNotInteger(2, 1.5), PhaseConvert, KindRleCountIsNotInteger},
		{"WrongDecompressedCount", WrongDecompressedCount(4, 5), PhaseConvert, KindWrongDecompressedCount},
		{"TimeShapeMismatch", TimeShapeMismatch(3, 4), PhaseConvert, KindTimeShapeMismatch},
		{"TimeShapeNonInteger", TimeShapeNonInteger(0, 0.5), PhaseConvert, KindTimeShapeNonInteger},
		{"TimeShapeNonIncreasing", TimeShapeNonIncreasing(2, 1), PhaseConvert, KindTimeShapeNonIncreasing},
		{"EventTooLong", EventTooLong(EventGX, 1, 2, 1), PhaseValidate, KindEventTooLong},
		{"ShapeMismatch", ShapeMismatch(EventRF, 1, 2, 3), PhaseValidate, KindShapeMismatch},
		{"NegativeTiming", NegativeTiming(EventADC, 1, "dwell", -1), PhaseValidate, KindNegativeTiming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Detail == "" {
				t.Error("Detail is empty")
			}
		})
	}
}

func TestEventTooLong_Values(t *testing.T) {
	err := EventTooLong(EventRF, 5, 5.1e-3, 5.0e-3)
	if err.Got != 5.1e-3 || err.Want != 5.0e-3 {
		t.Errorf("Got=%v Want=%v", err.Got, err.Want)
	}
	if err.BlockID != 5 {
		t.Errorf("BlockID = %d", err.BlockID)
	}
}
