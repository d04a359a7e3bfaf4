// Package errors provides structured error types for the pulseq decoder.
//
// Errors are categorized by Phase (which decoding tier failed) and Kind (the
// specific violation). The Error type carries the context needed to locate
// the offending record without re-parsing: line, block id, event type,
// section kind, definition key, and expected vs. actual values.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindBrokenRef).
//		Event(errors.EventRF).
//		ID(7).
//		Detail("rf 7 is referenced but not defined").
//		Build()
//
// Or use the constructor for each variant:
//
//	err := errors.EventTooLong(errors.EventRF, 12, 5.1e-3, 5.0e-3)
//	err := errors.MissingDefinition(errors.DefADCRaster)
//
// All errors implement the standard error interface and support errors.Is/As:
//
//	if errors.Is(err, errors.ErrMissingADCRaster) { ... }
package errors
