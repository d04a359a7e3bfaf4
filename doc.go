// Package pulseq decodes Pulseq MRI sequence files.
//
// A sequence file is read in three tiers. The grammar turns text into raw,
// id-based sections; the sequence package links ids into shared events,
// decompresses shapes and computes block durations; validation then checks
// that every event fits its block. The first failing tier returns an
// *errors.Error whose Phase is parse, convert or validate.
//
// # Architecture Overview
//
//	pulseq/              Root package with the Decode entry points
//	├── grammar/         Tokenizer and per-dialect section parsers
//	├── section/         Raw section records shared by grammar and sequence
//	├── sequence/        Resolution, shape decompression and validation
//	├── dump/            Text and YAML renderers
//	├── errors/          Structured error types
//	└── cmd/pulseq/      Command line decoder and block browser
//
// # Quick Start
//
//	seq, err := pulseq.DecodeFile(ctx, "gre.seq")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(seq.Blocks), seq.Duration())
//
// # Dialects
//
// Files of version 1.2, 1.3 and 1.4 are supported. Version 1.4 files must
// define their raster times; older files fall back to the defaults in the
// sequence package.
//
// # Thread Safety
//
// Decoding keeps no shared state, so any number of files can be decoded
// concurrently. A decoded Sequence is never modified by this module.
package pulseq
