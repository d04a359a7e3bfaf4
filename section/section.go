// Package section defines the raw, id-based records a Pulseq file is
// tokenized into. Records are modelled after the newest supported dialect;
// the grammar converts older dialects while parsing so that downstream code
// only deals with one shape per record.
//
// Pulseq file format changes:
//
//	1.2  earliest supported version; shapes are always run-length compressed
//	1.3  extensions; blocks gain one extension id column
//	1.4  delay events removed, the second block column is the block duration
//	     in multiples of BlockDurationRaster; rf and gradients gain a time
//	     shape id; raster definitions become mandatory; FOV is in meters;
//	     a shape is stored uncompressed when its sample count equals
//	     num_samples
package section

// Kind discriminates the Section variants.
type Kind string

const (
	KindVersion     Kind = "version"
	KindSignature   Kind = "signature"
	KindDefinitions Kind = "definitions"
	KindBlocks      Kind = "blocks"
	KindRfs         Kind = "rfs"
	KindGradients   Kind = "gradients"
	KindTraps       Kind = "traps"
	KindAdcs        Kind = "adcs"
	KindDelays      Kind = "delays"
	KindExtensions  Kind = "extensions"
	KindShapes      Kind = "shapes"
)

// Section is one bracketed construct of a sequence file.
type Section interface {
	Kind() Kind
}

type Version struct {
	RevSuppl string
	Major    uint32
	Minor    uint32
	Revision uint32
}

type Signature struct {
	Type string
	Hash string
}

// Definition is one key/value line of a [DEFINITIONS] section. The value is
// the trimmed remainder of the line.
type Definition struct {
	Key   string
	Value string
}

// Definitions keeps the pairs in file order, duplicates included.
type Definitions []Definition

type Blocks []Block
type Rfs []Rf
type Gradients []Gradient
type Traps []Trap
type Adcs []Adc
type Delays []Delay
type Shapes []Shape

type Extensions struct {
	Refs  []ExtensionRef
	Specs []ExtensionSpec
}

func (*Version) Kind() Kind { return KindVersion }
func (*Signature) Kind() Kind { return KindSignature }
func (Definitions) Kind() Kind { return KindDefinitions }
func (Blocks) Kind() Kind { return KindBlocks }
func (Rfs) Kind() Kind { return KindRfs }
func (Gradients) Kind() Kind { return KindGradients }
func (Traps) Kind() Kind { return KindTraps }
func (Adcs) Kind() Kind { return KindAdcs }
func (Delays) Kind() Kind { return KindDelays }
func (*Extensions) Kind() Kind { return KindExtensions }
func (Shapes) Kind() Kind { return KindShapes }

// DurationKind tells how the second column of a block is interpreted.
type DurationKind uint8

const (
	// DurationUnits is the 1.4 block duration in BlockDurationRaster units.
	DurationUnits DurationKind = iota
	// DurationDelayRef is the pre-1.4 id of a [DELAYS] entry.
	DurationDelayRef
)

// BlockDuration is the version dependent second column of a block.
type BlockDuration struct {
	Kind  DurationKind
	Value uint32
}

// Duration returns a 1.4 style block duration.
func Duration(units uint32) BlockDuration {
	return BlockDuration{Kind: DurationUnits, Value: units}
}

// DelayRef returns a pre-1.4 style delay reference.
func DelayRef(id uint32) BlockDuration {
	return BlockDuration{Kind: DurationDelayRef, Value: id}
}

type Block struct {
	Dur BlockDuration
	ID  uint32
	RF  uint32
	GX  uint32
	GY  uint32
	GZ  uint32
	ADC uint32
	Ext uint32
}

type Rf struct {
	ID      uint32
	MagID   uint32
	PhaseID uint32
	TimeID  uint32
	// Hz
	Amp float64
	// s (file: us)
	Delay float64
	// Hz
	Freq float64
	// rad
	Phase float64
}

type Gradient struct {
	ID      uint32
	ShapeID uint32
	TimeID  uint32
	// Hz/m
	Amp float64
	// s (file: us)
	Delay float64
}

// Trap timings are in s (file: us).
type Trap struct {
	ID    uint32
	Amp   float64
	Rise  float64
	Flat  float64
	Fall  float64
	Delay float64
}

type Adc struct {
	ID  uint32
	Num uint32
	// s (file: ns)
	Dwell float64
	// s (file: us)
	Delay float64
	// Hz
	Freq float64
	// rad
	Phase float64
}

type Delay struct {
	ID uint32
	// s (file: us)
	Delay float64
}

type ExtensionRef struct {
	ID     uint32
	SpecID uint32
	ObjID  uint32
	Next   uint32
}

type ExtensionSpec struct {
	Name      string
	Instances []ExtensionObject
	ID        uint32
}

type ExtensionObject struct {
	Data string
	ID   uint32
}

// Shape holds samples as written in the file. NumSamples is the declared
// uncompressed length; Samples may be shorter when the shape is compressed.
type Shape struct {
	Samples    []float64
	ID         uint32
	NumSamples uint32
}
