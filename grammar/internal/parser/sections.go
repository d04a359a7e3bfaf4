package parser

import (
	"strconv"
	"strings"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/section"
)

func (p *Parser) parseVersion(header int) (*section.Version, error) {
	rows, err := p.rows("VERSION", header)
	if err != nil {
		return nil, err
	}
	v, err := versionFromRows(rows)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// versionFromRows reads the major, minor and revision lines of a
// [VERSION] section. The revision may carry a suffix ("0.post4").
func versionFromRows(rows []columns) (section.Version, error) {
	var v section.Version
	seen := make(map[string]bool)
	for _, r := range rows {
		if err := r.want("VERSION", 2); err != nil {
			return v, err
		}
		key := r.next()
		if seen[key] {
			return v, errors.Syntax(r.line, "duplicate version field %q", key)
		}
		seen[key] = true
		switch key {
		case "major":
			n, err := r.u32()
			if err != nil {
				return v, err
			}
			v.Major = n
		case "minor":
			n, err := r.u32()
			if err != nil {
				return v, err
			}
			v.Minor = n
		case "revision":
			s := r.next()
			end := 0
			for end < len(s) && s[end] >= '0' && s[end] <= '9' {
				end++
			}
			n, err := strconv.ParseUint(s[:end], 10, 32)
			if err != nil {
				return v, errors.Syntax(r.line, "invalid revision: %s", s)
			}
			v.Revision = uint32(n)
			v.RevSuppl = strings.TrimPrefix(s[end:], ".")
		default:
			return v, errors.Syntax(r.line, "unknown version field %q", key)
		}
	}
	for _, key := range []string{"major", "minor", "revision"} {
		if !seen[key] {
			return v, errors.Syntax(rows[0].line, "missing version field %q", key)
		}
	}
	return v, nil
}

func (p *Parser) parseSignature(header int) (*section.Signature, error) {
	rows, err := p.rows("SIGNATURE", header)
	if err != nil {
		return nil, err
	}
	sig := &section.Signature{}
	for _, r := range rows {
		if len(r.fields) < 2 {
			return nil, errors.Syntax(r.line, "[SIGNATURE] entry needs a value")
		}
		value := strings.Join(r.fields[1:], " ")
		switch r.fields[0] {
		case "Type":
			sig.Type = value
		case "Hash":
			sig.Hash = value
		default:
			return nil, errors.Syntax(r.line, "unknown signature field %q", r.fields[0])
		}
	}
	if sig.Type == "" || sig.Hash == "" {
		return nil, errors.Syntax(header, "[SIGNATURE] needs Type and Hash")
	}
	return sig, nil
}

func (p *Parser) parseDefinitions(header int) (section.Definitions, error) {
	rows, err := p.rows("DEFINITIONS", header)
	if err != nil {
		return nil, err
	}
	defs := make(section.Definitions, 0, len(rows))
	for _, r := range rows {
		if len(r.fields) < 2 {
			return nil, errors.Syntax(r.line, "definition %q has no value", r.fields[0])
		}
		defs = append(defs, section.Definition{
			Key:   r.fields[0],
			Value: strings.Join(r.fields[1:], " "),
		})
	}
	return defs, nil
}

func (p *Parser) parseBlocks(header int) (section.Blocks, error) {
	rows, err := p.rows("BLOCKS", header)
	if err != nil {
		return nil, err
	}
	n := 7
	if p.hasExtensions() {
		n = 8
	}
	blocks := make(section.Blocks, 0, len(rows))
	for _, r := range rows {
		if err := r.want("BLOCKS", n); err != nil {
			return nil, err
		}
		var tags [8]uint32
		for i := 0; i < n; i++ {
			if tags[i], err = r.u32(); err != nil {
				return nil, err
			}
		}
		b := section.Block{
			ID:  tags[0],
			RF:  tags[2],
			GX:  tags[3],
			GY:  tags[4],
			GZ:  tags[5],
			ADC: tags[6],
			Ext: tags[7],
		}
		if p.hasBlockDuration() {
			b.Dur = section.Duration(tags[1])
		} else {
			b.Dur = section.DelayRef(tags[1])
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (p *Parser) parseRfs(header int) (section.Rfs, error) {
	rows, err := p.rows("RF", header)
	if err != nil {
		return nil, err
	}
	n := 7
	if p.hasBlockDuration() {
		n = 8
	}
	rfs := make(section.Rfs, 0, len(rows))
	for _, r := range rows {
		if err := r.want("RF", n); err != nil {
			return nil, err
		}
		var rf section.Rf
		if rf.ID, err = r.u32(); err != nil {
			return nil, err
		}
		if rf.Amp, err = r.f64("rf amp"); err != nil {
			return nil, err
		}
		if rf.MagID, err = r.u32(); err != nil {
			return nil, err
		}
		if rf.PhaseID, err = r.u32(); err != nil {
			return nil, err
		}
		if p.hasBlockDuration() {
			if rf.TimeID, err = r.u32(); err != nil {
				return nil, err
			}
		}
		if rf.Delay, err = r.micros(); err != nil {
			return nil, err
		}
		if rf.Freq, err = r.f64("rf freq"); err != nil {
			return nil, err
		}
		if rf.Phase, err = r.f64("rf phase"); err != nil {
			return nil, err
		}
		rfs = append(rfs, rf)
	}
	return rfs, nil
}

func (p *Parser) parseGradients(header int) (section.Gradients, error) {
	rows, err := p.rows("GRADIENTS", header)
	if err != nil {
		return nil, err
	}
	n := 4
	if p.hasBlockDuration() {
		n = 5
	}
	grads := make(section.Gradients, 0, len(rows))
	for _, r := range rows {
		if err := r.want("GRADIENTS", n); err != nil {
			return nil, err
		}
		var g section.Gradient
		if g.ID, err = r.u32(); err != nil {
			return nil, err
		}
		if g.Amp, err = r.f64("gradient amp"); err != nil {
			return nil, err
		}
		if g.ShapeID, err = r.u32(); err != nil {
			return nil, err
		}
		if p.hasBlockDuration() {
			if g.TimeID, err = r.u32(); err != nil {
				return nil, err
			}
		}
		if g.Delay, err = r.micros(); err != nil {
			return nil, err
		}
		grads = append(grads, g)
	}
	return grads, nil
}

func (p *Parser) parseTraps(header int) (section.Traps, error) {
	rows, err := p.rows("TRAP", header)
	if err != nil {
		return nil, err
	}
	traps := make(section.Traps, 0, len(rows))
	for _, r := range rows {
		if err := r.want("TRAP", 6); err != nil {
			return nil, err
		}
		var t section.Trap
		if t.ID, err = r.u32(); err != nil {
			return nil, err
		}
		if t.Amp, err = r.f64("trap amp"); err != nil {
			return nil, err
		}
		for _, dst := range []*float64{&t.Rise, &t.Flat, &t.Fall, &t.Delay} {
			if *dst, err = r.micros(); err != nil {
				return nil, err
			}
		}
		traps = append(traps, t)
	}
	return traps, nil
}

func (p *Parser) parseAdcs(header int) (section.Adcs, error) {
	rows, err := p.rows("ADC", header)
	if err != nil {
		return nil, err
	}
	adcs := make(section.Adcs, 0, len(rows))
	for _, r := range rows {
		if err := r.want("ADC", 6); err != nil {
			return nil, err
		}
		var a section.Adc
		if a.ID, err = r.u32(); err != nil {
			return nil, err
		}
		if a.Num, err = r.u32(); err != nil {
			return nil, err
		}
		dwell, err := r.f64("adc dwell")
		if err != nil {
			return nil, err
		}
		a.Dwell = dwell * 1e-9
		if a.Delay, err = r.micros(); err != nil {
			return nil, err
		}
		if a.Freq, err = r.f64("adc freq"); err != nil {
			return nil, err
		}
		if a.Phase, err = r.f64("adc phase"); err != nil {
			return nil, err
		}
		adcs = append(adcs, a)
	}
	return adcs, nil
}

func (p *Parser) parseDelays(header int) (section.Delays, error) {
	rows, err := p.rows("DELAYS", header)
	if err != nil {
		return nil, err
	}
	delays := make(section.Delays, 0, len(rows))
	for _, r := range rows {
		if err := r.want("DELAYS", 2); err != nil {
			return nil, err
		}
		var d section.Delay
		if d.ID, err = r.u32(); err != nil {
			return nil, err
		}
		us, err := r.f64("delay")
		if err != nil {
			return nil, err
		}
		d.Delay = us * 1e-6
		delays = append(delays, d)
	}
	return delays, nil
}

func (p *Parser) parseExtensions(header int) (*section.Extensions, error) {
	ext := &section.Extensions{}

	for p.atRow() && p.peek().Value != "extension" {
		fields, line, err := p.row()
		if err != nil {
			return nil, err
		}
		r := columns{fields: fields, line: line}
		if err := r.want("EXTENSIONS", 4); err != nil {
			return nil, err
		}
		var ref section.ExtensionRef
		for _, dst := range []*uint32{&ref.ID, &ref.SpecID, &ref.ObjID, &ref.Next} {
			if *dst, err = r.u32(); err != nil {
				return nil, err
			}
		}
		ext.Refs = append(ext.Refs, ref)
	}

	for p.atRow() {
		fields, line, err := p.row()
		if err != nil {
			return nil, err
		}
		r := columns{fields: fields, line: line}
		if err := r.want("EXTENSIONS", 3); err != nil {
			return nil, err
		}
		r.next()
		spec := section.ExtensionSpec{Name: r.next()}
		if spec.ID, err = r.u32(); err != nil {
			return nil, err
		}
		for p.atRow() && p.peek().Value != "extension" {
			fields, line, err := p.row()
			if err != nil {
				return nil, err
			}
			if len(fields) < 2 {
				return nil, errors.Syntax(line, "extension object needs an id and data")
			}
			o := columns{fields: fields, line: line}
			id, err := o.u32()
			if err != nil {
				return nil, err
			}
			spec.Instances = append(spec.Instances, section.ExtensionObject{
				ID:   id,
				Data: strings.Join(fields[1:], " "),
			})
		}
		if len(spec.Instances) == 0 {
			return nil, errors.Syntax(line, "extension %s has no entries", spec.Name)
		}
		ext.Specs = append(ext.Specs, spec)
	}

	if len(ext.Refs) == 0 && len(ext.Specs) == 0 {
		return nil, errors.Syntax(header, "section [EXTENSIONS] has no entries")
	}
	return ext, nil
}

// The format description and the reference exporter disagree on the shape
// header spelling; both are accepted.
func isShapeIDKey(s string) bool { return s == "shape_id" || s == "Shape_ID" }
func isNumSamplesKey(s string) bool { return s == "num_samples" || s == "Num_Uncompressed" }

func (p *Parser) parseShapes(header int) (section.Shapes, error) {
	var shapes section.Shapes
	for p.atRow() {
		fields, line, err := p.row()
		if err != nil {
			return nil, err
		}
		r := columns{fields: fields, line: line}
		if err := r.want("SHAPES", 2); err != nil {
			return nil, err
		}
		if !isShapeIDKey(r.next()) {
			return nil, errors.Syntax(line, "expected shape_id, got %q", fields[0])
		}
		var shape section.Shape
		if shape.ID, err = r.u32(); err != nil {
			return nil, err
		}

		fields, line, err = p.row()
		if err != nil {
			return nil, err
		}
		r = columns{fields: fields, line: line}
		if err := r.want("SHAPES", 2); err != nil {
			return nil, err
		}
		if !isNumSamplesKey(r.next()) {
			return nil, errors.Syntax(line, "expected num_samples, got %q", fields[0])
		}
		if shape.NumSamples, err = r.u32(); err != nil {
			return nil, err
		}

		for p.atRow() && !isShapeIDKey(p.peek().Value) {
			fields, line, err := p.row()
			if err != nil {
				return nil, err
			}
			s := columns{fields: fields, line: line}
			if err := s.want("SHAPES", 1); err != nil {
				return nil, err
			}
			v, err := s.f64("shape sample")
			if err != nil {
				return nil, err
			}
			shape.Samples = append(shape.Samples, v)
		}
		if len(shape.Samples) == 0 {
			return nil, errors.Syntax(line, "shape %d has no samples", shape.ID)
		}
		shapes = append(shapes, shape)
	}
	if len(shapes) == 0 {
		return nil, errors.Syntax(header, "section [SHAPES] has no entries")
	}
	return shapes, nil
}
