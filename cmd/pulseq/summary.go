package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/pulseq/section"
	"github.com/wippyai/pulseq/sequence"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// eventCounts counts distinct resolved events. Blocks sharing a source id
// share the pointer, so identity is the count key.
type eventCounts struct {
	rfs, grads, adcs int
}

func countEvents(seq *sequence.Sequence) eventCounts {
	seen := make(map[any]struct{})
	var c eventCounts
	for _, b := range seq.Blocks {
		for _, ev := range b.Events() {
			if _, ok := seen[ev.Event]; ok {
				continue
			}
			seen[ev.Event] = struct{}{}
			switch ev.Event.(type) {
			case *sequence.Rf:
				c.rfs++
			case *sequence.Adc:
				c.adcs++
			default:
				c.grads++
			}
		}
	}
	return c
}

func versionString(v section.Version) string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
	if v.RevSuppl != "" {
		s += "." + v.RevSuppl
	}
	return s
}

// summary renders a short overview of one decoded file. Styling is applied
// only when styled is set.
func summary(path string, seq *sequence.Sequence, styled bool) string {
	header := fmt.Sprintf("%s  pulseq %s", path, versionString(seq.Version))
	label := func(s string) string { return fmt.Sprintf("%-10s", s) }
	if styled {
		header = headerStyle.Render(header)
		label = func(s string) string { return labelStyle.Render(fmt.Sprintf("%-10s", s)) }
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	line := func(name, format string, args ...any) {
		b.WriteString("  ")
		b.WriteString(label(name))
		b.WriteString(" ")
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\n")
	}

	if seq.Name != nil {
		line("name", "%s", *seq.Name)
	}
	if seq.FOV != nil {
		line("fov", "%g x %g x %g", seq.FOV.X, seq.FOV.Y, seq.FOV.Z)
	}
	line("blocks", "%d", len(seq.Blocks))
	line("duration", "%.3f ms", seq.Duration()*1e3)

	r := seq.TimeRaster
	line("rasters", "grad %.4g us, rf %.4g us, adc %.4g us, block %.4g us",
		r.Grad*1e6, r.RF*1e6, r.ADC*1e6, r.Block*1e6)

	c := countEvents(seq)
	line("events", "rf %d, gradients %d, adc %d", c.rfs, c.grads, c.adcs)

	if seq.Signature != nil {
		line("signature", "%s %s", seq.Signature.Type, seq.Signature.Hash)
	}
	return b.String()
}
