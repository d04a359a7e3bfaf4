package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/internal/config"
	"github.com/wippyai/pulseq/section"
	"github.com/wippyai/pulseq/sequence"
)

func fixture(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"summary", "text", "yaml"} {
		assert.True(t, validFormat(f), f)
	}
	assert.False(t, validFormat("json"))
	assert.False(t, validFormat(""))
}

func TestDecodeAll(t *testing.T) {
	files := []string{fixture("gre_v14.seq"), fixture("fid_v13.seq"), fixture("se_v12.seq")}

	seqs, err := decodeAll(context.Background(), files, 2)
	require.NoError(t, err)
	require.Len(t, seqs, 3)

	for i, want := range []string{"gre", "fid", "se"} {
		require.NotNil(t, seqs[i].Name)
		assert.Equal(t, want, *seqs[i].Name)
	}
}

func TestDecodeAll_Error(t *testing.T) {
	missing := fixture("missing.seq")
	_, err := decodeAll(context.Background(), []string{fixture("fid_v13.seq"), missing}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestSummary(t *testing.T) {
	seqs, err := decodeAll(context.Background(), []string{fixture("fid_v13.seq")}, 1)
	require.NoError(t, err)

	out := summary("fid_v13.seq", seqs[0], false)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, []string{
		"fid_v13.seq  pulseq 1.3.1",
		"  name       fid",
		"  fov        256 x 256 x 3",
		"  blocks     3",
		"  duration   3.300 ms",
		"  rasters    grad 10 us, rf 1 us, adc 0.1 us, block 10 us",
		"  events     rf 1, gradients 0, adc 1",
	}, lines)
}

func TestCountEvents_Shared(t *testing.T) {
	seqs, err := decodeAll(context.Background(), []string{fixture("gre_v14.seq")}, 1)
	require.NoError(t, err)

	assert.Equal(t, eventCounts{rfs: 1, grads: 5, adcs: 1}, countEvents(seqs[0]))
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "1.4.0", versionString(section.Version{Major: 1, Minor: 4}))
	assert.Equal(t, "1.3.0.post4", versionString(section.Version{Major: 1, Minor: 3, RevSuppl: "post4"}))
}

func TestRender(t *testing.T) {
	files := []string{fixture("gre_v14.seq"), fixture("fid_v13.seq")}
	seqs, err := decodeAll(context.Background(), files, 2)
	require.NoError(t, err)

	tests := []struct {
		format   string
		contains []string
	}{
		{"summary", []string{"pulseq 1.4.1", "pulseq 1.3.1", "signature"}},
		{"text", []string{"==> " + files[0] + " <==", "==> " + files[1] + " <==", "METADATA", "BLOCKS"}},
		{"yaml", []string{"---\n", "name: gre", "name: fid"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf, tt.format, files, seqs, false))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestRun_InteractiveValidatesConfig(t *testing.T) {
	valid := config.Config{LogLevel: "info", LogFormat: "console", MaxParallel: 1, ServiceName: "pulseq"}
	files := []string{fixture("gre_v14.seq")}

	tests := []struct {
		name    string
		cfg     config.Config
		format  string
		wantErr string
	}{
		{"bad log level", config.Config{LogLevel: "loud", LogFormat: "console", MaxParallel: 1, ServiceName: "pulseq"}, "summary", "PULSEQ_LOG_LEVEL"},
		{"bad parallel", config.Config{LogLevel: "info", LogFormat: "json", ServiceName: "pulseq"}, "summary", "PULSEQ_MAX_PARALLEL"},
		{"bad format", valid, "json", "unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.cfg, files, tt.format, true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug", "json")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger("loud", "console")
	assert.Error(t, err)
}

func loadedBrowser(t *testing.T, name string) *browserModel {
	t.Helper()
	m := newBrowserModel(context.Background(), fixture(name), 120, 40)
	msg := m.load()
	m.Update(msg)
	require.NoError(t, m.err)
	require.NotNil(t, m.seq)
	return m
}

func TestBrowser_Rows(t *testing.T) {
	m := loadedBrowser(t, "gre_v14.seq")

	rows := m.blocks.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, table.Row{"1", "0.200", "rf", "-", "-", "trap", "-"}, rows[0])
	assert.Equal(t, table.Row{"2", "0.200", "-", "trap", "free", "free", "-"}, rows[1])
	assert.Equal(t, table.Row{"3", "1.300", "-", "trap", "-", "-", "adc"}, rows[2])
	assert.Contains(t, m.View(), "4 blocks")
}

func TestBrowser_Navigate(t *testing.T) {
	m := loadedBrowser(t, "gre_v14.seq")
	assert.Equal(t, 0, m.blocks.Cursor())

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.blocks.Cursor())
	assert.Contains(t, describeBlock(m.seq.Blocks[1], m.seq.TimeRaster), "block 2")
}

func TestBrowser_Jump(t *testing.T) {
	m := loadedBrowser(t, "gre_v14.seq")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, m.jumping)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.jumping)
	assert.Equal(t, 3, m.blocks.Cursor())
	assert.Empty(t, m.notice)

	m.jumpTo("9")
	assert.Equal(t, "no block 9", m.notice)
	assert.Equal(t, 3, m.blocks.Cursor())

	m.jumpTo("x")
	assert.Contains(t, m.notice, "not a block id")
}

func TestBrowser_LoadError(t *testing.T) {
	m := newBrowserModel(context.Background(), fixture("missing.seq"), 0, 0)
	m.Update(m.load())
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDescribeBlock(t *testing.T) {
	b := &sequence.Block{
		ID:       7,
		Duration: 1e-3,
		GX:       &sequence.TrapGradient{Amp: 1000, Rise: 1e-5, Flat: 1e-4, Fall: 1e-5},
		ADC:      &sequence.Adc{Num: 16, Dwell: 1e-5},
	}
	out := describeBlock(b, sequence.DefaultTimeRaster())
	assert.Contains(t, out, "block 7  1.000 ms")
	assert.Contains(t, out, string(errors.EventGX))
	assert.Contains(t, out, "ramps  0.010 / 0.100 / 0.010 ms")
	assert.Contains(t, out, "num    16")
	assert.Contains(t, out, "0.120 ms")
	assert.Contains(t, out, "0.160 ms")

	assert.Contains(t, describeBlock(&sequence.Block{ID: 1}, sequence.DefaultTimeRaster()), "(delay only)")
}
