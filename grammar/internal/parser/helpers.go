package parser

import (
	"strconv"
	"strings"

	"github.com/wippyai/pulseq/errors"
)

// columns is one data line with a cursor over its fields.
type columns struct {
	fields []string
	line   int
	pos    int
}

func (c *columns) want(name string, n int) error {
	if len(c.fields) != n {
		return errors.Syntax(c.line, "[%s] entry has %d columns, expected %d", name, len(c.fields), n)
	}
	return nil
}

func (c *columns) next() string {
	s := c.fields[c.pos]
	c.pos++
	return s
}

func (c *columns) u32() (uint32, error) {
	s := c.next()
	val, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Syntax(c.line, "invalid integer: %s", s)
	}
	return uint32(val), nil
}

func (c *columns) f64(what string) (float64, error) {
	return parseF64(c.line, what, c.next())
}

// micros reads an integer microsecond column and converts it to seconds.
func (c *columns) micros() (float64, error) {
	v, err := c.u32()
	if err != nil {
		return 0, err
	}
	return float64(v) * 1e-6, nil
}

func parseF64(line int, what, s string) (float64, error) {
	if !isDecimal(s) {
		return 0, errors.ParseFloat(line, what, s, nil)
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.ParseFloat(line, what, s, err)
	}
	return val, nil
}

// isDecimal accepts -?digits(.digits)?([eE][+-]?digits)? and rejects the
// hex, inf and nan forms strconv would otherwise take.
func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	digits := func() int {
		n := 0
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		s = s[n:]
		return n
	}
	if digits() == 0 {
		return false
	}
	if strings.HasPrefix(s, ".") {
		s = s[1:]
		if digits() == 0 {
			return false
		}
	}
	if len(s) > 0 && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
			s = s[1:]
		}
		if digits() == 0 {
			return false
		}
	}
	return s == ""
}
