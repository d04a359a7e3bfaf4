package parser

import (
	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/grammar/internal/token"
	"github.com/wippyai/pulseq/section"
)

// Parser turns the token stream of one file into raw sections. The dialect
// (column layout and the set of allowed sections) is fixed by the version
// given to New.
type Parser struct {
	tokens  []token.Token
	version section.Version
	pos     int
}

func New(tokens []token.Token, version section.Version) *Parser {
	return &Parser{
		tokens:  tokens,
		version: version,
	}
}

// Parse reads every section of the file in order.
func (p *Parser) Parse() ([]section.Section, error) {
	var sections []section.Section
	for p.peek() != nil {
		sec, err := p.parseSection()
		if err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// DetectVersion finds the [VERSION] section and reads it without parsing
// the rest of the file.
func DetectVersion(tokens []token.Token) (section.Version, error) {
	for i, t := range tokens {
		if t.Type != token.Header || t.Value != "VERSION" {
			continue
		}
		p := &Parser{tokens: tokens, pos: i + 1}
		rows, err := p.rows("VERSION", t.Line)
		if err != nil {
			return section.Version{}, err
		}
		return versionFromRows(rows)
	}
	return section.Version{}, errors.Syntax(0, "missing [VERSION] section")
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, errors.Syntax(p.lastLine(), "unexpected end of input, expected %v", typ)
	}
	if t.Type != typ {
		return nil, errors.Syntax(t.Line, "expected %v, got %v %q", typ, t.Type, t.Value)
	}
	return t, nil
}

func (p *Parser) lastLine() int {
	if len(p.tokens) == 0 {
		return 0
	}
	return p.tokens[len(p.tokens)-1].Line
}

// atRow reports whether the next token starts a data line.
func (p *Parser) atRow() bool {
	t := p.peek()
	return t != nil && t.Type == token.Field
}

// row consumes one data line and returns its fields and line number.
func (p *Parser) row() ([]string, int, error) {
	first, err := p.expect(token.Field)
	if err != nil {
		return nil, 0, err
	}
	fields := []string{first.Value}
	for {
		t := p.next()
		if t == nil {
			return nil, 0, errors.Syntax(first.Line, "unterminated line")
		}
		if t.Type == token.EOL {
			return fields, first.Line, nil
		}
		fields = append(fields, t.Value)
	}
}

// rows consumes data lines until the next header. Sections must not be
// empty.
func (p *Parser) rows(name string, header int) ([]columns, error) {
	var out []columns
	for p.atRow() {
		fields, line, err := p.row()
		if err != nil {
			return nil, err
		}
		out = append(out, columns{fields: fields, line: line})
	}
	if len(out) == 0 {
		return nil, errors.Syntax(header, "section [%s] has no entries", name)
	}
	return out, nil
}

func (p *Parser) parseSection() (section.Section, error) {
	h, err := p.expect(token.Header)
	if err != nil {
		return nil, err
	}

	switch h.Value {
	case "VERSION":
		return p.parseVersion(h.Line)
	case "SIGNATURE":
		return p.parseSignature(h.Line)
	case "DEFINITIONS":
		return p.parseDefinitions(h.Line)
	case "BLOCKS":
		return p.parseBlocks(h.Line)
	case "RF":
		return p.parseRfs(h.Line)
	case "GRADIENTS":
		return p.parseGradients(h.Line)
	case "TRAP":
		return p.parseTraps(h.Line)
	case "ADC":
		return p.parseAdcs(h.Line)
	case "DELAYS":
		if p.hasBlockDuration() {
			return nil, errors.Syntax(h.Line, "section [DELAYS] is not allowed in version %d.%d", p.version.Major, p.version.Minor)
		}
		return p.parseDelays(h.Line)
	case "EXTENSIONS":
		if !p.hasExtensions() {
			return nil, errors.Syntax(h.Line, "section [EXTENSIONS] is not allowed in version %d.%d", p.version.Major, p.version.Minor)
		}
		return p.parseExtensions(h.Line)
	case "SHAPES":
		return p.parseShapes(h.Line)
	default:
		return nil, errors.Syntax(h.Line, "unknown section [%s]", h.Value)
	}
}

// hasExtensions is true from 1.3 on.
func (p *Parser) hasExtensions() bool {
	return p.version.Minor >= 3
}

// hasBlockDuration is true from 1.4 on: blocks carry a duration instead of
// a delay id, and rf and gradients carry a time shape id.
func (p *Parser) hasBlockDuration() bool {
	return p.version.Minor >= 4
}
