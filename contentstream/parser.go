package contentstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/pdfops/core"
)

// Instruction is one operator and the operands that preceded it.
type Instruction struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands, in stream order
}

// Parser splits a content stream into instructions.
type Parser struct {
	parser   *core.Parser
	operands []core.Object
	instrs   []Instruction
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{parser: core.NewParser(data)}
}

// Parse is shorthand for NewParser(data).Parse().
func Parse(data []byte) ([]Instruction, error) {
	return NewParser(data).Parse()
}

// Parse reads the whole stream and returns its instructions in order.
// Operands left over at the end with no operator are an error.
func (p *Parser) Parse() ([]Instruction, error) {
	for {
		start := p.parser.Lexer().Pos()
		obj, keyword, err := p.parser.NextItem()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("at position %d: %w", start, err)
		}

		if obj != nil {
			p.operands = append(p.operands, obj)
			continue
		}

		if keyword == "BI" {
			if err := p.parseInlineImage(); err != nil {
				return nil, fmt.Errorf("inline image at position %d: %w", start, err)
			}
			continue
		}
		p.emit(keyword)
	}

	if len(p.operands) > 0 {
		return nil, fmt.Errorf("%d operands at end of stream without an operator", len(p.operands))
	}
	return p.instrs, nil
}

// emit closes the current instruction. The operand slice is handed over,
// not copied; a fresh one is started for the next instruction.
func (p *Parser) emit(operator string) {
	p.instrs = append(p.instrs, Instruction{Operator: operator, Operands: p.operands})
	p.operands = nil
}

var errMissingEI = errors.New("missing EI after inline image data")

// parseInlineImage reads "BI key value ... ID data EI" and emits it as a
// single BI instruction whose operands are the image dictionary and the
// raw image bytes as a string.
func (p *Parser) parseInlineImage() error {
	dict := make(core.Dict)
	for {
		obj, keyword, err := p.parser.NextItem()
		if err == io.EOF {
			return errors.New("missing ID")
		}
		if err != nil {
			return err
		}
		if keyword == "ID" {
			break
		}
		key, ok := obj.(core.Name)
		if !ok {
			return fmt.Errorf("expected name for image dictionary key, got %v", describe(obj, keyword))
		}
		value, keyword, err := p.parser.NextItem()
		if err != nil {
			return fmt.Errorf("value for /%s: %w", key, err)
		}
		if value == nil {
			return fmt.Errorf("value for /%s: unexpected operator %q", key, keyword)
		}
		dict[string(key)] = value
	}

	lx := p.parser.Lexer()
	data := lx.Remaining()
	end := findEI(data)
	if end < 0 {
		return errMissingEI
	}
	// A single whitespace byte separates ID from the data.
	start := 0
	if len(data) > 0 && core.IsWhitespace(data[0]) {
		start = min(1, end)
	}
	image := data[start:end]
	if data[end] == '\n' && len(image) > 0 && image[len(image)-1] == '\r' {
		image = image[:len(image)-1]
	}
	lx.Skip(end + 3) // whitespace, "EI"

	// Operands in front of BI have no meaning and are dropped.
	p.operands = nil
	p.instrs = append(p.instrs, Instruction{
		Operator: "BI",
		Operands: []core.Object{dict, core.String(image)},
	})
	return nil
}

// findEI returns the offset of the whitespace byte that precedes an "EI"
// which is itself followed by whitespace or the end of data.
func findEI(data []byte) int {
	for i := 0; i+2 < len(data); i++ {
		if !core.IsWhitespace(data[i]) || data[i+1] != 'E' || data[i+2] != 'I' {
			continue
		}
		if i+3 == len(data) || core.IsWhitespace(data[i+3]) {
			return i
		}
	}
	return -1
}

func describe(obj core.Object, keyword string) string {
	if obj == nil {
		return fmt.Sprintf("operator %q", keyword)
	}
	return obj.Type().String()
}
