package operation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdfops/contentstream"
	"github.com/tsawler/pdfops/core"
)

// rule is one row of the operator table: how many leading operands the
// operator needs and how to build its Operation from them. build only runs
// once at least arity operands are present and returns a nil Operation with
// any error.
type rule struct {
	arity int
	build func(o operands) (Operation, error)
}

var table = map[string]rule{
	// Text objects and state
	"BT": {0, marker(BeginTextObject{})},
	"ET": {0, marker(EndTextObject{})},
	"Tf": {2, func(o operands) (Operation, error) {
		name, err := o.name(0)
		if err != nil {
			return nil, err
		}
		size, err := o.number(1)
		if err != nil {
			return nil, err
		}
		return SetTextFontAndSize{Name: name, Size: size}, nil
	}},
	"Tc": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetCharacterSpacing{Spacing: v}, nil
	}},
	"Tw": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetWordSpacing{Spacing: v}, nil
	}},
	"Tz": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetHorizontalTextScaling{Scale: v}, nil
	}},
	"TL": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetTextLeading{Leading: v}, nil
	}},
	"Ts": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetTextRise{Rise: v}, nil
	}},
	"Tr": {1, func(o operands) (Operation, error) {
		v, err := o.integer(0)
		if err != nil {
			return nil, err
		}
		return SetTextRenderingMode{Mode: v}, nil
	}},

	// Text positioning
	"Td": {2, func(o operands) (Operation, error) {
		v, err := o.numbers(2)
		if err != nil {
			return nil, err
		}
		return MoveTextPosition{TX: v[0], TY: v[1]}, nil
	}},
	"TD": {2, func(o operands) (Operation, error) {
		v, err := o.numbers(2)
		if err != nil {
			return nil, err
		}
		return MoveTextPositionAndSetLeading{TX: v[0], TY: v[1]}, nil
	}},
	"Tm": {6, func(o operands) (Operation, error) {
		v, err := o.numbers(6)
		if err != nil {
			return nil, err
		}
		return SetTextMatrixAndTextLineMatrix{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}, nil
	}},
	"T*": {0, marker(MoveToStartOfNextLine{})},

	// Text showing
	"Tj": {1, func(o operands) (Operation, error) {
		body, err := o.text(0)
		if err != nil {
			return nil, err
		}
		return ShowText{Body: body}, nil
	}},
	"TJ": {0, decodeTJ},
	"'": {1, func(o operands) (Operation, error) {
		body, err := o.text(0)
		if err != nil {
			return nil, err
		}
		return MoveToNextLineAndShowText{Body: body}, nil
	}},
	`"`: {3, func(o operands) (Operation, error) {
		v, err := o.numbers(2)
		if err != nil {
			return nil, err
		}
		body, err := o.text(2)
		if err != nil {
			return nil, err
		}
		return SetSpacingMoveToNextLineAndShowText{WordSpacing: v[0], CharacterSpacing: v[1], Body: body}, nil
	}},

	// Type 3 glyphs
	"d0": {2, func(o operands) (Operation, error) {
		v, err := o.numbers(2)
		if err != nil {
			return nil, err
		}
		return SetGlyphWidth{WX: v[0], WY: v[1]}, nil
	}},
	"d1": {6, func(o operands) (Operation, error) {
		v, err := o.numbers(6)
		if err != nil {
			return nil, err
		}
		return SetGlyphWidthAndBoundingBox{WX: v[0], WY: v[1], LLX: v[2], LLY: v[3], URX: v[4], URY: v[5]}, nil
	}},

	// Graphics state
	"q": {0, marker(SaveGraphicsState{})},
	"Q": {0, marker(RestoreGraphicsState{})},
	"cm": {6, func(o operands) (Operation, error) {
		v, err := o.numbers(6)
		if err != nil {
			return nil, err
		}
		return ModifyCurrentTransformationMatrix{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}, nil
	}},
	"w": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetLineWidth{Width: v}, nil
	}},
	"J": {1, func(o operands) (Operation, error) {
		v, err := o.integer(0)
		if err != nil {
			return nil, err
		}
		return SetLineCap{Style: v}, nil
	}},
	"j": {1, func(o operands) (Operation, error) {
		v, err := o.integer(0)
		if err != nil {
			return nil, err
		}
		return SetLineJoin{Style: v}, nil
	}},
	"M": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetMiterLimit{Limit: v}, nil
	}},
	"d": {2, decodeDash},
	"ri": {1, func(o operands) (Operation, error) {
		v, err := o.name(0)
		if err != nil {
			return nil, err
		}
		return SetColorRenderingIntent{Intent: v}, nil
	}},
	"i": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetFlatnessTolerance{Flatness: v}, nil
	}},
	"gs": {1, func(o operands) (Operation, error) {
		v, err := o.name(0)
		if err != nil {
			return nil, err
		}
		return SetGraphicsStateParameters{Name: v}, nil
	}},

	// Path construction
	"m": {2, func(o operands) (Operation, error) {
		v, err := o.numbers(2)
		if err != nil {
			return nil, err
		}
		return BeginNewSubpath{X: v[0], Y: v[1]}, nil
	}},
	"l": {2, func(o operands) (Operation, error) {
		v, err := o.numbers(2)
		if err != nil {
			return nil, err
		}
		return AppendStraightLineSegment{X: v[0], Y: v[1]}, nil
	}},
	"c": {6, func(o operands) (Operation, error) {
		v, err := o.numbers(6)
		if err != nil {
			return nil, err
		}
		return AppendCurvedSegment{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3], X3: v[4], Y3: v[5]}, nil
	}},
	"v": {4, func(o operands) (Operation, error) {
		v, err := o.numbers(4)
		if err != nil {
			return nil, err
		}
		return AppendCurvedSegmentInitialPointReplicated{X2: v[0], Y2: v[1], X3: v[2], Y3: v[3]}, nil
	}},
	"y": {4, func(o operands) (Operation, error) {
		v, err := o.numbers(4)
		if err != nil {
			return nil, err
		}
		return AppendCurvedSegmentFinalPointReplicated{X1: v[0], Y1: v[1], X3: v[2], Y3: v[3]}, nil
	}},
	"h": {0, marker(CloseSubpath{})},
	"re": {4, func(o operands) (Operation, error) {
		v, err := o.numbers(4)
		if err != nil {
			return nil, err
		}
		return AppendRectangleToPath{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
	}},

	// Path painting and clipping
	"S":  {0, marker(StrokePath{})},
	"s":  {0, marker(CloseAndStrokePath{})},
	"f":  {0, marker(FillPathUsingNonzeroWindingNumberRule{})},
	"F":  {0, marker(FillPathUsingNonzeroWindingNumberRuleObsolete{})},
	"f*": {0, marker(FillPathUsingEvenOddRule{})},
	"B":  {0, marker(FillAndStrokePathUsingNonzeroWindingNumberRule{})},
	"B*": {0, marker(FillAndStrokePathUsingEvenOddRule{})},
	"b":  {0, marker(CloseFillAndStrokePathUsingNonzeroWindingNumberRule{})},
	"b*": {0, marker(CloseFillAndStrokePathUsingEvenOddRule{})},
	"n":  {0, marker(EndPathWithoutFillingOrStroking{})},
	"W":  {0, marker(SetClippingPathUsingNonzeroWindingNumberRule{})},
	"W*": {0, marker(SetClippingPathUsingEvenOddRule{})},

	// Color
	"CS":  {0, marker(SetColorSpaceForStrokingOperations{})},
	"cs":  {0, marker(SetColorSpaceForNonstrokingOperations{})},
	"SC":  {0, marker(SetColorForStrokingOperations{})},
	"SCN": {0, marker(SetColorForStrokingOperationsExtended{})},
	"sc":  {0, marker(SetColorForNonstrokingOperationsBasic{})},
	"scn": {0, marker(SetColorForNonstrokingOperations{})},
	"G": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetGrayForStrokingOperations{Gray: v}, nil
	}},
	"g": {1, func(o operands) (Operation, error) {
		v, err := o.number(0)
		if err != nil {
			return nil, err
		}
		return SetGrayForNonstrokingOperations{Gray: v}, nil
	}},
	"RG": {3, func(o operands) (Operation, error) {
		v, err := o.numbers(3)
		if err != nil {
			return nil, err
		}
		return SetRGBColorForStrokingOperations{R: v[0], G: v[1], B: v[2]}, nil
	}},
	"rg": {3, func(o operands) (Operation, error) {
		v, err := o.numbers(3)
		if err != nil {
			return nil, err
		}
		return SetRGBColorForNonstrokingOperations{R: v[0], G: v[1], B: v[2]}, nil
	}},
	"K": {4, func(o operands) (Operation, error) {
		v, err := o.numbers(4)
		if err != nil {
			return nil, err
		}
		return SetCMYKColorForStrokingOperations{C: v[0], M: v[1], Y: v[2], K: v[3]}, nil
	}},
	"k": {4, func(o operands) (Operation, error) {
		v, err := o.numbers(4)
		if err != nil {
			return nil, err
		}
		return SetCMYKColorForNonstrokingOperations{C: v[0], M: v[1], Y: v[2], K: v[3]}, nil
	}},

	// XObjects, shading, inline images
	"Do": {1, func(o operands) (Operation, error) {
		v, err := o.name(0)
		if err != nil {
			return nil, err
		}
		return PaintXObject{Name: v}, nil
	}},
	"sh": {1, func(o operands) (Operation, error) {
		v, err := o.name(0)
		if err != nil {
			return nil, err
		}
		return PaintShading{Name: v}, nil
	}},
	"BI": {0, marker(BeginInlineImage{})},

	// Marked content and compatibility
	"BMC": {1, func(o operands) (Operation, error) {
		v, err := o.name(0)
		if err != nil {
			return nil, err
		}
		return BeginMarkedContentSequence{Tag: v}, nil
	}},
	"BDC": {0, marker(BeginMarkedContentSequenceWithPropertyList{})},
	"EMC": {0, marker(EndMarkedContentSequence{})},
	"MP":  {0, marker(DesignateMarkedContentPoint{})},
	"DP":  {0, marker(DesignateMarkedContentPointWithPropertyList{})},
	"BX":  {0, marker(BeginCompatibilitySection{})},
	"EX":  {0, marker(EndCompatibilitySection{})},
}

// Decode turns one operator and its operands into an Operation.
//
// Operands are read by position and extra trailing operands are ignored.
// A *DecodeError is returned when the operator is unknown, when a required
// operand is absent, when an operand has the wrong shape, or when text is
// not valid UTF-8. Decode never returns a partially filled Operation.
func Decode(operator string, operands []core.Object) (Operation, error) {
	r, ok := table[operator]
	if !ok {
		return nil, unknownOperator(operator)
	}
	if len(operands) < r.arity {
		return nil, missingOperand(operator, len(operands))
	}
	op, err := r.build(newOperands(operator, operands))
	if err != nil {
		return nil, err
	}
	return op, nil
}

// DecodeInstruction decodes an instruction produced by the contentstream package.
func DecodeInstruction(in contentstream.Instruction) (Operation, error) {
	return Decode(in.Operator, in.Operands)
}

// Known reports whether operator is in the operator table.
func Known(operator string) bool {
	_, ok := table[operator]
	return ok
}

// Operators returns every supported operator, sorted.
func Operators() []string {
	ops := make([]string, 0, len(table))
	for op := range table {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

func marker(op Operation) func(operands) (Operation, error) {
	return func(operands) (Operation, error) {
		return op, nil
	}
}

// decodeTJ concatenates the string elements of the array. Numbers are
// glyph positioning adjustments and add no text. A missing operand is an
// empty body.
func decodeTJ(o operands) (Operation, error) {
	if len(o.vals) == 0 {
		return ShowTextAllowingIndividualGlyphPositioning{}, nil
	}
	arr, err := o.array(0)
	if err != nil {
		return nil, err
	}
	// each string must be valid UTF-8 on its own
	var buf strings.Builder
	for _, elem := range arr {
		switch v := elem.(type) {
		case core.String:
			text, err := o.validText(0, string(v))
			if err != nil {
				return nil, err
			}
			buf.WriteString(text)
		case core.Int, core.Real:
		default:
			return nil, operandType(o.op, 0, "array of strings and numbers", "array containing "+shapeOf(elem))
		}
	}
	return ShowTextAllowingIndividualGlyphPositioning{Body: buf.String()}, nil
}

func decodeDash(o operands) (Operation, error) {
	arr, err := o.array(0)
	if err != nil {
		return nil, err
	}
	dashes := make([]string, len(arr))
	for i, elem := range arr {
		n, ok := core.AsNumber(elem)
		if !ok {
			return nil, operandType(o.op, 0, "array of numbers", "array containing "+shapeOf(elem))
		}
		dashes[i] = strconv.FormatFloat(n, 'f', -1, 64)
	}
	phase, err := o.number(1)
	if err != nil {
		return nil, err
	}
	return SetLineDashPattern{Dashes: strings.Join(dashes, " "), Phase: phase}, nil
}

// operands reads an instruction's operands by position. Callers ensure the
// position exists.
type operands struct {
	op   string
	vals []core.Object
}

func newOperands(op string, vals []core.Object) operands {
	return operands{op: op, vals: vals}
}

func (o operands) number(i int) (float64, error) {
	n, ok := core.AsNumber(o.vals[i])
	if !ok {
		return 0, operandType(o.op, i, "number", shapeOf(o.vals[i]))
	}
	return n, nil
}

// numbers reads the first n operands as numbers.
func (o operands) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := o.number(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (o operands) integer(i int) (int, error) {
	n, ok := core.AsInt(o.vals[i])
	if !ok {
		return 0, operandType(o.op, i, "integer", shapeOf(o.vals[i]))
	}
	return int(n), nil
}

func (o operands) name(i int) (string, error) {
	n, ok := core.AsName(o.vals[i])
	if !ok {
		return "", operandType(o.op, i, "name", shapeOf(o.vals[i]))
	}
	return string(n), nil
}

func (o operands) array(i int) (core.Array, error) {
	a, ok := core.AsArray(o.vals[i])
	if !ok {
		return nil, operandType(o.op, i, "array", shapeOf(o.vals[i]))
	}
	return a, nil
}

// text reads a string operand as UTF-8 text.
func (o operands) text(i int) (string, error) {
	s, ok := core.AsString(o.vals[i])
	if !ok {
		return "", operandType(o.op, i, "string", shapeOf(o.vals[i]))
	}
	return o.validText(i, string(s))
}

// validText rejects s unless it is entirely valid UTF-8. Nothing is replaced
// or truncated.
func (o operands) validText(i int, s string) (string, error) {
	for off := 0; off < len(s); {
		r, size := utf8.DecodeRuneInString(s[off:])
		if r == utf8.RuneError && size <= 1 {
			return "", invalidUTF8(o.op, i, fmt.Errorf("invalid byte 0x%02x at offset %d", s[off], off))
		}
		off += size
	}
	return s, nil
}

func shapeOf(v core.Object) string {
	if v == nil {
		return "nothing"
	}
	return v.Type().String()
}
