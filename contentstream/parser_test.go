package contentstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfops/core"
)

// TestParseSimpleOperator tests parsing a simple operator with no operands
func TestParseSimpleOperator(t *testing.T) {
	instrs, err := Parse([]byte("q"))
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.Equal(t, "q", instrs[0].Operator)
	assert.Empty(t, instrs[0].Operands)
}

// TestParseOperands tests operand collection for common operators
func TestParseOperands(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		operator string
		operands []core.Object
	}{
		{"integer", "100 Tz", "Tz", []core.Object{core.Int(100)}},
		{"real", "1.5 w", "w", []core.Object{core.Real(1.5)}},
		{"font", "/F1 12 Tf", "Tf", []core.Object{core.Name("F1"), core.Int(12)}},
		{"literal string", "(Hello) Tj", "Tj", []core.Object{core.String("Hello")}},
		{"hex string", "<48656C6C6F> Tj", "Tj", []core.Object{core.String("Hello")}},
		{"matrix", "1 0 0 1 72 720 Tm", "Tm", []core.Object{
			core.Int(1), core.Int(0), core.Int(0), core.Int(1), core.Int(72), core.Int(720),
		}},
		{"array", "[(A) -120 (B)] TJ", "TJ", []core.Object{
			core.Array{core.String("A"), core.Int(-120), core.String("B")},
		}},
		{"property list", "/Span <</MCID 3>> BDC", "BDC", []core.Object{
			core.Name("Span"), core.Dict{"MCID": core.Int(3)},
		}},
		{"star operator", "T*", "T*", nil},
		{"quote", "(x) '", "'", []core.Object{core.String("x")}},
		{"double quote", `1 2 (x) "`, `"`, []core.Object{core.Int(1), core.Int(2), core.String("x")}},
		{"glyph width", "500 0 d0", "d0", []core.Object{core.Int(500), core.Int(0)}},
		{"dash", "[3 2] 0 d", "d", []core.Object{core.Array{core.Int(3), core.Int(2)}, core.Int(0)}},
		{"booleans", "true false null MP", "MP", []core.Object{core.Bool(true), core.Bool(false), core.Null{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instrs, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			require.Len(t, instrs, 1)
			assert.Equal(t, tt.operator, instrs[0].Operator)
			assert.Equal(t, tt.operands, instrs[0].Operands)
		})
	}
}

// TestParseSequence tests that operands do not leak between instructions
func TestParseSequence(t *testing.T) {
	input := "BT\n/F1 12 Tf\n% comment\n72 700 Td\n(Hello) Tj\nET\nq 0 0 100 50 re f Q"
	instrs, err := Parse([]byte(input))
	require.NoError(t, err)

	var ops []string
	for _, in := range instrs {
		ops = append(ops, in.Operator)
	}
	assert.Equal(t, []string{"BT", "Tf", "Td", "Tj", "ET", "q", "re", "f", "Q"}, ops)
	assert.Len(t, instrs[1].Operands, 2)
	assert.Len(t, instrs[2].Operands, 2)
	assert.Empty(t, instrs[4].Operands)
	assert.Len(t, instrs[6].Operands, 4)
	assert.Empty(t, instrs[7].Operands)
}

// TestParseParsersAreIndependent tests that two parsers share no operand state
func TestParseParsersAreIndependent(t *testing.T) {
	_, err := NewParser([]byte("1 2 3 re")).Parse()
	require.NoError(t, err)

	instrs, err := NewParser([]byte("Q")).Parse()
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.Empty(t, instrs[0].Operands)
}

// TestParseEmpty tests empty and whitespace-only streams
func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", " \n\t ", "% only a comment"} {
		instrs, err := Parse([]byte(input))
		require.NoError(t, err)
		assert.Empty(t, instrs)
	}
}

// TestParseInlineImage tests folding BI ... ID ... EI into one instruction
func TestParseInlineImage(t *testing.T) {
	input := "q BI /W 2 /H 1 /BPC 8 /CS /G ID \x00\xffEI\nEI Q"
	instrs, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, instrs, 3)

	assert.Equal(t, "q", instrs[0].Operator)
	assert.Equal(t, "Q", instrs[2].Operator)

	bi := instrs[1]
	assert.Equal(t, "BI", bi.Operator)
	require.Len(t, bi.Operands, 2)
	assert.Equal(t, core.Dict{
		"W":   core.Int(2),
		"H":   core.Int(1),
		"BPC": core.Int(8),
		"CS":  core.Name("G"),
	}, bi.Operands[0])
	// "EI" inside the data is not preceded by whitespace.
	assert.Equal(t, core.String("\x00\xffEI"), bi.Operands[1])
}

// TestParseInlineImageEmpty tests an inline image with no data
func TestParseInlineImageEmpty(t *testing.T) {
	instrs, err := Parse([]byte("BI /W 0 ID EI"))
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.Equal(t, core.String(""), instrs[0].Operands[1])
}

// TestParseErrors tests malformed content streams
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", "(abc Tj"},
		{"unterminated array", "[1 2 TJ"},
		{"stray paren", ") Tj"},
		{"trailing operands", "BT 1 2"},
		{"inline image without EI", "BI /W 1 ID abc"},
		{"inline image without ID", "BI /W 1"},
		{"inline image bad key", "BI 5 6 ID x EI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}
