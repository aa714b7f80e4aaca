// Package contentstream splits decompressed PDF content streams into
// instructions.
//
// A content stream is postfix: operands come first and the operator that
// consumes them follows:
//
//	instrs, err := contentstream.Parse([]byte("BT /F1 12 Tf (Hello) Tj ET"))
//	for _, in := range instrs {
//	    fmt.Printf("Operator: %s, Operands: %v\n", in.Operator, in.Operands)
//	}
//
// The parser does not know which operators exist or how many operands
// each takes; that is left to the operation package.
//
// # Operand Types
//
// Operands can be any direct PDF object:
//   - Numbers (core.Int, core.Real)
//   - Strings (core.String), from literal or hexadecimal form
//   - Names (core.Name)
//   - Arrays (core.Array)
//   - Dictionaries (core.Dict), as used by BDC and DP
//   - Booleans and null
//
// # Inline Images
//
// "BI ... ID data EI" is returned as one instruction with operator "BI"
// and two operands: the image dictionary and the raw image bytes.
package contentstream
