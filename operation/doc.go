// Package operation decodes content stream instructions into typed values.
//
// Each supported operator maps to one concrete [Operation] type whose fields
// hold the operator's validated operands:
//
//	op, err := operation.Decode("Tf", []core.Object{core.Name("F1"), core.Int(12)})
//	// op == operation.SetTextFontAndSize{Name: "F1", Size: 12}
//
// Operators whose operands are not interpreted, such as BT or the color
// space operators, decode to empty marker types.
//
// # Errors
//
// Decode fails with a [*DecodeError] whose kind is one of
// [ErrUnknownOperator], [ErrMissingOperands], [ErrOperandType] or [ErrUTF8]:
//
//	if errors.Is(err, operation.ErrOperandType) {
//	    var de *operation.DecodeError
//	    errors.As(err, &de)
//	    fmt.Println("bad operand", de.Index, "of", de.Operator)
//	}
//
// Numbers are never coerced from other shapes, and text operands (Tj, TJ, '
// and ") must be valid UTF-8.
//
// Decoding is pure: the same operator and operands always give the same
// result, and nothing is carried from one instruction to the next.
package operation
