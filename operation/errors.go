package operation

import (
	"errors"
	"fmt"
)

// Error kinds. A *DecodeError matches exactly one of them with errors.Is.
var (
	ErrUnknownOperator = errors.New("unknown operator")
	ErrMissingOperands = errors.New("missing operands")
	ErrOperandType     = errors.New("wrong operand type")
	ErrUTF8            = errors.New("text is not valid UTF-8")
)

// DecodeError describes why an instruction could not be decoded.
type DecodeError struct {
	Operator string
	Kind     error // one of the Err* kinds above
	Index    int   // operand position, -1 when no single operand is at fault
	Want     string
	Got      string
	Err      error // underlying detail, if any
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrUnknownOperator:
		return fmt.Sprintf("%s %q", e.Kind, e.Operator)
	case ErrMissingOperands:
		return fmt.Sprintf("%s: %s: no operand at position %d", e.Operator, e.Kind, e.Index)
	case ErrOperandType:
		if e.Got != "" {
			return fmt.Sprintf("%s: operand %d: expected %s, got %s", e.Operator, e.Index, e.Want, e.Got)
		}
		return fmt.Sprintf("%s: operand %d: expected %s", e.Operator, e.Index, e.Want)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: operand %d: %s: %v", e.Operator, e.Index, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: operand %d: %s", e.Operator, e.Index, e.Kind)
}

// Is reports whether target is the error's kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func unknownOperator(op string) error {
	return &DecodeError{Operator: op, Kind: ErrUnknownOperator, Index: -1}
}

func missingOperand(op string, index int) error {
	return &DecodeError{Operator: op, Kind: ErrMissingOperands, Index: index}
}

func operandType(op string, index int, want, got string) error {
	return &DecodeError{Operator: op, Kind: ErrOperandType, Index: index, Want: want, Got: got}
}

func invalidUTF8(op string, index int, detail error) error {
	return &DecodeError{Operator: op, Kind: ErrUTF8, Index: index, Err: detail}
}
