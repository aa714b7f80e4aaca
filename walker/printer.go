package walker

import (
	"fmt"
	"io"
	"reflect"

	"github.com/tsawler/pdfops/operation"
)

// DefaultSuppressed lists the operators the printer drops unless configured
// otherwise.
var DefaultSuppressed = []string{
	"Td", "TD", "TJ", "re", "f", "Tm", "Tc", "Tw", "n",
	"BDC", "W", "Tf", "T*", "EMC", "BT", "q", "Q", "ET",
}

// Printer writes one line per operation, skipping suppressed operators.
type Printer struct {
	w          io.Writer
	suppressed map[string]bool
	printed    int
}

// NewPrinter creates a Printer that drops the given operators.
func NewPrinter(w io.Writer, suppressed []string) *Printer {
	set := make(map[string]bool, len(suppressed))
	for _, op := range suppressed {
		set[op] = true
	}
	return &Printer{w: w, suppressed: set}
}

// Handle implements Handler.
func (p *Printer) Handle(_ Position, op operation.Operation) error {
	if p.suppressed[op.Operator()] {
		return nil
	}
	if _, err := fmt.Fprintln(p.w, Format(op)); err != nil {
		return fmt.Errorf("failed to write operation: %w", err)
	}
	p.printed++
	return nil
}

// Printed returns how many operations were written.
func (p *Printer) Printed() int {
	return p.printed
}

// Format renders an operation as TypeName{Field:Value ...}.
func Format(op operation.Operation) string {
	return reflect.TypeOf(op).Name() + fmt.Sprintf("%+v", op)
}
