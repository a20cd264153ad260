package translator

import (
	"errors"
	"fmt"

	"github.com/attila-gpu/attila-sim-sub005/srcisa"
)

// Fault is a fatal translation error: malformed structure, exhausted or
// misused register pools, or an unsupported fixed-function combination.
type Fault struct {
	// Offset is the byte offset of the source node being translated.
	Offset int
	Op     srcisa.Opcode
	Msg    string
	Err    error
}

func (f *Fault) Error() string {
	s := fmt.Sprintf("translate: %s at byte %d: %s", f.Op, f.Offset, f.Msg)
	if f.Err != nil {
		s += ": " + f.Err.Error()
	}
	return s
}

func (f *Fault) Unwrap() error { return f.Err }

// ErrUnsupported is wrapped by faults for unsupported programs or options.
var ErrUnsupported = errors.New("unsupported")

// errSkip marks a source instruction that is replaced by a NOP.
var errSkip = errors.New("untranslated")

func (t *Translator) fatal(format string, args ...any) {
	panic(&Fault{Offset: t.offset, Op: t.op, Msg: fmt.Sprintf(format, args...)})
}

func (t *Translator) unsupported(format string, args ...any) {
	panic(&Fault{Offset: t.offset, Op: t.op, Msg: fmt.Sprintf(format, args...), Err: ErrUnsupported})
}

func skipf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errSkip}, args...)...)
}
