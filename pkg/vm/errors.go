package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// Errors that make the VM fault. Every error returned from some failed
// instruction either wraps one of these or is converted into ErrVM.
var (
	ErrThrow                   = errors.New("script throw")
	ErrUnknownOp               = errors.New("unknown op")
	ErrStackUnderflow          = errors.New("stack underflow")
	ErrAltStackUnderflow       = errors.New("alt stack underflow")
	ErrStackOverflow           = errors.New("stack overflow")
	ErrInvocationStackOverflow = errors.New("invocation stack overflow")
	ErrContainerTooLarge       = errors.New("container too large")
	ErrItemTooLarge            = errors.New("item too large")
	ErrOutOfGas                = errors.New("out of GAS")
	ErrCodeOverflow            = errors.New("code overflow")
	ErrUnknownSyscall          = errors.New("unknown syscall")
	ErrUnknown                 = errors.New("unknown error")
	ErrPushOnly                = errors.New("push only script contains non-push op")
	ErrInvalidIndex            = errors.New("invalid index")
	ErrInvalidCount            = errors.New("invalid count")
	ErrInvalidKey              = errors.New("invalid key")
	ErrShiftOutOfRange         = errors.New("shift out of range")
	ErrDivisionByZero          = errors.New("division by zero")
	ErrIntegerOverflow         = errors.New("integer overflow")
	ErrUnknownScript           = errors.New("unknown script")
	ErrReturnValueCount        = errors.New("invalid return value count")
	// ErrVM wraps any other failure happening inside an instruction.
	ErrVM = errors.New("VM Error")
)

var knownErrors = []error{
	ErrThrow, ErrUnknownOp, ErrStackUnderflow, ErrAltStackUnderflow,
	ErrStackOverflow, ErrInvocationStackOverflow, ErrContainerTooLarge,
	ErrItemTooLarge, ErrOutOfGas, ErrCodeOverflow, ErrUnknownSyscall,
	ErrUnknown, ErrPushOnly, ErrInvalidIndex, ErrInvalidCount, ErrInvalidKey,
	ErrShiftOutOfRange, ErrDivisionByZero, ErrIntegerOverflow,
	ErrUnknownScript, ErrReturnValueCount, ErrVM,
}

// Error is the error the VM faults with. It keeps the position of the failed
// instruction along with the stack snapshot.
type Error struct {
	Err        error
	PC         int
	Line       string
	ScriptHash util.Uint160
	Stack      string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s\nPC:%d\nStack:\n%s\nLine:%s\nScript Hash:%s",
		e.Err, e.PC, e.Stack, e.Line, e.ScriptHash.StringLE())
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func isKnownError(err error) bool {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

// wrapVMError converts any error that is not a VM one into ErrVM keeping
// its message.
func wrapVMError(err error) error {
	if isKnownError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrVM, err)
}

// newError attaches the context data to err. pc is the position of the
// failed instruction.
func newError(ctx *Context, pc int, line string, err error) *Error {
	var sb strings.Builder
	for i := len(ctx.Stack) - 1; i >= 0; i-- {
		sb.WriteString(stackitem.ToString(ctx.Stack[i]))
		if i > 0 {
			sb.WriteByte('\n')
		}
	}
	return &Error{
		Err:        err,
		PC:         pc,
		Line:       line,
		ScriptHash: ctx.ScriptHash,
		Stack:      sb.String(),
	}
}
