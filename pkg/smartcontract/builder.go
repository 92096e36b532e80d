package smartcontract

import (
	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/emit"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/opcode"
)

// Builder is used to create arbitrary scripts from the set of methods it provides.
// Each method emits some set of opcodes performing an action and (in most cases)
// returning a result. These chunks of code can be composed together to perform
// several actions in the same script, but the end result of the script totally
// depends on what it contains and that's the responsibility of the Builder
// user. Builder is mostly used to create entry scripts.
type Builder struct {
	bw *io.BufBinWriter
}

// NewBuilder creates a new Builder instance.
func NewBuilder() *Builder {
	return &Builder{bw: io.NewBufBinWriter()}
}

// InvokeMethod is the most generic contract method invoker, the code it produces
// packs all of the arguments given into an array, pushes the method name and
// calls the contract with APPCALL. If contract's method returns something this
// value just remains on the execution stack.
func (b *Builder) InvokeMethod(contract util.Uint160, method string, params ...any) {
	emit.AppCallWithOperationAndArgs(b.bw.BinWriter, contract, method, params...)
}

// InvokeWithParameters is similar to InvokeMethod, but takes the arguments as
// Parameters.
func (b *Builder) InvokeWithParameters(contract util.Uint160, method string, params ...Parameter) error {
	args := make([]any, len(params))
	for i := range params {
		var err error
		args[i], err = ExpandParameterToEmitable(params[i])
		if err != nil {
			return err
		}
	}
	b.InvokeMethod(contract, method, args...)
	return b.bw.Err
}

// Assert emits a THROWIFNOT opcode that expects a Boolean value to be on the
// stack, checks if it's true and aborts the execution if it's not.
func (b *Builder) Assert() {
	emit.Opcode(b.bw.BinWriter, opcode.THROWIFNOT)
}

// InvokeWithAssert emits an invocation of the method (see InvokeMethod) with
// an assertion after the invocation. The presumption is that the method called
// returns a Boolean value signalling the success or failure of the operation.
func (b *Builder) InvokeWithAssert(contract util.Uint160, method string, params ...any) {
	b.InvokeMethod(contract, method, params...)
	b.Assert()
}

// Len returns the current script length.
func (b *Builder) Len() int {
	return b.bw.Len()
}

// Script return current script, you can't use Builder after invoking this method
// unless you Reset it.
func (b *Builder) Script() ([]byte, error) {
	err := b.bw.Err
	return b.bw.Bytes(), err
}

// Reset resets the Builder, allowing to reuse the same script buffer (but
// previous script will be overwritten there).
func (b *Builder) Reset() {
	b.bw.Reset()
}
