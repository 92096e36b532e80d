package interop

import (
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/crypto/keys"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
	"github.com/nspcc-dev/neo2-vm/pkg/vm"
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
	"go.uber.org/zap"
)

const (
	// MaxNotificationSize is the maximum size of a serialized notification
	// and the maximum length of a runtime log message.
	MaxNotificationSize = 1024
	// PublicKeyLength is the length of a compressed public key.
	PublicKeyLength = 33
	// RuntimeLogMessage is the message of log entries made by Neo.Runtime.Log.
	RuntimeLogMessage = "runtime log"
)

// runtimePlatform returns the name of the platform.
func runtimePlatform(_ *vm.Engine, _ *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return push(stackitem.NewByteArray([]byte("NEO")))
}

// runtimeGetTrigger returns the script trigger.
func runtimeGetTrigger(_ *vm.Engine, ctx *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	return push(stackitem.Make(int64(ctx.Trigger())))
}

// runtimeCheckWitness checks whether the given script hash or public key
// has witnessed the script container.
func runtimeCheckWitness(_ *vm.Engine, ctx *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := args[0].TryBytes()
	if err != nil {
		return fail(err)
	}
	var h util.Uint160
	switch len(b) {
	case util.Uint160Size:
		h, _ = util.Uint160DecodeBytesBE(b)
	case PublicKeyLength:
		pub, err := keys.NewPublicKeyFromBytes(b)
		if err != nil {
			return fail(fmt.Errorf("%w: %v", ErrInvalidArgument, err))
		}
		h = pub.GetScriptHash()
	default:
		return fail(fmt.Errorf("%w: witness of %d bytes", ErrInvalidArgument, len(b)))
	}
	return push(stackitem.NewBool(checkHashedWitness(ctx, h)))
}

func checkHashedWitness(ctx *vm.Context, h util.Uint160) bool {
	if ctx.Init != nil && ctx.Init.SkipWitnessVerify {
		return true
	}
	c := ctx.Container()
	if c == nil {
		return false
	}
	for _, v := range c.ScriptHashesForVerifying() {
		if v.Equals(h) {
			return true
		}
	}
	return false
}

// runtimeNotify passes the item to the notification listener. It has to be
// serializable and small enough.
func runtimeNotify(_ *vm.Engine, ctx *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := stackitem.Serialize(args[0])
	if err != nil {
		return fail(fmt.Errorf("bad notification: %w", err))
	}
	if len(b) > MaxNotificationSize {
		return fail(fmt.Errorf("notification size shouldn't exceed %d", MaxNotificationSize))
	}
	if ctx.Init != nil && ctx.Init.Listeners.OnNotify != nil {
		ctx.Init.Listeners.OnNotify(ctx.ScriptHash, args[0])
	}
	return push()
}

// runtimeLog logs the message passed.
func (ic *Context) runtimeLog(_ *vm.Engine, ctx *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := args[0].TryBytes()
	if err != nil {
		return fail(err)
	}
	if len(b) > MaxNotificationSize {
		return fail(fmt.Errorf("message length shouldn't exceed %v", MaxNotificationSize))
	}
	msg := string(b)
	ic.Log.Info(RuntimeLogMessage,
		zap.Stringer("script", ctx.ScriptHash),
		zap.String("msg", msg))
	if ctx.Init != nil && ctx.Init.Listeners.OnLog != nil {
		ctx.Init.Listeners.OnLog(ctx.ScriptHash, msg)
	}
	return push()
}

// runtimeGetTime returns the timestamp of the block being persisted or the
// current time if there is no such block.
func (ic *Context) runtimeGetTime(_ *vm.Engine, ctx *vm.Context, _, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	if ctx.Init != nil && ctx.Init.PersistingBlock != nil {
		return push(stackitem.Make(int64(ctx.Init.PersistingBlock.Timestamp)))
	}
	return push(stackitem.Make(ic.Time().Unix()))
}

// runtimeSerialize serializes the item into a byte array.
func runtimeSerialize(e *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := stackitem.Serialize(args[0])
	if err != nil {
		return fail(err)
	}
	if len(b) > e.Limits().MaxItemSize {
		return fail(fmt.Errorf("%w: serialized item is %d bytes", stackitem.ErrTooBig, len(b)))
	}
	return push(stackitem.NewByteArray(b))
}

// runtimeDeserialize restores the item serialized with runtimeSerialize.
func runtimeDeserialize(_ *vm.Engine, _ *vm.Context, args, _ []stackitem.Item) ([]stackitem.Item, []stackitem.Item, error) {
	b, err := args[0].TryBytes()
	if err != nil {
		return fail(err)
	}
	item, err := stackitem.Deserialize(b)
	if err != nil {
		return fail(err)
	}
	return push(item)
}
