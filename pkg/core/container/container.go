/*
Package container contains the script containers: the entities a script can
be executed for. The VM passes the container through to syscalls that expose
transaction, block or consensus data to the executing contract.
*/
package container

import (
	"fmt"

	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
)

// Type is the script container type.
type Type byte

// Container types.
const (
	TransactionType Type = 0x00
	BlockType       Type = 0x01
	ConsensusType   Type = 0x02
)

// MaxSigners is the maximum number of signers a transaction or a payload can
// have.
const MaxSigners = 16

// Container is something a script can be executed for.
type Container interface {
	Type() Type
	Hash() util.Uint256
	ScriptHashesForVerifying() []util.Uint160
}

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	switch t {
	case TransactionType:
		return "Transaction"
	case BlockType:
		return "Block"
	case ConsensusType:
		return "Consensus"
	default:
		return fmt.Sprintf("UNKNOWN (%d)", byte(t))
	}
}

func writeHashes(w *io.BinWriter, hashes []util.Uint160) {
	w.WriteVarUint(uint64(len(hashes)))
	for i := range hashes {
		w.WriteBytes(hashes[i][:])
	}
}

func readHashes(r *io.BinReader, maxSize int) []util.Uint160 {
	l := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if l > uint64(maxSize) {
		r.Err = fmt.Errorf("too many hashes: %d", l)
		return nil
	}
	hashes := make([]util.Uint160, l)
	for i := range hashes {
		r.ReadBytes(hashes[i][:])
	}
	return hashes
}
