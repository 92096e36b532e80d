package container

import (
	"encoding/json"
	"errors"

	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
)

// MaxScriptLength is the limit for transaction's script length.
const MaxScriptLength = 65535

// ErrEmptyScript is returned when decoding a transaction without a script.
var ErrEmptyScript = errors.New("no script")

// Transaction is an invocation transaction: a script to run and the
// accounts that witnessed it.
type Transaction struct {
	// Script is the invocation script.
	Script []byte
	// Nonce makes otherwise equal transactions distinct.
	Nonce uint32
	// Signers are the script hashes CheckWitness succeeds for.
	Signers []util.Uint160

	hash       util.Uint256
	hashCached bool
}

// NewTransaction returns a new transaction for the given script.
func NewTransaction(script []byte, nonce uint32, signers ...util.Uint160) *Transaction {
	return &Transaction{
		Script:  script,
		Nonce:   nonce,
		Signers: signers,
	}
}

// Type implements the Container interface.
func (t *Transaction) Type() Type { return TransactionType }

// Hash returns the hash of the transaction.
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashCached {
		t.hash = hashOf(t)
		t.hashCached = true
	}
	return t.hash
}

// ScriptHashesForVerifying implements the Container interface.
func (t *Transaction) ScriptHashesForVerifying() []util.Uint160 {
	return t.Signers
}

// EncodeBinary implements the io.Serializable interface.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(t.Script)
	w.WriteU32LE(t.Nonce)
	writeHashes(w, t.Signers)
}

// DecodeBinary implements the io.Serializable interface.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	t.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err == nil && len(t.Script) == 0 {
		r.Err = ErrEmptyScript
		return
	}
	t.Nonce = r.ReadU32LE()
	t.Signers = readHashes(r, MaxSigners)
	t.hashCached = false
}

type transactionAux struct {
	Hash    util.Uint256   `json:"hash"`
	Script  []byte         `json:"script"`
	Nonce   uint32         `json:"nonce"`
	Signers []util.Uint160 `json:"signers"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionAux{
		Hash:    t.Hash(),
		Script:  t.Script,
		Nonce:   t.Nonce,
		Signers: t.Signers,
	})
}

func hashOf(s interface{ EncodeBinary(*io.BinWriter) }) util.Uint256 {
	w := io.NewBufBinWriter()
	s.EncodeBinary(w.BinWriter)
	return hash.Hash256(w.Bytes())
}
