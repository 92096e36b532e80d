package container

import (
	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
)

// MaxTransactionsPerBlock is the maximum number of transactions per block.
const MaxTransactionsPerBlock = 500

// Header holds the hashable block data.
type Header struct {
	Version       uint32
	PrevHash      util.Uint256
	Index         uint32
	Timestamp     uint32
	NextConsensus util.Uint160
}

// Block is a header with its transactions.
type Block struct {
	Header
	Transactions []*Transaction

	hash       util.Uint256
	hashCached bool
}

// Type implements the Container interface.
func (b *Block) Type() Type { return BlockType }

// Hash returns the hash of the block header.
func (b *Block) Hash() util.Uint256 {
	if !b.hashCached {
		b.hash = hashOf(&b.Header)
		b.hashCached = true
	}
	return b.hash
}

// ScriptHashesForVerifying implements the Container interface.
func (b *Block) ScriptHashesForVerifying() []util.Uint160 {
	return []util.Uint160{b.NextConsensus}
}

// EncodeBinary implements the io.Serializable interface.
func (h *Header) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(h.Version)
	w.WriteBytes(h.PrevHash[:])
	w.WriteU32LE(h.Index)
	w.WriteU32LE(h.Timestamp)
	w.WriteBytes(h.NextConsensus[:])
}

// DecodeBinary implements the io.Serializable interface.
func (h *Header) DecodeBinary(r *io.BinReader) {
	h.Version = r.ReadU32LE()
	r.ReadBytes(h.PrevHash[:])
	h.Index = r.ReadU32LE()
	h.Timestamp = r.ReadU32LE()
	r.ReadBytes(h.NextConsensus[:])
}

// EncodeBinary implements the io.Serializable interface.
func (b *Block) EncodeBinary(w *io.BinWriter) {
	b.Header.EncodeBinary(w)
	io.WriteArray(w, b.Transactions)
}

// DecodeBinary implements the io.Serializable interface.
func (b *Block) DecodeBinary(r *io.BinReader) {
	b.Header.DecodeBinary(r)
	b.Transactions = io.ReadArray(r, func() *Transaction { return new(Transaction) }, MaxTransactionsPerBlock)
	b.hashCached = false
}
