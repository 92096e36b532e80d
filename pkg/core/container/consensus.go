package container

import (
	"github.com/nspcc-dev/neo2-vm/pkg/io"
	"github.com/nspcc-dev/neo2-vm/pkg/util"
)

// MaxConsensusDataSize is the limit for the consensus message data.
const MaxConsensusDataSize = 65535

// ConsensusPayload is a dBFT message relayed between validators.
type ConsensusPayload struct {
	Version        uint32
	PrevHash       util.Uint256
	BlockIndex     uint32
	ValidatorIndex uint16
	Timestamp      uint32
	Data           []byte
	// Signer is the validator's verification script hash.
	Signer util.Uint160

	hash       util.Uint256
	hashCached bool
}

// Type implements the Container interface.
func (p *ConsensusPayload) Type() Type { return ConsensusType }

// Hash returns the hash of the payload.
func (p *ConsensusPayload) Hash() util.Uint256 {
	if !p.hashCached {
		p.hash = hashOf(p)
		p.hashCached = true
	}
	return p.hash
}

// ScriptHashesForVerifying implements the Container interface.
func (p *ConsensusPayload) ScriptHashesForVerifying() []util.Uint160 {
	return []util.Uint160{p.Signer}
}

// EncodeBinary implements the io.Serializable interface.
func (p *ConsensusPayload) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(p.Version)
	w.WriteBytes(p.PrevHash[:])
	w.WriteU32LE(p.BlockIndex)
	w.WriteU16LE(p.ValidatorIndex)
	w.WriteU32LE(p.Timestamp)
	w.WriteVarBytes(p.Data)
	w.WriteBytes(p.Signer[:])
}

// DecodeBinary implements the io.Serializable interface.
func (p *ConsensusPayload) DecodeBinary(r *io.BinReader) {
	p.Version = r.ReadU32LE()
	r.ReadBytes(p.PrevHash[:])
	p.BlockIndex = r.ReadU32LE()
	p.ValidatorIndex = r.ReadU16LE()
	p.Timestamp = r.ReadU32LE()
	p.Data = r.ReadVarBytes(MaxConsensusDataSize)
	r.ReadBytes(p.Signer[:])
	p.hashCached = false
}
