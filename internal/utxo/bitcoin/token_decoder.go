package bitcoin

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

const (
	tokenPrefix = 0xef

	tokenReservedBit       = 0x80
	tokenHasCommitment     = 0x40
	tokenHasNFT            = 0x20
	tokenHasAmount         = 0x10
	tokenCapabilityMask    = 0x0f
	tokenMaxCommitmentSize = 40
)

// ErrMalformedToken reports a token prefix that does not follow the encoding rules.
var ErrMalformedToken = errors.New("malformed token prefix")

var capabilities = map[byte]string{
	0x00: "none",
	0x01: "mutable",
	0x02: "minting",
}

// CashTokenDecoder reads the token prefix that precedes the locking script of
// token-carrying outputs.
type CashTokenDecoder struct{}

// NewCashTokenDecoder constructs a token decoder.
func NewCashTokenDecoder() *CashTokenDecoder {
	return &CashTokenDecoder{}
}

// Decode splits pkScript into token data and the locking script. Scripts
// without the prefix are returned unchanged with nil token data.
func (CashTokenDecoder) Decode(pkScript []byte) (*model.TokenData, []byte, error) {
	if len(pkScript) == 0 || pkScript[0] != tokenPrefix {
		return nil, pkScript, nil
	}
	r := bytes.NewReader(pkScript[1:])

	var category chainhash.Hash
	if _, err := io.ReadFull(r, category[:]); err != nil {
		return nil, nil, fmt.Errorf("%w: category: %v", ErrMalformedToken, err)
	}
	bitfield, err := r.ReadByte()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bitfield: %v", ErrMalformedToken, err)
	}
	if bitfield&tokenReservedBit != 0 {
		return nil, nil, fmt.Errorf("%w: reserved bit set", ErrMalformedToken)
	}

	hasNFT := bitfield&tokenHasNFT != 0
	hasAmount := bitfield&tokenHasAmount != 0
	hasCommitment := bitfield&tokenHasCommitment != 0
	capability, ok := capabilities[bitfield&tokenCapabilityMask]
	if !ok {
		return nil, nil, fmt.Errorf("%w: capability %d", ErrMalformedToken, bitfield&tokenCapabilityMask)
	}
	if !hasNFT && !hasAmount {
		return nil, nil, fmt.Errorf("%w: neither nft nor amount", ErrMalformedToken)
	}
	if !hasNFT && (hasCommitment || bitfield&tokenCapabilityMask != 0) {
		return nil, nil, fmt.Errorf("%w: nft fields without nft", ErrMalformedToken)
	}

	token := &model.TokenData{Category: category.String()}
	if hasNFT {
		token.Capability = capability
	}
	if hasCommitment {
		size, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: commitment length: %v", ErrMalformedToken, err)
		}
		if size == 0 || size > tokenMaxCommitmentSize {
			return nil, nil, fmt.Errorf("%w: commitment length %d", ErrMalformedToken, size)
		}
		commitment := make([]byte, size)
		if _, err := io.ReadFull(r, commitment); err != nil {
			return nil, nil, fmt.Errorf("%w: commitment: %v", ErrMalformedToken, err)
		}
		token.Commitment = hex.EncodeToString(commitment)
	}
	if hasAmount {
		amount, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: amount: %v", ErrMalformedToken, err)
		}
		if amount == 0 {
			return nil, nil, fmt.Errorf("%w: zero amount", ErrMalformedToken)
		}
		token.Amount = amount
	}

	rest := make([]byte, r.Len())
	_, _ = r.Read(rest)
	return token, rest, nil
}
