package model

import (
	"strings"
	"time"
)

// AssetID identifies the native coin or a token category.
type AssetID string

// NativeAsset is the asset key of the base coin.
const NativeAsset AssetID = "native"

// IsNative reports whether the asset is the base coin.
func (a AssetID) IsNative() bool {
	return a == "" || a == NativeAsset
}

// Key returns the cache/room asset key ("native" or the token category).
func (a AssetID) Key() string {
	if a.IsNative() {
		return string(NativeAsset)
	}
	return string(a)
}

// Source names the feed that produced a ledger entry.
type Source string

var (
	SourceMempool   Source = "mempool"
	SourceBlockScan Source = "block-scan"
	SourceRescan    Source = "rescan"
)

// Acknowledgement is the tri-state acknowledged flag of a ledger entry.
type Acknowledgement uint8

const (
	// AckUnknown means no delivery channel has reported yet (NULL).
	AckUnknown Acknowledgement = iota
	// AckPending means delivery was attempted but not confirmed (false).
	AckPending
	// AckDone means at least one channel confirmed delivery (true).
	AckDone
)

// LedgerEntry is one transaction output tracked for an address.
type LedgerEntry struct {
	ID           int64
	TxID         string
	OutputIndex  uint32
	Address      string
	AssetID      AssetID
	Amount       uint64
	Spent        bool
	SpendingTxID string
	BlockHeight  *uint64
	WalletID     *int64
	Source       Source
	Acknowledged Acknowledgement
	CreatedAt    time.Time
}

// UpsertRequest carries the identity and attributes of an entry to insert.
type UpsertRequest struct {
	AssetID          AssetID
	Address          string
	TxID             string
	Amount           uint64
	Source           Source
	BlockHeight      *uint64
	OutputIndex      uint32
	MarkAcknowledged bool
}

// NormalizeAddress strips the cashaddr prefix and surrounding whitespace.
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)
	if i := strings.IndexByte(address, ':'); i >= 0 {
		address = address[i+1:]
	}
	return address
}
