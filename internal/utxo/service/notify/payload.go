package notify

import (
	"fmt"
	"math/big"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/shopspring/decimal"
)

const nativeDecimals = 8

// Payload is the JSON body delivered to webhooks and live socket rooms.
type Payload struct {
	Amount      uint64  `json:"amount"`
	Address     string  `json:"address"`
	Source      string  `json:"source"`
	AssetID     string  `json:"asset_id"`
	TxID        string  `json:"txid"`
	BlockHeight *uint64 `json:"block_height"`
	OutputIndex uint32  `json:"output_index"`
}

// NewPayload renders a ledger entry for delivery.
func NewPayload(entry model.LedgerEntry) Payload {
	return Payload{
		Amount:      entry.Amount,
		Address:     entry.Address,
		Source:      string(entry.Source),
		AssetID:     entry.AssetID.Key(),
		TxID:        entry.TxID,
		BlockHeight: entry.BlockHeight,
		OutputIndex: entry.OutputIndex,
	}
}

// FormatAmount renders native satoshis as coins and token amounts as integers.
func FormatAmount(asset model.AssetID, amount uint64) string {
	v := new(big.Int).SetUint64(amount)
	if asset.IsNative() {
		return decimal.NewFromBigInt(v, -nativeDecimals).StringFixed(nativeDecimals)
	}
	return decimal.NewFromBigInt(v, 0).String()
}

// ChatMessage is the text sent to chat recipients.
func ChatMessage(entry model.LedgerEntry) string {
	status := "unconfirmed"
	if entry.BlockHeight != nil {
		status = fmt.Sprintf("confirmed in block %d", *entry.BlockHeight)
	}
	if entry.AssetID.IsNative() {
		return fmt.Sprintf("Received %s to %s\ntx %s:%d (%s)",
			FormatAmount(entry.AssetID, entry.Amount), entry.Address, entry.TxID, entry.OutputIndex, status)
	}
	return fmt.Sprintf("Received %s of token %s to %s\ntx %s:%d (%s)",
		FormatAmount(entry.AssetID, entry.Amount), entry.AssetID, entry.Address, entry.TxID, entry.OutputIndex, status)
}

// Rooms returns the live socket rooms an entry is broadcast to.
func Rooms(entry model.LedgerEntry) []string {
	address := model.NormalizeAddress(entry.Address)
	if entry.AssetID.IsNative() {
		return []string{address}
	}
	return []string{address, address + "_" + string(entry.AssetID)}
}
