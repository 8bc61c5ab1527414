package bitcoin

import (
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/safe"
)

// AmountFromCoins converts a coin value reported by the node into satoshis,
// rounding to the nearest satoshi. Negative, non-finite and above-supply
// values are rejected.
func AmountFromCoins(value float64) (uint64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("non-finite amount %v", value)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative amount %v", value)
	}
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, fmt.Errorf("convert amount %v: %w", value, err)
	}
	if amt > btcutil.MaxSatoshi {
		return 0, fmt.Errorf("amount %v exceeds max supply", value)
	}
	return safe.Uint64(int64(amt))
}
