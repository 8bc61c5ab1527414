package cache

import (
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// NativeBalanceKey is the cached native balance of a wallet.
func NativeBalanceKey(walletID int64) string {
	return fmt.Sprintf("cache:balance:native:%d", walletID)
}

// TokenBalanceKey is the cached balance of one token category in a wallet.
func TokenBalanceKey(walletID int64, category string) string {
	return fmt.Sprintf("cache:balance:token:%d:%s", walletID, category)
}

// HistoryKey is one cached wallet history page.
func HistoryKey(walletID int64, asset model.AssetID, page, size int) string {
	return fmt.Sprintf("cache:history:%d:%s:%d:%d", walletID, asset.Key(), page, size)
}

func historyPattern(walletID int64, asset model.AssetID) string {
	return fmt.Sprintf("cache:history:%d:%s:*", walletID, asset.Key())
}

func walletPatterns(walletID int64) []string {
	return []string{
		fmt.Sprintf("cache:balance:token:%d:*", walletID),
		fmt.Sprintf("cache:history:%d:*", walletID),
	}
}
