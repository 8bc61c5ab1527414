package cache

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Metrics records invalidation passes and cache lookups.
	Metrics interface {
		ObserveInvalidation(deleted int, err error)
		ObserveLookup(kind string, hit bool)
	}

	// BalanceStore computes balances from the ledger.
	BalanceStore interface {
		NativeBalance(ctx context.Context, walletID int64) (uint64, error)
		TokenBalance(ctx context.Context, walletID int64, category string) (uint64, error)
	}

	// HistoryStore serves wallet history pages.
	HistoryStore interface {
		WalletHistory(ctx context.Context, walletID int64, asset model.AssetID, page, size int) ([]model.HistoryItem, error)
	}
)
