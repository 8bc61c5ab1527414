package mempool

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/ledger"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Feed yields mempool transactions.
	Feed interface {
		Next(ctx context.Context) (model.RawTransaction, error)
		Close() error
	}

	// Ledger applies a mempool transaction.
	Ledger interface {
		ApplyTransaction(ctx context.Context, tx model.RawTransaction, opts ledger.ApplyOptions) (ledger.ApplyResult, error)
	}

	// WalletCaches drops every derived cache of a wallet.
	WalletCaches interface {
		InvalidateWallet(ctx context.Context, walletID int64) error
	}

	// Journal records wallet history events.
	Journal interface {
		Record(ctx context.Context, events ...model.JournalEvent) error
	}

	// Metrics records processed transactions.
	Metrics interface {
		ObserveTransaction(err error, started time.Time)
	}
)
