package ledger

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Repository is the persistence contract of the ledger.
	Repository interface {
		UpsertEntry(ctx context.Context, req model.UpsertRequest) (model.LedgerEntry, bool, error)
		PropagateBlockHeight(ctx context.Context, txid string, height uint64) ([]model.LedgerEntry, error)
		MarkSpent(ctx context.Context, txid string, outputIndex uint32, spendingTxID string) ([]model.LedgerEntry, error)
		FindOutputs(ctx context.Context, txid string, outputIndex uint32) ([]model.LedgerEntry, error)
		EntriesByTxID(ctx context.Context, txid string) ([]model.LedgerEntry, error)
		EntriesSpentBy(ctx context.Context, txid string) ([]model.LedgerEntry, error)
		Entry(ctx context.Context, id int64) (model.LedgerEntry, bool, error)
		SetAcknowledged(ctx context.Context, entryID int64, ack model.Acknowledgement) error
		SpentEntriesBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.LedgerEntry, error)
		DeleteEntries(ctx context.Context, ids []int64) (int64, error)
		TrackedAddresses(ctx context.Context, addresses []string) (map[string]struct{}, error)
	}

	// MutationSink receives every successful ledger mutation.
	MutationSink interface {
		Publish(ctx context.Context, mutation model.LedgerMutation) error
	}

	// CacheInvalidator drops derived caches before entries disappear.
	CacheInvalidator interface {
		Invalidate(ctx context.Context, mutations ...model.LedgerMutation) error
	}
)

// EventWriter appends journal events to the history store.
type EventWriter interface {
	InsertLedgerEvents(ctx context.Context, events []model.JournalEvent) error
}
