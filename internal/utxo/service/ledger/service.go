// Package ledger owns ledger entry writes and publishes their mutations.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"go.uber.org/zap"
)

// Service writes ledger entries and fans their mutations out to the sink.
type Service struct {
	repo        Repository
	sink        MutationSink
	invalidator CacheInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewService builds a ledger Service.
func NewService(repo Repository, sink MutationSink, invalidator CacheInvalidator, logger *zap.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("ledger repository is required")
	}
	if sink == nil {
		return nil, errors.New("mutation sink is required")
	}
	if invalidator == nil {
		return nil, errors.New("cache invalidator is required")
	}
	return &Service{
		repo:        repo,
		sink:        sink,
		invalidator: invalidator,
		logger:      logger.Named("ledger"),
		now:         time.Now,
	}, nil
}

// Upsert inserts the entry unless an identical one exists. A supplied block
// height is propagated to every entry of the same transaction.
func (s *Service) Upsert(ctx context.Context, req model.UpsertRequest) (model.LedgerEntry, bool, error) {
	req.Address = model.NormalizeAddress(req.Address)
	if req.AssetID == "" {
		req.AssetID = model.NativeAsset
	}

	entry, created, err := s.repo.UpsertEntry(ctx, req)
	if err != nil {
		return model.LedgerEntry{}, false, fmt.Errorf("upsert entry: %w", err)
	}
	if created {
		s.publish(ctx, model.MutationCreated, entry)
	}

	if req.BlockHeight == nil {
		return entry, created, nil
	}
	updated, err := s.repo.PropagateBlockHeight(ctx, req.TxID, *req.BlockHeight)
	if err != nil {
		return entry, created, fmt.Errorf("propagate block height: %w", err)
	}
	for _, u := range updated {
		if u.ID == entry.ID {
			entry = u
		}
		s.publish(ctx, model.MutationUpdated, u)
	}
	return entry, created, nil
}

// MarkSpent flags the output as spent by spendingTxID. Unknown outputs are
// ignored and repeated calls change nothing.
func (s *Service) MarkSpent(ctx context.Context, txid string, outputIndex uint32, spendingTxID string) ([]model.LedgerEntry, error) {
	entries, err := s.repo.MarkSpent(ctx, txid, outputIndex, spendingTxID)
	if err != nil {
		return nil, fmt.Errorf("mark spent: %w", err)
	}
	for _, e := range entries {
		s.publish(ctx, model.MutationSpent, e)
	}
	return entries, nil
}

// Acknowledge records that channel delivered the entry.
func (s *Service) Acknowledge(ctx context.Context, entryID int64, channel string) error {
	if err := s.repo.SetAcknowledged(ctx, entryID, model.AckDone); err != nil {
		return fmt.Errorf("acknowledge entry %d via %s: %w", entryID, channel, err)
	}
	s.logger.Debug("entry acknowledged", zap.Int64("entry_id", entryID), zap.String("channel", channel))
	return nil
}

// Entry returns one entry by id.
func (s *Service) Entry(ctx context.Context, id int64) (model.LedgerEntry, bool, error) {
	return s.repo.Entry(ctx, id)
}

// FindOutput returns the entries recorded for one transaction output.
func (s *Service) FindOutput(ctx context.Context, txid string, outputIndex uint32) ([]model.LedgerEntry, error) {
	return s.repo.FindOutputs(ctx, txid, outputIndex)
}

// EntriesByTxID returns the entries created by txid.
func (s *Service) EntriesByTxID(ctx context.Context, txid string) ([]model.LedgerEntry, error) {
	return s.repo.EntriesByTxID(ctx, txid)
}

// EntriesSpentBy returns the entries whose spending transaction is txid.
func (s *Service) EntriesSpentBy(ctx context.Context, txid string) ([]model.LedgerEntry, error) {
	return s.repo.EntriesSpentBy(ctx, txid)
}

// TrackedAddresses returns which addresses are bound to a wallet or subscribed.
func (s *Service) TrackedAddresses(ctx context.Context, addresses []string) (map[string]struct{}, error) {
	return s.repo.TrackedAddresses(ctx, addresses)
}

// publish never fails the write: the row is already committed.
func (s *Service) publish(ctx context.Context, kind model.MutationKind, entry model.LedgerEntry, wallets ...int64) {
	m := model.LedgerMutation{Kind: kind, Entry: entry, Wallets: wallets, At: s.now()}
	if err := s.sink.Publish(ctx, m); err != nil {
		s.logger.Error("publish ledger mutation failed",
			zap.String("kind", string(kind)),
			zap.Int64("entry_id", entry.ID),
			zap.String("txid", entry.TxID),
			zap.Error(err),
		)
	}
}
