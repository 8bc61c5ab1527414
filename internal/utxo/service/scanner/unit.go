package scanner

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/ledger"
	"go.uber.org/zap"
)

// UnitProcessor applies one scanned transaction and reports it complete.
type UnitProcessor struct {
	ledger Ledger
	queue  Queue
	logger *zap.Logger
}

// NewUnitProcessor builds a UnitProcessor.
func NewUnitProcessor(l Ledger, queue Queue, logger *zap.Logger) *UnitProcessor {
	return &UnitProcessor{ledger: l, queue: queue, logger: logger.Named("scan_unit")}
}

// Process applies the unit's transaction. The completion is recorded only
// after the ledger write succeeded, and at most once per transaction.
func (p *UnitProcessor) Process(ctx context.Context, unit model.ScanUnit) error {
	height := unit.Height
	res, err := p.ledger.ApplyTransaction(ctx, unit.Tx, ledger.ApplyOptions{
		Source:      unit.Source(),
		BlockHeight: &height,
		FullScan:    unit.FullScan,
	})
	if err != nil {
		return fmt.Errorf("apply %s: %w", unit.Tx.TxID, err)
	}

	first, err := p.queue.MarkUnitComplete(ctx, unit.Height, unit.Tx.TxID)
	if err != nil {
		return err
	}
	if !first {
		p.logger.Debug("duplicate unit completion ignored", zap.Uint64("height", unit.Height), zap.String("txid", unit.Tx.TxID))
	}
	if res.Created > 0 {
		p.logger.Debug("unit created entries", zap.String("txid", unit.Tx.TxID), zap.Int("created", res.Created))
	}
	return nil
}
