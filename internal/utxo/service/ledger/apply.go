package ledger

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// ApplyOptions describes where a transaction was observed.
type ApplyOptions struct {
	Source      model.Source
	BlockHeight *uint64
	// FullScan ingests every output instead of only tracked addresses.
	FullScan bool
}

// ApplyResult summarizes the ledger changes caused by one transaction.
type ApplyResult struct {
	Created int
	Spent   int
	// TouchedWallets lists wallets owning an output spent by the transaction.
	TouchedWallets []int64
	// ProducedOutputUpdate is true when at least one entry was created.
	ProducedOutputUpdate bool
}

// ApplyTransaction marks the inputs of tx as spent and records its outputs.
// Inputs referencing unknown outputs are skipped.
func (s *Service) ApplyTransaction(ctx context.Context, tx model.RawTransaction, opts ApplyOptions) (ApplyResult, error) {
	var res ApplyResult
	touched := make(map[int64]struct{})

	for _, in := range tx.Inputs {
		spent, err := s.MarkSpent(ctx, in.TxID, in.OutputIndex, tx.TxID)
		if err != nil {
			return res, fmt.Errorf("apply input %s:%d: %w", in.TxID, in.OutputIndex, err)
		}
		res.Spent += len(spent)
		for _, e := range spent {
			if e.WalletID == nil {
				continue
			}
			if _, ok := touched[*e.WalletID]; !ok {
				touched[*e.WalletID] = struct{}{}
				res.TouchedWallets = append(res.TouchedWallets, *e.WalletID)
			}
		}
	}

	outputs, err := s.trackedOutputs(ctx, tx.Outputs, opts.FullScan)
	if err != nil {
		return res, err
	}
	for _, out := range outputs {
		asset, amount := out.Asset()
		_, created, err := s.Upsert(ctx, model.UpsertRequest{
			AssetID:     asset,
			Address:     out.Address,
			TxID:        tx.TxID,
			Amount:      amount,
			Source:      opts.Source,
			BlockHeight: opts.BlockHeight,
			OutputIndex: out.OutputIndex,
		})
		if err != nil {
			return res, fmt.Errorf("apply output %s:%d: %w", tx.TxID, out.OutputIndex, err)
		}
		if created {
			res.Created++
			res.ProducedOutputUpdate = true
		}
	}

	// A confirmed transaction without tracked outputs may still have mempool rows.
	if len(outputs) == 0 && opts.BlockHeight != nil {
		updated, err := s.repo.PropagateBlockHeight(ctx, tx.TxID, *opts.BlockHeight)
		if err != nil {
			return res, fmt.Errorf("propagate block height: %w", err)
		}
		for _, u := range updated {
			s.publish(ctx, model.MutationUpdated, u)
		}
	}
	return res, nil
}

func (s *Service) trackedOutputs(ctx context.Context, outputs []model.RawOutput, fullScan bool) ([]model.RawOutput, error) {
	if fullScan || len(outputs) == 0 {
		return outputs, nil
	}
	addresses := make([]string, 0, len(outputs))
	for _, out := range outputs {
		addresses = append(addresses, model.NormalizeAddress(out.Address))
	}
	tracked, err := s.repo.TrackedAddresses(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("tracked addresses: %w", err)
	}
	filtered := make([]model.RawOutput, 0, len(tracked))
	for _, out := range outputs {
		if _, ok := tracked[model.NormalizeAddress(out.Address)]; ok {
			filtered = append(filtered, out)
		}
	}
	return filtered, nil
}
