package model

import "time"

// MutationKind describes what happened to a ledger entry.
type MutationKind string

const (
	MutationCreated MutationKind = "created"
	MutationUpdated MutationKind = "updated"
	MutationSpent   MutationKind = "spent"
	MutationDeleted MutationKind = "deleted"
	// MutationReconciled marks a wallet history reconciliation pass in the journal.
	MutationReconciled MutationKind = "reconciled"
)

// LedgerMutation is emitted after a successful ledger write.
type LedgerMutation struct {
	Kind  MutationKind
	Entry LedgerEntry
	// Wallets lists additional wallets affected besides Entry.WalletID.
	Wallets []int64
	At      time.Time
}

// AffectedWallets returns the distinct wallet ids touched by the mutation.
func (m LedgerMutation) AffectedWallets() []int64 {
	seen := make(map[int64]struct{}, len(m.Wallets)+1)
	wallets := make([]int64, 0, len(m.Wallets)+1)
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		wallets = append(wallets, id)
	}
	if m.Entry.WalletID != nil {
		add(*m.Entry.WalletID)
	}
	for _, id := range m.Wallets {
		add(id)
	}
	return wallets
}

// HistoryItem is one row of a wallet history page.
type HistoryItem struct {
	TxID        string
	OutputIndex uint32
	Address     string
	AssetID     AssetID
	Amount      uint64
	Kind        MutationKind
	BlockHeight *uint64
	At          time.Time
}

// JournalEvent is a ledger mutation recorded against one wallet.
type JournalEvent struct {
	WalletID int64
	HistoryItem
}
