// Package model defines domain models for UTXO ledger reconciliation.
package model

// Block tracks scan progress of one blockchain block.
// Processed may only become true once CompletedTxCount equals ExpectedTxCount.
type Block struct {
	Number           uint64
	ExpectedTxCount  uint32
	CompletedTxCount uint32
	Processed        bool
	RequiresFullScan bool
}

// Complete reports whether every expected transaction unit has been counted.
func (b Block) Complete() bool {
	return b.CompletedTxCount >= b.ExpectedTxCount
}

// ScanUnit is one transaction of a block handed to a scan worker.
type ScanUnit struct {
	Height   uint64
	FullScan bool
	Tx       RawTransaction
}

// Source returns the ledger source of entries created by the unit.
func (u ScanUnit) Source() Source {
	if u.FullScan {
		return SourceRescan
	}
	return SourceBlockScan
}
