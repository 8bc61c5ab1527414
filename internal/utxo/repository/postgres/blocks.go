package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/safe"
	"github.com/lib/pq"
)

// EnsureBlocks records heights that are not tracked yet.
func (r *Repository) EnsureBlocks(ctx context.Context, heights []uint64) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("ensure_blocks", err, start)
	}()

	if len(heights) == 0 {
		return nil
	}
	numbers := make([]int64, 0, len(heights))
	for _, h := range heights {
		n, convErr := safe.Int64(h)
		if convErr != nil {
			return fmt.Errorf("ensure blocks: %w", convErr)
		}
		numbers = append(numbers, n)
	}
	const query = `
INSERT INTO blocks (number)
SELECT unnest($1::bigint[])
ON CONFLICT (number) DO NOTHING`
	if _, err = r.db.ExecContext(ctx, query, pq.Array(numbers)); err != nil {
		return fmt.Errorf("ensure blocks: %w", err)
	}
	return nil
}

// MarkForRescan reopens a block for scanning. fullScan is sticky until the
// block is processed again.
func (r *Repository) MarkForRescan(ctx context.Context, height uint64, fullScan bool) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("mark_for_rescan", err, start)
	}()

	const query = `
INSERT INTO blocks (number, requires_full_scan)
VALUES ($1, $2)
ON CONFLICT (number) DO UPDATE SET
	processed = FALSE,
	completed_tx_count = 0,
	requires_full_scan = blocks.requires_full_scan OR EXCLUDED.requires_full_scan`
	if _, err = r.db.ExecContext(ctx, query, int64(height), fullScan); err != nil {
		return fmt.Errorf("mark for rescan: %w", err)
	}
	return nil
}

// ResetBlockScan starts a new scan of height expecting expected units.
func (r *Repository) ResetBlockScan(ctx context.Context, height uint64, expected uint32) (block model.Block, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("reset_block_scan", err, start)
	}()

	const query = `
INSERT INTO blocks (number, expected_tx_count)
VALUES ($1, $2)
ON CONFLICT (number) DO UPDATE SET
	expected_tx_count = EXCLUDED.expected_tx_count,
	completed_tx_count = 0,
	processed = FALSE
RETURNING number, expected_tx_count, completed_tx_count, processed, requires_full_scan`

	block, err = scanBlock(r.db.QueryRowContext(ctx, query, int64(height), int64(expected)))
	if err != nil {
		return model.Block{}, fmt.Errorf("reset block scan: %w", err)
	}
	return block, nil
}

// Block returns the scan state of height.
func (r *Repository) Block(ctx context.Context, height uint64) (block model.Block, found bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("block", err, start)
	}()

	const query = `
SELECT number, expected_tx_count, completed_tx_count, processed, requires_full_scan
FROM blocks
WHERE number = $1`

	block, err = scanBlock(r.db.QueryRowContext(ctx, query, int64(height)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Block{}, false, nil
	}
	if err != nil {
		return model.Block{}, false, fmt.Errorf("query block: %w", err)
	}
	return block, true, nil
}

// UpdateBlockProgress stores the number of completed units of an open scan.
func (r *Repository) UpdateBlockProgress(ctx context.Context, height uint64, completed uint32) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("update_block_progress", err, start)
	}()

	const query = `
UPDATE blocks
SET completed_tx_count = $2
WHERE number = $1 AND NOT processed AND $2 <= expected_tx_count`
	if _, err = r.db.ExecContext(ctx, query, int64(height), int64(completed)); err != nil {
		return fmt.Errorf("update block progress: %w", err)
	}
	return nil
}

// MarkBlockProcessed completes the scan of height when completed matches the
// expected count. It reports whether this call flipped the flag.
func (r *Repository) MarkBlockProcessed(ctx context.Context, height uint64, completed uint32) (marked bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("mark_block_processed", err, start)
	}()

	const query = `
UPDATE blocks
SET processed = TRUE, completed_tx_count = $2, requires_full_scan = FALSE
WHERE number = $1 AND NOT processed AND expected_tx_count = $2`
	res, err := r.db.ExecContext(ctx, query, int64(height), int64(completed))
	if err != nil {
		return false, fmt.Errorf("mark block processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark block processed rows affected: %w", err)
	}
	return n == 1, nil
}

func scanBlock(row rowScanner) (model.Block, error) {
	var (
		number             int64
		expected, complete int64
		block              model.Block
	)
	if err := row.Scan(&number, &expected, &complete, &block.Processed, &block.RequiresFullScan); err != nil {
		return model.Block{}, err
	}
	block.Number = uint64(number)
	block.ExpectedTxCount = uint32(expected)
	block.CompletedTxCount = uint32(complete)
	return block, nil
}
