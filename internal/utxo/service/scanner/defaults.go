package scanner

import "time"

const (
	scanPageSize        = 100
	defaultPageWorkers  = 4
	defaultLease        = 2 * time.Minute
	defaultPoll         = 2 * time.Second
	defaultIdle         = 5 * time.Second
	defaultScanTimeout  = 30 * time.Minute
	defaultMaxAttempts  = 5
	defaultFollowerPoll = 10 * time.Second
	defaultFollowerSpan = 1000
	defaultSweepEvery   = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = scanPageSize
	}
	if c.PageWorkers <= 0 {
		c.PageWorkers = defaultPageWorkers
	}
	if c.Lease <= 0 {
		c.Lease = defaultLease
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPoll
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = defaultIdle
	}
	if c.ScanTimeout <= 0 {
		c.ScanTimeout = defaultScanTimeout
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	return c
}
