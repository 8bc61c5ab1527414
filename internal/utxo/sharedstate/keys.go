package sharedstate

import "strconv"

const (
	pendingBlocksKey = "pending-blocks"
	activeBlockKey   = "active-block"
	scanLeasesKey    = "scan-leases"
	readyKey         = "ready"
	cursorKey        = "follower-cursor"
	listeningKey     = "listening-addresses"
)

// PresenceKey is the live connection counter of an address.
func PresenceKey(address string) string {
	return "address-presence:" + address
}

// BlockCompletedKey is the set of transaction ids completed for a block scan.
func BlockCompletedKey(height uint64) string {
	return "block-completed:" + strconv.FormatUint(height, 10)
}
