// Package zmqnotify subscribes to the ZMQ notifications a node publishes
// (hashblock, rawtx). The socket implementation needs libzmq and is only
// compiled with the zmq build tag.
package zmqnotify

import (
	"encoding/binary"
	"errors"
)

// ErrUnsupported is returned by Subscribe in builds without the zmq tag.
var ErrUnsupported = errors.New("built without zmq support, rebuild with -tags zmq")

// Options configures one topic subscription.
type Options struct {
	Addr   string
	Topic  string
	Buffer int
}

// sequence tracks the per-topic counter the node appends to every message.
type sequence struct {
	seen bool
	last uint32
}

// next returns how many messages were skipped before seq. A malformed
// counter frame is ignored.
func (s *sequence) next(frame []byte) uint32 {
	if len(frame) != 4 {
		return 0
	}
	seq := binary.LittleEndian.Uint32(frame)
	var missed uint32
	if s.seen && seq != s.last+1 {
		missed = seq - s.last - 1
	}
	s.seen, s.last = true, seq
	return missed
}

// split validates a multipart message and returns its body and counter frame.
func split(topic string, parts [][]byte) (body, counter []byte, ok bool) {
	if len(parts) < 2 || string(parts[0]) != topic {
		return nil, nil, false
	}
	if len(parts) > 2 {
		counter = parts[2]
	}
	return parts[1], counter, true
}
