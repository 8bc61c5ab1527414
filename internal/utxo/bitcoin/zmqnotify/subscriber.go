//go:build !zmq

package zmqnotify

import (
	"context"

	"go.uber.org/zap"
)

// Subscribe always fails in builds without the zmq tag.
func Subscribe(context.Context, Options, *zap.Logger) (<-chan []byte, func(), error) {
	return nil, nil, ErrUnsupported
}
