//go:build zmq

package zmqnotify

import (
	"context"
	"fmt"
	"syscall"
	"time"

	"github.com/pebbe/zmq4"
	"go.uber.org/zap"
)

const recvTimeout = time.Second

// Subscribe streams message bodies of opts.Topic until ctx ends or the
// returned stop function is called; the channel is closed afterwards.
func Subscribe(ctx context.Context, opts Options, logger *zap.Logger) (<-chan []byte, func(), error) {
	sock, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, nil, fmt.Errorf("zmq socket: %w", err)
	}
	if err = configure(sock, opts); err != nil {
		sock.Close()
		return nil, nil, fmt.Errorf("subscribe %s at %s: %w", opts.Topic, opts.Addr, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan []byte, opts.Buffer)
	logger = logger.Named("zmq").With(zap.String("topic", opts.Topic), zap.String("addr", opts.Addr))

	go func() {
		defer close(out)
		defer sock.Close()

		var seq sequence
		for ctx.Err() == nil {
			parts, err := sock.RecvMessageBytes(0)
			if err != nil {
				if zmq4.AsErrno(err) != zmq4.Errno(syscall.EAGAIN) {
					logger.Warn("zmq recv failed", zap.Error(err))
				}
				continue
			}
			body, counter, ok := split(opts.Topic, parts)
			if !ok {
				logger.Warn("skip malformed zmq message", zap.Int("parts", len(parts)))
				continue
			}
			if missed := seq.next(counter); missed > 0 {
				logger.Warn("zmq notifications lost", zap.Uint32("missed", missed))
			}
			select {
			case out <- body:
			case <-ctx.Done():
			}
		}
	}()

	return out, cancel, nil
}

func configure(sock *zmq4.Socket, opts Options) error {
	if err := sock.SetRcvtimeo(recvTimeout); err != nil {
		return err
	}
	if err := sock.SetSubscribe(opts.Topic); err != nil {
		return err
	}
	return sock.Connect(opts.Addr)
}
