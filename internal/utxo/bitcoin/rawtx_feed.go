package bitcoin

import (
	"context"
	"sync"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

// RawTxFeed decodes serialized transactions arriving on a channel, as
// published by the node's rawtx notifications.
type RawTxFeed struct {
	messages <-chan []byte
	decoder  *RawTxDecoder
	stop     func()
	once     sync.Once
}

var _ chain.MempoolFeed = (*RawTxFeed)(nil)

// NewRawTxFeed builds a feed over messages. stop is called once on Close and
// must make the producer close messages.
func NewRawTxFeed(messages <-chan []byte, decoder *RawTxDecoder, stop func()) *RawTxFeed {
	return &RawTxFeed{messages: messages, decoder: decoder, stop: stop}
}

// Next returns the next decoded transaction. It returns chain.ErrFeedClosed
// once the producer closed the channel.
func (f *RawTxFeed) Next(ctx context.Context) (model.RawTransaction, error) {
	select {
	case <-ctx.Done():
		return model.RawTransaction{}, ctx.Err()
	case raw, ok := <-f.messages:
		if !ok {
			return model.RawTransaction{}, chain.ErrFeedClosed
		}
		return f.decoder.Decode(raw)
	}
}

// Close stops the producer.
func (f *RawTxFeed) Close() error {
	f.once.Do(func() {
		if f.stop != nil {
			f.stop()
		}
	})
	return nil
}
