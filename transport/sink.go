package transport

import (
	"chat-relay/domain/event"
	"context"
	"fmt"
)

// ChannelSink bridges the gateway to one connection's write pump.
// Consume redirects the event through the channel owned by the
// connection; the write pump takes it from there.
type ChannelSink struct {
	Events chan event.Outbound
}

func NewChannelSink(bufferSize int) *ChannelSink {
	return &ChannelSink{Events: make(chan event.Outbound, bufferSize)}
}

// Consume is called by the gateway while it holds its fan-out lock, so
// it must not block: a full buffer drops the event (backpressure on a
// slow reader) instead of stalling the whole room.
func (s *ChannelSink) Consume(ctx context.Context, e event.Outbound) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("connection buffer full, %s dropped", e.Name())
	}
}
