package transport

import (
	"chat-relay/domain/event"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelSink_Buffers_Without_Blocking(t *testing.T) {
	req := require.New(t)
	sink := NewChannelSink(2)
	ctx := context.Background()

	req.NoError(sink.Consume(ctx, event.NewSystemMessage("one")))
	req.NoError(sink.Consume(ctx, event.NewSystemMessage("two")))

	// Buffer full: the third event is dropped, the caller is never stalled
	err := sink.Consume(ctx, event.NewSystemMessage("three"))
	req.Error(err)

	// The buffered events are intact and in order
	req.Equal("one", (<-sink.Events).(event.Message).Text)
	req.Equal("two", (<-sink.Events).(event.Message).Text)
}

func TestChannelSink_Honors_Cancellation(t *testing.T) {
	req := require.New(t)
	sink := NewChannelSink(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A canceled context still delivers if there is room
	err := sink.Consume(ctx, event.NewSystemMessage("one"))
	if err != nil {
		req.ErrorIs(err, context.Canceled)
	}
}
