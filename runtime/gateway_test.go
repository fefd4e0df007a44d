package runtime

import (
	"chat-relay/domain/event"
	"chat-relay/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGateway_SendTo_Reaches_Single_Sink(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	registry := NewRegistry()
	gateway := NewGateway(log, registry)

	sink := mocks.NewMockEventSink(ctrl)
	other := mocks.NewMockEventSink(ctrl)
	id := uuid.NewString()
	gateway.Attach(id, sink)
	gateway.Attach(uuid.NewString(), other)

	msg := event.NewSystemMessage("Welcome!")
	sink.EXPECT().Consume(gomock.Any(), msg).Return(nil).Times(1)

	gateway.SendTo(context.Background(), id, msg)
}

func TestGateway_BroadcastRoom_Reaches_All_Members(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	registry := NewRegistry()
	gateway := NewGateway(log, registry)

	// Given alice and bob in the lobby and carol elsewhere
	aliceID, bobID, carolID := uuid.NewString(), uuid.NewString(), uuid.NewString()
	alice := mocks.NewMockEventSink(ctrl)
	bob := mocks.NewMockEventSink(ctrl)
	carol := mocks.NewMockEventSink(ctrl)
	gateway.Attach(aliceID, alice)
	gateway.Attach(bobID, bob)
	gateway.Attach(carolID, carol)

	req := require.New(t)
	_, err := registry.AddUser(aliceID, "alice", "lobby")
	req.NoError(err)
	_, err = registry.AddUser(bobID, "bob", "lobby")
	req.NoError(err)
	_, err = registry.AddUser(carolID, "carol", "games")
	req.NoError(err)

	msg := event.NewMessage("alice", "hi all")
	alice.EXPECT().Consume(gomock.Any(), msg).Return(nil).Times(1)
	bob.EXPECT().Consume(gomock.Any(), msg).Return(nil).Times(1)
	// carol expects nothing: a broadcast never crosses rooms

	gateway.BroadcastRoom(context.Background(), "lobby", msg)
}

func TestGateway_BroadcastRoomExcept_Skips_One_Member(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	registry := NewRegistry()
	gateway := NewGateway(log, registry)

	aliceID, bobID := uuid.NewString(), uuid.NewString()
	alice := mocks.NewMockEventSink(ctrl)
	bob := mocks.NewMockEventSink(ctrl)
	gateway.Attach(aliceID, alice)
	gateway.Attach(bobID, bob)

	_, err := registry.AddUser(aliceID, "alice", "lobby")
	req.NoError(err)
	_, err = registry.AddUser(bobID, "bob", "lobby")
	req.NoError(err)

	msg := event.NewSystemMessage("alice has joined!")
	bob.EXPECT().Consume(gomock.Any(), msg).Return(nil).Times(1)

	gateway.BroadcastRoomExcept(context.Background(), "lobby", aliceID, msg)
}

func TestGateway_Tolerates_Detached_And_Failing_Sinks(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	registry := NewRegistry()
	gateway := NewGateway(log, registry)

	// Given a joined user whose sink is already gone
	goneID := uuid.NewString()
	_, err := registry.AddUser(goneID, "ghost", "lobby")
	req.NoError(err)

	// And a member whose sink rejects delivery
	fullID := uuid.NewString()
	full := mocks.NewMockEventSink(ctrl)
	gateway.Attach(fullID, full)
	_, err = registry.AddUser(fullID, "bob", "lobby")
	req.NoError(err)
	full.EXPECT().Consume(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("connection buffer full")).Times(1)

	// Then the broadcast neither panics nor surfaces an error
	gateway.BroadcastRoom(context.Background(), "lobby", event.NewSystemMessage("hello"))
}
