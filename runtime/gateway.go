package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"sync"
)

// Gateway delivers outbound events to connection sinks.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. A sink that is gone or saturated loses the
// event; nothing is surfaced to the sender. Gateway is not a message
// broker.
//
// Room membership comes from the registry, so a broadcast always sees
// the roster as of the registry operation that triggered it: the roster
// read and the sink writes share one critical section, which keeps
// per-room event order aligned with registry completion order.
//
// Gateway is safe for concurrent use by multiple goroutines.
type Gateway struct {
	mu       sync.Mutex
	log      *slog.Logger
	registry contract.Registry
	sinks    map[string]contract.EventSink
}

func NewGateway(log *slog.Logger, registry contract.Registry) *Gateway {
	return &Gateway{
		log:      log,
		registry: registry,
		sinks:    make(map[string]contract.EventSink),
	}
}

// Attach registers the write side of a connection. Called at transport
// accept time, before the connection can join a room.
func (g *Gateway) Attach(id string, sink contract.EventSink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sinks[id] = sink
}

// Detach forgets a connection's sink. Safe to call for an unknown id.
func (g *Gateway) Detach(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sinks, id)
}

// SendTo delivers an event to a single connection.
func (g *Gateway) SendTo(ctx context.Context, id string, e event.Outbound) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deliver(ctx, id, e)
}

// BroadcastRoom delivers an event to every current member of the room,
// sender included if the sender is a member.
func (g *Gateway) BroadcastRoom(ctx context.Context, room string, e event.Outbound) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range g.registry.UsersInRoom(room) {
		g.deliver(ctx, u.ID, e)
	}
}

// BroadcastRoomExcept delivers an event to every member except one.
func (g *Gateway) BroadcastRoomExcept(ctx context.Context, room, exceptID string, e event.Outbound) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range g.registry.UsersInRoom(room) {
		if u.ID == exceptID {
			continue
		}
		g.deliver(ctx, u.ID, e)
	}
}

func (g *Gateway) deliver(ctx context.Context, id string, e event.Outbound) {
	sink, ok := g.sinks[id]
	if !ok {
		// Peer vanished between roster read and delivery. Best-effort
		// policy: drop silently.
		return
	}
	if err := sink.Consume(ctx, e); err != nil {
		g.log.Debug("Event lost", "connection_id", id, "event", e.Name(), "err", err)
	}
}
