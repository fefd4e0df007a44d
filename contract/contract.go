//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

// EventSink is the write side of a single connection.
// Consume must never block the caller beyond its own buffering policy:
// delivery is best-effort and a failure concerns only that connection.
type EventSink interface {
	Consume(ctx context.Context, e event.Outbound) error
}

// Registry tracks which connection is joined as whom, and where.
type Registry interface {
	AddUser(id, username, room string) (domain.User, error)
	RemoveUser(id string) (domain.User, bool)
	GetUser(id string) (domain.User, bool)
	UsersInRoom(room string) []domain.User
}

// Gateway fans outbound events to one connection, a whole room, or a
// room minus one member. Fire-and-forget: no delivery confirmation.
type Gateway interface {
	Attach(id string, sink EventSink)
	Detach(id string)
	SendTo(ctx context.Context, id string, e event.Outbound)
	BroadcastRoom(ctx context.Context, room string, e event.Outbound)
	BroadcastRoomExcept(ctx context.Context, room, exceptID string, e event.Outbound)
}

// Moderator decides whether a message is allowed through.
type Moderator interface {
	IsProfane(text string) bool
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
