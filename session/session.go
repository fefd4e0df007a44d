// Package session implements the per-connection state machine wiring
// inbound chat events to the presence registry and the broadcast gateway.
package session

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"
)

// State of a connection's session. A session only moves forward:
// Unjoined -> Joined -> Terminated.
type State int

const (
	StateUnjoined State = iota
	StateJoined
	StateTerminated
)

// Session handles the events of one connection. Each handler returns the
// acknowledgment for the requester: nil on success, an ack-facing error
// otherwise. Errors never reach other connections.
//
// Session is not safe for concurrent use: the transport drives it from a
// single read loop, so handlers run to completion one at a time.
type Session struct {
	id        string
	state     State
	registry  contract.Registry
	gateway   contract.Gateway
	moderator contract.Moderator
	log       *slog.Logger
}

func New(id string, registry contract.Registry, gateway contract.Gateway,
	moderator contract.Moderator, log *slog.Logger) *Session {
	return &Session{
		id:        id,
		state:     StateUnjoined,
		registry:  registry,
		gateway:   gateway,
		moderator: moderator,
		log:       log,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return s.state }

// Join binds the connection to a (username, room) identity. On success
// the requester gets a welcome notice, the rest of the room a joined
// notice, and the whole room a fresh roster. On failure nothing is
// broadcast and the session stays unjoined.
func (s *Session) Join(ctx context.Context, username, room string) error {
	if s.state != StateUnjoined {
		return errors.ErrAlreadyJoined
	}

	user, err := s.registry.AddUser(s.id, username, room)
	if err != nil {
		return err
	}
	s.state = StateJoined

	s.gateway.SendTo(ctx, s.id, event.NewSystemMessage("Welcome!"))
	s.gateway.BroadcastRoomExcept(ctx, user.Room, s.id,
		event.NewSystemMessage(fmt.Sprintf("%s has joined!", user.Username)))
	s.broadcastRoster(ctx, user.Room)

	s.log.Debug("Joined", "connection_id", s.id, "username", user.Username, "room", user.Room)
	return nil
}

// SendMessage relays a chat line to the whole room, sender included.
// Flagged content is dropped before anyone sees it.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	user, err := s.joinedUser()
	if err != nil {
		return err
	}

	if s.moderator.IsProfane(text) {
		info := whatlanggo.Detect(text)
		s.log.Warn("Message rejected",
			"username", user.Username,
			"room", user.Room,
			"lang", info.Lang.Iso6391())
		return errors.ErrProfanity
	}

	s.gateway.BroadcastRoom(ctx, user.Room, event.NewMessage(user.Username, text))
	return nil
}

// SendLocation relays a map link built from raw coordinates to the whole
// room, sender included.
func (s *Session) SendLocation(ctx context.Context, lat, long float64) error {
	user, err := s.joinedUser()
	if err != nil {
		return err
	}

	s.gateway.BroadcastRoom(ctx, user.Room, event.NewLocationMessage(user.Username, lat, long))
	return nil
}

// Disconnect terminates the session. If the connection had joined, the
// remaining members get a left notice and a fresh roster. Idempotent by
// way of the registry: a second call removes nothing and stays silent.
func (s *Session) Disconnect(ctx context.Context) {
	s.state = StateTerminated

	user, removed := s.registry.RemoveUser(s.id)
	if !removed {
		// Dropped before joining: nobody to notify.
		return
	}

	s.gateway.BroadcastRoom(ctx, user.Room,
		event.NewSystemMessage(fmt.Sprintf("%s has left the room.", user.Username)))
	s.broadcastRoster(ctx, user.Room)

	s.log.Debug("Left", "connection_id", s.id, "username", user.Username, "room", user.Room)
}

// joinedUser guards handlers that require a completed join, so a client
// firing messages before joining gets a clean rejection instead of an
// absent-user dereference.
func (s *Session) joinedUser() (domain.User, error) {
	if s.state != StateJoined {
		return domain.User{}, errors.ErrNotJoined
	}
	user, ok := s.registry.GetUser(s.id)
	if !ok {
		// Joined state without a registry entry means a forced removal.
		return domain.User{}, errors.ErrNotJoined
	}
	return user, nil
}

func (s *Session) broadcastRoster(ctx context.Context, room string) {
	members := lo.Map(s.registry.UsersInRoom(room), func(u domain.User, _ int) event.Member {
		return event.Member{Username: u.Username, Room: u.Room}
	})
	s.gateway.BroadcastRoom(ctx, room, event.NewRoomData(room, members))
}
