// Package event defines the outbound events pushed to connected clients
// and the factories that shape them. Construction is pure: no routing,
// no filtering, only data shaping and timestamping.
package event

import (
	"fmt"
	"time"
)

// SystemSender is the username stamped on relay-originated notices
// (welcome, joined, left).
const SystemSender = "admin"

const mapURLFormat = "https://www.google.com/maps?q=%v,%v"

// Outbound is any event the gateway can deliver to a connection.
// Name is the wire event name the client dispatches on.
type Outbound interface {
	Name() string
}

// Message is a text event, either user chat or a system notice.
type Message struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

func (Message) Name() string { return "message" }

// LocationMessage carries a shared position as a map link.
type LocationMessage struct {
	Username  string `json:"username"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"createdAt"`
}

func (LocationMessage) Name() string { return "locationMessage" }

// Member is the roster view of a joined user.
type Member struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// RoomData is the full roster of a room, pushed after every membership change.
type RoomData struct {
	Room  string   `json:"room"`
	Users []Member `json:"users"`
}

func (RoomData) Name() string { return "roomData" }

// NewMessage stamps a chat message with the current epoch milliseconds.
func NewMessage(username, text string) Message {
	return Message{
		Username:  username,
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// NewSystemMessage is NewMessage with the system sender.
func NewSystemMessage(text string) Message {
	return NewMessage(SystemSender, text)
}

// NewLocationMessage builds the map link from raw coordinates.
// Coordinates are not range-checked: a bogus pair still yields a
// syntactically valid URL.
func NewLocationMessage(username string, lat, long float64) LocationMessage {
	return LocationMessage{
		Username:  username,
		URL:       fmt.Sprintf(mapURLFormat, lat, long),
		CreatedAt: time.Now().UnixMilli(),
	}
}

// NewRoomData shapes the roster event for a room.
func NewRoomData(room string, members []Member) RoomData {
	return RoomData{Room: room, Users: members}
}
