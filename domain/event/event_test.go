package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessage_Stamps_Creation_Time(t *testing.T) {
	req := require.New(t)
	before := time.Now().UnixMilli()

	msg := NewMessage("alice", "hello")

	req.Equal("alice", msg.Username)
	req.Equal("hello", msg.Text)
	req.GreaterOrEqual(msg.CreatedAt, before)
	req.LessOrEqual(msg.CreatedAt, time.Now().UnixMilli())
}

func TestNewSystemMessage_Uses_System_Sender(t *testing.T) {
	req := require.New(t)

	msg := NewSystemMessage("Welcome!")

	req.Equal(SystemSender, msg.Username)
	req.Equal("Welcome!", msg.Text)
}

func TestNewLocationMessage_Builds_Map_URL(t *testing.T) {
	tests := []struct {
		name      string
		lat, long float64
		url       string
	}{
		{name: "integers", lat: 10, long: 20, url: "https://www.google.com/maps?q=10,20"},
		{name: "fractional", lat: 48.8584, long: 2.2945, url: "https://www.google.com/maps?q=48.8584,2.2945"},
		{name: "negative", lat: -33.9, long: 151.2, url: "https://www.google.com/maps?q=-33.9,151.2"},
		// Out-of-range coordinates still produce a syntactically valid URL
		{name: "bogus", lat: 999, long: -999, url: "https://www.google.com/maps?q=999,-999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := NewLocationMessage("alice", tt.lat, tt.long)
			require.Equal(t, tt.url, loc.URL)
			require.Equal(t, "alice", loc.Username)
		})
	}
}

func TestEventNames(t *testing.T) {
	req := require.New(t)

	req.Equal("message", Message{}.Name())
	req.Equal("locationMessage", LocationMessage{}.Name())
	req.Equal("roomData", RoomData{}.Name())
}
