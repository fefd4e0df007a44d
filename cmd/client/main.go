// Command client is a small terminal chat client for the relay: it
// joins a room, relays stdin lines, and renders incoming events.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `envconfig:"CHAT_SERVER_URL" default:"ws://localhost:3000/ws"`
	Username  string `envconfig:"CHAT_USERNAME"`
	Room      string `envconfig:"CHAT_ROOM" default:"lobby"`
	// CHAT_COLOURS enables colorized output for better readability
	Colours bool `envconfig:"CHAT_COLOURS" default:"true"`
}

type envelope struct {
	Event   string `json:"event"`
	Seq     uint64 `json:"seq"`
	Payload any    `json:"payload"`
}

type frame struct {
	Event   string          `json:"event"`
	Seq     uint64          `json:"seq"`
	Error   string          `json:"error"`
	Payload json.RawMessage `json:"payload"`
}

type messagePayload struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

type locationPayload struct {
	Username  string `json:"username"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"createdAt"`
}

type roomDataPayload struct {
	Room  string `json:"room"`
	Users []struct {
		Username string `json:"username"`
		Room     string `json:"room"`
	} `json:"users"`
}

const joinSeq = 1

// wsWriter serializes socket writes between the stdin loop and the
// shutdown path.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *wsWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if config.Username == "" {
		return exitConfig, fmt.Errorf("CHAT_USERNAME is required")
	}
	if !config.Colours {
		color.Disable()
	}

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Dial the relay.
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to relay at %s: %w", config.ServerURL, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	// 4. Join before anything else; the server acks seq 1.
	w := &wsWriter{conn: conn}
	if err := w.send(envelope{
		Event: "join",
		Seq:   joinSeq,
		Payload: map[string]string{
			"username": config.Username,
			"room":     config.Room,
		},
	}); err != nil {
		return exitRuntime, fmt.Errorf("join failed: %w", err)
	}

	// 5. Render incoming frames until the connection drops.
	done := make(chan error, 1)
	go func() {
		done <- render(conn)
	}()

	// 6. Relay stdin lines as messages ("/location <lat> <long>" shares
	// a position instead).
	go sendLoop(w)

	select {
	case <-ctx.Done():
		_ = w.close()
		return exitOK, nil
	case err := <-done:
		if err != nil {
			return exitRuntime, err
		}
		return exitOK, nil
	}
}

func render(conn *websocket.Conn) error {
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		switch f.Event {
		case "ack":
			if f.Error == "" {
				continue
			}
			color.Red.Printf("✗ %s\n", f.Error)
			if f.Seq == joinSeq {
				return fmt.Errorf("join rejected: %s", f.Error)
			}

		case "message":
			var p messagePayload
			if err := json.Unmarshal(f.Payload, &p); err != nil {
				continue
			}
			color.Gray.Printf("%s ", stamp(p.CreatedAt))
			color.Cyan.Printf("%s: ", p.Username)
			fmt.Println(p.Text)

		case "locationMessage":
			var p locationPayload
			if err := json.Unmarshal(f.Payload, &p); err != nil {
				continue
			}
			color.Gray.Printf("%s ", stamp(p.CreatedAt))
			color.Cyan.Printf("%s shared a location: ", p.Username)
			color.Blue.Println(p.URL)

		case "roomData":
			var p roomDataPayload
			if err := json.Unmarshal(f.Payload, &p); err != nil {
				continue
			}
			printRoster(p)
		}
	}
}

func sendLoop(w *wsWriter) {
	seq := uint64(joinSeq)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		seq++

		if lat, long, ok := parseLocation(line); ok {
			_ = w.send(envelope{
				Event:   "sendLocation",
				Seq:     seq,
				Payload: map[string]float64{"lat": lat, "long": long},
			})
			continue
		}

		_ = w.send(envelope{Event: "sendMessage", Seq: seq, Payload: line})
	}
}

// parseLocation recognizes "/location <lat> <long>".
func parseLocation(line string) (lat, long float64, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "/location" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(fields[1], 64)
	long, errLong := strconv.ParseFloat(fields[2], 64)
	if errLat != nil || errLong != nil {
		return 0, 0, false
	}
	return lat, long, true
}

func printRoster(p roomDataPayload) {
	color.Green.Printf("Room %q occupants:\n", p.Room)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "Room"})
	for _, u := range p.Users {
		table.Append([]string{u.Username, u.Room})
	}
	table.Render()
}

func stamp(ms int64) string {
	return time.UnixMilli(ms).Format("15:04:05")
}
