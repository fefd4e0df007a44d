package transport

import (
	"chat-relay/session"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// conn owns one websocket. The read pump is the only driver of the
// session, so handlers run to completion one event at a time; the write
// pump is the only writer on the socket, serializing events and acks.
type conn struct {
	id      string
	ws      *websocket.Conn
	sink    *ChannelSink
	session *session.Session
	acks    chan Ack
	log     *slog.Logger
}

func newConn(id string, ws *websocket.Conn, sink *ChannelSink, sess *session.Session, log *slog.Logger) *conn {
	return &conn{
		id:      id,
		ws:      ws,
		sink:    sink,
		session: sess,
		acks:    make(chan Ack, 16),
		log:     log,
	}
}

// readPump decodes inbound envelopes and dispatches them to the session.
// It returns when the peer goes away; cleanup is the caller's job.
func (c *conn) readPump(ctx context.Context) {
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("Read failed", "connection_id", c.id, "err", err)
			}
			return
		}

		env, err := decodeEnvelope(raw)
		if err != nil {
			c.log.Debug("Malformed frame", "connection_id", c.id, "err", err)
			continue
		}
		c.dispatch(ctx, env)
	}
}

func (c *conn) dispatch(ctx context.Context, env Envelope) {
	switch env.Event {
	case eventJoin:
		var req JoinRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			c.log.Debug("Malformed join payload", "connection_id", c.id, "err", err)
			return
		}
		c.ack(env.Seq, c.session.Join(ctx, req.Username, req.Room))

	case eventSendMessage:
		var text string
		if err := json.Unmarshal(env.Payload, &text); err != nil {
			c.log.Debug("Malformed message payload", "connection_id", c.id, "err", err)
			return
		}
		c.ack(env.Seq, c.session.SendMessage(ctx, text))

	case eventSendLocation:
		var req LocationRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			c.log.Debug("Malformed location payload", "connection_id", c.id, "err", err)
			return
		}
		c.ack(env.Seq, c.session.SendLocation(ctx, req.Lat, req.Long))

	default:
		c.log.Debug("Unknown event", "connection_id", c.id, "event", env.Event)
	}
}

// ack hands the reply to the write pump. Non-blocking: a backlog of 16
// unanswered acks means the peer is gone, and the read loop must never
// deadlock on a dead writer.
func (c *conn) ack(seq uint64, err error) {
	a := Ack{Event: ackEvent, Seq: seq}
	if err != nil {
		a.Error = err.Error()
	}
	select {
	case c.acks <- a:
	default:
		c.log.Debug("Ack dropped", "connection_id", c.id, "seq", seq)
	}
}

// writePump is the single socket writer: it drains the sink and the ack
// queue and keeps the connection alive with pings.
func (c *conn) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	// Closing the socket here unblocks the read pump if the writer
	// dies first.
	defer func() { _ = c.ws.Close() }()

	for {
		select {
		case <-ctx.Done():
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return

		case e := <-c.sink.Events:
			if !c.write(Frame{Event: e.Name(), Payload: e}) {
				return
			}

		case a := <-c.acks:
			if !c.write(a) {
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) write(v any) bool {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(v); err != nil {
		c.log.Debug("Write failed", "connection_id", c.id, "err", err)
		return false
	}
	return true
}
