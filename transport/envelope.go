package transport

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Envelope is one inbound client frame. Seq correlates the ack the
// relay sends back for join/sendMessage/sendLocation.
type Envelope struct {
	Event   string          `json:"event" validate:"required"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// JoinRequest carries the identity a connection wants to bind.
// Emptiness is judged by the registry after normalization, not here:
// the validation error string is part of the ack contract.
type JoinRequest struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// LocationRequest carries raw coordinates; they are not range-checked.
type LocationRequest struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Ack is the reply to an inbound frame. Error is empty on success.
type Ack struct {
	Event string `json:"event"`
	Seq   uint64 `json:"seq"`
	Error string `json:"error,omitempty"`
}

// Frame is one outbound event as it crosses the wire.
type Frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

const ackEvent = "ack"

// Inbound event names.
const (
	eventJoin         = "join"
	eventSendMessage  = "sendMessage"
	eventSendLocation = "sendLocation"
)

func decodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, err
	}
	if err := validate.Struct(env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
