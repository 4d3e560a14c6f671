package websocket

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/esimov/ascii-fountain/fountain"
)

// Message types exchanged with browser clients.
const (
	TypeFrame  = "frame"
	TypeKey    = "key"
	TypeAction = "action"
	TypeError  = "error"
)

// Message is the envelope of every text message. Clients send key or action
// messages; the server sends frames and errors.
type Message struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data,omitempty"`
	Key    string          `json:"key,omitempty"`
	Action string          `json:"action,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// State summarises the last published frame.
type State struct {
	Seq      uint64          `json:"seq"`
	Emitter  mgl32.Vec3      `json:"emitter"`
	Params   fountain.Params `json:"params"`
	Mirror   bool            `json:"mirror"`
	Live     int             `json:"live"`
	Capacity int             `json:"capacity"`
}

// framePayload is the data of a frame message.
type framePayload struct {
	State
	Size   float32          `json:"size"`
	Points []fountain.Point `json:"points"`
}

func stateOf(f fountain.Frame) State {
	return State{
		Seq:      f.Seq,
		Emitter:  f.Emitter,
		Params:   f.Params,
		Mirror:   f.Mirror,
		Live:     len(f.Points),
		Capacity: f.Capacity,
	}
}

func encodeFrame(f fountain.Frame) ([]byte, error) {
	data, err := json.Marshal(framePayload{
		State:  stateOf(f),
		Size:   f.Params.ParticleSize,
		Points: f.Points,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: TypeFrame, Data: data})
}

func encodeError(err error) []byte {
	b, _ := json.Marshal(Message{Type: TypeError, Error: err.Error()})
	return b
}
