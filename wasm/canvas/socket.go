//go:build js && wasm

package canvas

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/esimov/ascii-fountain/fountain"
)

type message struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Key   string          `json:"key,omitempty"`
	Error string          `json:"error,omitempty"`
}

type framePayload struct {
	Seq     uint64           `json:"seq"`
	Emitter mgl32.Vec3       `json:"emitter"`
	Size    float32          `json:"size"`
	Points  []fountain.Point `json:"points"`
}

// Connect opens the websocket to the page origin and starts forwarding key
// presses.
func (c *Canvas) Connect() error {
	host := c.window.Get("location").Get("host").String()
	if host == "" {
		return errors.New("page has no host")
	}
	c.socket = c.window.Get("WebSocket").New("ws://" + host + "/ws")
	c.socket.Set("binaryType", "arraybuffer")

	c.socket.Call("addEventListener", "message", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.onMessage(args[0].Get("data").String())
		return nil
	}))
	c.socket.Call("addEventListener", "close", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.Log("socket closed")
		return nil
	}))
	c.doc.Call("addEventListener", "keydown", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.onKey(args[0].Get("key").String())
		return nil
	}))
	return nil
}

func (c *Canvas) onMessage(data string) {
	var m message
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		c.Log("bad message:", err.Error())
		return
	}
	switch m.Type {
	case "frame":
		var f framePayload
		if err := json.Unmarshal(m.Data, &f); err != nil {
			c.Log("bad frame:", err.Error())
			return
		}
		c.mu.Lock()
		c.frame = f
		c.mu.Unlock()
	case "error":
		c.Log("server:", m.Error)
	}
}

// onKey moves the local camera or forwards the key to the server.
func (c *Canvas) onKey(key string) {
	kind, ok := fountain.KeyAction(key)
	if !ok {
		return
	}
	if kind.Camera() {
		c.mu.Lock()
		c.camera.Apply(kind)
		c.mu.Unlock()
		return
	}
	b, _ := json.Marshal(message{Type: "key", Key: key})
	c.send(string(b))
}

func (c *Canvas) send(v interface{}) {
	if c.socket.Get("readyState").Int() != 1 {
		return
	}
	c.socket.Call("send", v)
}
