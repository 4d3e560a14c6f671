//go:build js && wasm

package canvas

import (
	"errors"
	"syscall/js"
	"time"

	"github.com/esimov/ascii-fountain/detector"
)

const (
	webcamWidth  = 320
	webcamHeight = 240
	webcamPeriod = 200 * time.Millisecond
)

// Webcam grabs greyscale frames and sends them to the server for face
// tracking.
type Webcam struct {
	c      *Canvas
	video  js.Value
	ctx    js.Value
	pixels []uint8
	rgba   []uint8
}

// StartWebcam asks for camera access and waits for the stream.
func (c *Canvas) StartWebcam() (*Webcam, error) {
	devices := c.window.Get("navigator").Get("mediaDevices")
	if devices.IsUndefined() {
		return nil, errors.New("media devices not supported")
	}

	video := c.doc.Call("createElement", "video")
	video.Set("autoplay", true)
	video.Set("muted", true)
	video.Set("playsInline", true)

	done := make(chan error, 1)
	constraints := map[string]interface{}{
		"video": map[string]interface{}{"width": webcamWidth, "height": webcamHeight},
		"audio": false,
	}
	devices.Call("getUserMedia", constraints).
		Call("then", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			video.Set("srcObject", args[0])
			video.Call("play")
			done <- nil
			return nil
		})).
		Call("catch", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			done <- errors.New(args[0].Call("toString").String())
			return nil
		}))
	if err := <-done; err != nil {
		return nil, err
	}

	offscreen := c.doc.Call("createElement", "canvas")
	offscreen.Set("width", webcamWidth)
	offscreen.Set("height", webcamHeight)

	return &Webcam{
		c:      c,
		video:  video,
		ctx:    offscreen.Call("getContext", "2d"),
		pixels: make([]uint8, webcamWidth*webcamHeight),
		rgba:   make([]uint8, webcamWidth*webcamHeight*4),
	}, nil
}

// Stream sends a frame every webcamPeriod in the background.
func (w *Webcam) Stream() {
	go func() {
		ticker := time.NewTicker(webcamPeriod)
		defer ticker.Stop()
		for range ticker.C {
			w.grab()
		}
	}()
}

func (w *Webcam) grab() {
	w.ctx.Call("drawImage", w.video, 0, 0, webcamWidth, webcamHeight)
	data := w.ctx.Call("getImageData", 0, 0, webcamWidth, webcamHeight).Get("data")
	js.CopyBytesToGo(w.rgba, data)

	for i := range w.pixels {
		r, g, b := int(w.rgba[i*4]), int(w.rgba[i*4+1]), int(w.rgba[i*4+2])
		w.pixels[i] = uint8((r*299 + g*587 + b*114) / 1000)
	}

	payload := detector.Frame{Pixels: w.pixels, Width: webcamWidth, Height: webcamHeight}.Encode()
	buf := js.Global().Get("Uint8Array").New(len(payload))
	js.CopyBytesToJS(buf, payload)
	w.c.send(buf)
}
