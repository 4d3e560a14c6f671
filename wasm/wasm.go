//go:build js && wasm

package main

import (
	"github.com/esimov/ascii-fountain/wasm/canvas"
)

func main() {
	c := canvas.NewCanvas()
	if err := c.Connect(); err != nil {
		c.Alert("Cannot reach the fountain server: " + err.Error())
		return
	}
	if webcam, err := c.StartWebcam(); err != nil {
		c.Log("webcam not available, face tracking disabled")
	} else {
		webcam.Stream()
	}
	c.Render()
}
