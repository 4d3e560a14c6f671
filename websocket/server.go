package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/esimov/ascii-fountain/detector"
	"github.com/esimov/ascii-fountain/fountain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	// maxMessage fits a 640x480 greyscale webcam frame.
	maxMessage = 1 << 20

	// steerExtent bounds the emitter x reachable by face tracking.
	steerExtent = 10
)

// A server application calls the Upgrade method from an HTTP request handler to initiate a connection
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HttpParams holds the listening address and the static file settings.
type HttpParams struct {
	Address string
	Prefix  string
	Root    string
}

// FaceTracker turns a webcam frame into an emitter move. extent bounds the
// reachable x, z is kept.
type FaceTracker interface {
	Action(f detector.Frame, extent, z float32) (fountain.Action, bool)
}

// Server streams frames to browsers and feeds their input back to the
// simulation loop.
type Server struct {
	params   HttpParams
	hub      *Hub
	actions  chan<- fountain.Action
	tracker  FaceTracker
	started  time.Time
	router   *gin.Engine
}

// New builds the server. tracker may be nil, in which case webcam frames are
// rejected.
func New(p HttpParams, hub *Hub, actions chan<- fountain.Action, tracker FaceTracker) (*Server, error) {
	root, err := filepath.Abs(p.Root)
	if err != nil {
		return nil, fmt.Errorf("websocket: root: %w", err)
	}
	p.Root = root
	if p.Prefix == "" {
		p.Prefix = "/"
	}

	s := &Server{
		params:   p,
		hub:      hub,
		actions:  actions,
		tracker:  tracker,
		started:  time.Now(),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/ws", s.handleWebSocket)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", s.health)
		v1.GET("/state", s.state)
		v1.GET("/params", s.getParams)
		v1.PUT("/params", s.putParams)
	}

	files := http.StripPrefix(s.params.Prefix, http.FileServer(http.Dir(s.params.Root)))
	router.NoRoute(gin.WrapH(files))
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Print(c.Request.RemoteAddr + " " + c.Request.Method + " " + c.Request.URL.String())
		c.Next()
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.params.Address,
		Handler: s.router,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("serving %s as %s on %s", s.params.Root, s.params.Prefix, s.params.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("websocket: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Shutdown does not know about hijacked websocket connections.
		s.hub.Close()
		if err != nil {
			return fmt.Errorf("websocket: shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("websocket: %w", err)
		}
		return nil
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ascii-fountain",
		"clients": s.hub.Clients(),
		"uptime":  time.Since(s.started).String(),
	})
}

func (s *Server) state(c *gin.Context) {
	st, ok := s.hub.Last()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame rendered yet"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) getParams(c *gin.Context) {
	st, ok := s.hub.Last()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame rendered yet"})
		return
	}
	c.JSON(http.StatusOK, st.Params)
}

func (s *Server) putParams(c *gin.Context) {
	var p fountain.Params
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.dispatch(c.Request.Context(), fountain.Action{Kind: fountain.SetParams, Params: p}); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, p)
}

// dispatch hands an action to the simulation loop.
func (s *Server) dispatch(ctx context.Context, a fountain.Action) error {
	select {
	case s.actions <- a:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleWebSocket defines the websocket connection endpoint
func (s *Server) handleWebSocket(c *gin.Context) {
	// Upgrade the http connection to a WebSocket connection
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.Println(err)
		}
		return
	}

	cl := &client{
		conn: conn,
		addr: c.Request.RemoteAddr,
		send: make(chan []byte, sendBuffer),
	}
	if !s.hub.register(cl) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	go cl.writePump()

	ctx := c.Request.Context()
	var webcam chan detector.Frame
	if s.tracker != nil {
		webcam = make(chan detector.Frame, 1)
		go s.trackFaces(ctx, webcam)
	}
	s.readPump(ctx, cl, webcam)
}

// readPump listens for new messages being sent to the websocket.
// Webcam frames are handed to the face tracker through webcam, which holds
// only the latest frame.
func (s *Server) readPump(ctx context.Context, cl *client, webcam chan detector.Frame) {
	defer func() {
		if webcam != nil {
			close(webcam)
		}
		s.hub.unregister(cl)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxMessage)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, msg, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] error: %v", err)
			}
			return
		}

		var action fountain.Action
		var ok bool
		switch messageType {
		case websocket.TextMessage:
			action, ok, err = parseControl(msg)
		case websocket.BinaryMessage:
			err = s.queueWebcam(webcam, msg)
		}
		if err != nil {
			s.hub.sendTo(cl, encodeError(err))
			continue
		}
		if !ok {
			continue
		}
		if err := s.dispatch(ctx, action); err != nil {
			return
		}
	}
}

// parseControl turns a key or action message into a simulation action.
// Camera moves and quit requests are not accepted from remote clients.
func parseControl(msg []byte) (fountain.Action, bool, error) {
	var m Message
	if err := json.Unmarshal(msg, &m); err != nil {
		return fountain.Action{}, false, fmt.Errorf("malformed message: %w", err)
	}

	var (
		kind  fountain.Kind
		known bool
	)
	switch m.Type {
	case TypeKey:
		kind, known = fountain.KeyAction(m.Key)
	case TypeAction:
		kind, known = fountain.ParseKind(m.Action)
		if kind == fountain.MoveTo || kind == fountain.SetParams {
			return fountain.Action{}, false, fmt.Errorf("action %q needs arguments", m.Action)
		}
	default:
		return fountain.Action{}, false, fmt.Errorf("unknown message type %q", m.Type)
	}
	if !known {
		return fountain.Action{}, false, nil
	}
	if kind.Camera() || kind == fountain.Quit {
		return fountain.Action{}, false, nil
	}
	return fountain.Action{Kind: kind}, true, nil
}

// queueWebcam decodes a webcam frame and replaces any frame the tracker has
// not picked up yet.
func (s *Server) queueWebcam(webcam chan detector.Frame, msg []byte) error {
	if webcam == nil {
		return errors.New("face tracking is disabled")
	}
	frame, err := detector.DecodeFrame(msg)
	if err != nil {
		return err
	}
	select {
	case <-webcam:
	default:
	}
	webcam <- frame
	return nil
}

// trackFaces runs face detection on the latest webcam frame of a client
// until webcam is closed.
func (s *Server) trackFaces(ctx context.Context, webcam <-chan detector.Frame) {
	for frame := range webcam {
		var z float32
		if st, ok := s.hub.Last(); ok {
			z = st.Emitter.Z()
		}
		a, ok := s.tracker.Action(frame, steerExtent, z)
		if !ok {
			continue
		}
		if err := s.dispatch(ctx, a); err != nil {
			return
		}
	}
}

// writePump writes messages to the WebSocket connection
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for %s: %v", c.addr, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
