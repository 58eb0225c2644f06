package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/kinetic-pov/internal/app"
	"github.com/coreman2200/kinetic-pov/internal/asset"
	"github.com/coreman2200/kinetic-pov/internal/button"
	diag "github.com/coreman2200/kinetic-pov/internal/diagnostics"
	"github.com/coreman2200/kinetic-pov/internal/gesture"
)

// tapLength is how long a "tap" control message holds the virtual button.
const tapLength = 200 * time.Millisecond

// State is the live preview: it receives every flushed scanline as a
// led.Driver and serves them, throttled, to websocket clients. Clients can
// also press a virtual button.
type State struct {
	mu       sync.RWMutex
	NumLEDs  int
	Throttle time.Duration
	Driver   string
	Button   *button.Virtual

	rgb       []byte
	frameID   uint64
	sentID    uint64
	startTime time.Time

	image      string
	imageIndex int
	autoCycle  bool
	lastAction string
	limitAmps  float64

	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	diags       chan diag.Diagnostic
}

func NewState(numLEDs int, throttle time.Duration, driver string) *State {
	if throttle <= 0 {
		throttle = 50 * time.Millisecond // ~20 FPS to UI
	}
	return &State{
		NumLEDs:     numLEDs,
		Throttle:    throttle,
		Driver:      driver,
		Button:      &button.Virtual{},
		rgb:         make([]byte, numLEDs*3),
		startTime:   time.Now(),
		autoCycle:   true,
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		diags:       make(chan diag.Diagnostic, 64),
	}
}

// Write records the latest frame. It never blocks on the network; Run
// ships frames to clients.
func (s *State) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.rgb, rgb)
	s.frameID++
	return nil
}

// Close disconnects every client.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
	}
	for c := range s.diagClients {
		c.Close()
	}
	return nil
}

// Hooks feeds conductor events into the diagnostics stream and health
// report.
func (s *State) Hooks(limitAmps float64) app.Hooks {
	s.mu.Lock()
	s.limitAmps = limitAmps
	s.mu.Unlock()
	return app.Hooks{
		OnAction: func(a gesture.Action, _ time.Duration) {
			s.mu.Lock()
			s.lastAction = a.String()
			if a == gesture.ToggleAutoCycle {
				s.autoCycle = !s.autoCycle
			}
			s.mu.Unlock()
			s.pushDiag(diag.Gesture(a))
		},
		OnImage: func(index int, img asset.Image) {
			s.mu.Lock()
			s.image, s.imageIndex = img.Name, index
			s.mu.Unlock()
			s.pushDiag(diag.ImageChanged(index, img.Name))
		},
		OnOverBudget: func(index int, amps float64) {
			s.pushDiag(diag.OverBudget(index, amps, limitAmps))
		},
	}
}

// SetAutoCycle seeds the reported auto-cycle state.
func (s *State) SetAutoCycle(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoCycle = on
}

// Run broadcasts the newest frame every Throttle, and diagnostics as they
// arrive, until ctx is done.
func (s *State) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Throttle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcastLatest()
		case d := <-s.diags:
			s.sendDiag(d)
		}
	}
}

// Handler routes the preview endpoints.
func (s *State) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", s.HandleFramesWS)
	mux.HandleFunc("/ws/diag", s.HandleDiagWS)
	mux.HandleFunc("/ws/control", s.HandleControlWS)
	mux.HandleFunc("/healthz", s.HandleHealth)
	return mux
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.sendTopology(conn)
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go s.drain(conn, s.clients)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()

	go s.drain(conn, s.diagClients)
}

// drain discards client input until the connection drops, then forgets it.
func (s *State) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

type controlMsg struct {
	Button string `json:"button"` // "down" | "up" | "tap"
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg controlMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.applyControl(msg)
	}
}

func (s *State) applyControl(msg controlMsg) {
	switch msg.Button {
	case "down":
		s.Button.Set(true)
	case "up":
		s.Button.Set(false)
	case "tap":
		s.Button.Set(true)
		time.AfterFunc(tapLength, func() { s.Button.Set(false) })
	default:
		s.pushDiag(diag.UnknownControl(msg.Button))
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id":    s.frameID,
		"uptime_s":    time.Since(s.startTime).Seconds(),
		"count":       s.NumLEDs,
		"driver":      s.Driver,
		"image":       s.image,
		"image_index": s.imageIndex,
		"auto_cycle":  s.autoCycle,
		"last_action": s.lastAction,
		"limit_amps":  s.limitAmps,
		"clients":     len(s.clients),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients) + len(s.diagClients)
}

func (s *State) sendTopology(conn *websocket.Conn) {
	s.mu.RLock()
	top := map[string]any{
		"count":  s.NumLEDs,
		"driver": s.Driver,
	}
	s.mu.RUnlock()
	b, _ := json.Marshal(top)
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

// broadcastLatest sends the newest frame if it has not been sent yet. The
// lock is not held across network writes.
func (s *State) broadcastLatest() {
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	s.mu.Lock()
	if s.frameID == s.sentID {
		s.mu.Unlock()
		return
	}
	s.sentID = s.frameID
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: s.frameID, RGB: s.rgb})
	conns := snapshot(s.clients)
	s.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

func snapshot(set map[*websocket.Conn]bool) []*websocket.Conn {
	out := make([]*websocket.Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// pushDiag queues d for Run; it drops d rather than block the caller.
func (s *State) pushDiag(d diag.Diagnostic) {
	select {
	case s.diags <- d:
	default:
		log.Debug().Str("code", d.Code).Msg("diagnostic dropped")
	}
}

func (s *State) sendDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.RLock()
	conns := snapshot(s.diagClients)
	s.mu.RUnlock()
	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}
