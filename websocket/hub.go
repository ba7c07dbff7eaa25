// file: websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-patient-caller/logger"
	"go-patient-caller/models"
	"go-patient-caller/monitoring"
	"go-patient-caller/services"
)

// ErrHubStopped is returned by calls made after Run has returned.
var ErrHubStopped = errors.New("hub stopped")

var errHandlerPanic = errors.New("handler panicked")

type inboundMessage struct {
	conn *Connection
	raw  []byte
}

// Hub owns the World and the set of live connections. Every change to either
// happens on the Run goroutine, one event at a time.
type Hub struct {
	world    *services.World
	recorder monitoring.Recorder
	conns    map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
	inbound    chan inboundMessage
	queries    chan func(*services.World)
	done       chan struct{}
}

// NewHub creates a hub around world. A nil recorder records nothing.
func NewHub(world *services.World, recorder monitoring.Recorder) *Hub {
	if recorder == nil {
		recorder = monitoring.Nop{}
	}
	return &Hub{
		world:      world,
		recorder:   recorder,
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		inbound:    make(chan inboundMessage),
		queries:    make(chan func(*services.World)),
		done:       make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	logger.Info.Println("[Hub.Run] event loop started")
	defer func() {
		for c := range h.conns {
			delete(h.conns, c)
			close(c.send)
		}
		close(h.done)
		logger.Info.Println("[Hub.Run] event loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.drop(c, "disconnected")
		case m := <-h.inbound:
			h.handleInbound(m.conn, m.raw)
		case q := <-h.queries:
			q(h.world)
		}
	}
}

// Register adds c to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(c *Connection) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and ends its session. Repeated calls are harmless.
func (h *Hub) Unregister(c *Connection) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Dispatch queues one inbound message from c. It returns false once the hub
// has stopped.
func (h *Hub) Dispatch(c *Connection, raw []byte) bool {
	select {
	case h.inbound <- inboundMessage{conn: c, raw: raw}:
		return true
	case <-h.done:
		return false
	}
}

// State returns a snapshot of the shared state, read between events.
func (h *Hub) State(ctx context.Context) (models.CurrentState, error) {
	reply := make(chan models.CurrentState, 1)
	query := func(w *services.World) { reply <- w.State() }

	select {
	case h.queries <- query:
	case <-h.done:
		return models.CurrentState{}, ErrHubStopped
	case <-ctx.Done():
		return models.CurrentState{}, ctx.Err()
	}
	return <-reply, nil
}

// --------------- event loop handlers -----------------

func (h *Hub) handleRegister(c *Connection) {
	h.conns[c] = true
	logger.Info.Printf("[Hub] connection %s registered (%d open)", c.session, len(h.conns))

	msg, err := encodeEvent(services.Event{Name: services.EventCurrentState, Payload: h.world.State()})
	if err != nil {
		logger.Error.Printf("[Hub] encoding current_state: %v", err)
	} else if !h.sendTo(c, msg) {
		h.drop(c, "evicted")
		return
	}
	h.observe()
}

func (h *Hub) handleInbound(c *Connection, raw []byte) {
	if !h.conns[c] {
		logger.Debug.Printf("[Hub] dropping message from closed connection %s", c.session)
		return
	}

	cmd, err := decodeCommand(raw)
	if err != nil {
		var appErr *services.Error
		if !errors.As(err, &appErr) {
			logger.Warn.Printf("[Hub] ignoring message from %s: %v", c.session, err)
			return
		}
		event := eventName(raw)
		if event != loginEvent && !h.world.IsLoggedIn(c.session) {
			appErr = loginRequired(event)
		}
		h.recorder.EventHandled(event, appErr.Kind.String())
		h.reply(c, appErr)
		return
	}

	events, err := h.apply(c.session, cmd)
	if errors.Is(err, errHandlerPanic) {
		h.recorder.EventHandled(cmd.Name(), "panic")
		return
	}
	if err != nil {
		result := services.KindOf(err).String()
		h.recorder.EventHandled(cmd.Name(), result)
		logger.Debug.Printf("[Hub] %s from %s rejected: %v", cmd.Name(), c.session, err)
		h.reply(c, err)
		return
	}
	h.recorder.EventHandled(cmd.Name(), "ok")
	h.recordCallEnds(cmd, events)
	h.broadcast(events)
}

// apply runs cmd. A panic is logged and reported as errHandlerPanic.
func (h *Hub) apply(session models.SessionID, cmd services.Command) (events []services.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error.Printf("[Hub] panic handling %s from %s: %v", cmd.Name(), session, r)
			events, err = nil, fmt.Errorf("%s: %w", cmd.Name(), errHandlerPanic)
		}
	}()
	return h.world.Apply(session, cmd)
}

func (h *Hub) recordCallEnds(cmd services.Command, events []services.Event) {
	for _, e := range events {
		if e.Name != services.EventCallStopped {
			continue
		}
		outcome := monitoring.OutcomeAbandoned
		if stop, ok := cmd.(services.StopCallCommand); ok && stop.Confirmed {
			outcome = monitoring.OutcomeConfirmed
		}
		h.recorder.CallEnded(outcome)
	}
}

// reply sends err to c alone.
func (h *Hub) reply(c *Connection, err error) {
	msg, encErr := encodeError(err)
	if encErr != nil {
		logger.Error.Printf("[Hub] encoding error_message: %v", encErr)
		return
	}
	if !h.sendTo(c, msg) {
		h.drop(c, "evicted")
	}
}

// broadcast delivers events, in order, to every connection. Connections that
// cannot keep up are evicted once all events are out.
func (h *Hub) broadcast(events []services.Event) {
	if len(events) == 0 {
		return
	}
	var slow []*Connection
	for _, e := range events {
		msg, err := encodeEvent(e)
		if err != nil {
			logger.Error.Printf("[Hub] encoding %s: %v", e.Name, err)
			continue
		}
		for c := range h.conns {
			if !h.sendTo(c, msg) {
				slow = append(slow, c)
				delete(h.conns, c)
				close(c.send)
			}
		}
		h.observe()
	}
	for _, c := range slow {
		logger.Warn.Printf("[Hub] evicting slow connection %s", c.session)
		h.endSession(c, "evicted")
	}
}

// sendTo queues msg for c without blocking.
func (h *Hub) sendTo(c *Connection, msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// drop removes c if it is still open and ends its session.
func (h *Hub) drop(c *Connection, reason string) {
	if !h.conns[c] {
		return
	}
	delete(h.conns, c)
	close(c.send)
	logger.Info.Printf("[Hub] connection %s %s (%d open)", c.session, reason, len(h.conns))
	h.endSession(c, reason)
}

func (h *Hub) endSession(c *Connection, reason string) {
	events := h.world.Disconnect(c.session)
	for _, e := range events {
		if e.Name == services.EventCallStopped {
			h.recorder.CallEnded(monitoring.OutcomeAbandoned)
		}
	}
	if len(events) == 0 {
		h.observe()
		return
	}
	logger.Debug.Printf("[Hub] session %s ended (%s)", c.session, reason)
	h.broadcast(events)
}

func (h *Hub) observe() {
	h.recorder.StateChanged(monitoring.Snapshot{
		QueueLength:   len(h.world.Queue()),
		Professionals: len(h.world.Professionals()),
		Connections:   len(h.conns),
		Calling:       h.world.ActiveCall() != nil,
	})
}

// eventName pulls the event name out of a message that failed to decode.
func eventName(raw []byte) string {
	var env struct {
		Event string `json:"event"`
	}
	_ = json.Unmarshal(raw, &env)
	return env.Event
}
