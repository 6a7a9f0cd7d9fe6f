package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"gaitbase/internal/infra/async"
	"gaitbase/internal/infra/httpserver"
	"gaitbase/internal/rom/httpapi/internal"
	"gaitbase/internal/rom/usecases"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// origins are enforced by the cors middleware
		return true
	},
}

type eventClient struct {
	conn       *websocket.Conn
	sessionID  string
	registered chan struct{}
}

// EventsController streams session notifications to websocket clients. Each
// client only receives the events of the session it connected for.
type EventsController struct {
	sessions     usecases.SessionService
	broker       async.InternalBroker
	subscription async.Subscription
	clients      map[*websocket.Conn]string
	clientsMux   sync.RWMutex
	register     chan eventClient
	unregister   chan *websocket.Conn
	ctx          context.Context
	cancel       context.CancelFunc
	stopped      chan struct{}
}

func NewEventsController(sessions usecases.SessionService, broker async.InternalBroker) (*EventsController, error) {
	subscription, err := broker.Subscribe(usecases.SessionEventsTopic)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	ec := &EventsController{
		sessions:     sessions,
		broker:       broker,
		subscription: subscription,
		clients:      make(map[*websocket.Conn]string),
		register:     make(chan eventClient),
		unregister:   make(chan *websocket.Conn),
		ctx:          ctx,
		cancel:       cancel,
		stopped:      make(chan struct{}),
	}

	go ec.run()

	return ec, nil
}

var _ httpserver.Controller = (*EventsController)(nil)

func (ec *EventsController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/sessions/{id}/events", ec.handleWebSocket())
}

func (ec *EventsController) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		if _, err := ec.sessions.Get(sessionID); err != nil {
			replyWithServiceError(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		slog.Info("session events connection established",
			slog.String("session_id", sessionID),
			slog.String("remote_addr", r.RemoteAddr))

		client := eventClient{conn: conn, sessionID: sessionID, registered: make(chan struct{})}
		select {
		case ec.register <- client:
		case <-ec.ctx.Done():
			conn.Close()
			return
		}
		select {
		case <-client.registered:
		case <-ec.ctx.Done():
			conn.Close()
			return
		}

		// the session may have closed before the client was registered
		if _, err := ec.sessions.Get(sessionID); err != nil {
			ec.endStream(conn, sessionID)
		}

		go ec.handlePingPong(conn)
		go ec.handleClient(conn)
	}
}

func (ec *EventsController) handleClient(conn *websocket.Conn) {
	defer func() {
		select {
		case ec.unregister <- conn:
		case <-ec.ctx.Done():
		}
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read error", slog.String("error", err.Error()))
			} else {
				slog.Debug("websocket connection closed", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (ec *EventsController) handlePingPong(conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ec.ctx.Done():
			return
		case <-ticker.C:
			ec.clientsMux.RLock()
			_, ok := ec.clients[conn]
			if ok {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				ok = err == nil
			}
			ec.clientsMux.RUnlock()
			if !ok {
				return
			}
		}
	}
}

func (ec *EventsController) run() {
	defer close(ec.stopped)
	defer ec.broker.Unsubscribe(usecases.SessionEventsTopic, ec.subscription)

	for {
		select {
		case <-ec.ctx.Done():
			return

		case client := <-ec.register:
			ec.clientsMux.Lock()
			ec.clients[client.conn] = client.sessionID
			total := len(ec.clients)
			ec.clientsMux.Unlock()
			close(client.registered)
			slog.Info("websocket client registered", slog.Int("total_clients", total))

		case conn := <-ec.unregister:
			ec.clientsMux.Lock()
			delete(ec.clients, conn)
			total := len(ec.clients)
			ec.clientsMux.Unlock()
			slog.Info("websocket client unregistered", slog.Int("total_clients", total))

		case msg, ok := <-ec.subscription.Receiver:
			if !ok {
				return
			}
			notification, ok := msg.Value.(usecases.Notification)
			if !ok {
				continue
			}
			ec.broadcast(notification)
		}
	}
}

// broadcast holds the write lock: gorilla connections allow one writer at a
// time and pings are written from other goroutines.
func (ec *EventsController) broadcast(notification usecases.Notification) {
	event := internal.ToSessionEvent(notification)

	ec.clientsMux.Lock()
	defer ec.clientsMux.Unlock()

	for conn, sessionID := range ec.clients {
		if sessionID != notification.SessionID {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			slog.Error("failed to write event to websocket client", slog.String("error", err.Error()))
			conn.Close()
			delete(ec.clients, conn)
			continue
		}
		if notification.Kind == usecases.NotificationClosed {
			ec.closeClient(conn)
		}
	}
}

// endStream sends the closed event to a client that missed the broadcast.
func (ec *EventsController) endStream(conn *websocket.Conn, sessionID string) {
	ec.clientsMux.Lock()
	defer ec.clientsMux.Unlock()

	if _, ok := ec.clients[conn]; !ok {
		return
	}
	event := internal.ToSessionEvent(usecases.Notification{SessionID: sessionID, Kind: usecases.NotificationClosed})
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(event); err != nil {
		slog.Debug("failed to write closed event", slog.String("error", err.Error()))
	}
	ec.closeClient(conn)
}

// closeClient expects clientsMux to be held.
func (ec *EventsController) closeClient(conn *websocket.Conn) {
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
	conn.Close()
	delete(ec.clients, conn)
}

func (ec *EventsController) Shutdown() {
	slog.Info("shutting down session events controller")
	ec.cancel()
	<-ec.stopped

	ec.clientsMux.Lock()
	for conn := range ec.clients {
		conn.Close()
	}
	clear(ec.clients)
	ec.clientsMux.Unlock()
}
