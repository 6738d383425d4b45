package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lightningco/nodecore/events"
)

const (
	wsPingInterval = 30 * time.Second
	wsPongWait     = 10 * time.Second
)

// websocketHub upgrades /websocket connections and fans events out to each,
// in the order the Publisher emits them, per spec.md §4.D/§5. Grounded on
// the teacher's http.WebhookEventHub for the register/unregister/broadcast
// shape and lnd's lnrpc.WebsocketProxy for the ping/pong keepalive around
// the raw gorilla/websocket connection.
type websocketHub struct {
	publisher *events.Publisher
	logger    *zerolog.Logger
	upgrader  websocket.Upgrader
}

func newWebsocketHub(publisher *events.Publisher, logger *zerolog.Logger) *websocketHub {
	return &websocketHub{
		publisher: publisher,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type websocketEventMessage struct {
	Type string       `json:"type"`
	Data events.Event `json:"data"`
}

// websocketHandler upgrades the connection and registers it as an event
// subscriber until the connection drops, per spec.md §4.E.
func (r *Router) websocketHandler(c echo.Context) error {
	conn, err := r.hub.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to upgrade websocket connection")
		return nil
	}
	defer conn.Close()

	subscriberId := c.Response().Header().Get(echo.HeaderXRequestID)
	if subscriberId == "" {
		subscriberId = c.RealIP() + ":" + c.Request().RemoteAddr
	}

	messages := make(chan events.Event, 64)
	r.hub.publisher.RegisterSubscriber(subscriberId, func(event events.Event) {
		select {
		case messages <- event:
		default:
			r.logger.Warn().Str("subscriber", subscriberId).Msg("dropping websocket event for slow connection")
		}
	})
	defer r.hub.publisher.RemoveSubscriber(subscriberId)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	conn.SetReadDeadline(time.Now().Add(wsPingInterval + wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPingInterval + wsPongWait))
		return nil
	})

	for {
		select {
		case <-closed:
			return nil
		case event := <-messages:
			payload, err := json.Marshal(websocketEventMessage{Type: event.EventType(), Data: event})
			if err != nil {
				r.logger.Error().Err(err).Msg("failed to marshal websocket event")
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return nil
			}
		case <-ticker.C:
			deadline := time.Now().Add(wsPongWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return nil
			}
		}
	}
}
